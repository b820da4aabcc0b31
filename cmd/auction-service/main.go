package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/app/background"
	"github.com/LavaJover/freight-auction-service/internal/app/setup"
	"github.com/LavaJover/freight-auction-service/internal/delivery/grpcapi"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/handlers"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/middleware"
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config, database, kafka
	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	cfg := deps.Config
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	uc := setup.InitializeUseCases(deps)

	// Background jobs: match backlog, archival, ingestion consumer
	var subscriber domain.SubscriberPort
	if deps.Subscriber != nil {
		subscriber = deps.Subscriber
	}
	background.NewBackgroundTasks(uc.AuctionUsecase, subscriber, cfg, deps.Logger.With("component", "background")).StartAll(ctx)

	// HTTP
	resolver := middleware.NewJWTIdentityResolver(cfg.Auth.JWTSecret)
	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		log.Fatalf("failed to init authorization: %v", err)
	}
	router := handlers.NewRouter(handlers.RouterDeps{
		Auctions:       handlers.NewAuctionHandler(uc.AuctionUsecase, uc.BiddingUsecase, deps.Clock),
		Bids:           handlers.NewBidHandler(uc.BiddingUsecase),
		Awards:         handlers.NewAwardHandler(uc.AwardingUsecase),
		Triggers:       handlers.NewTriggerHandler(uc.TriggerUsecase),
		WebSocket:      handlers.NewWebSocketHandler(deps.Hub, resolver),
		Resolver:       resolver,
		Enforcer:       enforcer,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		EnablePprof:    cfg.HTTPServer.EnablePprof,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		slog.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	// gRPC (health)
	grpcServer, _ := grpcapi.NewServer(ctx, deps.DB)
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	go func() {
		slog.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	if deps.Publisher != nil {
		if err := deps.Publisher.Close(); err != nil {
			slog.Error("kafka publisher close failed", "error", err)
		}
	}
}
