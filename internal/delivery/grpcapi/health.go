package grpcapi

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

const ServiceName = "freight.auction.v1.AuctionService"

// NewServer exposes the standard gRPC health service. Status follows the database ping.
func NewServer(ctx context.Context, db *gorm.DB) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go watchDatabase(ctx, db, healthServer)
	return grpcServer, healthServer
}

func watchDatabase(ctx context.Context, db *gorm.DB, hs *health.Server) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		status := healthpb.HealthCheckResponse_SERVING
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus(ServiceName, status)

		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
