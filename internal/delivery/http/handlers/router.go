package handlers

import (
	"net/http"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/delivery/http/middleware"
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/casbin/casbin/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Auctions       *AuctionHandler
	Bids           *BidHandler
	Awards         *AwardHandler
	Triggers       *TriggerHandler
	WebSocket      *WebSocketHandler
	Resolver       domain.IdentityResolver
	Enforcer       *casbin.Enforcer
	AllowedOrigins []string
	EnablePprof    bool
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(deps.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = deps.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	if deps.EnablePprof {
		pprof.Register(r)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.WebSocket != nil {
		r.GET("/ws", deps.WebSocket.ServeWs)
	}

	api := r.Group("/api/v1")
	api.Use(middleware.Authenticate(deps.Resolver), middleware.Authorize(deps.Enforcer))

	api.GET("/auctions", deps.Auctions.ListActive)
	api.GET("/auctions/:bidNumber", deps.Auctions.Summary)
	api.POST("/auctions/:bidNumber/bids", deps.Bids.PlaceBid)
	api.GET("/auctions/:bidNumber/bids", deps.Bids.ListForAuction)
	api.DELETE("/bids/:bidID", deps.Bids.CancelBid)

	carrier := api.Group("/carrier")
	carrier.GET("/bids", deps.Bids.ListMine)
	carrier.GET("/awards", deps.Awards.ListMine)
	carrier.GET("/triggers", deps.Triggers.List)
	carrier.POST("/triggers", deps.Triggers.Create)
	carrier.PATCH("/triggers/:id", deps.Triggers.Update)
	carrier.DELETE("/triggers/:id", deps.Triggers.Delete)
	carrier.GET("/notifications/stats", deps.Triggers.NotificationStats)

	admin := api.Group("/admin")
	admin.POST("/auctions/:bidNumber/award", deps.Awards.Award)
	admin.POST("/auctions/:bidNumber/re-award", deps.Awards.ReAward)
	admin.GET("/auctions/:bidNumber/award", deps.Awards.Current)
	admin.GET("/auctions/:bidNumber/award/history", deps.Awards.History)

	api.POST("/internal/auctions", deps.Auctions.Ingest)

	return r
}
