package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/middleware"
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/usecase/auction"
	"github.com/LavaJover/freight-auction-service/internal/usecase/bidding"
	auctiondto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/auction"
	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	auctionUc auction.AuctionUsecase
	biddingUc bidding.BiddingUsecase
	clock     domain.Clock
}

func NewAuctionHandler(auctionUc auction.AuctionUsecase, biddingUc bidding.BiddingUsecase, clock domain.Clock) *AuctionHandler {
	return &AuctionHandler{auctionUc: auctionUc, biddingUc: biddingUc, clock: clock}
}

// GET /api/v1/auctions
func (h *AuctionHandler) ListActive(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	auctions, err := h.auctionUc.ListActiveAuctions(c.Request.Context(), domain.AuctionFilter{
		Tag:    c.Query("tag"),
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	now := h.clock.Now()
	out := make([]response.AuctionResponse, len(auctions))
	for i, a := range auctions {
		out[i] = response.NewAuctionResponse(a, now)
	}
	c.JSON(http.StatusOK, gin.H{"auctions": out})
}

// GET /api/v1/auctions/:bidNumber
func (h *AuctionHandler) Summary(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	summary, err := h.biddingUc.GetBidSummary(c.Request.Context(), c.Param("bidNumber"), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := response.BidSummaryResponse{
		Auction:  response.NewAuctionResponse(summary.Auction, h.clock.Now()),
		BidCount: summary.BidCount,
	}
	if summary.LowestAmountCents != nil {
		resp.LowestAmountCents = summary.LowestAmountCents
		resp.LowestAmount = response.FormatCents(*summary.LowestAmountCents)
		// перевозчикам не показываем, кто именно предложил минимум
		if actor.Role == domain.RoleAdmin {
			resp.LowestBidderID = summary.LowestBidCarrierID
		}
	}
	if summary.MyBid != nil {
		my := response.NewBidResponse(summary.MyBid)
		resp.MyBid = &my
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/internal/auctions
func (h *AuctionHandler) Ingest(c *gin.Context) {
	var req request.IngestAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	out, err := h.auctionUc.IngestAuction(c.Request.Context(), &auctiondto.IngestAuctionInput{
		BidNumber:     req.BidNumber,
		DistanceMiles: req.DistanceMiles,
		PickupTime:    req.PickupTimestamp,
		DeliveryTime:  req.DeliveryTimestamp,
		Stops:         req.Stops,
		Tag:           req.Tag,
		SourceChannel: req.SourceChannel,
		ReceivedAt:    req.ReceivedAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"auction": response.NewAuctionResponse(out.Auction, h.clock.Now()),
		"created": out.Created,
	})
}
