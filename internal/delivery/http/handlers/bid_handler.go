package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/middleware"
	"github.com/LavaJover/freight-auction-service/internal/usecase/bidding"
	biddingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/bidding"
	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	biddingUc bidding.BiddingUsecase
}

func NewBidHandler(biddingUc bidding.BiddingUsecase) *BidHandler {
	return &BidHandler{biddingUc: biddingUc}
}

// POST /api/v1/auctions/:bidNumber/bids
func (h *BidHandler) PlaceBid(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req request.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cents, err := centsFrom(req.Amount, req.AmountCents)
	if err != nil {
		writeError(c, err)
		return
	}

	bid, err := h.biddingUc.UpsertBid(c.Request.Context(), &biddingdto.UpsertBidInput{
		BidNumber:   c.Param("bidNumber"),
		CarrierID:   actor.ID,
		AmountCents: cents,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bid": response.NewBidResponse(bid)})
}

// DELETE /api/v1/bids/:bidID
func (h *BidHandler) CancelBid(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	if err := h.biddingUc.CancelBid(c.Request.Context(), &biddingdto.CancelBidInput{
		BidID:     c.Param("bidID"),
		CarrierID: actor.ID,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/auctions/:bidNumber/bids
func (h *BidHandler) ListForAuction(c *gin.Context) {
	bids, err := h.biddingUc.ListBidsForAuction(c.Request.Context(), c.Param("bidNumber"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": response.NewBidResponses(bids)})
}

// GET /api/v1/carrier/bids
func (h *BidHandler) ListMine(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bids, err := h.biddingUc.ListBidsByCarrier(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": response.NewBidResponses(bids)})
}
