package handlers

import (
	"net/http"

	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/middleware"
	"github.com/LavaJover/freight-auction-service/internal/usecase/awarding"
	awardingdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/awarding"
	"github.com/gin-gonic/gin"
)

type AwardHandler struct {
	awardingUc awarding.AwardingUsecase
}

func NewAwardHandler(awardingUc awarding.AwardingUsecase) *AwardHandler {
	return &AwardHandler{awardingUc: awardingUc}
}

// POST /api/v1/admin/auctions/:bidNumber/award
func (h *AwardHandler) Award(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req request.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.awardingUc.Award(c.Request.Context(), &awardingdto.AwardInput{
		BidNumber:       c.Param("bidNumber"),
		WinnerCarrierID: req.WinnerCarrierID,
		AwardedBy:       actor.ID,
		AdminNotes:      req.AdminNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAwardResult(result))
}

// POST /api/v1/admin/auctions/:bidNumber/re-award
func (h *AwardHandler) ReAward(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req request.ReAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var margin *int64
	if req.MarginCents != nil || req.Margin != "" {
		cents, err := centsFrom(req.Margin, req.MarginCents)
		if err != nil {
			writeError(c, err)
			return
		}
		margin = &cents
	}

	result, err := h.awardingUc.ReAward(c.Request.Context(), &awardingdto.ReAwardInput{
		BidNumber:          c.Param("bidNumber"),
		NewWinnerCarrierID: req.NewWinnerCarrierID,
		AwardedBy:          actor.ID,
		AdminNotes:         req.AdminNotes,
		MarginCents:        margin,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAwardResult(result))
}

// GET /api/v1/admin/auctions/:bidNumber/award
func (h *AwardHandler) Current(c *gin.Context) {
	award, err := h.awardingUc.GetCurrentAward(c.Request.Context(), c.Param("bidNumber"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewAwardResponse(award))
}

// GET /api/v1/admin/auctions/:bidNumber/award/history
func (h *AwardHandler) History(c *gin.Context) {
	history, err := h.awardingUc.GetAwardHistory(c.Request.Context(), c.Param("bidNumber"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.AwardHistoryResponse{
		BidNumber: history.BidNumber,
		Current:   response.NewAwardResponse(history.Current),
		Revisions: response.NewAwardResponses(history.Revisions),
	})
}

// GET /api/v1/carrier/awards
func (h *AwardHandler) ListMine(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	awards, err := h.awardingUc.ListAwardsForCarrier(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"awards": response.NewAwardResponses(awards)})
}

func newAwardResult(result *awardingdto.AwardResult) response.AwardResultResponse {
	return response.AwardResultResponse{
		Award:   response.NewAwardResponse(result.Award),
		Winner:  result.Winner,
		Changed: result.Changed,
	}
}
