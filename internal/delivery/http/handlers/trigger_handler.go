package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/freight-auction-service/internal/delivery/http/middleware"
	triggersdto "github.com/LavaJover/freight-auction-service/internal/usecase/dto/triggers"
	"github.com/LavaJover/freight-auction-service/internal/usecase/triggers"
	"github.com/gin-gonic/gin"
)

type TriggerHandler struct {
	triggerUc triggers.TriggerUsecase
}

func NewTriggerHandler(triggerUc triggers.TriggerUsecase) *TriggerHandler {
	return &TriggerHandler{triggerUc: triggerUc}
}

// GET /api/v1/carrier/triggers
func (h *TriggerHandler) List(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	list, err := h.triggerUc.ListTriggers(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]response.TriggerResponse, len(list))
	for i, t := range list {
		out[i] = response.NewTriggerResponse(t)
	}
	c.JSON(http.StatusOK, gin.H{"triggers": out})
}

// POST /api/v1/carrier/triggers
func (h *TriggerHandler) Create(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req request.CreateTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	trigger, err := h.triggerUc.CreateTrigger(c.Request.Context(), &triggersdto.CreateTriggerInput{
		CarrierID:     actor.ID,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewTriggerResponse(trigger))
}

// PATCH /api/v1/carrier/triggers/:id
func (h *TriggerHandler) Update(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req request.UpdateTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	trigger, err := h.triggerUc.UpdateTrigger(c.Request.Context(), &triggersdto.UpdateTriggerInput{
		TriggerID:     c.Param("id"),
		CarrierID:     actor.ID,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		IsActive:      req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewTriggerResponse(trigger))
}

// DELETE /api/v1/carrier/triggers/:id
func (h *TriggerHandler) Delete(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	if err := h.triggerUc.DeleteTrigger(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/carrier/notifications/stats?days=7
func (h *TriggerHandler) NotificationStats(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}

	stats, err := h.triggerUc.NotificationStats(c.Request.Context(), actor.ID, days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NotificationStatsResponse{
		CarrierID:          stats.CarrierID,
		Since:              stats.Since,
		UniqueBidsNotified: stats.UniqueBidsNotified,
	})
}
