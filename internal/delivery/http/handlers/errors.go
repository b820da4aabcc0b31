package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/freight-auction-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/gin-gonic/gin"
)

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAuctionClosed, domain.KindAlreadyAwarded, domain.KindAwardConflict:
		return http.StatusConflict
	case domain.KindInvalidArgument, domain.KindWinnerHasNoBid:
		return http.StatusBadRequest
	case domain.KindProfileIncomplete:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(statusForKind(domainErr.Kind), response.ErrorResponse{
		Error:         domainErr.Error(),
		Kind:          string(domainErr.Kind),
		BidNumber:     domainErr.BidNumber,
		MissingFields: domainErr.MissingFields,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.ErrorResponse{
		Error: msg,
		Kind:  string(domain.KindInvalidArgument),
	})
}
