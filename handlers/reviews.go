package handlers

import (
	"net/http"

	"anchorsite/services/reviews"
	"anchorsite/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewsHandler serves the venue's Google rating and recent reviews.
type ReviewsHandler struct {
	Svc    reviews.Service
	Logger *zap.Logger
}

func NewReviewsHandler(svc reviews.Service, logger *zap.Logger) *ReviewsHandler {
	return &ReviewsHandler{Svc: svc, Logger: logger}
}

func (h *ReviewsHandler) GetReviews(c *gin.Context) {
	data, err := h.Svc.GetReviews(c.Request.Context())
	if err != nil {
		h.Logger.Warn("review fetch failed", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Reviews are unavailable right now", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
