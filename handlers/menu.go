package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"anchorsite/models"
	"anchorsite/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// The menu changes at most weekly; an hour of staleness is fine.
const menuCacheTTL = time.Hour

const menuCacheKey = "menu:sunday-lunch"

// MenuHandler serves the Sunday lunch pre-order menu with a read-through
// cache in front of the management API.
type MenuHandler struct {
	Anchor AnchorAPI
	Cache  *redis.Client
	Logger *zap.Logger
}

func NewMenuHandler(anchor AnchorAPI, cache *redis.Client, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{Anchor: anchor, Cache: cache, Logger: logger}
}

// GetSundayLunchMenu returns the current pre-order menu.
func (h *MenuHandler) GetSundayLunchMenu(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.Cache.Get(ctx, menuCacheKey).Result(); err == nil {
		var menu models.SundayLunchMenu
		if err := json.Unmarshal([]byte(cached), &menu); err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": menu})
			return
		}
	}

	menu, err := h.Anchor.GetSundayLunchMenu(ctx)
	if err != nil {
		h.Logger.Error("sunday lunch menu fetch failed", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable,
			"Service temporarily unavailable. Please try again later.", "")
		return
	}

	if payload, err := json.Marshal(menu); err == nil {
		if err := h.Cache.Set(ctx, menuCacheKey, payload, menuCacheTTL).Err(); err != nil {
			h.Logger.Warn("menu cache write failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": menu})
}
