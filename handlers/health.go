package handlers

import (
	"net/http"

	"anchorsite/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest snapshot from the background monitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
