package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by anything that can prove the database is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	AppName string
	Version string
	Ping    Pinger
}

func NewHealthHandler(appName, version string, ping Pinger) *HealthHandler {
	return &HealthHandler{AppName: appName, Version: version, Ping: ping}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}
	c.JSON(http.StatusOK, body)
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": h.AppName + " API",
		"version": h.Version,
		"health":  "/health",
	})
}
