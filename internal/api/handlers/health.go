package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/database"
)

type HealthHandler struct {
	db     *database.DB
	cache  *services.CacheService
	hub    *services.WebSocketHub
	poller *services.ScoreboardPoller
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, hub *services.WebSocketHub, poller *services.ScoreboardPoller) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		hub:    hub,
		poller: poller,
	}
}

// GetHealth returns basic liveness - always 200 while the process serves
// GET /health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "courtside",
		"timestamp": time.Now().UTC(),
	})
}

// GetReady checks the database connection for readiness probes
// GET /ready
func (h *HealthHandler) GetReady(c *gin.Context) {
	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"polling":    h.poller.IsRunning(),
		"ws_clients": h.hub.ClientCount(),
	})
}
