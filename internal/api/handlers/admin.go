package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/utils"
)

type AdminHandler struct {
	poller *services.ScoreboardPoller
}

func NewAdminHandler(poller *services.ScoreboardPoller) *AdminHandler {
	return &AdminHandler{poller: poller}
}

// StartPolling starts the scoreboard polling loop
// POST /api/v1/admin/polling/start
func (h *AdminHandler) StartPolling(c *gin.Context) {
	if err := h.poller.Start(); err != nil {
		utils.SendConflict(c, err.Error())
		return
	}
	utils.SendSuccess(c, gin.H{"polling": true})
}

// StopPolling halts the scoreboard polling loop
// POST /api/v1/admin/polling/stop
func (h *AdminHandler) StopPolling(c *gin.Context) {
	h.poller.Stop()
	utils.SendSuccess(c, gin.H{"polling": false})
}

// PollingStatus reports whether the loop is running
// GET /api/v1/admin/polling/status
func (h *AdminHandler) PollingStatus(c *gin.Context) {
	utils.SendSuccess(c, gin.H{"polling": h.poller.IsRunning()})
}

// PollNow runs one scoreboard pass immediately
// POST /api/v1/admin/polling/run
func (h *AdminHandler) PollNow(c *gin.Context) {
	if err := h.poller.PollOnce(c.Request.Context()); err != nil {
		utils.SendInternalError(c, "Poll failed: "+err.Error())
		return
	}
	utils.SendSuccess(c, gin.H{"polled": true})
}
