package api

import (
	"climblog/climbing-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats godoc
// @Summary Hardest sends and climb counts across all sessions
// @Tags Stats
// @Produce json
// @Success 200 {object} service.UserStats
// @Security BearerAuth
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	st, err := h.statsService.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "compute stats")
		return
	}
	c.JSON(http.StatusOK, st)
}
