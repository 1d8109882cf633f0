// internal/handlers/stats.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dealradar/dealradar-backend/internal/services"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GET /stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetCatalogStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}
