package handlers

import (
	"net/http"

	"Pulse/internal/dto"
	"Pulse/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves aggregate stats.
type DashboardHandler struct {
	svc *service.DashboardService
}

// NewDashboardHandler returns a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary      Dashboard stats
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.StatsResponse
// @Failure      500  {object}  map[string]string
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		Users:      stats.Users,
		Posts:      stats.Posts,
		TotalLikes: stats.TotalLikes,
	})
}
