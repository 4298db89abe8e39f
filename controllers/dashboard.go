package controllers

import (
	"net/http"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/services"
	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *services.DashboardService
	Location  *time.Location
	Now       func() time.Time
}

// GetDashboardOverview returns today's KPIs and the last seven days of revenue
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	now := time.Now
	if dc.Now != nil {
		now = dc.Now
	}
	loc := dc.Location
	if loc == nil {
		loc = time.UTC
	}

	overview, err := dc.Dashboard.Overview(c.Request.Context(), c.Param("id"), now().In(loc))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
