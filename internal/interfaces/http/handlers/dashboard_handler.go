package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
)

// DashboardHandler serves the overview and the weekly AI summary.
type DashboardHandler struct {
	svc      tracker.DashboardService
	logger   logging.Logger
	onCounts func(deadline.Counts)
}

// NewDashboardHandler creates a DashboardHandler.  onCounts, if set, receives
// the bucket sizes of every overview built.
func NewDashboardHandler(svc tracker.DashboardService, logger logging.Logger, onCounts func(deadline.Counts)) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger, onCounts: onCounts}
}

// Overview handles GET /api/v1/dashboard.
func (h *DashboardHandler) Overview(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	if h.onCounts != nil {
		h.onCounts(ov.Counts)
	}
	c.JSON(http.StatusOK, ov)
}

// Summary handles GET /api/v1/dashboard/summary?refresh=true.
func (h *DashboardHandler) Summary(c *gin.Context) {
	refresh := false
	if v := c.Query("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "refresh must be a boolean")
			return
		}
		refresh = b
	}
	s, err := h.svc.WeeklySummary(c.Request.Context(), refresh)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

//Personal.AI order the ending
