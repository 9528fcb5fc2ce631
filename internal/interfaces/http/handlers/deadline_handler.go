package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
)

// DeadlineHandler handles the /deadlines resource.
type DeadlineHandler struct {
	svc    tracker.DeadlineService
	logger logging.Logger
}

func NewDeadlineHandler(svc tracker.DeadlineService, logger logging.Logger) *DeadlineHandler {
	return &DeadlineHandler{svc: svc, logger: logger}
}

// CompleteRequest is the body of POST /deadlines/complete.
type CompleteRequest struct {
	IDs []string `json:"ids"`
}

// CompleteResponse reports how many of the requested deadlines existed.
type CompleteResponse struct {
	Completed int `json:"completed"`
}

// List handles GET /api/v1/deadlines.
func (h *DeadlineHandler) List(c *gin.Context) {
	var q tracker.DeadlineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	list, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	writeList(c, list)
}

func (h *DeadlineHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Create handles POST /api/v1/deadlines.  An empty body creates a deadline
// with every form default.
func (h *DeadlineHandler) Create(c *gin.Context) {
	var req tracker.CreateDeadlineRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	d, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DeadlineHandler) Update(c *gin.Context) {
	var req tracker.UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DeadlineHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cycle handles POST /api/v1/deadlines/:id/cycle.
func (h *DeadlineHandler) Cycle(c *gin.Context) {
	d, err := h.svc.CycleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Complete handles POST /api/v1/deadlines/complete.
func (h *DeadlineHandler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	n, err := h.svc.CompleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, CompleteResponse{Completed: n})
}

//Personal.AI order the ending
