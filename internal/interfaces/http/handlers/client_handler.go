package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
)

// ClientHandler handles the /clients resource.
type ClientHandler struct {
	svc    tracker.ClientService
	logger logging.Logger
}

func NewClientHandler(svc tracker.ClientService, logger logging.Logger) *ClientHandler {
	return &ClientHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/clients?q=&active=.
func (h *ClientHandler) List(c *gin.Context) {
	var q tracker.ClientQuery
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

func (h *ClientHandler) Get(c *gin.Context) {
	cl, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req tracker.CreateClientRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	cl, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cl)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req tracker.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cl, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

// Delete handles DELETE /api/v1/clients/:id; the client's deadlines go too.
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//Personal.AI order the ending
