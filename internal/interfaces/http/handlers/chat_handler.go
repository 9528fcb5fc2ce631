package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/application/tracker"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
)

// ChatHandler fronts the single conversation.
type ChatHandler struct {
	svc    tracker.ChatService
	logger logging.Logger
}

func NewChatHandler(svc tracker.ChatService, logger logging.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// SendRequest is the body of POST /chat/messages.
type SendRequest struct {
	Text string `json:"text"`
}

// Messages handles GET /api/v1/chat/messages.
func (h *ChatHandler) Messages(c *gin.Context) {
	writeList(c, h.svc.Messages(c.Request.Context()))
}

// Send handles POST /api/v1/chat/messages.  Agent failures still produce a
// 200 with an assistant message describing them.
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	turn, err := h.svc.Send(c.Request.Context(), req.Text)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

func (h *ChatHandler) QuickQueries(c *gin.Context) {
	writeList(c, h.svc.QuickQueries())
}

// RunQuickQuery handles POST /api/v1/chat/quick-queries/:id.
func (h *ChatHandler) RunQuickQuery(c *gin.Context) {
	turn, err := h.svc.RunQuickQuery(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

// Export handles POST /api/v1/chat/export.
func (h *ChatHandler) Export(c *gin.Context) {
	res, err := h.svc.Export(c.Request.Context())
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Reset handles DELETE /api/v1/chat/messages.
func (h *ChatHandler) Reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//Personal.AI order the ending
