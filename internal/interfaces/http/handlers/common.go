package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// DataResponse wraps list payloads so the envelope can grow without breaking
// clients.
type DataResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

func writeList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, DataResponse{Data: items, Total: len(items)})
}

// writeAppError maps the error code to its HTTP status.  Server-side errors
// are logged and masked.
func writeAppError(c *gin.Context, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context(), logger).Error("request failed",
			logging.String("path", c.FullPath()),
			logging.String("code", code.String()),
			logging.Err(err),
		)
		if code == errors.CodeUnknown {
			code = errors.ErrCodeInternal
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Code: code.String(), Message: errors.DefaultMessageForCode(code)})
		return
	}

	resp := ErrorResponse{Code: code.String(), Message: err.Error()}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: errors.ErrCodeBadRequest.String(), Message: message})
}

//Personal.AI order the ending
