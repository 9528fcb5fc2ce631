package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are "<MODULE>_<NNN>".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeInvalidConfig      ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Short aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Client Module Error Codes
const (
	ErrCodeClientNotFound      ErrorCode = "CLIENT_001"
	ErrCodeClientInvalidStatus ErrorCode = "CLIENT_002"
	ErrCodeClientInvalid       ErrorCode = "CLIENT_003"
)

// Deadline Module Error Codes
const (
	ErrCodeDeadlineNotFound        ErrorCode = "DEADLINE_001"
	ErrCodeDeadlineInvalidDate     ErrorCode = "DEADLINE_002"
	ErrCodeDeadlineInvalidPriority ErrorCode = "DEADLINE_003"
	ErrCodeDeadlineInvalidStatus   ErrorCode = "DEADLINE_004"
	ErrCodeDeadlineInvalidSort     ErrorCode = "DEADLINE_005"
	ErrCodeDeadlineInvalid         ErrorCode = "DEADLINE_006"
)

// Agent Error Codes
const (
	ErrCodeAgentUnavailable    ErrorCode = "AGENT_001"
	ErrCodeAgentRequestFailed  ErrorCode = "AGENT_002"
	ErrCodeAgentResponseFailed ErrorCode = "AGENT_003"
	ErrCodeAgentNoJSON         ErrorCode = "AGENT_004"
)

// Chat Error Codes
const (
	ErrCodeChatEmptyMessage    ErrorCode = "CHAT_001"
	ErrCodeChatRequestInFlight ErrorCode = "CHAT_002"
	ErrCodeChatUnknownQuery    ErrorCode = "CHAT_003"
	ErrCodeChatArchiveFailed   ErrorCode = "CHAT_004"
)

// Store Error Codes
const (
	ErrCodeStoreUnavailable  ErrorCode = "STORE_001"
	ErrCodeMigrationFailed   ErrorCode = "STORE_002"
	ErrCodeObjectStoreFailed ErrorCode = "STORE_003"
	ErrCodePublishFailed     ErrorCode = "STORE_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeInvalidConfig:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeClientNotFound:      http.StatusNotFound,
	ErrCodeClientInvalidStatus: http.StatusBadRequest,
	ErrCodeClientInvalid:       http.StatusBadRequest,

	ErrCodeDeadlineNotFound:        http.StatusNotFound,
	ErrCodeDeadlineInvalidDate:     http.StatusBadRequest,
	ErrCodeDeadlineInvalidPriority: http.StatusBadRequest,
	ErrCodeDeadlineInvalidStatus:   http.StatusBadRequest,
	ErrCodeDeadlineInvalidSort:     http.StatusBadRequest,
	ErrCodeDeadlineInvalid:         http.StatusBadRequest,

	ErrCodeAgentUnavailable:    http.StatusServiceUnavailable,
	ErrCodeAgentRequestFailed:  http.StatusBadGateway,
	ErrCodeAgentResponseFailed: http.StatusBadGateway,
	ErrCodeAgentNoJSON:         http.StatusUnprocessableEntity,

	ErrCodeChatEmptyMessage:    http.StatusBadRequest,
	ErrCodeChatRequestInFlight: http.StatusConflict,
	ErrCodeChatUnknownQuery:    http.StatusNotFound,
	ErrCodeChatArchiveFailed:   http.StatusInternalServerError,

	ErrCodeStoreUnavailable:  http.StatusServiceUnavailable,
	ErrCodeMigrationFailed:   http.StatusInternalServerError,
	ErrCodeObjectStoreFailed: http.StatusInternalServerError,
	ErrCodePublishFailed:     http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeInvalidConfig:      "invalid configuration",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeClientNotFound:      "client not found",
	ErrCodeClientInvalidStatus: "invalid client status",
	ErrCodeClientInvalid:       "invalid client",

	ErrCodeDeadlineNotFound:        "deadline not found",
	ErrCodeDeadlineInvalidDate:     "invalid due date",
	ErrCodeDeadlineInvalidPriority: "invalid deadline priority",
	ErrCodeDeadlineInvalidStatus:   "invalid deadline status",
	ErrCodeDeadlineInvalidSort:     "invalid sort field",
	ErrCodeDeadlineInvalid:         "invalid deadline",

	ErrCodeAgentUnavailable:    "agent unavailable",
	ErrCodeAgentRequestFailed:  "agent request failed",
	ErrCodeAgentResponseFailed: "agent response could not be decoded",
	ErrCodeAgentNoJSON:         "no JSON object found in agent text",

	ErrCodeChatEmptyMessage:    "message is empty",
	ErrCodeChatRequestInFlight: "a request is already in flight",
	ErrCodeChatUnknownQuery:    "unknown quick query",
	ErrCodeChatArchiveFailed:   "failed to archive conversation",

	ErrCodeStoreUnavailable:  "store unavailable",
	ErrCodeMigrationFailed:   "schema migration failed",
	ErrCodeObjectStoreFailed: "object storage error",
	ErrCodePublishFailed:     "event publish failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
