package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/tally-api/internal/domain/election"
)

// Response is the standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Partial bool   `json:"partial,omitempty"`
}

// SuccessResponse sends a successful response
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage aborts with an error response carrying a custom message
func ErrorResponseWithMessage(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// Error writes err using the status that matches its kind. Internal causes are
// never exposed to the client.
func Error(c *gin.Context, err error) {
	var typed *election.Error
	if !errors.As(err, &typed) {
		typed = election.ErrInternal
	}

	body := ErrorResponse{
		Success: false,
		Error:   typed.Message,
		Code:    typed.Code,
		Partial: typed.Partial,
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(typed), body)
}

// StatusFor maps an election error onto an HTTP status
func StatusFor(err *election.Error) int {
	switch err.Kind {
	case election.KindValidation:
		return http.StatusBadRequest
	case election.KindNotFound:
		return http.StatusNotFound
	case election.KindConflict:
		return http.StatusConflict
	case election.KindAuthorization:
		if errors.Is(err, election.ErrForbidden) {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// BadRequestError sends a 400
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// BodyError reports a request body that could not be bound. Bodies cut off by
// http.MaxBytesReader get a 413 instead of a 400.
func BodyError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ErrorResponseWithMessage(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
		return
	}
	BadRequestError(c, message)
}

// UnauthorizedError sends a 401
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, election.ErrUnauthorized.Code, message)
}

// ForbiddenError sends a 403
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, election.ErrForbidden.Code, message)
}
