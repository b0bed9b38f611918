/*
Package response - unified API layer response handling.

Design principles:
1. HTTP status mapping lives here, never in the domain or application layers.
2. Error responses never expose internals (stacks, wrapped error messages).
3. Every response carries the request ID for log correlation.
4. Internal errors answer with a generic message; the real error only hits
   the log.
*/
package response

import (
	"net/http"
	"runtime"

	"voicenotes/domain/shared"
	"voicenotes/pkg/errors"
	"voicenotes/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey context key for request id propagation
const RequestIDKey = "request_id"

// Response generic response envelope
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"` // error code, not details
	Code      int         `json:"code"`            // HTTP status code
	Message   string      `json:"message"`         // user-visible message
	RequestID string      `json:"request_id,omitempty"`
}

// httpStatusMap maps application error codes to HTTP status codes.
// API layer only; other layers never see HTTP codes.
var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:   http.StatusInternalServerError,
	errors.CodeBadRequest: http.StatusBadRequest,
	errors.CodeNotFound:   http.StatusNotFound,
	errors.CodeConflict:   http.StatusConflict,
	errors.CodeForbidden:  http.StatusForbidden,
	errors.CodeValidation: http.StatusBadRequest,

	errors.CodeNoteNotFound:        http.StatusNotFound,
	errors.CodeInvalidNoteState:    http.StatusUnprocessableEntity,
	errors.CodeAlreadyProcessing:   http.StatusConflict,
	errors.CodeConcurrentModify:    http.StatusConflict,
	errors.CodeUnsupportedMimeType: http.StatusUnsupportedMediaType,
	errors.CodeNoTranscription:     http.StatusUnprocessableEntity,
}

func mapErrorCodeToHTTPStatus(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetRequestID reads the request ID assigned by the middleware.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var stack []string
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleError handles framework-level errors such as binding failures.
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := GetRequestID(c)

	logger.Error(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     "BAD_REQUEST",
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleAppError handles application and domain errors: maps the HTTP
// status, logs the full error with its origin stack, and answers without
// internal details.
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	appErr := errors.FromDomainError(err)
	httpStatus := mapErrorCodeToHTTPStatus(appErr.Code)
	stack := extractStack(err)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
		zap.Strings("stack", stack),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}
	logger.Error(appErr.Message, fields...)

	userMessage := appErr.Message
	if appErr.Code == errors.CodeInternal {
		userMessage = "internal server error"
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   userMessage,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

// extractStack prefers the stack captured where the error was created,
// falling back to the handling point.
func extractStack(err error) []string {
	if stacker, ok := err.(shared.Stacker); ok {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		if inner := unwrapper.Unwrap(); inner != nil {
			if stacker, ok := inner.(shared.Stacker); ok {
				if stack := stacker.Stack(); len(stack) > 0 {
					return stack
				}
			}
		}
	}
	return captureStack(4)
}

// HandleSuccess answers 200 OK.
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}

// HandleCreated answers 201 Created.
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: GetRequestID(c),
	})
}

// HandleNoContent answers 204 No Content.
func HandleNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
