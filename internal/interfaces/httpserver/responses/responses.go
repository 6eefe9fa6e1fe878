package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

// Envelope is the common wrapper for every API response.
type Envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse carries the error details inside an envelope.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"` // UUID from PlatformError
	Message string `json:"message"`
}

// Respond writes a success envelope with the given payload.
func Respond(reqCtx *gin.Context, statusCode int, data any) {
	reqCtx.JSON(statusCode, Envelope{
		Success: true,
		Data:    data,
	})
}

// RespondMessage writes a success envelope that carries only a message.
func RespondMessage(reqCtx *gin.Context, statusCode int, message string) {
	reqCtx.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
	})
}

// HandleError maps domain errors onto HTTP status codes and writes an error envelope.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, Envelope{
			Success: false,
			Error: &ErrorResponse{
				Code:    domainErr.GetUUID(),
				Message: errorMessage,
			},
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Error: &ErrorResponse{
			Message: message,
		},
	})
}

// HandleNewError creates a typed error at the route layer and writes it out.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType()), Envelope{
		Success: false,
		Error: &ErrorResponse{
			Code:    err.GetUUID(),
			Message: message,
		},
	})
}
