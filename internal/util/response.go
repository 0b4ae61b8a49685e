package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rednote/backend/internal/errors"
	"github.com/rednote/backend/internal/logger"
	"go.uber.org/zap"
)

// Envelope is the uniform response body. Code is 0 for success and the
// string error code otherwise; Data is omitted on failure.
type Envelope struct {
	Code any    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// RespondOK sends a success envelope with the given payload
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Code: 0, Msg: "success", Data: data})
}

// RespondCreated sends a 201 success envelope with the given payload
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Code: 0, Msg: "success", Data: data})
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
			zap.Int("status", apiErr.Status),
		)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error",
			zap.String("code", string(apiErr.Code)),
			zap.String("message", apiErr.Message),
		)
	}

	c.JSON(apiErr.Status, Envelope{Code: string(apiErr.Code), Msg: apiErr.Message})
}

// RespondServiceError maps a service-layer error onto the envelope. APIErrors
// keep their status; anything else is the generic failure category.
func RespondServiceError(c *gin.Context, err error, fallback string) {
	if apiErr, ok := errors.AsAPIError(err); ok {
		RespondWithAPIError(c, apiErr)
		return
	}
	logger.ErrorWithFields(fallback, err)
	RespondWithAPIError(c, errors.InternalError(fallback))
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "user not authenticated"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthorized(msg))
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

// RespondConflict sends a 409 Conflict response
func RespondConflict(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.Conflict(resource))
}

// RespondValidationError sends a 422 Unprocessable Entity response
func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.InternalError(message))
}
