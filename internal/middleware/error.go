package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into JSON error responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, c.Errors.Last().Err)
	}
}

// Abort writes err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	WriteError(c, err)
	c.Abort()
}

// WriteError renders err as {"error": {"code", "message"}}. AppErrors keep
// their status and code; anything else is logged and reported as
// INTERNAL_ERROR.
func WriteError(c *gin.Context, err error) {
	log := logger.Named("http")

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(requestIDKey),
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		log.Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
