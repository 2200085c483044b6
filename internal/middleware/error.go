package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/logger"
)

// ErrorHandler converts errors attached to the gin context into the JSON
// error body. Unexpected errors are logged and reported as a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		WriteError(c, c.Errors.Last().Err)
	}
}

// abortWithError writes the error body and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	WriteError(c, err)
	c.Abort()
}

// WriteError writes err as the JSON error body with its status code.
func WriteError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		log := logger.Get().Debugw
		if appErr.StatusCode >= http.StatusInternalServerError {
			log = logger.Get().Errorw
		}
		log("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
