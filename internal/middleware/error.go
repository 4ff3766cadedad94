package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/myway/panel-api/internal/handler"
	apperrors "github.com/myway/panel-api/pkg/errors"
)

// ErrorHandler renders the last error recorded on the context. Client
// errors carry their message; server errors are logged and answered with a
// generic one.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperrors.StatusCode(err)
		message := "internal server error"

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
			message = "request timeout"
		case status < http.StatusInternalServerError:
			if appErr, ok := apperrors.As(err); ok {
				message = appErr.Message
			}
		}

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(err).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, handler.NewErrorResponse(message))
	}
}
