package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Kind    apperr.Kind            `json:"kind"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondError writes err as a JSON error with the status of its kind.
// Server-side kinds are logged here, client-side kinds at debug level.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	entry := logging.FromContext(c.Request.Context()).WithFields(logrus.Fields{
		"status": status,
		"kind":   kind,
	}).WithError(err)
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	c.JSON(status, ErrorResponse{
		Error:   apperr.Message(err),
		Kind:    kind,
		Details: apperr.DetailsOf(err),
	})
}

// ErrorHandler turns errors attached with c.Error into a JSON response
// and recovers panics as internal errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.FromContext(c.Request.Context()).WithField("panic", rec).Error("handler panicked")
				c.Abort()
				RespondError(c, apperr.New(apperr.KindInternal, "handle request", "internal error"))
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			RespondError(c, c.Errors.Last().Err)
		}
	}
}
