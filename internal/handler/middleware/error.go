package middleware

import (
	"log/slog"
	"net/http"

	"restaurant-engine/internal/handler/httperr"
	"restaurant-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached when nothing was
// written yet. Responses prepared by httperr win; bare engine errors are
// mapped by kind; anything else is a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			ge := c.Errors[i]
			if resp, ok := ge.Meta.(httperr.Response); ok && ge.IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
			if e, ok := errs.AsError(ge.Err); ok {
				resp := httperr.Response{Status: httperr.StatusFor(e)}
				resp.Error.Message = e.Message
				resp.Error.Kind = string(e.Kind)
				if len(e.Violations) > 0 {
					resp.Detail = gin.H{"violations": e.Violations}
				}
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

// CustomRecovery turns a panic into a 500 carrying the request id.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", GetRequestID(c)),
					slog.String("staff_id", c.GetHeader(StaffHeader)))

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				if id := GetRequestID(c); id != "" {
					resp.Detail = gin.H{"requestId": id}
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
