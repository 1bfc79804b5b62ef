package middleware

import (
	"github.com/crewhub/accounts/internal/constants"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext attaches a request ID and client metadata to the request
// context so every downstream log entry carries them.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestInfo(
			c.Request.Context(),
			requestID,
			c.ClientIP(),
			c.Request.UserAgent(),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}
