// README: Per-client sliding-window rate limiting for the API routes.
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mapchat/internal/modules/ratelimit"
)

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (ratelimit.Decision, error)
}

// RateLimit rejects requests from clients over their limit with 429. Every
// response carries the X-RateLimit-* headers.
func RateLimit(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("ratelimit")
	return func(c *gin.Context) {
		client := c.ClientIP()
		d, err := limiter.Allow(c.Request.Context(), client)
		if err != nil {
			logger.Warn("rate limit check skipped", zap.String("client", client), zap.Error(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(d.Reset)))

		if !d.Allowed {
			_ = c.Error(d.Err())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
