// README: Read-only view of the caller's rate limit window.
package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitStatus reports a client's standing without recording a request.
type RateLimitStatus interface {
	Limit() int
	Remaining(ctx context.Context, clientID string) (int, time.Duration, error)
}

type RateLimitHandler struct {
	status RateLimitStatus
}

func NewRateLimitHandler(status RateLimitStatus) *RateLimitHandler {
	return &RateLimitHandler{status: status}
}

type rateLimitResp struct {
	Limit        int `json:"limit"`
	Remaining    int `json:"remaining"`
	ResetSeconds int `json:"reset_seconds"`
}

// Status handles GET /ratelimit. The caller is identified the same way the
// limiter middleware identifies it.
func (h *RateLimitHandler) Status(c *gin.Context) {
	remaining, reset, err := h.status.Remaining(c.Request.Context(), c.ClientIP())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rateLimitResp{
		Limit:        h.status.Limit(),
		Remaining:    remaining,
		ResetSeconds: int(math.Ceil(reset.Seconds())),
	})
}
