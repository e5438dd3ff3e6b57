package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/api"
)

// MsgTooManyRequests is the error body of a throttled request.
const MsgTooManyRequests = "too many requests, please try again later"

// Allower is satisfied by *Limiter.
type Allower interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// PerClientIP limits each client IP to limit requests per window on the routes it guards.
// name separates the windows of different routes. A nil limiter disables the check,
// and Redis errors let the request through.
func PerClientIP(limiter Allower, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), name+":"+c.ClientIP(), limit, window)
		if err != nil {
			slog.Error("rate limiter unavailable", "error", err, "route", name)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retry := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			slog.Warn("rate limit exceeded", "route", name, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: MsgTooManyRequests})
			return
		}
		c.Next()
	}
}
