package ratelimit

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ticketry/internal/shared/utils/response"
	"ticketry/pkg/logger"
)

// Middleware applies rate limiting to all routes, classifying each request by
// its path. Fails open: a Redis error never blocks a request.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := classifyRequest(c.Request.URL.Path)

		result, err := limiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			logger.GetDefault().WithError(err).Warn("rate limit check failed, allowing request")
			c.Next()
			return
		}

		for key, value := range Headers(result) {
			c.Header(key, value)
		}

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.Request.URL.Path)
			response.RespondJSON(c, "error", http.StatusTooManyRequests, "Too many requests, please try again later", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func classifyRequest(path string) LimitType {
	switch {
	case strings.Contains(path, "/auth/"):
		return LimitTypeAuth
	case strings.Contains(path, "/book") || strings.Contains(path, "/cancel"):
		return LimitTypeBooking
	case strings.Contains(path, "/status"):
		return LimitTypeStatus
	default:
		return LimitTypeDefault
	}
}
