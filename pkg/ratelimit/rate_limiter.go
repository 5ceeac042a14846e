package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type LimitType string

const (
	LimitTypeDefault LimitType = "default"
	LimitTypeAuth    LimitType = "auth"
	LimitTypeBooking LimitType = "booking"
	LimitTypeStatus  LimitType = "status"
)

// Config holds per-class request budgets for a fixed window.
type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	StatusRequests  int           `json:"status_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents a rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter implements a fixed-window counter per client IP backed by Redis.
type RateLimiter struct {
	client *redis.Client
	config *Config
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// IsAllowed checks whether the request from clientIP fits its window budget.
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType LimitType) (*Result, error) {
	limit := r.getLimit(limitType)

	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: time.Now().Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	window := time.Now().Unix() / int64(r.config.WindowDuration.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", limitType, clientIP, window)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.config.WindowDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: (window + 1) * int64(r.config.WindowDuration.Seconds()),
	}, nil
}

func (r *RateLimiter) getLimit(limitType LimitType) int {
	switch limitType {
	case LimitTypeAuth:
		return r.config.AuthRequests
	case LimitTypeBooking:
		return r.config.BookingRequests
	case LimitTypeStatus:
		return r.config.StatusRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(clientIP string) bool {
	for _, ip := range r.config.WhitelistedIPs {
		if ip == clientIP {
			return true
		}
	}
	return false
}

// Headers returns the standard rate limit response headers for a result.
func Headers(result *Result) map[string]string {
	return map[string]string{
		"X-RateLimit-Limit":     strconv.Itoa(result.Limit),
		"X-RateLimit-Remaining": strconv.Itoa(result.Remaining),
		"X-RateLimit-Reset":     strconv.FormatInt(result.ResetTime, 10),
	}
}
