package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogBookingConfirmed logs when a ticket is granted directly
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingID, eventID, userID uint) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.Uint64("booking_id", uint64(bookingID)),
		slog.Uint64("event_id", uint64(eventID)),
		slog.Uint64("user_id", uint64(userID)),
	)
}

// LogUserWaitlisted logs when a sold-out request lands on the waiting list
func (l *Logger) LogUserWaitlisted(ctx context.Context, entryID, eventID, userID uint, position int) {
	l.Logger.InfoContext(ctx,
		"User Waitlisted",
		slog.Uint64("waiting_list_id", uint64(entryID)),
		slog.Uint64("event_id", uint64(eventID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("position", position),
	)
}

// LogBookingCancelled logs when a booking is cancelled
func (l *Logger) LogBookingCancelled(ctx context.Context, bookingID, eventID uint, reassigned bool) {
	l.Logger.InfoContext(ctx,
		"Booking Cancelled",
		slog.Uint64("booking_id", uint64(bookingID)),
		slog.Uint64("event_id", uint64(eventID)),
		slog.Bool("reassigned", reassigned),
	)
}

// LogTicketReassigned logs a promotion from the waiting list
func (l *Logger) LogTicketReassigned(ctx context.Context, cancelledBookingID, newBookingID, eventID, userID uint) {
	l.Logger.InfoContext(ctx,
		"Ticket Reassigned",
		slog.Uint64("cancelled_booking_id", uint64(cancelledBookingID)),
		slog.Uint64("new_booking_id", uint64(newBookingID)),
		slog.Uint64("event_id", uint64(eventID)),
		slog.Uint64("user_id", uint64(userID)),
	)
}

// LogEventInitialized logs when an event is created with its ticket pool
func (l *Logger) LogEventInitialized(ctx context.Context, eventID uint, name string, totalTickets int) {
	l.Logger.InfoContext(ctx,
		"Event Initialized",
		slog.Uint64("event_id", uint64(eventID)),
		slog.String("name", name),
		slog.Int("total_tickets", totalTickets),
	)
}

// Security logging methods

// LogAuthSuccess logs successful authentication
func (l *Logger) LogAuthSuccess(ctx context.Context, userID uint, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("method", method),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
