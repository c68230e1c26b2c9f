// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ChatIDKey is the context key for the Telegram chat ID
	ChatIDKey contextKey = "chat_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and chat_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("request_id", requestID))}
	}

	if chatID, ok := ctx.Value(ChatIDKey).(string); ok && chatID != "" {
		newLogger = newLogger.WithChatID(chatID)
	}

	return newLogger
}

// WithChatID returns a logger bound to a chat.
func (l *Logger) WithChatID(chatID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("chat_id", chatID)),
	}
}

// BotUpdate logs the outcome of processing one inbound Telegram update.
func (l *Logger) BotUpdate(dedupKey, chatID, action string) {
	l.Info("bot_update",
		slog.String("dedup_key", dedupKey),
		slog.String("chat_id", chatID),
		slog.String("action", action),
	)
}

// DuplicateUpdate logs an inbound update that was already processed.
func (l *Logger) DuplicateUpdate(dedupKey, chatID string) {
	l.Debug("duplicate_update",
		slog.String("dedup_key", dedupKey),
		slog.String("chat_id", chatID),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// SendFailed logs a failed outbound chat message.
func (l *Logger) SendFailed(chatID string, err error) {
	l.Error("telegram_send_failed",
		slog.String("chat_id", chatID),
		slog.String("error", err.Error()),
	)
}

// InviteEvent logs invite lifecycle events
func (l *Logger) InviteEvent(event string, orgID int64, success bool, reason string) {
	if success {
		l.Info("invite_event",
			slog.String("event", event),
			slog.Int64("org_id", orgID),
		)
	} else {
		l.Warn("invite_event",
			slog.String("event", event),
			slog.Int64("org_id", orgID),
			slog.String("reason", reason),
		)
	}
}

// RateLimitExceeded logs a rejected request from a rate-limited client
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}
