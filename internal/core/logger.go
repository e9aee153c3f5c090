package core

import (
	"context"
	"log/slog"
	"os"
)

// Logger provides structured logging for Medialog
type Logger struct {
	*slog.Logger
	features map[string]*slog.Logger
}

// NewLogger creates a new logger instance
func NewLogger() *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &Logger{
		Logger:   slog.New(handler),
		features: make(map[string]*slog.Logger),
	}
}

// ForFeature returns a logger specific to a feature
func (l *Logger) ForFeature(featureName string) *Logger {
	if featureLogger, exists := l.features[featureName]; exists {
		return &Logger{
			Logger:   featureLogger,
			features: l.features,
		}
	}

	featureLogger := l.Logger.With("feature", featureName)
	l.features[featureName] = featureLogger

	return &Logger{
		Logger:   featureLogger,
		features: l.features,
	}
}

// WithContext returns a logger carrying the request ID from the context
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	if requestID, ok := ctx.Value("request_id").(string); ok {
		return &Logger{
			Logger:   l.Logger.With("request_id", requestID),
			features: l.features,
		}
	}

	return l
}

// WithUser returns a logger with user context
func (l *Logger) WithUser(userID int, email string) *Logger {
	return &Logger{
		Logger:   l.Logger.With("user_id", userID, "user_email", email),
		features: l.features,
	}
}
