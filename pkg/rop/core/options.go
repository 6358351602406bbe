package core

import (
	"context"
	"log/slog"
	"time"
)

type OptionKey string

const (
	LoggerOptionKey   OptionKey = "logger_options"
	ObserverOptionKey OptionKey = "observer_options"
)

// Observer is told about every finished node evaluation. kind is the node
// kind name and err is nil on success. Implementations must be safe for
// concurrent use.
type Observer interface {
	Observe(ctx context.Context, kind string, err error, elapsed time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, kind string, err error, elapsed time.Duration)

func (f ObserverFunc) Observe(ctx context.Context, kind string, err error, elapsed time.Duration) {
	f(ctx, kind, err, elapsed)
}

var discard = slog.New(slog.DiscardHandler)

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerOptionKey, logger)
}

// Logger returns the logger stored in ctx or one that discards everything.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(LoggerOptionKey).(*slog.Logger)
	if ok && logger != nil {
		return logger
	}
	return discard
}

func WithObserver(ctx context.Context, observer Observer) context.Context {
	return context.WithValue(ctx, ObserverOptionKey, observer)
}

// GetObserver returns the observer stored in ctx, or nil.
func GetObserver(ctx context.Context) Observer {
	observer, ok := ctx.Value(ObserverOptionKey).(Observer)
	if ok {
		return observer
	}
	return nil
}
