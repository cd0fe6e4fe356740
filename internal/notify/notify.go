// Package notify is the toast-style notification boundary between the
// stores and whatever surface renders them.
package notify

import (
	"context"
	"sync"

	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier receives user-visible notifications raised by the stores.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// LogNotifier writes notifications to the structured log. It is the default
// sink for headless use; interactive surfaces install their own.
type LogNotifier struct {
	Logger *logger.Logger
}

func (n LogNotifier) Notify(ctx context.Context, level Level, message string) {
	if n.Logger == nil {
		return
	}
	ctx = n.Logger.WithField(ctx, "notification_level", string(level))
	switch level {
	case LevelError:
		n.Logger.Error(ctx, message, nil)
	case LevelWarning:
		n.Logger.Warn(ctx, message)
	default:
		n.Logger.Info(ctx, message)
	}
}

// Recorded is one captured notification.
type Recorded struct {
	Level   Level
	Message string
}

// Recorder captures notifications for tests and for surfaces that drain
// them on their own schedule.
type Recorder struct {
	mu       sync.Mutex
	recorded []Recorded
}

func (r *Recorder) Notify(_ context.Context, level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, Recorded{Level: level, Message: message})
}

// Drain returns and clears everything captured so far.
func (r *Recorder) Drain() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.recorded
	r.recorded = nil
	return out
}

// Len reports how many notifications are waiting.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recorded)
}
