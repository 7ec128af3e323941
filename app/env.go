// Package app carries the dependencies every operation is given explicitly.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/glowhub/events"
)

// Env is passed to each core operation in place of process-wide handles.
type Env struct {
	DB     *gorm.DB
	Log    *zap.Logger
	Clock  func() time.Time
	Events events.Notifier
}

func New(db *gorm.DB, log *zap.Logger, notifier events.Notifier) *Env {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &Env{
		DB:     db,
		Log:    log,
		Clock:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		Events: notifier,
	}
}

// Now is the current time from the configured clock.
func (e *Env) Now() time.Time { return e.Clock() }

// Today is the current date at midnight UTC.
func (e *Env) Today() time.Time {
	return DateOf(e.Clock())
}

// Conn is the store handle bound to ctx.
func (e *Env) Conn(ctx context.Context) *gorm.DB {
	return e.DB.WithContext(ctx)
}

// Publish hands ev to the notifier after a commit; failures are only logged.
func (e *Env) Publish(ctx context.Context, ev events.OrderEvent) {
	if err := e.Events.Notify(ctx, ev); err != nil {
		e.Log.Warn("order event not delivered", zap.String("type", string(ev.Type)), zap.Uint("order_id", ev.OrderID), zap.Error(err))
	}
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
