// Package notify delivers user-facing notifications: the short
// title/description messages shown after a login, a task change or a theme
// switch. Delivery is fire-and-forget.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/logging"
)

// Variant distinguishes ordinary notifications from failures.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a single user-facing message.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant,omitempty"`
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Log writes notifications through the global logger.
type Log struct{}

func (Log) Notify(ctx context.Context, n Notification) {
	fields := []zap.Field{zap.String("title", n.Title)}
	if n.Description != "" {
		fields = append(fields, zap.String("description", n.Description))
	}
	if n.Variant == VariantDestructive {
		logging.Warn(ctx, "notification", fields...)
		return
	}
	logging.Info(ctx, "notification", fields...)
}

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, Notification) {})

// Multi fans a notification out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return Func(func(ctx context.Context, n Notification) {
		for _, x := range ns {
			x.Notify(ctx, n)
		}
	})
}

// Recorder keeps every notification in memory. The CLI uses it to print the
// notifications of a command; tests use it to assert on them.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications in delivery order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification and whether there was one.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.all = nil
	r.mu.Unlock()
}
