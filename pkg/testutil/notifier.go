package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/ydmenu/pkg/notify"
)

// Notifier records notifications instead of showing them
type Notifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

// Notify records n
func (r *Notifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns every recorded notification in order
func (r *Notifier) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// BySeverity returns the recorded notifications of one severity
func (r *Notifier) BySeverity(severity notify.Severity) []notify.Notification {
	var out []notify.Notification
	for _, n := range r.Sent() {
		if n.Severity == severity {
			out = append(out, n)
		}
	}
	return out
}

// Last returns the most recent notification, or the zero value
func (r *Notifier) Last() notify.Notification {
	sent := r.Sent()
	if len(sent) == 0 {
		return notify.Notification{}
	}
	return sent[len(sent)-1]
}
