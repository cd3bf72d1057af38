// Package readiness waits for the sync daemon to become idle before any
// file is touched.
package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/daemon"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/rs/zerolog"
)

// Defaults match one poll per second for half a minute
const (
	DefaultInterval    = time.Second
	DefaultMaxAttempts = 30
)

// UnavailableMessage is shown when the daemon never becomes idle
const UnavailableMessage = "<b>Service is not available</b>.\nTry later or restart it via\n<b><i>yandex-disk stop && yandex-disk start</i></b>."

// StatusSource reports the daemon status
type StatusSource interface {
	Status(ctx context.Context) string
}

// Gate polls the daemon until it is idle or the attempts run out
type Gate struct {
	Source      StatusSource
	Notifier    notify.Notifier
	Interval    time.Duration
	MaxAttempts int

	// Sleep waits between polls. Defaults to a context aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger zerolog.Logger
}

// Await returns nil once the daemon is idle. Otherwise it warns once, polls
// up to MaxAttempts times and, when the daemon never becomes idle, shows an
// error notification and returns a DAEMON_UNAVAILABLE error.
func (g *Gate) Await(ctx context.Context) error {
	logger := logging.Component(g.Logger, "readiness")
	interval, attempts := g.Interval, g.MaxAttempts
	if interval <= 0 {
		interval = DefaultInterval
	}
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	sleep := g.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	status := g.Source.Status(ctx)
	if daemon.IsIdle(status) {
		return nil
	}

	total := time.Duration(attempts) * interval
	logger.Warn().Str("status", status).Dur("wait", total).Msg("Daemon is not idle, waiting")
	g.Notifier.Notify(ctx, notify.Notification{
		Message: fmt.Sprintf("<b>Service status: %s</b>.\nWill wait for <b>%s</b> and exit if no luck.",
			status, formatWait(total)),
		Timeout:  notify.DefaultErrorTimeout,
		Severity: notify.Warn,
	})

	for attempt := 1; attempt <= attempts; attempt++ {
		status = g.Source.Status(ctx)
		if daemon.IsIdle(status) {
			logger.Info().Int("attempt", attempt).Msg("Daemon became idle")
			return nil
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, interval); err != nil {
			status = "interrupted"
			break
		}
	}

	logger.Error().Str("status", status).Int("attempts", attempts).Msg("Service is not available")
	g.Notifier.Notify(ctx, notify.Notification{
		Message:  UnavailableMessage,
		Timeout:  notify.DefaultErrorTimeout,
		Severity: notify.Error,
	})
	return errors.Newf(errors.ErrDaemonUnavailable, "service is not available (status: %s)", status).
		WithDetail("status", status)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// formatWait renders whole seconds the way the messages always have: "30s"
func formatWait(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	return fmt.Sprintf("%ds", int(d.Round(time.Second)/time.Second))
}
