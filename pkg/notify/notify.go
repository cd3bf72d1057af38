// Package notify shows desktop notifications. Notifications are fire and
// forget: a failing backend falls through to the next one and finally to
// the log, never to the caller.
package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/ui"
	"github.com/rs/zerolog"
)

// Severity of a notification
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Default display times
const (
	DefaultTitle        = "Yandex.Disk"
	DefaultInfoTimeout  = 5 * time.Second
	DefaultErrorTimeout = 15 * time.Second
)

// Notification is one message for the user. Message may contain <b>, <i>
// and <a href> markup.
type Notification struct {
	Message  string
	Timeout  time.Duration
	Severity Severity
}

// Notifier shows notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Backend is one way of displaying a notification
type Backend interface {
	Name() string
	Available() bool
	Show(ctx context.Context, title, icon string, n Notification) error
}

// Options configures a Center
type Options struct {
	Title string
	Icons map[Severity]string

	// LogFile is linked from error notifications
	LogFile string

	// Timeouts used when a notification does not set one
	InfoTimeout  time.Duration
	ErrorTimeout time.Duration

	// Start is the dispatch start, used for the elapsed time suffix
	Start time.Time
	Now   func() time.Time
}

// Center formats notifications and hands them to the first backend that
// accepts them
type Center struct {
	backends []Backend
	opts     Options
	logger   zerolog.Logger
}

// NewCenter creates a notification center over backends, tried in order
func NewCenter(logger zerolog.Logger, opts Options, backends ...Backend) *Center {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.InfoTimeout <= 0 {
		opts.InfoTimeout = DefaultInfoTimeout
	}
	if opts.ErrorTimeout <= 0 {
		opts.ErrorTimeout = DefaultErrorTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Start.IsZero() {
		opts.Start = opts.Now()
	}
	return &Center{
		backends: backends,
		opts:     opts,
		logger:   logging.Component(logger, "notify"),
	}
}

// Format returns the text shown for n: the message, a log link for errors
// and the elapsed time since the dispatch started.
func (c *Center) Format(n Notification) string {
	message := n.Message
	if n.Severity == Error && c.opts.LogFile != "" {
		message += fmt.Sprintf("\nSee <a href='file://%s'>log</a> for details", c.opts.LogFile)
	}
	elapsed := int(c.opts.Now().Sub(c.opts.Start).Seconds())
	return fmt.Sprintf("%s\nTime: %ds", message, elapsed)
}

// Notify shows n. It never fails; problems are logged.
func (c *Center) Notify(ctx context.Context, n Notification) {
	if n.Timeout <= 0 {
		n.Timeout = c.opts.InfoTimeout
		if n.Severity == Error {
			n.Timeout = c.opts.ErrorTimeout
		}
	}

	c.log(n)

	shown := n
	shown.Message = c.Format(n)
	icon := c.opts.Icons[n.Severity]

	for _, backend := range c.backends {
		if !backend.Available() {
			continue
		}
		err := backend.Show(ctx, c.opts.Title, icon, shown)
		if err == nil {
			return
		}
		c.logger.Debug().Err(err).Str("backend", backend.Name()).Msg("Notification backend failed")
	}

	c.logger.Warn().Str("message", ui.StripMarkup(shown.Message)).Msg("NOTIFICATION")
}

func (c *Center) log(n Notification) {
	var event *zerolog.Event
	switch n.Severity {
	case Error:
		event = c.logger.Error()
	case Warn:
		event = c.logger.Warn()
	default:
		event = c.logger.Info()
	}
	event.Str("severity", n.Severity.String()).Msg(ui.StripMarkup(n.Message))
}

// Icon file names, relative to an XDG data directory
var iconFiles = map[Severity]string{
	Info:  "yd-tools/icons/yd-128.png",
	Warn:  "yd-tools/icons/yd-128_g.png",
	Error: "yd-tools/icons/light/yd-ind-error.png",
}

// DefaultIcons finds the icon set under the XDG data directories, falling
// back to the system install location. Entries in overrides win.
func DefaultIcons(fsys filesystem.FS, overrides map[string]string) map[Severity]string {
	icons := make(map[Severity]string, len(iconFiles))
	for severity, rel := range iconFiles {
		if override := overrides[severity.String()]; override != "" {
			icons[severity] = override
			continue
		}
		icons[severity] = findIcon(fsys, rel)
	}
	return icons
}

func findIcon(fsys filesystem.FS, rel string) string {
	dirs := append([]string{xdg.DataHome}, xdg.DataDirs...)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, rel)
		if filesystem.Exists(fsys, candidate) {
			return candidate
		}
	}
	return filepath.Join("/usr/share", rel)
}
