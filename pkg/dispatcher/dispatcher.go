// Package dispatcher is the entry point for a context menu invocation. It
// classifies the action, waits for the daemon, filters the input paths and
// hands them to the executor for the action's strategy.
package dispatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/executor"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSkipPatterns cover partial downloads and office lock files
var DefaultSkipPatterns = []string{"**/*.part", "**/*.crdownload", "**/.~lock.*#"}

// UnknownActionTimeout keeps the unknown action notice up long enough to
// follow its link
const UnknownActionTimeout = notify.DefaultErrorTimeout

// Dispatcher runs invocations against one session
type Dispatcher struct {
	Session *executor.Session
	Filter  *Filter
	// ServiceMenuDir is linked from the unknown action notice
	ServiceMenuDir string
}

// New creates a Dispatcher that skips paths matching patterns
func New(s *executor.Session, patterns []string) (*Dispatcher, error) {
	filter, err := NewFilter(patterns)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{Session: s, Filter: filter}, nil
}

// Dispatch runs one invocation with the default skip patterns and returns
// the process exit status
func Dispatch(ctx context.Context, s *executor.Session, name string, paths []string) int {
	d, err := New(s, DefaultSkipPatterns)
	if err != nil {
		s.Logger.Error().Err(err).Msg("Invalid default skip patterns")
		return 1
	}
	return d.Dispatch(ctx, name, paths)
}

// Dispatch runs one invocation and returns the process exit status.
// It never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, paths []string) (code int) {
	s := d.Session
	logger := logging.Component(s.Logger, "dispatcher")
	logger.Info().Strs("paths", paths).Msgf("Start - Command: %s", name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Dispatch failed unexpectedly")
			s.Notifier.Notify(ctx, notify.Notification{
				Message:  fmt.Sprintf("Unexpected error: %v", r),
				Severity: notify.Error,
			})
			code = 1
		}
		logger.Info().Int("exit", code).Msg("Done")
	}()

	action, err := actions.Classify(name)
	if err != nil {
		d.unknown(ctx, name)
		return errors.ExitCode(err)
	}

	if s.Gate != nil {
		if err := s.Gate.Await(ctx); err != nil {
			return errors.ExitCode(err)
		}
	}

	exec, err := executor.For(s, action)
	if err != nil {
		logger.Error().Err(err).Msg("No executor for action")
		return errors.ExitCode(err)
	}

	if s.Skip == nil && d.Filter != nil {
		s.Skip = d.Filter.Skipped
	}

	results, err := exec.Run(ctx, action, paths)
	if results != nil {
		logger.Info().
			Str("action", action.String()).
			Str("strategy", action.Strategy().String()).
			Int("succeeded", len(results.Successes())).
			Int("failed", len(results.Failures())).
			Msg("Action finished")
	}
	if err != nil {
		logger.Error().Err(err).Msg("Action failed")
	}
	return errors.ExitCode(err)
}

func (d *Dispatcher) unknown(ctx context.Context, name string) {
	dir := d.ServiceMenuDir
	if dir == "" {
		dir = DefaultServiceMenuDir()
	}
	d.Session.Logger.Warn().Str("action", name).Msg("Unknown action")
	d.Session.Notifier.Notify(ctx, notify.Notification{
		Message: fmt.Sprintf("<b>Unknown action %s</b>.\n\nCheck <a href='file://%s'>%s</a> for available actions.",
			name, dir, dir),
		Timeout:  UnknownActionTimeout,
		Severity: notify.Info,
	})
}

// DefaultServiceMenuDir is where KDE looks for service menus
func DefaultServiceMenuDir() string {
	return filepath.Join(xdg.DataHome, "kservices5", "ServiceMenus")
}

// Filter matches input paths against doublestar patterns
type Filter struct {
	patterns []string
}

// NewFilter validates patterns and returns a Filter
func NewFilter(patterns []string) (*Filter, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrConfigValid, "invalid skip pattern %q", p).WithDetail("pattern", p)
		}
	}
	return &Filter{patterns: append([]string(nil), patterns...)}, nil
}

// Skipped reports whether path matches any pattern. Patterns are matched
// against the absolute slash separated path without its leading slash.
func (f *Filter) Skipped(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	target := strings.TrimPrefix(filepath.ToSlash(abs), "/")
	for _, pattern := range f.patterns {
		if matched, _ := doublestar.Match(strings.TrimPrefix(pattern, "/"), target); matched {
			return true
		}
	}
	return false
}

// Patterns returns the configured patterns
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}
