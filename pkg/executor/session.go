package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/clipboard"
	"github.com/arthur-debert/ydmenu/pkg/conflict"
	"github.com/arthur-debert/ydmenu/pkg/daemon"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/paths"
	"github.com/arthur-debert/ydmenu/pkg/report"
	"github.com/rs/zerolog"
)

// PublishTimeout keeps link notifications on screen long enough to click
const PublishTimeout = 15 * time.Second

// Daemon is the part of the daemon client the executors use
type Daemon interface {
	Publish(ctx context.Context, path string) (daemon.Link, error)
	Unpublish(ctx context.Context, path string) (string, error)
	Sync(ctx context.Context) (string, error)
}

// Awaiter blocks until the daemon is ready
type Awaiter interface {
	Await(ctx context.Context) error
}

// Session holds everything one dispatch needs. It is built once per
// invocation and passed explicitly.
type Session struct {
	Logger    zerolog.Logger
	Tree      *paths.Tree
	FS        filesystem.FS
	Daemon    Daemon
	Notifier  notify.Notifier
	Clipboard clipboard.Clipboard
	Gate      Awaiter
	Resolver  *conflict.Resolver

	SuccessCap int
	FailureCap int

	// Skip reports input paths that must not be processed
	Skip func(path string) bool

	// Now stamps clipboard notes. Defaults to time.Now.
	Now func() time.Time
}

// Executor runs one action over a list of paths
type Executor interface {
	Run(ctx context.Context, action actions.Action, paths []string) (*report.Results, error)
}

// For returns the executor for the action's strategy
func For(s *Session, action actions.Action) (Executor, error) {
	switch action.Strategy() {
	case actions.StrategyOneByOne:
		return &OneByOne{S: s}, nil
	case actions.StrategyBatch:
		return &Batch{S: s}, nil
	case actions.StrategyClipboardOnly:
		return &ClipboardOnly{S: s}, nil
	default:
		return nil, errors.Newf(errors.ErrUnknownCommand, "unknown action %s", action).
			WithDetail("action", action.String())
	}
}

func (s *Session) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Session) notify(ctx context.Context, severity notify.Severity, timeout time.Duration, format string, args ...interface{}) {
	s.Notifier.Notify(ctx, notify.Notification{
		Message:  fmt.Sprintf(format, args...),
		Timeout:  timeout,
		Severity: severity,
	})
}

// reference resolves path and checks that something is there
func (s *Session) reference(path string) (paths.FileReference, error) {
	ref, err := s.Tree.Reference(path)
	if err != nil {
		return ref, err
	}
	if !filesystem.Exists(s.FS, ref.Path) {
		return ref, errors.Newf(errors.ErrFileNotFound, "%s does not exist", ref.Name).WithDetail("path", ref.Path)
	}
	return ref, nil
}

func (s *Session) checkSkip(path string) error {
	if s.Skip != nil && s.Skip(path) {
		return errors.New(errors.ErrSkipped, "skipped by pattern").WithDetail("path", path)
	}
	return nil
}

// restore undoes a rename after the item ran. A failed restore fails an
// otherwise successful item so the user learns the file kept its new name.
func (s *Session) restore(logger zerolog.Logger, ticket conflict.RenameTicket, err error) error {
	rerr := ticket.Restore()
	if rerr == nil {
		return err
	}
	logger.Warn().Err(rerr).Str("original", ticket.Original).Str("renamed", ticket.Renamed).Msg("Cannot restore renamed file")
	if err == nil {
		return rerr
	}
	return err
}

func (s *Session) ensureStream(logger zerolog.Logger) {
	if err := s.FS.MkdirAll(s.Tree.StreamDir(), 0755); err != nil {
		logger.Warn().Err(err).Str("dir", s.Tree.StreamDir()).Msg("Cannot create stream directory")
	}
}

// sync asks the daemon to sync and returns the text shown to the user
func (s *Session) sync(ctx context.Context, logger zerolog.Logger) string {
	out, err := s.Daemon.Sync(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Sync failed")
		return "Sync error: " + errors.Describe(err)
	}
	return out
}

// writeLinks puts every link on the clipboard in one write, or restores the
// snapshot when there is nothing to write or the write fails
func (s *Session) writeLinks(ctx context.Context, logger zerolog.Logger, snap clipboard.Snapshot, links []string) {
	if len(links) == 0 {
		snap.Restore(ctx, s.Clipboard, logger)
		return
	}
	if err := s.Clipboard.SetText(ctx, strings.Join(links, "\n")); err != nil {
		logger.Warn().Err(err).Int("links", len(links)).Msg("Cannot copy links to the clipboard")
		snap.Restore(ctx, s.Clipboard, logger)
	}
}

func (s *Session) successCap() int {
	if s.SuccessCap > 0 {
		return s.SuccessCap
	}
	return report.DefaultSuccessCap
}

func (s *Session) failureCap() int {
	if s.FailureCap > 0 {
		return s.FailureCap
	}
	return report.DefaultFailureCap
}

// guard runs one item and turns a panic into an item failure
func guard(logger zerolog.Logger, path string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("path", path).Interface("panic", r).Msg("Item failed unexpectedly")
			err = errors.Newf(errors.ErrItemFailed, "unexpected error: %v", r).WithDetail("path", path)
		}
	}()
	return fn()
}
