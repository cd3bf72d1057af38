package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/clipboard"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/naming"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/report"
	"github.com/rs/zerolog"
)

// OneByOne runs publish and unpublish actions path by path
type OneByOne struct {
	S *Session
}

// Run processes every path and reports once. It returns an ITEM_FAILED
// error only when every path failed.
func (e *OneByOne) Run(ctx context.Context, action actions.Action, paths []string) (*report.Results, error) {
	logger := logging.Component(e.S.Logger, "one-by-one")
	done := logging.LogOperationStart(logger, action.String())
	defer done()

	results := &report.Results{}
	var (
		links []string
		snap  clipboard.Snapshot
	)
	if action.IsPublish() {
		snap = clipboard.Take(ctx, e.S.Clipboard, logger)
	}

	for _, path := range paths {
		var message, link string
		err := guard(logger, path, func() error {
			if err := e.S.checkSkip(path); err != nil {
				return err
			}
			var err error
			switch {
			case action.IsPublish():
				link, err = e.publish(ctx, logger, action, path)
				message = fmt.Sprintf("<a href='%s'>%s</a>", link, link)
			case action == actions.UnpublishAllCopy:
				message, err = e.unpublishCopies(ctx, path)
			case action == actions.UnpublishFromYandex:
				message, err = e.unpublish(ctx, path)
			default:
				err = errors.Newf(errors.ErrInvalidInput, "%s is not a one-by-one action", action)
			}
			return err
		})
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Item failed")
			results.Fail(path, err)
			continue
		}
		logger.Info().Str("path", path).Msg("Item done")
		results.Succeed(path, message)
		if link != "" {
			links = append(links, link)
		}
	}

	if action.IsPublish() {
		e.S.writeLinks(ctx, logger, snap, links)
	}
	return results, e.report(ctx, action, results)
}

func (e *OneByOne) publish(ctx context.Context, logger zerolog.Logger, action actions.Action, path string) (url string, err error) {
	ref, err := e.S.reference(path)
	if err != nil {
		return "", err
	}
	ticket, err := e.S.Resolver.Resolve(ref, action)
	if err != nil {
		return "", err
	}
	defer func() { err = e.S.restore(logger, ticket, err) }()

	link, err := e.S.Daemon.Publish(ctx, ticket.Path())
	if err != nil {
		return "", err
	}
	if ref.Outside {
		dst := filepath.Join(e.S.Tree.StreamDir(), filepath.Base(ticket.Path()))
		if err := filesystem.Move(e.S.FS, ticket.Path(), dst); err != nil {
			return "", errors.Wrapf(err, errors.ErrFileMove, "published %s but cannot move it to the stream", ref.Name).
				WithDetail("path", ticket.Path())
		}
		logger.Debug().Str("from", ticket.Path()).Str("to", dst).Msg("Moved published file into the stream")
	}

	if action.UsesComDomain() {
		return link.ComURL(), nil
	}
	return link.URL, nil
}

// unpublish removes the link of one file. Files outside the synced tree
// were moved into the stream when published, so the stream copy is the target.
func (e *OneByOne) unpublish(ctx context.Context, path string) (string, error) {
	ref, err := e.S.Tree.Reference(path)
	if err != nil {
		return "", err
	}
	target := ref.Path
	if ref.Outside {
		target = filepath.Join(e.S.Tree.StreamDir(), ref.Name)
	}
	out, err := e.S.Daemon.Unpublish(ctx, target)
	if err != nil {
		return "", err
	}
	return "- " + out, nil
}

// unpublishCopies removes the links of a file and its numbered copies
func (e *OneByOne) unpublishCopies(ctx context.Context, path string) (string, error) {
	ref, err := e.S.Tree.Reference(path)
	if err != nil {
		return "", err
	}
	dir := ref.Dir
	if ref.Outside {
		dir = e.S.Tree.StreamDir()
	}

	variants := naming.Variants(e.S.FS, dir, ref.Name)
	if len(variants) == 0 {
		return "", errors.Newf(errors.ErrFileNotFound, "%s does not exist in %s", ref.Name, dir).
			WithDetail("path", filepath.Join(dir, ref.Name))
	}

	var firstErr error
	failed := 0
	for _, name := range variants {
		if _, err := e.S.Daemon.Unpublish(ctx, filepath.Join(dir, name)); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		return "", errors.Wrapf(firstErr, errors.ErrUnpublish, "%d of %d copies failed", failed, len(variants))
	}
	if len(variants) == 1 {
		return "- link removed", nil
	}
	return fmt.Sprintf("- %d links removed", len(variants)), nil
}

func (e *OneByOne) report(ctx context.Context, action actions.Action, results *report.Results) error {
	successes, failures := results.Successes(), results.Failures()

	switch results.Classify() {
	case report.OverallEmpty:
		return nil
	case report.OverallFailure:
		e.S.notify(ctx, notify.Error, 0, "<b>%s failed</b>:\n%s",
			failureVerb(action), report.FailureDetail(failures, e.S.failureCap()))
		return results.Err()
	}

	timeout := time.Duration(0)
	if action.IsPublish() {
		timeout = PublishTimeout
	}
	e.S.notify(ctx, notify.Info, timeout, "%s\n%s",
		successHeading(action, len(successes)), report.Summarize(successes, e.S.successCap()))

	if len(failures) > 0 {
		e.S.notify(ctx, notify.Warn, notify.DefaultErrorTimeout, "<b>%d of %d items failed</b>:\n%s",
			len(failures), results.Len(), report.FailureDetail(failures, e.S.failureCap()))
	}
	return nil
}

func successHeading(action actions.Action, count int) string {
	switch {
	case action.IsPublish() && count == 1:
		return "Public link is copied to the clipboard:"
	case action.IsPublish():
		return "Public links are copied to the clipboard:"
	case action == actions.UnpublishAllCopy:
		return "Files unpublished:"
	default:
		return "Unpublished:"
	}
}

func failureVerb(action actions.Action) string {
	if action.IsPublish() {
		return "Publish"
	}
	return "Unpublish"
}
