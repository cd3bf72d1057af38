package executor

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/conflict"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/report"
	"github.com/rs/zerolog"
)

// Batch copies or moves every path into the stream directory and syncs once
type Batch struct {
	S *Session
}

type batchItem struct {
	path   string
	ticket conflict.RenameTicket
	err    error
}

// Run never returns an error for item failures. Even a batch where every
// item failed is reported and exits cleanly.
func (e *Batch) Run(ctx context.Context, action actions.Action, paths []string) (*report.Results, error) {
	if !action.IsFileStream() {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a batch action", action)
	}
	logger := logging.Component(e.S.Logger, "batch")
	done := logging.LogOperationStart(logger, action.String())
	defer done()

	e.S.ensureStream(logger)

	// Rename everything first so no item can take a name another item needs
	claims := conflict.Claims{}
	items := make([]batchItem, len(paths))
	for i, path := range paths {
		items[i] = e.prepare(action, path, claims)
	}

	results := &report.Results{}
	for _, item := range items {
		if item.err != nil {
			logger.Error().Err(item.err).Str("path", item.path).Msg("Item failed")
			results.Fail(item.path, item.err)
			continue
		}
		err := guard(logger, item.path, func() error {
			return e.transfer(logger, action, item.ticket.Path())
		})
		err = e.S.restore(logger, item.ticket, err)
		if err != nil {
			logger.Error().Err(err).Str("path", item.path).Msg("Item failed")
			results.Fail(item.path, err)
			continue
		}
		results.Succeed(item.path, "")
	}

	syncText := e.S.sync(ctx, logger)
	e.report(ctx, action, results, syncText)
	return results, nil
}

func (e *Batch) prepare(action actions.Action, path string, claims conflict.Claims) batchItem {
	if err := e.S.checkSkip(path); err != nil {
		return batchItem{path: path, err: err}
	}
	ref, err := e.S.reference(path)
	if err != nil {
		return batchItem{path: path, err: err}
	}
	ticket, err := e.S.Resolver.ResolveClaimed(ref, action, claims)
	if err != nil {
		return batchItem{path: path, err: err}
	}
	// A moved file is consumed, so its rename is never undone
	if action == actions.FileMoveToStream {
		ticket = ticket.Keep()
	}
	return batchItem{path: path, ticket: ticket}
}

// transfer tries the directory operation first and falls back to the file
// operation when src turns out not to be a directory
func (e *Batch) transfer(logger zerolog.Logger, action actions.Action, src string) error {
	dst := filepath.Join(e.S.Tree.StreamDir(), filepath.Base(src))
	treeOp, fileOp := filesystem.CopyTree, filesystem.CopyFile
	if action == actions.FileMoveToStream {
		treeOp, fileOp = filesystem.MoveTree, filesystem.MoveFile
	}

	err := treeOp(e.S.FS, src, dst)
	if filesystem.IsNotDir(err) {
		logger.Debug().Str("path", src).Msg("Not a directory, retrying as a file")
		err = fileOp(e.S.FS, src, dst)
	}
	if err != nil {
		return err
	}
	logger.Info().Str("from", src).Str("to", dst).Str("action", action.String()).Msg("Transferred into the stream")
	return nil
}

func (e *Batch) report(ctx context.Context, action actions.Action, results *report.Results, syncText string) {
	verb := "copied"
	if action == actions.FileMoveToStream {
		verb = "moved"
	}
	successes, failures := results.Successes(), results.Failures()

	switch results.Classify() {
	case report.OverallEmpty:
		return
	case report.OverallSuccess:
		if len(successes) == 1 {
			e.S.notify(ctx, notify.Info, 0, "<b>%s</b> is %s to the file stream.\n%s",
				successes[0].Name(), verb, syncText)
			return
		}
		e.S.notify(ctx, notify.Info, 0, "%d items are %s to the file stream:\n%s\n%s",
			len(successes), verb, report.Summarize(successes, e.S.successCap()), syncText)
	case report.OverallPartial:
		e.S.notify(ctx, notify.Warn, notify.DefaultErrorTimeout,
			"<b>%d of %d items</b> %s to the file stream:\n%s\n\n<b>%d failed</b>:\n%s\n%s",
			len(successes), results.Len(), verb, report.Summarize(successes, e.S.successCap()),
			len(failures), report.FailureDetail(failures, e.S.failureCap()), syncText)
	case report.OverallFailure:
		e.S.notify(ctx, notify.Error, 0, "<b>Nothing was %s to the file stream</b>:\n%s\n%s",
			verb, report.FailureDetail(failures, e.S.failureCap()), syncText)
	}
}
