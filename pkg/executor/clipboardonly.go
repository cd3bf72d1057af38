package executor

import (
	"context"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/clipboard"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/report"
)

// FlushTimeout is how long the "clipboard flushed" notice stays up when it
// is the only notice of the run
const FlushTimeout = 10 * time.Second

// ClipboardOnly saves the clipboard into the stream. The publish variants
// then publish the saved note and copy its link. Input paths are ignored.
type ClipboardOnly struct {
	S *Session
}

// Run returns an error when the clipboard is empty or unreadable, or when
// publishing the note fails.
func (e *ClipboardOnly) Run(ctx context.Context, action actions.Action, _ []string) (*report.Results, error) {
	logger := logging.Component(e.S.Logger, "clipboard")
	done := logging.LogOperationStart(logger, action.String())
	defer done()

	results := &report.Results{}
	e.S.ensureStream(logger)

	path, err := clipboard.SaveToStream(ctx, e.S.Clipboard, e.S.FS, e.S.Tree.StreamDir(), e.S.now())
	if err != nil {
		logger.Error().Err(err).Msg("Cannot save clipboard")
		e.S.notify(ctx, notify.Error, 0, "Save clipboard error: %s", errors.Describe(err))
		results.Fail(e.S.Tree.StreamDir(), err)
		return results, err
	}
	logger.Info().Str("path", path).Msg("Clipboard saved")

	syncText := e.S.sync(ctx, logger)
	timeout := FlushTimeout
	if action.PublishesClipboard() {
		timeout = notify.DefaultInfoTimeout
	}
	e.S.notify(ctx, notify.Info, timeout, "Clipboard flushed to stream:\n<b>%s</b>\n%s", path, syncText)

	if !action.PublishesClipboard() {
		results.Succeed(path, "")
		return results, nil
	}

	// The sync just started, so wait for it before publishing
	if e.S.Gate != nil {
		if err := e.S.Gate.Await(ctx); err != nil {
			results.Fail(path, err)
			return results, err
		}
	}

	link, err := e.S.Daemon.Publish(ctx, path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Cannot publish clipboard note")
		e.S.notify(ctx, notify.Error, 0, "<b>%s</b>", errors.Describe(err))
		results.Fail(path, err)
		return results, err
	}

	url := link.URL
	if action.UsesComDomain() {
		url = link.ComURL()
	}
	if err := e.S.Clipboard.SetText(ctx, url); err != nil {
		logger.Warn().Err(err).Msg("Cannot copy link to the clipboard")
	}
	e.S.notify(ctx, notify.Info, PublishTimeout, "Public link to the %s is copied to the clipboard.\n%s\n%s",
		path, anchor(link.ComURL()), anchor(link.URL))

	results.Succeed(path, url)
	return results, nil
}

func anchor(url string) string {
	return "<a href='" + url + "'><b>" + url + "</b></a>"
}
