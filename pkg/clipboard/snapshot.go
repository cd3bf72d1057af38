package clipboard

import (
	"context"

	"github.com/rs/zerolog"
)

// Snapshot is the clipboard text as it was before a batch of writes.
// Take it once, then either write the final content or Restore.
type Snapshot struct {
	text  string
	taken bool
}

// Take reads the current clipboard text. A failed read gives a snapshot
// that restores nothing.
func Take(ctx context.Context, c Clipboard, logger zerolog.Logger) Snapshot {
	text, err := c.Text(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Cannot snapshot clipboard")
		return Snapshot{}
	}
	return Snapshot{text: text, taken: true}
}

// Text returns the saved content
func (s Snapshot) Text() string { return s.text }

// Restore puts the saved text back when the clipboard no longer holds it.
// Failures are logged only.
func (s Snapshot) Restore(ctx context.Context, c Clipboard, logger zerolog.Logger) {
	if !s.taken {
		return
	}
	current, err := c.Text(ctx)
	if err == nil && current == s.text {
		return
	}
	if err := c.SetText(ctx, s.text); err != nil {
		logger.Warn().Err(err).Msg("Cannot restore clipboard")
	}
}
