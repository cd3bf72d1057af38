package ydmenu

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/spf13/cobra"
)

// runDispatch handles both "ydmenu <action>" and "ydmenu run <action>"
func (a *App) runDispatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_ = cmd.Help()
		return errors.New(errors.ErrInvalidInput, MsgErrNoAction)
	}
	start := a.deps.Now()

	env, err := a.flags.environment(a.deps)
	if err != nil {
		err = fmt.Errorf(MsgErrLoadConfig, err)
		// The menu click has no terminal, so the error is also shown on the desktop
		fallbackNotifier(a.deps).Notify(cmd.Context(), notify.Notification{
			Severity: notify.Error,
			Message:  fmt.Sprintf(MsgNotifyConfigFailed, err.Error()),
		})
		return err
	}
	defer func() { _ = env.close() }()

	done := logging.LogOperationStart(env.logger, args[0])
	defer done()

	d, err := env.dispatcher(a.deps, start)
	if err != nil {
		return err
	}

	a.code = d.Dispatch(cmd.Context(), args[0], absolutePaths(args[1:]))
	return nil
}

// absolutePaths resolves paths given relative to the working directory.
// Paths that cannot be resolved are passed through unchanged.
func absolutePaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		out[i] = abs
	}
	return out
}
