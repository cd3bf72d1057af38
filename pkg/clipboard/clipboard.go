// Package clipboard reads and writes the desktop clipboard through whichever
// helper is installed, and saves clipboard content as note files.
package clipboard

import (
	"context"
	"os"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/execution"
	"github.com/rs/zerolog"

	sysclip "github.com/atotto/clipboard"
)

// Backend names accepted by Select
const (
	BackendXClip   = "xclip"
	BackendWayland = "wl-clipboard"
	BackendSystem  = "system"
)

// Clipboard is the desktop clipboard
type Clipboard interface {
	Name() string
	Available() bool
	Text(ctx context.Context) (string, error)
	SetText(ctx context.Context, text string) error
	// HasImage returns the mime type of image content, if any
	HasImage(ctx context.Context) (string, bool)
	Image(ctx context.Context, mime string) ([]byte, error)
}

// XClip uses xclip on X11
type XClip struct {
	Runner execution.Runner
}

func (x *XClip) Name() string { return BackendXClip }

func (x *XClip) Available() bool {
	_, err := x.Runner.LookPath("xclip")
	return err == nil
}

func (x *XClip) Text(ctx context.Context) (string, error) {
	result, err := x.Runner.Run(ctx, execution.Command{
		Name: "xclip",
		Args: []string{"-selection", "clipboard", "-o"},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrClipboard, "cannot read clipboard")
	}
	return string(result.Stdout), nil
}

func (x *XClip) SetText(ctx context.Context, text string) error {
	_, err := x.Runner.Run(ctx, execution.Command{
		Name:          "xclip",
		Args:          []string{"-selection", "clipboard"},
		Stdin:         []byte(text),
		DiscardOutput: true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrClipboard, "cannot write clipboard")
	}
	return nil
}

func (x *XClip) HasImage(ctx context.Context) (string, bool) {
	result, err := x.Runner.Run(ctx, execution.Command{
		Name: "xclip",
		Args: []string{"-selection", "clipboard", "-t", "TARGETS", "-o"},
	})
	if err != nil {
		return "", false
	}
	return firstImageType(string(result.Stdout))
}

func (x *XClip) Image(ctx context.Context, mime string) ([]byte, error) {
	result, err := x.Runner.Run(ctx, execution.Command{
		Name: "xclip",
		Args: []string{"-selection", "clipboard", "-t", mime, "-o"},
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrClipboard, "cannot read %s from clipboard", mime)
	}
	return result.Stdout, nil
}

// WLClipboard uses wl-paste and wl-copy on Wayland
type WLClipboard struct {
	Runner execution.Runner
}

func (w *WLClipboard) Name() string { return BackendWayland }

func (w *WLClipboard) Available() bool {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return false
	}
	_, err := w.Runner.LookPath("wl-paste")
	return err == nil
}

func (w *WLClipboard) Text(ctx context.Context) (string, error) {
	result, err := w.Runner.Run(ctx, execution.Command{
		Name: "wl-paste",
		Args: []string{"--no-newline"},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrClipboard, "cannot read clipboard")
	}
	return string(result.Stdout), nil
}

func (w *WLClipboard) SetText(ctx context.Context, text string) error {
	_, err := w.Runner.Run(ctx, execution.Command{
		Name:          "wl-copy",
		Stdin:         []byte(text),
		DiscardOutput: true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrClipboard, "cannot write clipboard")
	}
	return nil
}

func (w *WLClipboard) HasImage(ctx context.Context) (string, bool) {
	result, err := w.Runner.Run(ctx, execution.Command{
		Name: "wl-paste",
		Args: []string{"--list-types"},
	})
	if err != nil {
		return "", false
	}
	return firstImageType(string(result.Stdout))
}

func (w *WLClipboard) Image(ctx context.Context, mime string) ([]byte, error) {
	result, err := w.Runner.Run(ctx, execution.Command{
		Name: "wl-paste",
		Args: []string{"--type", mime},
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrClipboard, "cannot read %s from clipboard", mime)
	}
	return result.Stdout, nil
}

// System uses github.com/atotto/clipboard. It handles text only.
type System struct{}

func (System) Name() string { return BackendSystem }

func (System) Available() bool { return !sysclip.Unsupported }

func (System) Text(context.Context) (string, error) {
	text, err := sysclip.ReadAll()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrClipboard, "cannot read clipboard")
	}
	return text, nil
}

func (System) SetText(_ context.Context, text string) error {
	if err := sysclip.WriteAll(text); err != nil {
		return errors.Wrap(err, errors.ErrClipboard, "cannot write clipboard")
	}
	return nil
}

func (System) HasImage(context.Context) (string, bool) { return "", false }

func (System) Image(context.Context, string) ([]byte, error) {
	return nil, errors.New(errors.ErrClipboard, "image content is not supported")
}

// Fallback tries each available backend in order until one succeeds
type Fallback struct {
	Backends []Clipboard
	Logger   zerolog.Logger
}

func (f *Fallback) Name() string {
	names := make([]string, 0, len(f.Backends))
	for _, b := range f.Backends {
		names = append(names, b.Name())
	}
	return strings.Join(names, ",")
}

func (f *Fallback) Available() bool {
	for _, b := range f.Backends {
		if b.Available() {
			return true
		}
	}
	return false
}

func (f *Fallback) Text(ctx context.Context) (string, error) {
	var lastErr error = errors.New(errors.ErrClipboard, "no clipboard backend available")
	for _, b := range f.available() {
		text, err := b.Text(ctx)
		if err == nil {
			return text, nil
		}
		f.Logger.Debug().Err(err).Str("backend", b.Name()).Msg("Clipboard read failed")
		lastErr = err
	}
	return "", lastErr
}

func (f *Fallback) SetText(ctx context.Context, text string) error {
	var lastErr error = errors.New(errors.ErrClipboard, "no clipboard backend available")
	for _, b := range f.available() {
		err := b.SetText(ctx, text)
		if err == nil {
			return nil
		}
		f.Logger.Debug().Err(err).Str("backend", b.Name()).Msg("Clipboard write failed")
		lastErr = err
	}
	return lastErr
}

func (f *Fallback) HasImage(ctx context.Context) (string, bool) {
	for _, b := range f.available() {
		if mime, ok := b.HasImage(ctx); ok {
			return mime, true
		}
	}
	return "", false
}

func (f *Fallback) Image(ctx context.Context, mime string) ([]byte, error) {
	var lastErr error = errors.New(errors.ErrClipboard, "no clipboard backend available")
	for _, b := range f.available() {
		data, err := b.Image(ctx, mime)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (f *Fallback) available() []Clipboard {
	var out []Clipboard
	for _, b := range f.Backends {
		if b.Available() {
			out = append(out, b)
		}
	}
	return out
}

// Select builds a Fallback from backend names, in order.
// An empty list means wl-clipboard, xclip, then the system clipboard.
func Select(names []string, runner execution.Runner, logger zerolog.Logger) (*Fallback, error) {
	if len(names) == 0 {
		names = []string{BackendWayland, BackendXClip, BackendSystem}
	}
	f := &Fallback{Logger: logger.With().Str("component", "clipboard").Logger()}
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case BackendXClip:
			f.Backends = append(f.Backends, &XClip{Runner: runner})
		case BackendWayland, "wayland":
			f.Backends = append(f.Backends, &WLClipboard{Runner: runner})
		case BackendSystem:
			f.Backends = append(f.Backends, System{})
		default:
			return nil, errors.Newf(errors.ErrConfigValid, "unknown clipboard backend: %s", name)
		}
	}
	return f, nil
}

func firstImageType(targets string) (string, bool) {
	for _, line := range strings.Split(targets, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "image") {
			return line, true
		}
	}
	return "", false
}
