package notify_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"testing"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/execution"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	name      string
	available bool
	err       error
	shown     []notify.Notification
	icons     []string
}

func (b *recordingBackend) Name() string    { return b.name }
func (b *recordingBackend) Available() bool { return b.available }
func (b *recordingBackend) Show(_ context.Context, _, icon string, n notify.Notification) error {
	b.shown = append(b.shown, n)
	b.icons = append(b.icons, icon)
	return b.err
}

func fixedClock(start time.Time, elapsed time.Duration) func() time.Time {
	return func() time.Time { return start.Add(elapsed) }
}

func TestCenter_Format(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	center := notify.NewCenter(zerolog.Nop(), notify.Options{
		LogFile: "/home/u/Disk/yaMedia.log",
		Start:   start,
		Now:     fixedClock(start, 3*time.Second),
	})

	assert.Equal(t, "<b>done</b>\nTime: 3s",
		center.Format(notify.Notification{Message: "<b>done</b>", Severity: notify.Info}))
	assert.Equal(t, "failed\nSee <a href='file:///home/u/Disk/yaMedia.log'>log</a> for details\nTime: 3s",
		center.Format(notify.Notification{Message: "failed", Severity: notify.Error}))
}

func TestCenter_FallsThroughBackends(t *testing.T) {
	unavailable := &recordingBackend{name: "a", available: false}
	failing := &recordingBackend{name: "b", available: true, err: stderrors.New("no display")}
	working := &recordingBackend{name: "c", available: true}
	never := &recordingBackend{name: "d", available: true}

	center := notify.NewCenter(zerolog.Nop(), notify.Options{
		Icons: map[notify.Severity]string{notify.Warn: "/icons/warn.png"},
	}, unavailable, failing, working, never)

	center.Notify(context.Background(), notify.Notification{Message: "waiting", Severity: notify.Warn})

	assert.Empty(t, unavailable.shown)
	assert.Len(t, failing.shown, 1)
	require.Len(t, working.shown, 1)
	assert.Empty(t, never.shown)
	assert.Contains(t, working.shown[0].Message, "waiting\nTime: ")
	assert.Equal(t, "/icons/warn.png", working.icons[0])
	assert.Equal(t, notify.DefaultInfoTimeout, working.shown[0].Timeout)
}

func TestCenter_NeverFails(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)
	failing := &recordingBackend{name: "x", available: true, err: stderrors.New("boom")}

	center := notify.NewCenter(logger, notify.Options{}, failing)
	center.Notify(context.Background(), notify.Notification{Message: "<b>oops</b>", Severity: notify.Error})

	assert.Equal(t, notify.DefaultErrorTimeout, failing.shown[0].Timeout)
	assert.Contains(t, logBuf.String(), "NOTIFICATION")
	assert.Contains(t, logBuf.String(), `"level":"error"`)
	assert.NotContains(t, logBuf.String(), "<b>")
}

func TestKDialog(t *testing.T) {
	runner := &testutil.FakeRunner{}
	backend := &notify.KDialog{Runner: runner}
	require.True(t, backend.Available())

	err := backend.Show(context.Background(), "Yandex.Disk", "/i.png", notify.Notification{
		Message: "hello", Timeout: 15 * time.Second,
	})
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "kdialog --icon /i.png --title Yandex.Disk --passivepopup hello 15", testutil.CommandLine(calls[0]))
}

func TestNotifySend(t *testing.T) {
	runner := &testutil.FakeRunner{}
	backend := &notify.NotifySend{Runner: runner}

	err := backend.Show(context.Background(), "Yandex.Disk", "", notify.Notification{
		Message: "bad", Timeout: 15 * time.Second, Severity: notify.Error,
	})
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t,
		"notify-send --app-name Yandex.Disk --expire-time 15000 --urgency critical Yandex.Disk bad",
		testutil.CommandLine(calls[0]))
}

func TestBackendAvailability(t *testing.T) {
	runner := &testutil.FakeRunner{LookPathFunc: func(string) (string, error) { return "", exec.ErrNotFound }}

	assert.False(t, (&notify.KDialog{Runner: runner}).Available())
	assert.False(t, (&notify.NotifySend{Runner: runner}).Available())
	assert.False(t, (&notify.Console{}).Available())
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	backend := &notify.Console{Out: &out}

	err := backend.Show(context.Background(), "Yandex.Disk", "", notify.Notification{
		Message: "<b>a.txt</b> is copied\nTime: 0s", Severity: notify.Info,
	})
	require.NoError(t, err)
	assert.Equal(t, "[info] Yandex.Disk\n  a.txt is copied\n  Time: 0s\n", out.String())
}

func TestSelect(t *testing.T) {
	runner := &testutil.FakeRunner{}
	names := func(backends []notify.Backend) []string {
		var out []string
		for _, b := range backends {
			out = append(out, b.Name())
		}
		return out
	}

	t.Setenv("XDG_CURRENT_DESKTOP", "KDE")
	backends, err := notify.Select("auto", runner, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"kdialog", "notify-send", "console"}, names(backends))

	t.Setenv("XDG_CURRENT_DESKTOP", "GNOME")
	backends, err = notify.Select("", runner, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"notify-send", "kdialog", "console"}, names(backends))

	backends, err = notify.Select("console", runner, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"console"}, names(backends))

	_, err = notify.Select("dbus", runner, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDefaultIcons(t *testing.T) {
	fsys := filesystem.NewMemory()

	icons := notify.DefaultIcons(fsys, map[string]string{"error": "/custom/error.png"})
	assert.Equal(t, "/custom/error.png", icons[notify.Error])
	assert.Equal(t, "/usr/share/yd-tools/icons/yd-128.png", icons[notify.Info])
	assert.Equal(t, "/usr/share/yd-tools/icons/yd-128_g.png", icons[notify.Warn])
}

var _ execution.Runner = (*testutil.FakeRunner)(nil)
