package dispatcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/conflict"
	"github.com/arthur-debert/ydmenu/pkg/daemon"
	"github.com/arthur-debert/ydmenu/pkg/dispatcher"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/executor"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/paths"
	"github.com/arthur-debert/ydmenu/pkg/readiness"
	"github.com/arthur-debert/ydmenu/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	base    string
	tree    *paths.Tree
	fs      filesystem.FS
	daemon  *testutil.FakeDaemon
	notes   *testutil.Notifier
	clip    *testutil.Clipboard
	session *executor.Session
}

func setup(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	tree, err := paths.New(filepath.Join(base, "disk"))
	require.NoError(t, err)
	fsys := filesystem.NewOS()
	require.NoError(t, fsys.MkdirAll(tree.StreamDir(), 0755))

	fake := testutil.NewFakeDaemon()
	client := daemon.NewClient(fake, daemon.Options{}, zerolog.Nop())
	notes := &testutil.Notifier{}
	clip := testutil.NewClipboard("")

	return &fixture{
		base:   base,
		tree:   tree,
		fs:     fsys,
		daemon: fake,
		notes:  notes,
		clip:   clip,
		session: &executor.Session{
			Logger:    zerolog.Nop(),
			Tree:      tree,
			FS:        fsys,
			Daemon:    client,
			Notifier:  notes,
			Clipboard: clip,
			Gate: &readiness.Gate{
				Source:      client,
				Notifier:    notes,
				MaxAttempts: 3,
				Sleep:       func(context.Context, time.Duration) error { return nil },
				Logger:      zerolog.Nop(),
			},
			Resolver: conflict.NewResolver(fsys, tree, zerolog.Nop()),
		},
	}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func listing(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	require.NoError(t, filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		out = append(out, path)
		return nil
	}))
	sort.Strings(out)
	return out
}

func TestDispatch_CopyIntoStreamWithConflict(t *testing.T) {
	f := setup(t)
	streamed := f.write(t, "disk/yaMedia/Media/conflict.txt", "streamed")
	mine := f.write(t, "home/conflict.txt", "mine")

	code := dispatcher.Dispatch(context.Background(), f.session, "FileAddToStream", []string{mine})
	assert.Equal(t, 0, code)

	assert.Equal(t, "mine", f.read(t, filepath.Join(f.tree.StreamDir(), "conflict_1.txt")))
	assert.Equal(t, "streamed", f.read(t, streamed))
	assert.Equal(t, "mine", f.read(t, mine))
	assert.Equal(t, 1, f.daemon.SyncCalls())
}

func TestDispatch_UnknownAction(t *testing.T) {
	f := setup(t)
	f.write(t, "home/file.txt", "x")
	before := listing(t, f.base)

	d, err := dispatcher.New(f.session, nil)
	require.NoError(t, err)
	d.ServiceMenuDir = "/usr/share/kservices5/ServiceMenus"

	code := d.Dispatch(context.Background(), "FlyToTheMoon", []string{filepath.Join(f.base, "home/file.txt")})
	assert.Equal(t, 0, code)

	sent := f.notes.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Message, "<b>Unknown action FlyToTheMoon</b>")
	assert.Contains(t, sent[0].Message, "file:///usr/share/kservices5/ServiceMenus")
	assert.Equal(t, before, listing(t, f.base))
	assert.Equal(t, 0, f.daemon.StatusCalls())
	assert.Empty(t, f.daemon.History())
}

func TestDispatch_PublishThreeFiles(t *testing.T) {
	f := setup(t)
	var inputs []string
	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		inputs = append(inputs, f.write(t, "disk/yaMedia/docs/"+name, name))
	}

	code := dispatcher.Dispatch(context.Background(), f.session, "PublishToYandex", inputs)
	assert.Equal(t, 0, code)

	require.Len(t, f.clip.Writes(), 1)
	assert.Equal(t, "https://yadi.sk/d/one.txt\nhttps://yadi.sk/d/two.txt\nhttps://yadi.sk/d/three.txt", f.clip.Writes()[0])
	sent := f.notes.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.Info, sent[0].Severity)
}

func TestDispatch_DaemonNeverReady(t *testing.T) {
	f := setup(t)
	f.daemon.SetStatuses("busy")
	src := f.write(t, "home/a.txt", "a")

	code := dispatcher.Dispatch(context.Background(), f.session, "FileMoveToStream", []string{src})
	assert.Equal(t, 1, code)

	assert.Len(t, f.notes.BySeverity(notify.Warn), 1)
	assert.Len(t, f.notes.BySeverity(notify.Error), 1)
	assert.Equal(t, "a", f.read(t, src))
	assert.Equal(t, 0, f.daemon.SyncCalls())
}

func TestDispatch_AllPublishesFailed(t *testing.T) {
	f := setup(t)
	code := dispatcher.Dispatch(context.Background(), f.session, "PublishToYandexCom",
		[]string{filepath.Join(f.base, "home/missing.txt")})
	assert.Equal(t, 1, code)
}

func TestDispatch_ClipboardWithoutContent(t *testing.T) {
	f := setup(t)
	code := dispatcher.Dispatch(context.Background(), f.session, "ClipboardToStream", nil)
	assert.Equal(t, 1, code)
	assert.Equal(t, notify.Error, f.notes.Last().Severity)
}

func TestDispatch_SkipPatterns(t *testing.T) {
	f := setup(t)
	partial := f.write(t, "home/movie.mkv.part", "half")
	done := f.write(t, "home/movie2.mkv", "full")

	code := dispatcher.Dispatch(context.Background(), f.session, "FileMoveToStream", []string{partial, done})
	assert.Equal(t, 0, code)

	assert.Equal(t, "half", f.read(t, partial), "skipped file untouched")
	assert.Equal(t, "full", f.read(t, filepath.Join(f.tree.StreamDir(), "movie2.mkv")))
	last := f.notes.Last()
	assert.Equal(t, notify.Warn, last.Severity)
	assert.Contains(t, last.Message, "skipped by pattern")
}

type panickingDaemon struct{}

func (panickingDaemon) Publish(context.Context, string) (daemon.Link, error) { panic("publish") }
func (panickingDaemon) Unpublish(context.Context, string) (string, error)    { panic("unpublish") }
func (panickingDaemon) Sync(context.Context) (string, error)                 { panic("sync") }

func TestDispatch_RecoversFromPanic(t *testing.T) {
	f := setup(t)
	f.session.Daemon = panickingDaemon{}
	src := f.write(t, "home/a.txt", "a")

	code := dispatcher.Dispatch(context.Background(), f.session, "FileAddToStream", []string{src})
	assert.Equal(t, 1, code)
	assert.Contains(t, f.notes.Last().Message, "Unexpected error: sync")
}

func TestFilter(t *testing.T) {
	filter, err := dispatcher.NewFilter(dispatcher.DefaultSkipPatterns)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/home/u/Downloads/video.mp4.part", true},
		{"/home/u/Downloads/setup.exe.crdownload", true},
		{"/home/u/docs/.~lock.report.odt#", true},
		{"/home/u/docs/report.odt", false},
		{"/home/u/partial.txt", false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Skipped(tt.path))
		})
	}
	assert.Equal(t, dispatcher.DefaultSkipPatterns, filter.Patterns())
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	_, err := dispatcher.NewFilter([]string{"[unclosed"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
