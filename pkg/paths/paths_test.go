package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	root := t.TempDir()

	tree, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, root, tree.Root())
	assert.Equal(t, filepath.Join(root, "yaMedia"), tree.SyncedRoot())
	assert.Equal(t, filepath.Join(root, "yaMedia", "Media"), tree.StreamDir())
	assert.Equal(t, filepath.Join(root, "yaMedia.log"), tree.LogFilePath())
}

func TestNew_FromEnvironment(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvDiskRoot, root)

	tree, err := New("")
	require.NoError(t, err)
	assert.Equal(t, root, tree.Root())
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDiskRoot, "")

	tree, err := New("~/Disk")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Disk"), tree.Root())
}

func TestNewWithLayout(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
		stream  string
		logFile string
	}{
		{
			name:    "custom names",
			layout:  Layout{SyncedDir: "sync", StreamDir: "Stream", LogFile: "logs/ydmenu.log"},
			stream:  filepath.Join(root, "sync", "Stream"),
			logFile: filepath.Join(root, "logs", "ydmenu.log"),
		},
		{
			name:    "absolute log file",
			layout:  Layout{LogFile: "/var/tmp/yd.log"},
			stream:  filepath.Join(root, "yaMedia", "Media"),
			logFile: "/var/tmp/yd.log",
		},
		{name: "absolute synced dir", layout: Layout{SyncedDir: "/tmp"}, wantErr: true},
		{name: "escaping stream dir", layout: Layout{StreamDir: "../.."}, wantErr: true},
		{name: "stream equals synced", layout: Layout{StreamDir: "."}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewWithLayout(root, tt.layout)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.stream, tree.StreamDir())
			assert.Equal(t, tt.logFile, tree.LogFilePath())
		})
	}
}

func TestIsOutside(t *testing.T) {
	tree, err := New("/home/user/Disk")
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/home/user/Disk/yaMedia/doc.txt", false},
		{"/home/user/Disk/yaMedia/Media/clip.mp4", false},
		{"/home/user/Disk/yaMedia/a/../b.txt", false},
		{"/home/user/Disk/yaMedia", true},
		{"/home/user/Disk/other.txt", true},
		{"/home/user/Disk/yaMediaX/file", true},
		{"/tmp/file.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.IsOutside(tt.path))
		})
	}
}

func TestReference(t *testing.T) {
	tree, err := New("/home/user/Disk")
	require.NoError(t, err)

	ref, err := tree.Reference("/tmp/photos/cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, FileReference{
		Path:    "/tmp/photos/cat.jpg",
		Name:    "cat.jpg",
		Dir:     "/tmp/photos",
		Outside: true,
	}, ref)

	assert.Equal(t,
		[]string{tree.StreamDir(), tree.SyncedRoot(), "/tmp/photos"},
		tree.CollisionDirs(ref))

	_, err = tree.Reference("")
	assert.Error(t, err)

	_, err = tree.Reference("/")
	assert.Error(t, err)
}

func TestConfigDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "/custom/config")
	assert.Equal(t, "/custom/config", ConfigDir())

	t.Setenv(EnvConfigDir, "")
	assert.Equal(t, AppDirName, filepath.Base(ConfigDir()))
}
