package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/mitchellh/go-homedir"
)

// Environment variable names
const (
	// EnvDiskRoot is the environment variable for the tree root
	EnvDiskRoot = "YA_DISK_ROOT"

	// EnvConfigDir overrides the XDG config directory for ydmenu
	EnvConfigDir = "YDMENU_CONFIG_DIR"
)

// Default directories and files
const (
	// DefaultRoot is used when neither config nor environment name a root
	DefaultRoot = "~/Public"

	// DefaultSyncedDir is the synced directory name under the root
	DefaultSyncedDir = "yaMedia"

	// DefaultStreamDir is the stream directory name under the synced root
	DefaultStreamDir = "Media"

	// AppDirName is the directory name for ydmenu specific files
	AppDirName = "ydmenu"

	// LogFileName is the name of the dispatch log file, kept in the root
	LogFileName = "yaMedia.log"
)

// Layout names the tree directories relative to the root
type Layout struct {
	SyncedDir string
	StreamDir string
	LogFile   string
}

// Tree is the managed directory tree. It is immutable after construction.
type Tree struct {
	root       string
	syncedRoot string
	streamDir  string
	logFile    string
}

// FileReference describes one input path relative to the tree
type FileReference struct {
	Path    string
	Name    string
	Dir     string
	Outside bool
}

// New creates a Tree with the default layout. An empty root is resolved
// from YA_DISK_ROOT, then DefaultRoot.
func New(root string) (*Tree, error) {
	return NewWithLayout(root, Layout{})
}

// NewWithLayout creates a Tree with explicit directory names.
// Empty layout fields fall back to the defaults.
func NewWithLayout(root string, layout Layout) (*Tree, error) {
	if root == "" {
		root = os.Getenv(EnvDiskRoot)
	}
	if root == "" {
		root = DefaultRoot
	}

	expanded, err := Expand(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot expand root %q", root)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve root %q", root)
	}

	if layout.SyncedDir == "" {
		layout.SyncedDir = DefaultSyncedDir
	}
	if layout.StreamDir == "" {
		layout.StreamDir = DefaultStreamDir
	}
	if filepath.IsAbs(layout.SyncedDir) || filepath.IsAbs(layout.StreamDir) {
		return nil, errors.New(errors.ErrInvalidInput, "synced and stream directories must be relative")
	}
	if escapes(layout.SyncedDir) || escapes(layout.StreamDir) {
		return nil, errors.New(errors.ErrInvalidInput, "synced and stream directories must stay inside the tree")
	}

	t := &Tree{root: abs}
	t.syncedRoot = filepath.Join(abs, layout.SyncedDir)
	t.streamDir = filepath.Join(t.syncedRoot, layout.StreamDir)
	if t.streamDir == t.syncedRoot || t.syncedRoot == abs {
		return nil, errors.New(errors.ErrInvalidInput, "stream directory must be below the synced root")
	}

	switch {
	case layout.LogFile == "":
		t.logFile = filepath.Join(abs, LogFileName)
	default:
		logFile, err := Expand(layout.LogFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot expand log file %q", layout.LogFile)
		}
		if !filepath.IsAbs(logFile) {
			logFile = filepath.Join(abs, logFile)
		}
		t.logFile = logFile
	}

	return t, nil
}

// Root returns the user chosen tree root
func (t *Tree) Root() string { return t.root }

// SyncedRoot returns the directory synchronized by the daemon
func (t *Tree) SyncedRoot() string { return t.syncedRoot }

// StreamDir returns the stream directory, always below SyncedRoot
func (t *Tree) StreamDir() string { return t.streamDir }

// LogFilePath returns the dispatch log file
func (t *Tree) LogFilePath() string { return t.logFile }

// IsOutside reports whether path is not strictly below the synced root.
// The synced root itself counts as outside.
func (t *Tree) IsOutside(path string) bool {
	rel, err := filepath.Rel(t.syncedRoot, filepath.Clean(path))
	if err != nil {
		return true
	}
	return rel == "." || escapes(rel)
}

// Reference computes the FileReference for an input path
func (t *Tree) Reference(path string) (FileReference, error) {
	if path == "" {
		return FileReference{}, errors.New(errors.ErrInvalidInput, "empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileReference{}, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %q", path)
	}
	name := filepath.Base(abs)
	if name == string(filepath.Separator) {
		return FileReference{}, errors.Newf(errors.ErrInvalidInput, "%q has no file name", path)
	}
	return FileReference{
		Path:    abs,
		Name:    name,
		Dir:     filepath.Dir(abs),
		Outside: t.IsOutside(abs),
	}, nil
}

// CollisionDirs returns the directories a new name for ref must be free in
func (t *Tree) CollisionDirs(ref FileReference) []string {
	return []string{t.streamDir, t.syncedRoot, ref.Dir}
}

// ConfigDir returns the ydmenu configuration directory
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// Expand expands environment variables and a leading ~ in path
func Expand(path string) (string, error) {
	return homedir.Expand(os.ExpandEnv(path))
}

func escapes(rel string) bool {
	rel = filepath.Clean(rel)
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
