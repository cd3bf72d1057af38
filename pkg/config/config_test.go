package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own config and environment out of a test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("YDMENU_CONFIG_DIR", dir)
	t.Setenv("YDMENU_CONFIG", "")
	t.Setenv("YA_DISK_ROOT", "")
	os.Unsetenv("YA_DISK_ROOT")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "~/Public", cfg.Disk.Root)
	assert.Equal(t, "yaMedia", cfg.Disk.SyncedDir)
	assert.Equal(t, "Media", cfg.Disk.StreamDir)
	assert.Equal(t, "yandex-disk", cfg.Daemon.Binary)
	assert.Equal(t, 10*time.Second, cfg.Daemon.StatusTimeout)
	assert.Equal(t, time.Second, cfg.Readiness.PollInterval)
	assert.Equal(t, 30, cfg.Readiness.MaxAttempts)
	assert.Equal(t, 5, cfg.Report.SuccessCap)
	assert.Equal(t, 3, cfg.Report.FailureCap)
	assert.Equal(t, "auto", cfg.Notify.Backend)
	assert.Equal(t, 15*time.Second, cfg.Notify.ErrorTimeout)
	assert.Equal(t, []string{"wl-clipboard", "xclip", "system"}, cfg.Clipboard.Backends)
	assert.Contains(t, cfg.Dispatch.SkipPatterns, "**/*.part")
	assert.Empty(t, cfg.Files)
}

func TestLoad_UserTOML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[disk]
root = "/srv/disk"

[readiness]
max_attempts = 5
poll_interval = "250ms"

[dispatch]
skip_patterns = ["**/*.tmp"]
`), 0644))

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "/srv/disk", cfg.Disk.Root)
	assert.Equal(t, 5, cfg.Readiness.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Readiness.PollInterval)
	assert.Equal(t, []string{"**/*.tmp"}, cfg.Dispatch.SkipPatterns, "arrays replace, not merge")
	assert.Equal(t, "Media", cfg.Disk.StreamDir, "untouched keys keep defaults")
	assert.Equal(t, []string{filepath.Join(dir, "config.toml")}, cfg.Files)

	tree, err := cfg.Tree()
	require.NoError(t, err)
	assert.Equal(t, "/srv/disk/yaMedia/Media", tree.StreamDir())
	assert.Equal(t, "/srv/disk/yaMedia.log", tree.LogFilePath())
}

func TestLoad_UserYAML(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("notify:\n  backend: console\n  icons:\n    error: /tmp/err.png\n"), 0644))

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Notify.Backend)
	assert.Equal(t, "/tmp/err.png", cfg.Notify.Icons["error"])
}

func TestLoad_Environment(t *testing.T) {
	dir := isolate(t)
	t.Setenv("YA_DISK_ROOT", "/data/yandex")
	t.Setenv("YDMENU_READINESS_MAX_ATTEMPTS", "60")
	t.Setenv("YDMENU_CLIPBOARD_BACKENDS", "xclip,system")
	t.Setenv("YDMENU_NOTIFY_ICONS_INFO", "/icons/info.png")

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "/data/yandex", cfg.Disk.Root)
	assert.Equal(t, 60, cfg.Readiness.MaxAttempts)
	assert.Equal(t, []string{"xclip", "system"}, cfg.Clipboard.Backends)
	assert.Equal(t, "/icons/info.png", cfg.Notify.Icons["info"])
}

func TestLoad_OverridesWin(t *testing.T) {
	dir := isolate(t)
	t.Setenv("YA_DISK_ROOT", "/from/env")

	cfg, err := Load(Options{Dir: dir, Overrides: map[string]interface{}{"disk.root": "/from/flag"}})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Disk.Root)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		isolate(t)
		_, err := Load(Options{File: "/nonexistent/ydmenu.toml"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("unparsable file", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[disk\nroot ="), 0644))
		_, err := Load(Options{Dir: dir})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("invalid value", func(t *testing.T) {
		dir := isolate(t)
		t.Setenv("YDMENU_READINESS_MAX_ATTEMPTS", "0")
		_, err := Load(Options{Dir: dir})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		assert.Equal(t, 1, errors.ExitCode(err))
	})

	t.Run("unknown notify backend", func(t *testing.T) {
		dir := isolate(t)
		t.Setenv("YDMENU_NOTIFY_BACKEND", "growl")
		_, err := Load(Options{Dir: dir})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})

	t.Run("stream escaping the tree", func(t *testing.T) {
		dir := isolate(t)
		t.Setenv("YDMENU_DISK_STREAM_DIR", "../outside")
		_, err := Load(Options{Dir: dir})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"YDMENU_READINESS_MAX_ATTEMPTS": "readiness.max_attempts",
		"YDMENU_DISK_ROOT":              "disk.root",
		"YDMENU_NOTIFY_ICONS_WARN":      "notify.icons.warn",
		"YDMENU_CONFIG_DIR":             "",
		"YDMENU_VERBOSE":                "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, envKey(in))
		})
	}
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[disk]")
	assert.Contains(t, content, "# root = \"~/Public\"")
	assert.Contains(t, content, "# max_attempts = 30")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestDump(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	tomlOut, err := cfg.Dump("toml")
	require.NoError(t, err)
	assert.Contains(t, tomlOut, "[readiness]")
	assert.Contains(t, tomlOut, "max_attempts = 30")

	yamlOut, err := cfg.Dump("yaml")
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "readiness:")
	assert.Contains(t, yamlOut, "max_attempts: 30")

	_, err = cfg.Dump("xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
