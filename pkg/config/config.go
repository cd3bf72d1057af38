package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/clipboard"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/paths"
	"github.com/bmatcuk/doublestar/v4"
)

// Config is the effective configuration
type Config struct {
	Disk      Disk      `koanf:"disk"`
	Daemon    Daemon    `koanf:"daemon"`
	Readiness Readiness `koanf:"readiness"`
	Report    Report    `koanf:"report"`
	Notify    Notify    `koanf:"notify"`
	Clipboard Clipboard `koanf:"clipboard"`
	Dispatch  Dispatch  `koanf:"dispatch"`

	// Files lists the configuration files that were loaded
	Files []string `koanf:"-"`

	raw map[string]interface{}
}

type Disk struct {
	Root      string `koanf:"root"`
	SyncedDir string `koanf:"synced_dir"`
	StreamDir string `koanf:"stream_dir"`
	LogFile   string `koanf:"log_file"`
}

type Daemon struct {
	Binary         string        `koanf:"binary"`
	StatusTimeout  time.Duration `koanf:"status_timeout"`
	CommandTimeout time.Duration `koanf:"command_timeout"`
}

type Readiness struct {
	PollInterval time.Duration `koanf:"poll_interval"`
	MaxAttempts  int           `koanf:"max_attempts"`
}

type Report struct {
	SuccessCap int `koanf:"success_cap"`
	FailureCap int `koanf:"failure_cap"`
}

type Notify struct {
	Backend      string            `koanf:"backend"`
	Title        string            `koanf:"title"`
	Icons        map[string]string `koanf:"icons"`
	InfoTimeout  time.Duration     `koanf:"info_timeout"`
	ErrorTimeout time.Duration     `koanf:"error_timeout"`
}

type Clipboard struct {
	Backends []string `koanf:"backends"`
}

type Dispatch struct {
	SkipPatterns []string `koanf:"skip_patterns"`
}

// Tree builds the managed tree described by the disk section
func (c *Config) Tree() (*paths.Tree, error) {
	return paths.NewWithLayout(c.Disk.Root, paths.Layout{
		SyncedDir: c.Disk.SyncedDir,
		StreamDir: c.Disk.StreamDir,
		LogFile:   c.Disk.LogFile,
	})
}

// Raw returns the merged key tree as loaded
func (c *Config) Raw() map[string]interface{} {
	return c.raw
}

// Validate checks values that would otherwise fail deep inside a dispatch
func (c *Config) Validate() error {
	switch {
	case c.Readiness.MaxAttempts < 1:
		return invalid("readiness.max_attempts", "must be at least 1")
	case c.Readiness.PollInterval <= 0:
		return invalid("readiness.poll_interval", "must be positive")
	case c.Report.SuccessCap < 1:
		return invalid("report.success_cap", "must be at least 1")
	case c.Report.FailureCap < 1:
		return invalid("report.failure_cap", "must be at least 1")
	case c.Daemon.Binary == "":
		return invalid("daemon.binary", "must not be empty")
	case c.Daemon.StatusTimeout <= 0 || c.Daemon.CommandTimeout <= 0:
		return invalid("daemon", "timeouts must be positive")
	}

	switch strings.ToLower(c.Notify.Backend) {
	case notify.BackendAuto, notify.BackendKDialog, notify.BackendNotifySend, notify.BackendConsole:
	default:
		return invalid("notify.backend", "unknown backend "+c.Notify.Backend)
	}
	for severity := range c.Notify.Icons {
		switch severity {
		case "info", "warn", "error":
		default:
			return invalid("notify.icons", "unknown severity "+severity)
		}
	}

	for _, name := range c.Clipboard.Backends {
		switch strings.ToLower(name) {
		case clipboard.BackendXClip, clipboard.BackendWayland, clipboard.BackendSystem, "wayland":
		default:
			return invalid("clipboard.backends", "unknown backend "+name)
		}
	}

	for _, pattern := range c.Dispatch.SkipPatterns {
		if !doublestar.ValidatePattern(pattern) {
			return invalid("dispatch.skip_patterns", "invalid pattern "+pattern)
		}
	}

	if _, err := c.Tree(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid disk layout")
	}
	return nil
}

func invalid(key, reason string) error {
	return errors.Newf(errors.ErrConfigValid, "%s: %s", key, reason).WithDetail("key", key)
}
