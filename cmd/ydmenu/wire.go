package ydmenu

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/clipboard"
	"github.com/arthur-debert/ydmenu/pkg/config"
	"github.com/arthur-debert/ydmenu/pkg/conflict"
	"github.com/arthur-debert/ydmenu/pkg/daemon"
	"github.com/arthur-debert/ydmenu/pkg/dispatcher"
	"github.com/arthur-debert/ydmenu/pkg/execution"
	"github.com/arthur-debert/ydmenu/pkg/executor"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/paths"
	"github.com/arthur-debert/ydmenu/pkg/readiness"
	"github.com/rs/zerolog"
)

// Deps are the process level collaborators. Zero fields get the real
// implementations.
type Deps struct {
	Runner    execution.Runner
	FS        filesystem.FS
	Notifier  notify.Notifier
	Clipboard clipboard.Clipboard

	// Sleep replaces the readiness gate's wait between polls
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time

	Stdout io.Writer
	Stderr io.Writer

	// ConfigDir replaces the directory searched for the user configuration
	ConfigDir string
}

func (d Deps) withDefaults() Deps {
	if d.FS == nil {
		d.FS = filesystem.NewOS()
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// globals holds the persistent flag values
type globals struct {
	verbosity  int
	configFile string
	root       string
}

// environment is everything built from the configuration for one command
type environment struct {
	cfg    *config.Config
	tree   *paths.Tree
	logger zerolog.Logger
	runner execution.Runner
	client *daemon.Client
	close  func() error
}

func (g *globals) loadConfig(deps Deps) (*config.Config, error) {
	opts := config.Options{File: g.configFile, Dir: deps.ConfigDir}
	if g.root != "" {
		opts.Overrides = map[string]interface{}{"disk.root": g.root}
	}
	return config.Load(opts)
}

// environment loads the configuration and opens the dispatch log
func (g *globals) environment(deps Deps) (*environment, error) {
	cfg, err := g.loadConfig(deps)
	if err != nil {
		return nil, err
	}
	tree, err := cfg.Tree()
	if err != nil {
		return nil, err
	}

	logger, closeLog := logging.New(logging.Options{
		Verbosity: g.verbosity,
		LogFile:   tree.LogFilePath(),
		Console:   deps.Stderr,
	})

	runner := deps.Runner
	if runner == nil {
		runner = execution.NewExecRunner(logger)
	}

	client := daemon.NewClient(runner, daemon.Options{
		Binary:         cfg.Daemon.Binary,
		StatusTimeout:  cfg.Daemon.StatusTimeout,
		CommandTimeout: cfg.Daemon.CommandTimeout,
	}, logger)

	return &environment{
		cfg:    cfg,
		tree:   tree,
		logger: logger,
		runner: runner,
		client: client,
		close:  closeLog,
	}, nil
}

// fallbackNotifier is used when no configuration could be loaded. It runs
// the default backends with default options and never fails.
func fallbackNotifier(deps Deps) notify.Notifier {
	if deps.Notifier != nil {
		return deps.Notifier
	}
	runner := deps.Runner
	if runner == nil {
		runner = execution.NewExecRunner(zerolog.Nop())
	}
	backends, err := notify.Select(notify.BackendAuto, runner, deps.Stderr)
	if err != nil {
		backends = nil
	}
	return notify.NewCenter(zerolog.Nop(), notify.Options{Now: deps.Now}, backends...)
}

// dispatcher assembles the dispatch session from env
func (env *environment) dispatcher(deps Deps, start time.Time) (*dispatcher.Dispatcher, error) {
	cfg := env.cfg

	notifier := deps.Notifier
	if notifier == nil {
		backends, err := notify.Select(cfg.Notify.Backend, env.runner, deps.Stderr)
		if err != nil {
			return nil, err
		}
		notifier = notify.NewCenter(env.logger, notify.Options{
			Title:        cfg.Notify.Title,
			Icons:        notify.DefaultIcons(deps.FS, cfg.Notify.Icons),
			LogFile:      env.tree.LogFilePath(),
			InfoTimeout:  cfg.Notify.InfoTimeout,
			ErrorTimeout: cfg.Notify.ErrorTimeout,
			Start:        start,
			Now:          deps.Now,
		}, backends...)
	}

	clip := deps.Clipboard
	if clip == nil {
		fallback, err := clipboard.Select(cfg.Clipboard.Backends, env.runner, env.logger)
		if err != nil {
			return nil, err
		}
		clip = fallback
	}

	session := &executor.Session{
		Logger:    env.logger,
		Tree:      env.tree,
		FS:        deps.FS,
		Daemon:    env.client,
		Notifier:  notifier,
		Clipboard: clip,
		Gate: &readiness.Gate{
			Source:      env.client,
			Notifier:    notifier,
			Interval:    cfg.Readiness.PollInterval,
			MaxAttempts: cfg.Readiness.MaxAttempts,
			Sleep:       deps.Sleep,
			Logger:      env.logger,
		},
		Resolver:   conflict.NewResolver(deps.FS, env.tree, env.logger),
		SuccessCap: cfg.Report.SuccessCap,
		FailureCap: cfg.Report.FailureCap,
		Now:        deps.Now,
	}

	d, err := dispatcher.New(session, cfg.Dispatch.SkipPatterns)
	if err != nil {
		return nil, err
	}
	d.ServiceMenuDir = dispatcher.DefaultServiceMenuDir()
	return d, nil
}
