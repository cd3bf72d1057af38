// Package daemon talks to the yandex-disk command line client.
package daemon

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/execution"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// DefaultBinary is the daemon client executable
	DefaultBinary = "yandex-disk"

	// StatusIdle is reported when the daemon has nothing left to sync
	StatusIdle = "idle"

	// StatusNotStarted stands for any status that could not be read
	StatusNotStarted = "not started"

	// ComDomain replaces the short link host in .com links
	ComDomain = "https://disk.yandex.com"
)

// Markers in daemon output that mean the call failed despite a zero exit
var (
	publishErrorMarkers   = []string{"unknown publish error", "unknown error", "error:"}
	unpublishErrorMarkers = []string{"unknown error", "error:"}
)

// Options configures the client
type Options struct {
	Binary         string
	StatusTimeout  time.Duration
	CommandTimeout time.Duration
}

// Link is a published file's public URL
type Link struct {
	Path string
	URL  string
}

// ComURL returns the disk.yandex.com form of the link
func (l Link) ComURL() string {
	return ComLink(l.URL)
}

// Client wraps the daemon's status, publish, unpublish and sync commands
type Client struct {
	runner execution.Runner
	opts   Options
	logger zerolog.Logger
}

// NewClient creates a daemon client
func NewClient(runner execution.Runner, opts Options, logger zerolog.Logger) *Client {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = 10 * time.Second
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = execution.DefaultTimeout
	}
	return &Client{
		runner: runner,
		opts:   opts,
		logger: logging.Component(logger, "daemon"),
	}
}

// Status returns the daemon's current status. Any failure reads as
// StatusNotStarted.
func (c *Client) Status(ctx context.Context) string {
	result, err := c.run(ctx, c.opts.StatusTimeout, "status")
	if err != nil {
		c.logger.Debug().Err(err).Msg("Status query failed")
		return StatusNotStarted
	}
	status := ParseStatus(string(result.Stdout))
	c.logger.Debug().Str("status", status).Msg("Daemon status")
	return status
}

// Publish makes path public and returns its link
func (c *Client) Publish(ctx context.Context, path string) (Link, error) {
	result, err := c.run(ctx, c.opts.CommandTimeout, "publish", path)
	if err != nil {
		return Link{}, errors.Wrap(err, errors.ErrPublish, "publish failed").WithDetail("path", path)
	}

	output := result.Text()
	if hasMarker(output, publishErrorMarkers) {
		return Link{}, errors.New(errors.ErrPublish, output).WithDetail("path", path)
	}
	if output == "" {
		return Link{}, errors.New(errors.ErrPublish, "unknown publish error").WithDetail("path", path)
	}

	// The link is the last non-empty line
	lines := strings.Split(output, "\n")
	url := strings.TrimSpace(lines[len(lines)-1])

	c.logger.Info().Str("path", path).Str("link", url).Msg("Published")
	return Link{Path: path, URL: url}, nil
}

// Unpublish removes the public link of path and returns the daemon's message
func (c *Client) Unpublish(ctx context.Context, path string) (string, error) {
	result, err := c.run(ctx, c.opts.CommandTimeout, "unpublish", path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrUnpublish, "unpublish failed").WithDetail("path", path)
	}

	output := result.Text()
	if hasMarker(output, unpublishErrorMarkers) {
		return "", errors.New(errors.ErrUnpublish, output).WithDetail("path", path)
	}

	c.logger.Info().Str("path", path).Str("result", output).Msg("Unpublished")
	return output, nil
}

// Sync asks the daemon to synchronize now and returns its message
func (c *Client) Sync(ctx context.Context) (string, error) {
	result, err := c.run(ctx, c.opts.CommandTimeout, "sync")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCommandExecute, "sync failed")
	}
	return result.Text(), nil
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (execution.Result, error) {
	return c.runner.Run(ctx, execution.Command{
		Name:    c.opts.Binary,
		Args:    args,
		Timeout: timeout,
	})
}

// ParseStatus extracts the status from `status` output: the first line
// containing "status:" in any case, text after its last colon, trimmed.
func ParseStatus(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(strings.ToLower(line), "status:") {
			continue
		}
		value := strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
		if value == "" {
			return StatusNotStarted
		}
		return value
	}
	return StatusNotStarted
}

// IsIdle reports whether status means the daemon is ready
func IsIdle(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusIdle)
}

// ComLink rewrites a short link to the disk.yandex.com domain: the part
// after the first ".sk" is appended to ComDomain. Links without ".sk" are
// returned unchanged.
func ComLink(url string) string {
	i := strings.Index(url, ".sk")
	if i < 0 {
		return url
	}
	return ComDomain + url[i+len(".sk"):]
}

func hasMarker(output string, markers []string) bool {
	lower := strings.ToLower(output)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
