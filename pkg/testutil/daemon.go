package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/ydmenu/pkg/execution"
)

// FakeDaemon is an execution.Runner that answers like the yandex-disk client.
// Published links are https://yadi.sk/d/<base name>.
type FakeDaemon struct {
	Binary string

	mu             sync.Mutex
	statuses       []string
	statusErr      error
	publishOutput  map[string]string
	publishErr     map[string]error
	unpublishOut   map[string]string
	syncErr        error
	statusCalls    int
	syncCalls      int
	published      []string
	unpublished    []string
	commandHistory []string
}

// NewFakeDaemon creates an idle daemon
func NewFakeDaemon() *FakeDaemon {
	return &FakeDaemon{
		Binary:        "yandex-disk",
		statuses:      []string{"idle"},
		publishOutput: map[string]string{},
		publishErr:    map[string]error{},
		unpublishOut:  map[string]string{},
	}
}

// SetStatuses scripts successive status answers. The last one repeats.
func (d *FakeDaemon) SetStatuses(statuses ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = statuses
	d.statusErr = nil
}

// FailStatus makes status queries fail
func (d *FakeDaemon) FailStatus(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statusErr = err
}

// PublishOutput sets the publish output for files named base
func (d *FakeDaemon) PublishOutput(base, output string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishOutput[base] = output
}

// FailPublish makes publishing files named base fail
func (d *FakeDaemon) FailPublish(base string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishErr[base] = err
}

// UnpublishOutput sets the unpublish output for files named base
func (d *FakeDaemon) UnpublishOutput(base, output string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unpublishOut[base] = output
}

// FailSync makes sync fail
func (d *FakeDaemon) FailSync(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncErr = err
}

// Run answers one daemon command
func (d *FakeDaemon) Run(ctx context.Context, cmd execution.Command) (execution.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.commandHistory = append(d.commandHistory, CommandLine(cmd))
	if cmd.Name != d.Binary || len(cmd.Args) == 0 {
		return execution.Result{}, fmt.Errorf("%s: %w", cmd.Name, exec.ErrNotFound)
	}

	switch cmd.Args[0] {
	case "status":
		d.statusCalls++
		if d.statusErr != nil {
			return execution.Result{ExitCode: 1}, d.statusErr
		}
		status := d.statuses[len(d.statuses)-1]
		if len(d.statuses) > 1 {
			d.statuses = d.statuses[1:]
		}
		return text("Synchronization core status: " + status + "\nPath to Yandex.Disk directory: '/disk'\n"), nil

	case "publish":
		path := cmd.Args[1]
		base := filepath.Base(path)
		if err := d.publishErr[base]; err != nil {
			return execution.Result{ExitCode: 1}, err
		}
		d.published = append(d.published, path)
		if out, ok := d.publishOutput[base]; ok {
			return text(out), nil
		}
		return text("https://yadi.sk/d/" + base + "\n"), nil

	case "unpublish":
		path := cmd.Args[1]
		d.unpublished = append(d.unpublished, path)
		if out, ok := d.unpublishOut[filepath.Base(path)]; ok {
			return text(out), nil
		}
		return text("Public link removed\n"), nil

	case "sync":
		d.syncCalls++
		if d.syncErr != nil {
			return execution.Result{ExitCode: 1}, d.syncErr
		}
		return text("Synchronization started\n"), nil
	}

	return execution.Result{ExitCode: 1}, fmt.Errorf("unknown command %q", cmd.Args[0])
}

// LookPath finds only the daemon binary
func (d *FakeDaemon) LookPath(name string) (string, error) {
	if name == d.Binary {
		return "/usr/bin/" + name, nil
	}
	return "", exec.ErrNotFound
}

// StatusCalls returns how many status queries were made
func (d *FakeDaemon) StatusCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statusCalls
}

// SyncCalls returns how many syncs were requested
func (d *FakeDaemon) SyncCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syncCalls
}

// Published returns the paths passed to publish, in order
func (d *FakeDaemon) Published() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.published...)
}

// Unpublished returns the paths passed to unpublish, in order
func (d *FakeDaemon) Unpublished() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.unpublished...)
}

// History returns every command line received
func (d *FakeDaemon) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commandHistory...)
}

func text(s string) execution.Result {
	return execution.Result{Stdout: []byte(s)}
}
