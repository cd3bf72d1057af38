package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/ydmenu/pkg/execution"
)

// FakeRunner is a scripted execution.Runner
type FakeRunner struct {
	RunFunc      func(ctx context.Context, cmd execution.Command) (execution.Result, error)
	LookPathFunc func(name string) (string, error)

	mu    sync.Mutex
	calls []execution.Command
}

// Run records cmd and delegates to RunFunc. Without RunFunc it succeeds with no output.
func (f *FakeRunner) Run(ctx context.Context, cmd execution.Command) (execution.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.RunFunc != nil {
		return f.RunFunc(ctx, cmd)
	}
	return execution.Result{}, nil
}

// LookPath delegates to LookPathFunc. Without it every binary is found.
func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.LookPathFunc != nil {
		return f.LookPathFunc(name)
	}
	return "/usr/bin/" + name, nil
}

// Calls returns the recorded commands in order
func (f *FakeRunner) Calls() []execution.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]execution.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo counts recorded commands named name whose arguments start with args
func (f *FakeRunner) CallsTo(name string, args ...string) int {
	count := 0
	for _, call := range f.Calls() {
		if call.Name == name && hasPrefix(call.Args, args) {
			count++
		}
	}
	return count
}

// CommandLine renders a command for assertions
func CommandLine(cmd execution.Command) string {
	return strings.TrimSpace(cmd.Name + " " + strings.Join(cmd.Args, " "))
}

func hasPrefix(args, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	for i := range prefix {
		if args[i] != prefix[i] {
			return false
		}
	}
	return true
}
