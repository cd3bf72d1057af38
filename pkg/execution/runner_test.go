package execution

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T, r *ExecRunner) {
	t.Helper()
	if _, err := r.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	r := NewExecRunner(zerolog.Nop())
	requireShell(t, r)

	result, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo '  status: idle  '; echo oops >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "status: idle", result.Text())
	assert.Equal(t, "oops\n", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
}

func TestExecRunner_Stdin(t *testing.T) {
	r := NewExecRunner(zerolog.Nop())
	requireShell(t, r)

	result, err := r.Run(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "cat"},
		Stdin: []byte("https://yadi.sk/d/abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://yadi.sk/d/abc", string(result.Stdout))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewExecRunner(zerolog.Nop())
	requireShell(t, r)

	result, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo partial; echo 'Error: daemon not started' >&2; exit 3"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandExecute))
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "partial", result.Text())
	assert.Contains(t, errors.Describe(err), "Error: daemon not started")
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewExecRunner(zerolog.Nop())
	requireShell(t, r)

	_, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "sleep 5"},
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandTimeout))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner(zerolog.Nop())

	_, err := r.Run(context.Background(), Command{Name: "ydmenu-definitely-not-installed"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandExecute))

	_, err = r.Run(context.Background(), Command{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
