package readiness_test

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/daemon"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/notify"
	"github.com/arthur-debert/ydmenu/pkg/readiness"
	"github.com/arthur-debert/ydmenu/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.sleeps = append(s.sleeps, d)
	return nil
}

func newGate(fake *testutil.FakeDaemon, notifier *testutil.Notifier, sleeper *sleepRecorder, attempts int) *readiness.Gate {
	return &readiness.Gate{
		Source:      daemon.NewClient(fake, daemon.Options{}, zerolog.Nop()),
		Notifier:    notifier,
		Interval:    time.Second,
		MaxAttempts: attempts,
		Sleep:       sleeper.sleep,
		Logger:      zerolog.Nop(),
	}
}

func TestAwait_IdleIsSilent(t *testing.T) {
	fake := testutil.NewFakeDaemon()
	notifier := &testutil.Notifier{}
	sleeper := &sleepRecorder{}

	err := newGate(fake, notifier, sleeper, 30).Await(context.Background())

	require.NoError(t, err)
	assert.Empty(t, notifier.Sent())
	assert.Equal(t, 1, fake.StatusCalls())
	assert.Empty(t, sleeper.sleeps)
}

func TestAwait_BecomesIdle(t *testing.T) {
	fake := testutil.NewFakeDaemon()
	fake.SetStatuses("busy", "index", "idle")
	notifier := &testutil.Notifier{}
	sleeper := &sleepRecorder{}

	err := newGate(fake, notifier, sleeper, 30).Await(context.Background())

	require.NoError(t, err)
	require.Len(t, notifier.Sent(), 1)
	warning := notifier.Sent()[0]
	assert.Equal(t, notify.Warn, warning.Severity)
	assert.Equal(t, "<b>Service status: busy</b>.\nWill wait for <b>30s</b> and exit if no luck.", warning.Message)
	assert.Equal(t, 3, fake.StatusCalls())
	assert.Equal(t, []time.Duration{time.Second}, sleeper.sleeps)
}

func TestAwait_NeverIdle(t *testing.T) {
	fake := testutil.NewFakeDaemon()
	fake.SetStatuses("busy")
	notifier := &testutil.Notifier{}
	sleeper := &sleepRecorder{}

	err := newGate(fake, notifier, sleeper, 5).Await(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDaemonUnavailable))
	assert.Len(t, notifier.BySeverity(notify.Warn), 1)
	require.Len(t, notifier.BySeverity(notify.Error), 1)
	assert.Equal(t, readiness.UnavailableMessage, notifier.Last().Message)
	assert.Equal(t, 1+5, fake.StatusCalls())
	assert.Len(t, sleeper.sleeps, 4)
}

func TestAwait_StatusFailureCountsAsNotStarted(t *testing.T) {
	fake := testutil.NewFakeDaemon()
	fake.FailStatus(assert.AnError)
	notifier := &testutil.Notifier{}

	err := newGate(fake, notifier, &sleepRecorder{}, 2).Await(context.Background())

	require.Error(t, err)
	assert.Contains(t, notifier.Sent()[0].Message, "Service status: not started")
}

func TestAwait_CancelledWhileWaiting(t *testing.T) {
	fake := testutil.NewFakeDaemon()
	fake.SetStatuses("busy")
	notifier := &testutil.Notifier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gate := newGate(fake, notifier, &sleepRecorder{}, 30)
	gate.Sleep = nil
	gate.Interval = time.Hour

	err := gate.Await(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDaemonUnavailable))
	assert.Equal(t, 2, fake.StatusCalls())
}
