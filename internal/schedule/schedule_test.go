package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsShortInterval(t *testing.T) {
	_, err := New(500*time.Millisecond, func(context.Context) {}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInterval)

	_, err = New(time.Minute, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestSpec(t *testing.T) {
	s, err := New(90*time.Minute, func(context.Context) {}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "@every 1h30m0s", s.Spec())
}

func TestStartRunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	s, err := New(time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	assert.Error(t, s.Start(context.Background()))
}

func TestRunTicksUntilCancelled(t *testing.T) {
	var count atomic.Int32
	s, err := New(time.Second, func(context.Context) {
		count.Add(1)
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	assert.GreaterOrEqual(t, count.Load(), int32(2))
}

func TestStopWaitsForCycle(t *testing.T) {
	var finished atomic.Bool
	started := make(chan struct{})
	s, err := New(time.Hour, func(ctx context.Context) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	<-started
	s.Stop()
	assert.True(t, finished.Load())
}

func TestStopWithoutStart(t *testing.T) {
	s, err := New(time.Minute, func(context.Context) {}, zerolog.Nop())
	require.NoError(t, err)
	s.Stop()
}
