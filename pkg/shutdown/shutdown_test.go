package shutdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGracefulReturnsStopResult(t *testing.T) {
	var forced atomic.Bool
	err := Graceful(time.Second, func(ctx context.Context) error { return nil }, func() { forced.Store(true) })

	require.NoError(t, err)
	assert.False(t, forced.Load())
}

func TestGracefulForcesAfterTimeout(t *testing.T) {
	var forced atomic.Bool
	release := make(chan struct{})
	defer close(release)

	err := Graceful(20*time.Millisecond, func(ctx context.Context) error {
		<-release
		return nil
	}, func() { forced.Store(true) })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, forced.Load())
}

func TestWithSignalsCancelStopsWatcher(t *testing.T) {
	ctx, cancel := WithSignals(context.Background())
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
