package store

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatch(t *testing.T, s *FileStore) *atomic.Int32 {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func() { calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	return &calls
}

func TestWatchReportsExternalEdits(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Append(context.Background(), note("1")))
	calls := startWatch(t, s)

	data, err := encode([]Note{note("1"), note("2")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path, data, 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatchReportsExternalRemoval(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Append(context.Background(), note("1")))
	calls := startWatch(t, s)

	require.NoError(t, os.Remove(s.Path))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatchIgnoresOwnWrites(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)
	calls := startWatch(t, s)

	require.NoError(t, s.Append(ctx, note("1")))
	require.NoError(t, s.Append(ctx, note("2")))
	_, err := s.RemoveByID(ctx, "1")
	require.NoError(t, err)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
