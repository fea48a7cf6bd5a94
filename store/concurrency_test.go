package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, note(fmt.Sprint(i))))
		}(i)
	}
	wg.Wait()

	notes, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, writers)
}

func TestConcurrentAppendAndRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(ctx, note(fmt.Sprint("old-", i))))
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			removed, err := s.RemoveByID(ctx, fmt.Sprint("old-", i))
			assert.NoError(t, err)
			assert.True(t, removed)
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, note(fmt.Sprint("new-", i))))
		}(i)
	}
	wg.Wait()

	notes, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 10)
	for _, n := range notes {
		assert.Contains(t, n.ID, "new-")
	}
}
