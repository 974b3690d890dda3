// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sequence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/sequence"
)

/*
TestMemoryAllocator_StartsAtSeed verifies the first ids handed out.
*/
func TestMemoryAllocator_StartsAtSeed(t *testing.T) {
	allocator := sequence.NewMemoryAllocator(1000000)

	first, err := allocator.NextID(context.Background())
	require.NoError(t, err)
	second, err := allocator.NextID(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1000000", first)
	assert.Equal(t, "1000001", second)
}

/*
TestMemoryAllocator_Concurrent never hands out the same id twice.
*/
func TestMemoryAllocator_Concurrent(t *testing.T) {
	allocator := sequence.NewMemoryAllocator(1)

	const workers, perWorker = 8, 250
	ids := make(chan string, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, _ := allocator.NextID(context.Background())
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		_, duplicate := seen[id]
		require.False(t, duplicate, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}
