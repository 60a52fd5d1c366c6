package dedupe

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_SeenAndMark(t *testing.T) {
	guard := NewGuard()

	assert.False(t, guard.Seen("m1"))
	guard.MarkSeen("m1")
	assert.True(t, guard.Seen("m1"))
	assert.False(t, guard.Seen("m2"))
}

func TestGuard_CheckAndMark(t *testing.T) {
	guard := NewGuard()

	assert.True(t, guard.CheckAndMark("m1"))
	assert.False(t, guard.CheckAndMark("m1"))
	assert.True(t, guard.CheckAndMark("m2"))
	assert.Equal(t, 2, guard.Len())
}

func TestGuard_ConcurrentCheckAndMark(t *testing.T) {
	guard := NewGuard()

	const workers = 16
	var wg sync.WaitGroup
	firsts := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("m%d", n%4)
			if guard.CheckAndMark(id) {
				firsts <- id
			}
		}(i)
	}
	wg.Wait()
	close(firsts)

	counts := make(map[string]int)
	for id := range firsts {
		counts[id]++
	}
	for id, n := range counts {
		assert.Equal(t, 1, n, "id %s marked first more than once", id)
	}
	assert.Equal(t, 4, guard.Len())
}
