package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_AppendAndGet(t *testing.T) {
	cache, err := NewCache(6, 16)
	require.NoError(t, err)

	cache.Append("c1", RoleUser, "halo")
	cache.Append("c1", RoleAssistant, "halo juga")
	cache.Append("c2", RoleUser, "hi")

	got := cache.Get("c1")
	require.Len(t, got, 2)
	assert.Equal(t, Entry{Role: RoleUser, Content: "halo"}, got[0])
	assert.Equal(t, Entry{Role: RoleAssistant, Content: "halo juga"}, got[1])

	assert.Len(t, cache.Get("c2"), 1)
	assert.Empty(t, cache.Get("unknown"))
}

func TestCache_FIFOEviction(t *testing.T) {
	cache, err := NewCache(3, 16)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		cache.Append("c1", RoleUser, fmt.Sprintf("msg-%d", i))
	}

	got := cache.Get("c1")
	require.Len(t, got, 3)
	assert.Equal(t, "msg-3", got[0].Content)
	assert.Equal(t, "msg-5", got[2].Content)
}

func TestCache_EmptyFieldsIgnored(t *testing.T) {
	cache, err := NewCache(6, 16)
	require.NoError(t, err)

	cache.Append("", RoleUser, "x")
	cache.Append("c1", "", "x")
	cache.Append("c1", RoleUser, "")

	assert.Empty(t, cache.Get("c1"))
}

func TestCache_GetReturnsCopy(t *testing.T) {
	cache, err := NewCache(6, 16)
	require.NoError(t, err)

	cache.Append("c1", RoleUser, "original")
	got := cache.Get("c1")
	got[0].Content = "mutated"

	assert.Equal(t, "original", cache.Get("c1")[0].Content)
}

func TestCache_ConcurrentAppendsLoseNoTurns(t *testing.T) {
	const workers = 64
	cache, err := NewCache(workers, 16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cache.Append("c1", RoleUser, fmt.Sprintf("msg-%d", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, cache.Get("c1"), workers)
}

func TestCache_ConversationBound(t *testing.T) {
	cache, err := NewCache(6, 2)
	require.NoError(t, err)

	cache.Append("c1", RoleUser, "a")
	cache.Append("c2", RoleUser, "b")
	cache.Append("c3", RoleUser, "c")

	// c1 was least recently used and is evicted.
	assert.Empty(t, cache.Get("c1"))
	assert.Len(t, cache.Get("c2"), 1)
	assert.Len(t, cache.Get("c3"), 1)
}
