// Package history keeps a bounded rolling window of conversation turns per
// conversation, used as context for assistant replies. Nothing here is
// persisted.
package history

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Roles for conversation entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is a single conversation turn.
type Entry struct {
	Role    string
	Content string
}

const (
	// DefaultMaxEntries is the per-conversation window size.
	DefaultMaxEntries = 6
	// DefaultMaxConversations bounds how many conversations are tracked;
	// the least recently active conversation is evicted first.
	DefaultMaxConversations = 256
)

// Cache is a per-conversation rolling window. The conversation map itself
// is an LRU so total memory stays bounded across many conversations. The
// mutex serializes the read-modify-write in Append against concurrent
// message handlers.
type Cache struct {
	mu            sync.Mutex
	maxEntries    int
	conversations *lru.Cache[string, []Entry]
}

// NewCache creates a cache holding at most maxEntries turns for each of at
// most maxConversations conversations. Non-positive arguments fall back to
// the defaults.
func NewCache(maxEntries, maxConversations int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxConversations <= 0 {
		maxConversations = DefaultMaxConversations
	}
	conversations, err := lru.New[string, []Entry](maxConversations)
	if err != nil {
		return nil, err
	}
	return &Cache{maxEntries: maxEntries, conversations: conversations}, nil
}

// Append records a turn. Appending with any empty field is a no-op. When
// the window is full the oldest turn is dropped.
func (c *Cache) Append(conversationID, role, content string) {
	if conversationID == "" || role == "" || content == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, _ := c.conversations.Get(conversationID)
	entries = append(entries, Entry{Role: role, Content: content})
	if len(entries) > c.maxEntries {
		entries = entries[len(entries)-c.maxEntries:]
	}
	c.conversations.Add(conversationID, entries)
}

// Get returns the turns for a conversation, oldest first. The returned
// slice is a copy.
func (c *Cache) Get(conversationID string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, ok := c.conversations.Get(conversationID)
	if !ok {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
