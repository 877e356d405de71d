// Package recall implements bounded, per-chat, in-memory histories of
// deleted and edited messages. Entries are ordered most-recent-first and
// addressed by a 1-based recency index. The cache lives for the bot
// process lifetime only; nothing is persisted.
package recall

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Kind selects which history a recall query reads.
type Kind string

const (
	KindDeletion Kind = "deletion"
	KindEdit     Kind = "edit"
)

// Deletion is a snapshot of a message at the moment it was deleted.
type Deletion struct {
	UserID     int64
	UserName   string
	Content    string
	Attachment string
	Timestamp  time.Time
}

// Edit records a single content change of a message, including where the
// live (post-edit) message can still be found.
type Edit struct {
	UserID    int64
	UserName  string
	Before    string
	After     string
	ChatID    int64
	MessageID int
	EditedAt  time.Time
}

// EmptyError reports a recall against a chat with no recorded entries of
// the requested kind.
type EmptyError struct {
	Kind Kind
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("no recorded %ss for this chat", e.Kind)
}

// RangeError reports a recall index beyond the current stored count.
// Count is the number of entries actually stored so callers can tell the
// user exactly how far back they can reach.
type RangeError struct {
	Kind  Kind
	Index int
	Count int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range, %d stored", e.Kind, e.Index, e.Count)
}

// chatBuffer holds both histories for one chat. Each chat has its own lock
// so activity in one chat never serializes recalls in another.
type chatBuffer struct {
	mu           sync.Mutex
	deletions    []Deletion
	edits        []Edit
	lastActivity time.Time
}

// Cache is a process-lifetime recall cache keyed by chat ID. Capacity is
// fixed at construction and identical for every chat. Safe for concurrent
// use.
type Cache struct {
	capacity int
	botID    atomic.Int64

	mu    sync.RWMutex
	chats map[int64]*chatBuffer
}

// NewCache creates a Cache with the given per-chat capacity.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		chats:    make(map[int64]*chatBuffer),
	}
}

// SetBotID registers the bot's own user ID so its events are never
// recorded. The ID is only known once the platform session is up, after
// the cache has already been wired into the handlers.
func (c *Cache) SetBotID(id int64) {
	c.botID.Store(id)
}

// buffer returns the chat's buffer, creating it lazily on first use.
func (c *Cache) buffer(chatID int64) *chatBuffer {
	c.mu.RLock()
	buf, ok := c.chats[chatID]
	c.mu.RUnlock()
	if ok {
		return buf
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if buf, ok = c.chats[chatID]; ok {
		return buf
	}
	buf = &chatBuffer{}
	c.chats[chatID] = buf
	return buf
}

// RecordDeletion stores a deleted message at recall index 1, shifting
// existing entries back and silently discarding any beyond capacity.
// Deletions with neither text nor attachment, and deletions of the bot's
// own messages, are ignored.
func (c *Cache) RecordDeletion(chatID int64, d Deletion) {
	if d.Content == "" && d.Attachment == "" {
		return
	}
	if d.UserID == c.botID.Load() {
		return
	}

	buf := c.buffer(chatID)
	buf.mu.Lock()
	defer buf.mu.Unlock()

	buf.deletions = append([]Deletion{d}, buf.deletions...)
	if len(buf.deletions) > c.capacity {
		buf.deletions = buf.deletions[:c.capacity]
	}
	buf.lastActivity = time.Now()
}

// RecordEdit stores an edit at recall index 1, truncating as RecordDeletion
// does. Bot-authored edits and no-op edits (unchanged text, e.g. a
// platform-side metadata update) are ignored.
func (c *Cache) RecordEdit(chatID int64, e Edit) {
	if e.UserID == c.botID.Load() {
		return
	}
	if e.Before == e.After {
		return
	}

	buf := c.buffer(chatID)
	buf.mu.Lock()
	defer buf.mu.Unlock()

	buf.edits = append([]Edit{e}, buf.edits...)
	if len(buf.edits) > c.capacity {
		buf.edits = buf.edits[:c.capacity]
	}
	buf.lastActivity = time.Now()
}

// Deletion returns the index-th most recently recorded deletion in the
// chat. index is 1-based; 1 is the most recent.
func (c *Cache) Deletion(chatID int64, index int) (Deletion, error) {
	c.mu.RLock()
	buf, ok := c.chats[chatID]
	c.mu.RUnlock()
	if !ok {
		return Deletion{}, &EmptyError{Kind: KindDeletion}
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()

	if len(buf.deletions) == 0 {
		return Deletion{}, &EmptyError{Kind: KindDeletion}
	}
	if index < 1 || index > len(buf.deletions) {
		return Deletion{}, &RangeError{Kind: KindDeletion, Index: index, Count: len(buf.deletions)}
	}
	return buf.deletions[index-1], nil
}

// Edit returns the index-th most recently recorded edit in the chat.
func (c *Cache) Edit(chatID int64, index int) (Edit, error) {
	c.mu.RLock()
	buf, ok := c.chats[chatID]
	c.mu.RUnlock()
	if !ok {
		return Edit{}, &EmptyError{Kind: KindEdit}
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()

	if len(buf.edits) == 0 {
		return Edit{}, &EmptyError{Kind: KindEdit}
	}
	if index < 1 || index > len(buf.edits) {
		return Edit{}, &RangeError{Kind: KindEdit, Index: index, Count: len(buf.edits)}
	}
	return buf.edits[index-1], nil
}

// EvictIdle drops the buffers of chats with no recorded activity within
// ttl and returns how many chats were evicted. A ttl of zero evicts
// nothing. Bounding memory this way keeps the chat map from growing one
// entry per ever-seen chat forever.
func (c *Cache) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for chatID, buf := range c.chats {
		buf.mu.Lock()
		idle := buf.lastActivity.Before(cutoff)
		buf.mu.Unlock()
		if idle {
			delete(c.chats, chatID)
			evicted++
		}
	}
	return evicted
}

// Len reports how many entries of the given kind are stored for a chat.
func (c *Cache) Len(chatID int64, kind Kind) int {
	c.mu.RLock()
	buf, ok := c.chats[chatID]
	c.mu.RUnlock()
	if !ok {
		return 0
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()
	if kind == KindEdit {
		return len(buf.edits)
	}
	return len(buf.deletions)
}
