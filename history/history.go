// Package history keeps the rolling, most-recent-first list of clipboard
// captures.
package history

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 20

// ErrNotFound is returned when removing text that is not in the history.
var ErrNotFound = errors.New("history entry not found")

// Entry is one clipboard capture with the time it was last seen.
type Entry struct {
	Text     string    `json:"text"`
	CopiedAt time.Time `json:"copied_at"`
}

// History is a capped clipboard history. Readers take a snapshot through
// Items or Entries; the lock is never held outside this package.
type History struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// New creates an empty history holding at most capacity entries.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity, now: time.Now}
}

// Push records text as the most recent capture. Blank text is ignored. If
// the text is already present it moves to the front instead of being
// duplicated. Push reports whether the visible order or contents changed.
func (h *History) Push(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	for i := range h.entries {
		if h.entries[i].Text != text {
			continue
		}
		if i == 0 {
			h.entries[0].CopiedAt = now
			return false
		}
		copy(h.entries[1:i+1], h.entries[:i])
		h.entries[0] = Entry{Text: text, CopiedAt: now}
		return true
	}

	h.entries = append([]Entry{{Text: text, CopiedAt: now}}, h.entries...)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[:h.capacity]
	}
	return true
}

// Items returns the capture texts, most recent first.
func (h *History) Items() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Text
	}
	return out
}

// Entries returns a copy of the captures with their timestamps.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of captures.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// RemoveText deletes the capture whose text is text. Captures are unique,
// so at most one entry matches.
func (h *History) RemoveText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		if h.entries[i].Text == text {
			h.entries = append(h.entries[:i:i], h.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Clear drops every capture.
func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Capacity returns the current cap.
func (h *History) Capacity() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.capacity
}

// SetCapacity changes the cap, trimming the oldest captures if needed.
func (h *History) SetCapacity(n int) {
	if n <= 0 {
		n = DefaultCapacity
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.capacity = n
	if len(h.entries) > n {
		h.entries = h.entries[:n]
	}
}
