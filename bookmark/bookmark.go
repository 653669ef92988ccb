package bookmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no bookmark matches the given ID.
var ErrNotFound = errors.New("bookmark not found")

// Bookmark is a user-pinned clipboard entry.
type Bookmark struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds bookmarks in insertion order and persists them to a JSON file.
type Store struct {
	mu        sync.RWMutex
	path      string
	bookmarks []Bookmark
}

// NewStore creates an empty store that saves to path. An empty path keeps
// the store in memory only.
func NewStore(path string) *Store {
	return &Store{path: path, bookmarks: []Bookmark{}}
}

// Load reads bookmarks from path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := NewStore(path)
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Reload replaces the in-memory list with the file contents.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.bookmarks = []Bookmark{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read bookmarks: %w", err)
	}

	var list []Bookmark
	if len(data) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("parse bookmarks %s: %w", s.path, err)
		}
	}
	if list == nil {
		list = []Bookmark{}
	}

	s.mu.Lock()
	s.bookmarks = list
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the bookmarks in insertion order.
func (s *Store) Snapshot() []Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookmarks)
}

// Contains reports whether a bookmark with exactly this content exists.
func (s *Store) Contains(content string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOfContentLocked(content) >= 0
}

// Add appends a bookmark for content and saves. If the content is already
// bookmarked the existing bookmark is returned and nothing is written.
func (s *Store) Add(content string) (Bookmark, error) {
	if content == "" {
		return Bookmark{}, errors.New("bookmark content is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOfContentLocked(content); i >= 0 {
		return s.bookmarks[i], nil
	}

	b := Bookmark{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.bookmarks = append(s.bookmarks, b)
	if err := s.saveLocked(); err != nil {
		s.bookmarks = s.bookmarks[:len(s.bookmarks)-1]
		return Bookmark{}, err
	}
	return b, nil
}

// Remove deletes the bookmark with the given ID and saves.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookmarks {
		if s.bookmarks[i].ID != id {
			continue
		}
		prev := s.bookmarks
		next := make([]Bookmark, 0, len(prev)-1)
		next = append(next, prev[:i]...)
		next = append(next, prev[i+1:]...)
		s.bookmarks = next
		if err := s.saveLocked(); err != nil {
			s.bookmarks = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Store) indexOfContentLocked(content string) int {
	for i := range s.bookmarks {
		if s.bookmarks[i].Content == content {
			return i
		}
	}
	return -1
}

// saveLocked writes the list atomically (temp file + rename). Caller holds mu.
func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create bookmark dir: %w", err)
	}

	data, err := json.MarshalIndent(s.bookmarks, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize bookmarks: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace bookmarks: %w", err)
	}
	return nil
}
