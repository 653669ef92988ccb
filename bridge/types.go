package bridge

import (
	"os"
	"path/filepath"

	"clipdock/bookmark"
	"clipdock/history"
)

// Request is the wire format for requests sent over the Unix socket.
type Request struct {
	Type    string `json:"type"`              // "ListHistory", "ListBookmarks", "AddBookmark", ...
	Content string `json:"content,omitempty"` // text for AddBookmark and Copy
	ID      string `json:"id,omitempty"`      // bookmark ID for RemoveBookmark
}

// Response is the wire format for responses sent over the Unix socket.
type Response struct {
	Type      string              `json:"type"` // "History", "Bookmarks", "Bookmark", "OK", "Error"
	History   []history.Entry     `json:"history,omitempty"`
	Bookmarks []bookmark.Bookmark `json:"bookmarks,omitempty"`
	Bookmark  *bookmark.Bookmark  `json:"bookmark,omitempty"`
	Code      int                 `json:"code,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// Error codes carried in Response.Code.
const (
	CodeParse    = -32700
	CodeUnknown  = -32601
	CodeInternal = -32603
)

// Router handles bridge requests. Implemented by the tray app.
type Router interface {
	ListHistory() []history.Entry
	ListBookmarks() []bookmark.Bookmark
	AddBookmark(content string) (bookmark.Bookmark, error)
	RemoveBookmark(id string) error
	Copy(content string) error
	ClearHistory()
	ShowSettings() error
}

// SocketPath returns the path to the bridge Unix socket inside configDir,
// creating the directory if needed. An empty configDir means the user
// config directory.
func SocketPath(configDir string) string {
	if configDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, _ = os.UserHomeDir()
		}
		configDir = filepath.Join(dir, "clipdock")
	}
	_ = os.MkdirAll(configDir, 0o755)
	return filepath.Join(configDir, "clipdock.sock")
}
