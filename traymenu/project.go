// Package traymenu turns clipboard history and bookmark snapshots into the
// entries shown in the tray menu.
package traymenu

import (
	"strconv"

	"github.com/rivo/uniseg"

	"clipdock/bookmark"
)

// DefaultLabelWidth is the number of characters shown before a label is cut.
const DefaultLabelWidth = 30

// Ellipsis is appended to truncated labels.
const Ellipsis = "..."

// ID prefixes. The bookmark prefix must be checked first when parsing since
// it shares the history prefix.
const (
	HistoryPrefix  = "item_"
	BookmarkPrefix = "item_bm_"
)

// Entry is one projected menu line.
type Entry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Truncate cuts s to width user-perceived characters and appends Ellipsis.
// Strings that already fit are returned unchanged. Characters are grapheme
// clusters, so multi-byte text is never split inside a character.
func Truncate(s string, width int) string {
	if width <= 0 {
		width = DefaultLabelWidth
	}

	// Stop one cluster past width; labels come from arbitrarily long clips.
	g := uniseg.NewGraphemes(s)
	end := 0
	for n := 0; g.Next(); n++ {
		if n == width {
			return s[:end] + Ellipsis
		}
		_, end = g.Positions()
	}
	return s
}

// ProjectHistory maps history texts to entries with IDs "item_<i>".
func ProjectHistory(entries []string) []Entry {
	return projectHistory(entries, DefaultLabelWidth)
}

// ProjectBookmarks maps bookmarks to entries with IDs "item_bm_<i>".
func ProjectBookmarks(entries []bookmark.Bookmark) []Entry {
	return projectBookmarks(entries, DefaultLabelWidth)
}

func projectHistory(entries []string, width int) []Entry {
	out := make([]Entry, 0, len(entries))
	for i, text := range entries {
		out = append(out, Entry{
			ID:    HistoryPrefix + strconv.Itoa(i),
			Label: Truncate(text, width),
		})
	}
	return out
}

func projectBookmarks(entries []bookmark.Bookmark, width int) []Entry {
	out := make([]Entry, 0, len(entries))
	for i, b := range entries {
		out = append(out, Entry{
			ID:    BookmarkPrefix + strconv.Itoa(i),
			Label: Truncate(b.Content, width),
		})
	}
	return out
}
