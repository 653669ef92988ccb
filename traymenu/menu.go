package traymenu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clipdock/bookmark"
)

// Static item IDs and labels.
const (
	IDSettings = "show"
	IDQuit     = "quit"

	LabelBookmarks = "BOOKMARKS"
	LabelClipboard = "CLIPBOARD"
	LabelSettings  = "Settings"
	LabelQuit      = "Quit"
)

// ErrUnknownItem is returned when a menu ID does not name an entry of the menu.
var ErrUnknownItem = errors.New("unknown menu item")

// Kind says how a platform should render an Item.
type Kind string

const (
	KindHeader    Kind = "header"
	KindSeparator Kind = "separator"
	KindBookmark  Kind = "bookmark"
	KindHistory   Kind = "history"
	KindAction    Kind = "action"
)

// Item is one rendered line of the tray menu.
type Item struct {
	ID        string `json:"id,omitempty"`
	Label     string `json:"label,omitempty"`
	Kind      Kind   `json:"kind"`
	Enabled   bool   `json:"enabled"`
	Checkable bool   `json:"checkable,omitempty"`
	Checked   bool   `json:"checked,omitempty"`
	Icon      bool   `json:"icon,omitempty"`
}

// Options controls which sections are built and how entries look.
type Options struct {
	IncludeBookmarks bool
	BookmarkIcons    bool
	LabelWidth       int
}

// DefaultOptions matches the full menu: bookmarks with icons, 30 characters.
func DefaultOptions() Options {
	return Options{
		IncludeBookmarks: true,
		BookmarkIcons:    true,
		LabelWidth:       DefaultLabelWidth,
	}
}

// Section identifies what an ID points at.
type Section int

const (
	SectionNone Section = iota
	SectionHistory
	SectionBookmark
	SectionSettings
	SectionQuit
)

func (s Section) String() string {
	switch s {
	case SectionHistory:
		return "history"
	case SectionBookmark:
		return "bookmark"
	case SectionSettings:
		return "settings"
	case SectionQuit:
		return "quit"
	default:
		return "none"
	}
}

// ParseID splits a menu ID into its section and, for entries, the index.
func ParseID(id string) (Section, int, error) {
	switch id {
	case IDSettings:
		return SectionSettings, -1, nil
	case IDQuit:
		return SectionQuit, -1, nil
	}

	section := SectionHistory
	rest, ok := strings.CutPrefix(id, BookmarkPrefix)
	if ok {
		section = SectionBookmark
	} else if rest, ok = strings.CutPrefix(id, HistoryPrefix); !ok {
		return SectionNone, -1, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || strconv.Itoa(i) != rest {
		return SectionNone, -1, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return section, i, nil
}

// Target is what a clicked menu ID resolved to. Content is the full,
// untruncated text the entry was built from.
type Target struct {
	Section    Section
	Index      int
	Content    string
	BookmarkID string
}

// Menu is one built tray menu together with the snapshot it was built from.
// Clicks are resolved against this snapshot, so a click always refers to
// the entry the user saw even if the stores changed since the build.
type Menu struct {
	Items []Item

	history   []string
	bookmarks []bookmark.Bookmark
}

// Build lays out the full tray menu from the given snapshots.
func Build(bookmarks []bookmark.Bookmark, history []string, opts Options) *Menu {
	width := opts.LabelWidth
	if width <= 0 {
		width = DefaultLabelWidth
	}

	m := &Menu{
		history: append([]string(nil), history...),
	}

	if opts.IncludeBookmarks {
		m.bookmarks = append([]bookmark.Bookmark(nil), bookmarks...)
		m.Items = append(m.Items, Item{Label: LabelBookmarks, Kind: KindHeader})
		for _, e := range projectBookmarks(m.bookmarks, width) {
			m.Items = append(m.Items, Item{
				ID:      e.ID,
				Label:   e.Label,
				Kind:    KindBookmark,
				Enabled: true,
				Icon:    opts.BookmarkIcons,
			})
		}
		m.Items = append(m.Items, Item{Kind: KindSeparator})
	}

	m.Items = append(m.Items, Item{Label: LabelClipboard, Kind: KindHeader})
	for _, e := range projectHistory(m.history, width) {
		m.Items = append(m.Items, Item{
			ID:        e.ID,
			Label:     e.Label,
			Kind:      KindHistory,
			Enabled:   true,
			Checkable: true,
		})
	}

	m.Items = append(m.Items,
		Item{Kind: KindSeparator},
		Item{ID: IDSettings, Label: LabelSettings, Kind: KindAction, Enabled: true},
		Item{ID: IDQuit, Label: LabelQuit, Kind: KindAction, Enabled: true},
	)
	return m
}

// Resolve maps a clicked ID back to its target in this menu's snapshot.
func (m *Menu) Resolve(id string) (Target, error) {
	section, i, err := ParseID(id)
	if err != nil {
		return Target{}, err
	}

	switch section {
	case SectionHistory:
		if i >= len(m.history) {
			return Target{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}
		return Target{Section: section, Index: i, Content: m.history[i]}, nil
	case SectionBookmark:
		if i >= len(m.bookmarks) {
			return Target{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}
		b := m.bookmarks[i]
		return Target{Section: section, Index: i, Content: b.Content, BookmarkID: b.ID}, nil
	default:
		return Target{Section: section, Index: -1}, nil
	}
}

// Clickable returns the items a platform needs to wire a click handler for.
func (m *Menu) Clickable() []Item {
	var out []Item
	for _, it := range m.Items {
		if it.ID != "" && it.Enabled {
			out = append(out, it)
		}
	}
	return out
}
