package main

import (
	"sync"

	"clipdock/traymenu"
)

// TrayIconEventKind says how the user interacted with the tray icon.
type TrayIconEventKind string

const (
	TrayIconClick          TrayIconEventKind = "click"
	TrayIconSecondaryClick TrayIconEventKind = "secondary_click"
)

// TrayIconEvent is delivered when the user interacts with the tray icon
// itself rather than a menu entry.
type TrayIconEvent struct {
	TrayID string
	Kind   TrayIconEventKind
}

// TrayOptions describes a tray icon to create.
type TrayOptions struct {
	Icon         []byte // PNG
	BookmarkIcon []byte // PNG shown on items with Icon set
	Tooltip      string
	Menu         []traymenu.Item
	OnMenuEvent  func(id string)
	OnIconEvent  func(TrayIconEvent)
}

// Tray is a live tray icon whose menu can be replaced in place.
type Tray interface {
	SetMenu(items []traymenu.Item) error
}

// Window is a top-level window the tray controls.
type Window interface {
	Show() error
	Hide() error
	// OnCloseRequested installs a close interceptor; returning true keeps
	// the window from being destroyed.
	OnCloseRequested(fn func() bool)
}

// Platform abstracts OS-specific UI operations (tray, windows, main thread).
type Platform interface {
	Init()
	// Run blocks on the UI loop; onReady runs once the loop can create trays.
	Run(onReady func())
	Quit()
	NewTray(id string, opts TrayOptions) (Tray, error)
	TrayByID(id string) (Tray, bool)
	AttachWindow(name string, w Window)
	Window(name string) (Window, bool)
	DispatchToMain(fn func())
	OpenURL(url string) error
}

// windowRegistry maps window names to windows for Platform implementations.
type windowRegistry struct {
	mu      sync.Mutex
	windows map[string]Window
}

func (r *windowRegistry) AttachWindow(name string, w Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.windows == nil {
		r.windows = make(map[string]Window)
	}
	r.windows[name] = w
}

func (r *windowRegistry) Window(name string) (Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[name]
	return w, ok
}
