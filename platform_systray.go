//go:build !headless

package main

import (
	"fmt"
	"sync"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"

	"clipdock/traymenu"
)

// SystrayPlatform implements Platform on top of fyne.io/systray, which
// supports a single tray icon per process.
type SystrayPlatform struct {
	windowRegistry

	queue chan func()

	mu   sync.Mutex
	tray *systrayTray
}

func NewPlatform() Platform {
	return &SystrayPlatform{queue: make(chan func(), 256)}
}

func (p *SystrayPlatform) Init() {}

func (p *SystrayPlatform) Run(onReady func()) {
	done := make(chan struct{})
	systray.Run(func() {
		go p.uiLoop(done)
		p.DispatchToMain(onReady)
	}, func() {
		close(done)
	})
}

// uiLoop runs dispatched functions one at a time, standing in for the main
// thread: systray calls are goroutine safe but menu rebuilds must not interleave.
func (p *SystrayPlatform) uiLoop(done <-chan struct{}) {
	for {
		select {
		case fn := <-p.queue:
			fn()
		case <-done:
			return
		}
	}
}

func (p *SystrayPlatform) Quit() {
	systray.Quit()
}

func (p *SystrayPlatform) DispatchToMain(fn func()) {
	p.queue <- fn
}

func (p *SystrayPlatform) OpenURL(url string) error {
	return openURL(url)
}

func (p *SystrayPlatform) NewTray(id string, opts TrayOptions) (Tray, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tray != nil {
		return nil, fmt.Errorf("tray %q already exists; systray supports one icon", p.tray.id)
	}

	systray.SetIcon(opts.Icon)
	systray.SetTooltip(opts.Tooltip)
	if opts.OnIconEvent != nil {
		systray.SetOnTapped(func() {
			p.DispatchToMain(func() {
				opts.OnIconEvent(TrayIconEvent{TrayID: id, Kind: TrayIconClick})
			})
		})
	}

	t := &systrayTray{
		id:           id,
		bookmarkIcon: opts.BookmarkIcon,
		onMenuEvent:  opts.OnMenuEvent,
		dispatch:     p.DispatchToMain,
	}
	if err := t.SetMenu(opts.Menu); err != nil {
		return nil, err
	}
	p.tray = t
	return t, nil
}

func (p *SystrayPlatform) TrayByID(id string) (Tray, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tray == nil || p.tray.id != id {
		return nil, false
	}
	return p.tray, true
}

type systrayTray struct {
	id           string
	bookmarkIcon []byte
	onMenuEvent  func(id string)
	dispatch     func(func())

	mu   sync.Mutex
	stop chan struct{}
}

// SetMenu replaces the whole menu. Click listeners of the previous menu are
// stopped before the new items are added.
func (t *systrayTray) SetMenu(items []traymenu.Item) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	t.stop = make(chan struct{})
	systray.ResetMenu()

	for _, it := range items {
		switch it.Kind {
		case traymenu.KindSeparator:
			systray.AddSeparator()
			continue
		}

		var mi *systray.MenuItem
		if it.Checkable {
			mi = systray.AddMenuItemCheckbox(it.Label, "", it.Checked)
		} else {
			mi = systray.AddMenuItem(it.Label, "")
		}
		if it.Icon && len(t.bookmarkIcon) > 0 {
			mi.SetIcon(t.bookmarkIcon)
		}
		if !it.Enabled {
			mi.Disable()
			continue
		}
		if it.ID == "" {
			continue
		}
		go t.listen(mi, it.ID, t.stop)
	}
	log.Debug().Str("tray", t.id).Int("items", len(items)).Msg("tray menu set")
	return nil
}

func (t *systrayTray) listen(mi *systray.MenuItem, id string, stop <-chan struct{}) {
	for {
		select {
		case <-mi.ClickedCh:
			if t.onMenuEvent != nil {
				t.dispatch(func() { t.onMenuEvent(id) })
			}
		case <-stop:
			return
		}
	}
}
