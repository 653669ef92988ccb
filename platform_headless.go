//go:build headless

package main

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"clipdock/traymenu"
)

// HeadlessPlatform runs without a tray icon. Menus are only logged; the
// bridge and settings window still work.
type HeadlessPlatform struct {
	windowRegistry

	queue chan func()
	done  chan struct{}
	once  sync.Once

	mu    sync.Mutex
	trays map[string]*headlessTray
}

func NewPlatform() Platform {
	return &HeadlessPlatform{
		queue: make(chan func(), 256),
		done:  make(chan struct{}),
		trays: make(map[string]*headlessTray),
	}
}

func (p *HeadlessPlatform) Init() {}

func (p *HeadlessPlatform) Run(onReady func()) {
	p.DispatchToMain(onReady)
	for {
		select {
		case fn := <-p.queue:
			fn()
		case <-p.done:
			return
		}
	}
}

func (p *HeadlessPlatform) Quit() {
	p.once.Do(func() { close(p.done) })
}

func (p *HeadlessPlatform) DispatchToMain(fn func()) {
	p.queue <- fn
}

func (p *HeadlessPlatform) OpenURL(url string) error {
	log.Info().Str("url", url).Msg("open in a browser")
	return nil
}

func (p *HeadlessPlatform) NewTray(id string, opts TrayOptions) (Tray, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.trays[id]; ok {
		return nil, fmt.Errorf("tray %q already exists", id)
	}
	t := &headlessTray{id: id}
	_ = t.SetMenu(opts.Menu)
	p.trays[id] = t
	return t, nil
}

func (p *HeadlessPlatform) TrayByID(id string) (Tray, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.trays[id]
	return t, ok
}

type headlessTray struct {
	id string
}

func (t *headlessTray) SetMenu(items []traymenu.Item) error {
	log.Debug().Str("tray", t.id).Int("items", len(items)).Msg("tray menu set")
	return nil
}
