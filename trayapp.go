package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"clipdock/bookmark"
	"clipdock/bridge"
	"clipdock/history"
	"clipdock/traymenu"
	"clipdock/webui"
)

const (
	trayID      = "main"
	mainWindow  = "main"
	trayTooltip = "Click to open clipboard history and clipboard bookmarks"
)

// Menu construction failures. They are returned to the caller, which logs
// them and keeps the process alive.
var (
	ErrWindowNotFound = errors.New("window not found")
	ErrTrayNotFound   = errors.New("tray icon not found")
	ErrIconMissing    = errors.New("icon missing")
	ErrMenuBuild      = errors.New("menu build failed")
)

// App is the main tray application state.
type App struct {
	settings  *Settings
	platform  Platform
	clipboard Clipboard
	history   *history.History
	bookmarks *bookmark.Store
	window    *webui.Server
	bridge    *bridge.Server
	icons     iconSet

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	menu *traymenu.Menu
}

func newApp(settings *Settings, platform Platform, cb Clipboard, hist *history.History, bms *bookmark.Store) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		settings:  settings,
		platform:  platform,
		clipboard: cb,
		history:   hist,
		bookmarks: bms,
		ctx:       ctx,
		cancel:    cancel,
	}
	a.window = webui.New(a, platform.OpenURL)
	return a
}

func runTrayApp() error {
	settings := LoadSettings()
	setupLogging(settings.LogLevel)
	log.Info().Msg("starting tray app")

	if !clipboardSupported() {
		log.Warn().Msg("no clipboard backend found; history will stay empty")
	}

	platform := NewPlatform()
	platform.Init()

	bms, err := bookmark.Load(bookmarksPath())
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}

	app := newApp(settings, platform, systemClipboard{}, history.New(settings.MaxHistory), bms)

	icons, err := loadIcons()
	if err != nil {
		log.Error().Err(err).Msg("tray icons unavailable")
	}
	app.icons = icons

	if err := app.window.Listen(settings.SettingsAddr); err != nil {
		log.Error().Err(err).Msg("settings window unavailable")
	} else {
		platform.AttachWindow(mainWindow, app.window)
	}
	app.window.OnDestroyed(func() { platform.DispatchToMain(app.quit) })

	bs, err := bridge.NewServer(&appRouter{app: app}, settingsDir())
	if err != nil {
		log.Error().Err(err).Msg("bridge server unavailable")
	} else {
		app.bridge = bs
		go bs.Serve()
		log.Info().Str("socket", bridge.SocketPath(settingsDir())).Msg("bridge server started")
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
			log.Info().Msg("signal received, shutting down")
			platform.DispatchToMain(app.quit)
		case <-app.ctx.Done():
		}
	}()

	log.Info().Msg("entering run loop")
	platform.Run(func() {
		if err := app.buildTrayMenu(false); err != nil {
			log.Error().Err(err).Msg("tray setup incomplete")
		}
		go app.watchClipboard(app.ctx, settings.PollInterval())
		if err := bms.Watch(app.ctx, app.refreshMenu); err != nil {
			log.Warn().Err(err).Msg("bookmark file watch disabled")
		}
	})
	app.cleanup()
	return nil
}

// buildTrayMenu lays out the tray menu from the current history and
// bookmarks. On the first call (isUpdate false) it creates the tray icon,
// registers the event callbacks and makes closing the main window hide it.
// Later calls replace the menu of the existing icon in place.
func (a *App) buildTrayMenu(isUpdate bool) error {
	opts := a.settings.MenuOptions()

	// Snapshots copy under the store locks; nothing below holds them.
	hist := a.history.Items()
	var bms []bookmark.Bookmark
	if opts.IncludeBookmarks {
		bms = a.bookmarks.Snapshot()
	}
	menu := traymenu.Build(bms, hist, opts)

	if isUpdate {
		tray, ok := a.platform.TrayByID(trayID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrTrayNotFound, trayID)
		}
		if err := tray.SetMenu(menu.Items); err != nil {
			return fmt.Errorf("%w: %w", ErrMenuBuild, err)
		}
		a.setMenu(menu)
		return nil
	}

	// The interceptor goes in first so a failed tray still hides the window
	// instead of quitting.
	var errs []error
	if win, ok := a.platform.Window(mainWindow); ok {
		win.OnCloseRequested(func() bool {
			if err := win.Hide(); err != nil {
				log.Warn().Err(err).Msg("hide main window")
			}
			return true
		})
	} else {
		errs = append(errs, fmt.Errorf("%w: %q", ErrWindowNotFound, mainWindow))
	}

	if err := a.createTray(menu); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) createTray(menu *traymenu.Menu) error {
	if len(a.icons.tray) == 0 {
		return fmt.Errorf("%w: default tray icon", ErrIconMissing)
	}

	_, err := a.platform.NewTray(trayID, TrayOptions{
		Icon:         a.icons.tray,
		BookmarkIcon: a.icons.bookmark,
		Tooltip:      trayTooltip,
		Menu:         menu.Items,
		OnMenuEvent:  a.handleTrayMenuEvent,
		OnIconEvent:  a.handleTrayIconEvent,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMenuBuild, err)
	}
	a.setMenu(menu)
	return nil
}

func (a *App) setMenu(m *traymenu.Menu) {
	a.mu.Lock()
	a.menu = m
	a.mu.Unlock()
}

func (a *App) currentMenu() *traymenu.Menu {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.menu
}

// refreshMenu schedules a menu rebuild on the UI thread and pushes the new
// state to any open settings page.
func (a *App) refreshMenu() {
	a.platform.DispatchToMain(func() {
		if err := a.buildTrayMenu(true); err != nil {
			log.Error().Err(err).Msg("tray menu refresh failed")
		}
		a.window.PushState()
	})
}

// handleTrayMenuEvent is called on the UI thread when a menu entry is selected.
func (a *App) handleTrayMenuEvent(id string) {
	menu := a.currentMenu()
	if menu == nil {
		return
	}

	target, err := menu.Resolve(id)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("tray menu event")
		return
	}

	switch target.Section {
	case traymenu.SectionHistory, traymenu.SectionBookmark:
		if err := a.copyToClipboard(target.Content); err != nil {
			log.Error().Err(err).Str("id", id).Msg("copy menu entry")
		}
	case traymenu.SectionSettings:
		if err := a.showSettings(); err != nil {
			log.Error().Err(err).Msg("open settings")
		}
	case traymenu.SectionQuit:
		a.quit()
	}
}

// handleTrayIconEvent is called on the UI thread when the icon is clicked.
func (a *App) handleTrayIconEvent(ev TrayIconEvent) {
	if ev.Kind != TrayIconClick {
		return
	}
	if err := a.showSettings(); err != nil {
		log.Error().Err(err).Msg("open settings")
	}
}

// copyToClipboard writes text to the clipboard and moves it to the front of
// the history.
func (a *App) copyToClipboard(text string) error {
	if err := a.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	if a.history.Push(text) {
		a.refreshMenu()
	}
	return nil
}

func (a *App) showSettings() error {
	win, ok := a.platform.Window(mainWindow)
	if !ok {
		return fmt.Errorf("%w: %q", ErrWindowNotFound, mainWindow)
	}
	return win.Show()
}

func (a *App) quit() {
	a.cleanup()
	a.platform.Quit()
}

func (a *App) cleanup() {
	a.cancel()
	if a.bridge != nil {
		a.bridge.Close()
		a.bridge = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.window.Close(ctx); err != nil {
		log.Debug().Err(err).Msg("settings window close")
	}
}

// ---------------------------------------------------------------------------
// Settings window
// ---------------------------------------------------------------------------

type windowState struct {
	History   []history.Entry     `json:"history"`
	Bookmarks []bookmark.Bookmark `json:"bookmarks"`
	Settings  SettingsUpdate      `json:"settings"`
}

// State implements webui.Handler.
func (a *App) State() (json.RawMessage, error) {
	opts := a.settings.MenuOptions()
	return json.Marshal(windowState{
		History:   a.history.Entries(),
		Bookmarks: a.bookmarks.Snapshot(),
		Settings: SettingsUpdate{
			MaxHistory:       a.history.Capacity(),
			LabelWidth:       opts.LabelWidth,
			IncludeBookmarks: opts.IncludeBookmarks,
			BookmarkIcons:    opts.BookmarkIcons,
		},
	})
}

// HandleIPC implements webui.Handler. It runs on the websocket goroutine.
func (a *App) HandleIPC(msg webui.Message) {
	var err error
	switch msg.Type {
	case "copy_to_clipboard":
		err = a.copyToClipboard(msg.Content)

	case "add_bookmark":
		_, err = a.bookmarks.Add(msg.Content)

	case "remove_bookmark":
		err = a.bookmarks.Remove(msg.ID)

	case "remove_history":
		err = a.history.RemoveText(msg.Content)

	case "clear_history":
		a.history.Clear()

	case "update_settings":
		var u SettingsUpdate
		if err = json.Unmarshal(msg.Settings, &u); err == nil {
			if err = a.settings.Apply(u); err == nil {
				a.history.SetCapacity(u.MaxHistory)
			}
		}

	default:
		log.Warn().Str("type", msg.Type).Msg("unknown settings message")
		return
	}

	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("settings window request")
	}
	a.refreshMenu()
}

// ---------------------------------------------------------------------------
// bridge.Router implementation
// ---------------------------------------------------------------------------

type appRouter struct {
	app *App
}

func (r *appRouter) ListHistory() []history.Entry {
	return r.app.history.Entries()
}

func (r *appRouter) ListBookmarks() []bookmark.Bookmark {
	return r.app.bookmarks.Snapshot()
}

func (r *appRouter) AddBookmark(content string) (bookmark.Bookmark, error) {
	b, err := r.app.bookmarks.Add(content)
	if err != nil {
		return bookmark.Bookmark{}, err
	}
	r.app.refreshMenu()
	return b, nil
}

func (r *appRouter) RemoveBookmark(id string) error {
	if err := r.app.bookmarks.Remove(id); err != nil {
		return err
	}
	r.app.refreshMenu()
	return nil
}

func (r *appRouter) Copy(content string) error {
	if content == "" {
		return errors.New("nothing to copy")
	}
	return r.app.copyToClipboard(content)
}

func (r *appRouter) ClearHistory() {
	r.app.history.Clear()
	r.app.refreshMenu()
}

func (r *appRouter) ShowSettings() error {
	errc := make(chan error, 1)
	r.app.platform.DispatchToMain(func() { errc <- r.app.showSettings() })
	select {
	case err := <-errc:
		return err
	case <-r.app.ctx.Done():
		return errors.New("shutting down")
	}
}
