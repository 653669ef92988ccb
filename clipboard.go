package main

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// Clipboard reads and writes the system clipboard's text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard uses the OS clipboard tools (pbcopy, xclip/xsel/wl-copy, win32).
type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// clipboardSupported reports whether a clipboard backend was found.
func clipboardSupported() bool {
	return !clipboard.Unsupported
}

// watchClipboard polls the clipboard until ctx is done, recording new text
// in the history and refreshing the tray menu when the history changes.
func (a *App) watchClipboard(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	var failing bool
	for {
		text, err := a.clipboard.ReadAll()
		switch {
		case err != nil:
			if !failing {
				log.Warn().Err(err).Msg("clipboard read failed")
				failing = true
			}
		default:
			if failing {
				log.Info().Msg("clipboard readable again")
				failing = false
			}
			last = a.recordClipboard(last, text)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// recordClipboard pushes text into history if it differs from the previous
// poll and returns the text to compare against next time.
func (a *App) recordClipboard(last, text string) string {
	if text == last {
		return last
	}
	if a.history.Push(text) {
		log.Debug().Int("len", len(text)).Msg("clipboard captured")
		a.refreshMenu()
	}
	return text
}
