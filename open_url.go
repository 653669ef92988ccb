package main

import (
	"fmt"

	"github.com/pkg/browser"
)

// openURL hands url to the desktop's default browser.
func openURL(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
