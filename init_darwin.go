//go:build darwin

package main

import "runtime"

func init() {
	// The status bar item must be created and driven from the main thread.
	runtime.LockOSThread()
}
