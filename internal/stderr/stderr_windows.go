//go:build windows

// Package stderr is a no-op on Windows, where the audio backend does not
// write to the console.
package stderr

import "go.uber.org/zap"

// Capture does nothing on Windows.
func Capture(*zap.Logger) (func(), error) {
	return func() {}, nil
}
