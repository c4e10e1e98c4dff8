//go:build !windows

// Package stderr redirects file descriptor 2 into the logger while the
// terminal UI runs, so ALSA messages printed by the audio backend do not
// corrupt the screen.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// Capture redirects fd 2 until the returned restore function is called.
// Every non-empty line written meanwhile is logged at warn level.
func Capture(log *zap.Logger) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		forward(r, log)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = syscall.Dup2(orig, int(os.Stderr.Fd()))
			_ = syscall.Close(orig)
			w.Close()
			<-done
			r.Close()
		})
	}, nil
}

func forward(r *os.File, log *zap.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn("stderr", zap.String("line", line))
		}
	}
}
