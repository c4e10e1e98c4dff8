package analysis

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/soundfolio/player/internal/player"
	"github.com/soundfolio/player/internal/spectrum"
)

// ErrNoTapPoint is returned when the media cannot carry an analysis tap.
var ErrNoTapPoint = errors.New("media has no tap point")

// TapPoint is a media source that feeds its output samples to a sink.
type TapPoint interface {
	SetTap(sink player.SampleSink) error
}

// Verify Port implements spectrum.AnalysisPort at compile time.
var _ spectrum.AnalysisPort = (*Port)(nil)

// Port attaches Analyzers to media tap points.
type Port struct {
	mu        sync.Mutex
	analyzers map[spectrum.Handle]*Analyzer
}

// NewPort creates an empty analysis port.
func NewPort() *Port {
	return &Port{analyzers: make(map[spectrum.Handle]*Analyzer)}
}

// Attach installs a new Analyzer on media.
func (p *Port) Attach(media any) (spectrum.Handle, error) {
	tp, ok := media.(TapPoint)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrNoTapPoint, media)
	}
	a := NewAnalyzer()
	if err := tp.SetTap(a); err != nil {
		if errors.Is(err, player.ErrTapInstalled) {
			return "", fmt.Errorf("%w: %w", spectrum.ErrAlreadyAttached, err)
		}
		return "", fmt.Errorf("install tap: %w", err)
	}

	h := spectrum.Handle(uuid.NewString())
	p.mu.Lock()
	p.analyzers[h] = a
	p.mu.Unlock()
	return h, nil
}

// ReadSnapshot returns the current bins for h, or nil if h is unknown.
func (p *Port) ReadSnapshot(h spectrum.Handle) []byte {
	p.mu.Lock()
	a := p.analyzers[h]
	p.mu.Unlock()
	if a == nil {
		return nil
	}
	return a.Bins()
}

// Release stops the analyzer behind h from capturing.
func (p *Port) Release(h spectrum.Handle) {
	p.mu.Lock()
	a := p.analyzers[h]
	delete(p.analyzers, h)
	p.mu.Unlock()
	if a != nil {
		a.release()
	}
}
