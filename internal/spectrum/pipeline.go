package spectrum

import (
	"sync"

	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/errmsg"
)

// Pipeline publishes a Snapshot per frame while playback is running.
//
// The analyzer is attached lazily on the first Start. If attaching fails
// the pipeline stays on a static idle snapshot for the rest of its life.
type Pipeline struct {
	mu sync.Mutex

	cfg   Config
	port  AnalysisPort
	media any
	clock Clock
	log   *zap.Logger

	handle   Handle
	attached bool
	disabled bool
	closed   bool
	playing  bool

	cancel  func()
	gen     uint64
	current Snapshot
	onFrame func(Snapshot)
}

// NewPipeline creates a pipeline reading from port attached to media.
// A nil clock uses a FrameClock at cfg.FrameRate.
func NewPipeline(port AnalysisPort, media any, clock Clock, cfg Config, log *zap.Logger) *Pipeline {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = NewFrameClock(cfg.FrameRate)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:     cfg,
		port:    port,
		media:   media,
		clock:   clock,
		log:     log,
		current: IdleSnapshot(cfg),
	}
}

// OnFrame registers a callback invoked after each published frame.
// It runs on the clock goroutine without the pipeline lock held.
func (p *Pipeline) OnFrame(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFrame = fn
}

// Current returns the latest snapshot. While stopped the intensity is the
// idle value and the bars keep their last values.
func (p *Pipeline) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Disabled reports whether attaching the analyzer failed.
func (p *Pipeline) Disabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled
}

// Start marks playback as running and schedules a frame if none is pending.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.playing = true
	if !p.attachLocked() {
		return
	}
	if p.cancel == nil {
		p.scheduleLocked()
	}
}

// attachLocked installs the analyzer once and reports whether it is usable.
func (p *Pipeline) attachLocked() bool {
	if p.disabled {
		return false
	}
	if p.attached {
		return true
	}
	h, err := p.port.Attach(p.media)
	if err != nil {
		p.disabled = true
		p.log.Warn(errmsg.Format(errmsg.OpAnalyzerAttach, err))
		return false
	}
	p.handle = h
	p.attached = true
	return true
}

// Stop cancels the pending frame and drops to the idle intensity.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Pipeline) stopLocked() {
	p.playing = false
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.current.Intensity = p.cfg.IdleIntensity
}

// Close stops the pipeline and releases the analyzer. No frame is
// published once Close returns.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.stopLocked()
	p.closed = true
	if p.attached {
		p.port.Release(p.handle)
		p.attached = false
	}
	p.onFrame = nil
}

func (p *Pipeline) scheduleLocked() {
	gen := p.gen
	p.cancel = p.clock.Schedule(func() { p.frame(gen) })
}

func (p *Pipeline) frame(gen uint64) {
	p.mu.Lock()
	if p.closed || !p.playing || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.cancel = nil
	snap := Compute(p.port.ReadSnapshot(p.handle), p.playing, p.cfg)
	p.current = snap
	cb := p.onFrame
	p.scheduleLocked()
	p.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}
