package player

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
)

// Release stops playback, cancels any pending load and frees the stream.
func (p *Player) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	if p.cancelLoad != nil {
		p.cancelLoad()
		p.cancelLoad = nil
	}
	p.loadID = 0
	if p.current != nil {
		if speakerReady() {
			speaker.Clear()
		}
		p.current.decoder.Close()
		p.current = nil
	}
	p.state = Stopped
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CanPause() || p.current == nil {
		return
	}
	speaker.Lock()
	p.current.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Play resumes paused playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CanResume() || p.current == nil {
		return
	}
	speaker.Lock()
	p.current.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// Seek moves playback to pos, clamped to the stream bounds.
func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.current
	if st == nil {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	n := st.format.SampleRate.N(pos)
	n = min(max(n, 0), max(st.decoder.Len()-1, 0))
	if err := st.decoder.Seek(n); err != nil {
		p.log.Debug("seek failed", zap.Error(err))
	}
}
