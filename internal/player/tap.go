package player

import "github.com/gopxl/beep/v2"

// SampleSink receives every block of samples sent to the speaker.
// Capture runs on the speaker goroutine and must not block.
type SampleSink interface {
	Capture(samples [][2]float64)
}

// SetTap installs sink on the output path. Only one sink may be installed
// for the lifetime of the player.
func (p *Player) SetTap(sink SampleSink) error {
	p.tapMu.Lock()
	defer p.tapMu.Unlock()
	if p.tap != nil {
		return ErrTapInstalled
	}
	p.tap = sink
	return nil
}

func (p *Player) sink() SampleSink {
	p.tapMu.Lock()
	defer p.tapMu.Unlock()
	return p.tap
}

// tapStreamer passes audio through and copies it to the player's sink.
type tapStreamer struct {
	s beep.Streamer
	p *Player
}

func (t *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	if sink := t.p.sink(); sink != nil && n > 0 {
		sink.Capture(samples[:n])
	}
	return n, ok
}

func (t *tapStreamer) Err() error {
	return t.s.Err()
}
