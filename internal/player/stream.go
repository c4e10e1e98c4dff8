package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/playback"
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker opens the audio device once per process.
func initSpeaker(rate beep.SampleRate, buffer time.Duration) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

func speakerReady() bool {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerInitialized
}

// Load releases the current track and starts fetching req.URL in the
// background. Readiness and failure are reported through the observer.
func (p *Player) Load(req playback.LoadRequest) {
	p.mu.Lock()
	p.releaseLocked()
	ctx, cancel := context.WithCancel(context.Background())
	p.loadID = req.ID
	p.cancelLoad = cancel
	p.state = Loading
	p.mu.Unlock()

	go p.load(ctx, req)
}

func (p *Player) load(ctx context.Context, req playback.LoadRequest) {
	st, data, err := p.open(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.log.Debug("load failed", zap.String("url", req.URL), zap.Error(err))
		p.mu.Lock()
		if p.loadID == req.ID {
			p.state = Stopped
		}
		p.mu.Unlock()
		p.emit(playback.MediaEvent{Kind: playback.EventError, Request: req.ID, Err: err})
		return
	}

	p.mu.Lock()
	if p.loadID != req.ID || ctx.Err() != nil {
		p.mu.Unlock()
		st.decoder.Close()
		return
	}
	info := readTrackInfo(req.URL, data)
	info.Format = st.info.Format
	st.info = info
	st.info.Duration = st.format.SampleRate.D(st.decoder.Len())
	st.info.SampleRate = int(st.format.SampleRate)
	p.attachLocked(st)
	duration := st.info.Duration
	p.mu.Unlock()

	p.emit(playback.MediaEvent{Kind: playback.EventPlayStarted, Request: req.ID})
	p.emit(playback.MediaEvent{Kind: playback.EventDurationKnown, Request: req.ID, Duration: duration})
	go p.trackPosition(ctx, st)
}

// open fetches and decodes the track and makes sure the speaker is up.
func (p *Player) open(ctx context.Context, req playback.LoadRequest) (*stream, []byte, error) {
	ext := extension(req.URL)
	data, err := p.fetch(ctx, req.URL)
	if err != nil {
		return nil, nil, err
	}
	decoder, format, name, err := decode(ext, data)
	if err != nil {
		return nil, nil, err
	}
	if err := initSpeaker(beep.SampleRate(p.opts.SampleRate), p.opts.BufferSize); err != nil {
		decoder.Close()
		return nil, nil, err
	}
	st := &stream{
		id:      req.ID,
		decoder: decoder,
		format:  format,
		info:    &TrackInfo{Format: name},
	}
	return st, data, nil
}

// attachLocked builds decoder → resample → ctrl → volume → tap and hands it
// to the speaker.
func (p *Player) attachLocked(st *stream) {
	var s beep.Streamer = st.decoder
	if st.format.SampleRate != speakerSampleRate {
		s = beep.Resample(4, st.format.SampleRate, speakerSampleRate, s)
	}
	st.ctrl = &beep.Ctrl{Streamer: s}
	st.volume = &effects.Volume{
		Streamer: st.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.volumeLevel <= 0,
	}
	id := st.id
	tapped := &tapStreamer{s: st.volume, p: p}
	speaker.Play(beep.Seq(tapped, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held.
		go p.finished(id)
	})))

	p.current = st
	p.state = Playing
}

// finished handles natural completion of the stream for request id.
func (p *Player) finished(id uint64) {
	p.mu.Lock()
	if p.current == nil || p.current.id != id {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()
	p.mu.Unlock()

	p.emit(playback.MediaEvent{Kind: playback.EventEnded, Request: id})
}

// trackPosition reports the playback position until ctx is cancelled.
func (p *Player) trackPosition(ctx context.Context, st *stream) {
	ticker := time.NewTicker(p.opts.PositionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.current != st {
			p.mu.Unlock()
			return
		}
		if p.state != Playing {
			p.mu.Unlock()
			continue
		}
		speaker.Lock()
		pos := st.format.SampleRate.D(st.decoder.Position())
		speaker.Unlock()
		p.mu.Unlock()

		p.emit(playback.MediaEvent{Kind: playback.EventTimeUpdate, Request: st.id, Position: pos})
	}
}
