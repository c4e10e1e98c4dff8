package spectrum

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePort struct {
	mu        sync.Mutex
	bins      []byte
	attachErr error
	attaches  int
	releases  []Handle
	reads     int
}

func (f *fakePort) Attach(_ any) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attaches++
	if f.attachErr != nil {
		return "", f.attachErr
	}
	return "tap-1", nil
}

func (f *fakePort) ReadSnapshot(_ Handle) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.bins
}

func (f *fakePort) Release(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases = append(f.releases, h)
}

func newTestPipeline(port *fakePort) (*Pipeline, *ManualClock, *int) {
	clock := NewManualClock()
	p := NewPipeline(port, "media", clock, DefaultConfig(), nil)
	frames := 0
	p.OnFrame(func(Snapshot) { frames++ })
	return p, clock, &frames
}

func TestPipeline_InitialSnapshotIsIdle(t *testing.T) {
	p, _, _ := newTestPipeline(&fakePort{})
	assert.Equal(t, IdleSnapshot(DefaultConfig()), p.Current())
}

func TestPipeline_FramesWhilePlaying(t *testing.T) {
	port := &fakePort{bins: fill(256, 230)}
	p, clock, frames := newTestPipeline(port)

	p.Start()
	assert.Equal(t, 1, clock.Pending())

	assert.Equal(t, 1, clock.Advance())
	assert.Equal(t, 1, *frames)
	assert.Equal(t, 1, clock.Pending(), "next frame scheduled while playing")
	assert.InDelta(t, 230.0/255, p.Current().Intensity, 1e-9)

	clock.Advance()
	clock.Advance()
	assert.Equal(t, 3, *frames)
}

func TestPipeline_AttachOnce(t *testing.T) {
	port := &fakePort{}
	p, _, _ := newTestPipeline(port)

	p.Start()
	p.Stop()
	p.Start()
	p.Start()

	assert.Equal(t, 1, port.attaches)
}

func TestPipeline_StartDoesNotDoubleSchedule(t *testing.T) {
	p, clock, _ := newTestPipeline(&fakePort{})
	p.Start()
	p.Start()
	assert.Equal(t, 1, clock.Pending())
}

func TestPipeline_StopCancelsPendingFrame(t *testing.T) {
	port := &fakePort{bins: fill(256, 255)}
	p, clock, frames := newTestPipeline(port)

	p.Start()
	clock.Advance()
	require.Equal(t, 1, *frames)

	p.Stop()
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, 0, clock.Advance())
	assert.Equal(t, 1, *frames)

	s := p.Current()
	assert.Equal(t, 0.2, s.Intensity, "idle intensity regardless of cached bins")
	assert.Equal(t, 1.0, s.Bars[10], "bars persist while stopped")
}

func TestPipeline_AttachFailureDisables(t *testing.T) {
	port := &fakePort{attachErr: errors.New("no output device")}
	p, clock, frames := newTestPipeline(port)

	p.Start()
	p.Start()

	assert.True(t, p.Disabled())
	assert.Equal(t, 1, port.attaches)
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, 0, *frames)
	assert.Equal(t, IdleSnapshot(DefaultConfig()), p.Current())
}

func TestPipeline_NoCallbacksAfterClose(t *testing.T) {
	port := &fakePort{bins: fill(256, 128)}
	p, clock, frames := newTestPipeline(port)

	p.Start()
	clock.Advance()
	clock.Advance()
	require.Equal(t, 2, *frames)

	p.Close()
	for range 5 {
		clock.Advance()
	}

	assert.Equal(t, 2, *frames)
	assert.Equal(t, []Handle{"tap-1"}, port.releases)

	p.Start()
	assert.Equal(t, 0, clock.Pending(), "Start after Close is a no-op")

	p.Close()
	assert.Len(t, port.releases, 1, "Close is idempotent")
}

// leakyClock ignores cancellation, like a timer that already fired.
type leakyClock struct {
	fns []func()
}

func (c *leakyClock) Schedule(fn func()) func() {
	c.fns = append(c.fns, fn)
	return func() {}
}

func TestPipeline_StaleFrameAfterStopIsDropped(t *testing.T) {
	port := &fakePort{bins: fill(256, 128)}
	clock := &leakyClock{}
	p := NewPipeline(port, nil, clock, DefaultConfig(), nil)
	frames := 0
	p.OnFrame(func(Snapshot) { frames++ })

	p.Start()
	p.Stop()
	p.Close()
	for _, fn := range clock.fns {
		fn()
	}

	assert.Equal(t, 0, frames)
	assert.Equal(t, 0, port.reads)
}

func TestManualClock_CancelledFramesSkipped(t *testing.T) {
	c := NewManualClock()
	fired := 0
	cancel := c.Schedule(func() { fired++ })
	c.Schedule(func() { fired++ })
	cancel()

	assert.Equal(t, 1, c.Advance())
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())
}
