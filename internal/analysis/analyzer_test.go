package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/player/internal/player"
	"github.com/soundfolio/player/internal/spectrum"
)

func sine(bin int, amp float64, n int) [][2]float64 {
	out := make([][2]float64, n)
	for i := range out {
		v := amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/FFTSize)
		out[i] = [2]float64{v, v}
	}
	return out
}

func argmax(b []byte) int {
	best := 0
	for i, v := range b {
		if v > b[best] {
			best = i
		}
	}
	return best
}

func TestAnalyzer_SilenceIsZero(t *testing.T) {
	a := NewAnalyzer()
	a.Capture(make([][2]float64, FFTSize))

	bins := a.Bins()
	require.Len(t, bins, FFTSize/2)
	for i, v := range bins {
		assert.Zero(t, v, "bin %d", i)
	}
}

func TestAnalyzer_PureTonePeak(t *testing.T) {
	a := NewAnalyzer()
	a.Capture(sine(32, 0.5, FFTSize))

	var bins []byte
	for range 10 {
		bins = a.Bins()
	}

	assert.Equal(t, 32, argmax(bins))
	assert.Greater(t, bins[32], byte(200))
	assert.Zero(t, bins[120])
}

func TestAnalyzer_RingKeepsLatestSamples(t *testing.T) {
	a := NewAnalyzer()
	a.Capture(sine(10, 0.5, FFTSize))
	a.Capture(sine(64, 0.5, FFTSize))

	var bins []byte
	for range 10 {
		bins = a.Bins()
	}
	assert.Equal(t, 64, argmax(bins))
}

func TestAnalyzer_ReleasedIgnoresCapture(t *testing.T) {
	a := NewAnalyzer()
	a.release()
	a.Capture(sine(32, 0.5, FFTSize))

	for _, v := range a.Bins() {
		assert.Zero(t, v)
	}
}

func TestToByte(t *testing.T) {
	assert.Equal(t, byte(0), toByte(0))
	assert.Equal(t, byte(0), toByte(math.NaN()))
	assert.Equal(t, byte(0), toByte(1e-6))  // -120 dB
	assert.Equal(t, byte(255), toByte(0.1)) // -20 dB
	assert.InDelta(t, 127, int(toByte(math.Pow(10, -65.0/20))), 1)
}

type fakeTapPoint struct {
	sink player.SampleSink
	err  error
}

func (f *fakeTapPoint) SetTap(s player.SampleSink) error {
	if f.err != nil {
		return f.err
	}
	if f.sink != nil {
		return player.ErrTapInstalled
	}
	f.sink = s
	return nil
}

func TestPort_AttachReadRelease(t *testing.T) {
	p := NewPort()
	media := &fakeTapPoint{}

	h, err := p.Attach(media)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.NotNil(t, media.sink)

	media.sink.Capture(sine(16, 0.5, FFTSize))
	bins := p.ReadSnapshot(h)
	require.Len(t, bins, FFTSize/2)
	assert.Equal(t, 16, argmax(bins))

	p.Release(h)
	assert.Nil(t, p.ReadSnapshot(h))
}

func TestPort_SecondAttachFails(t *testing.T) {
	p := NewPort()
	media := &fakeTapPoint{}

	_, err := p.Attach(media)
	require.NoError(t, err)

	_, err = p.Attach(media)
	assert.ErrorIs(t, err, spectrum.ErrAlreadyAttached)
	assert.ErrorIs(t, err, player.ErrTapInstalled)
}

func TestPort_AttachErrors(t *testing.T) {
	p := NewPort()

	_, err := p.Attach("not media")
	assert.ErrorIs(t, err, ErrNoTapPoint)

	_, err = p.Attach(&fakeTapPoint{err: errors.New("speaker closed")})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, spectrum.ErrAlreadyAttached)
}
