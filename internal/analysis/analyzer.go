// Package analysis computes byte-scaled frequency bins from the audio that
// reaches the speaker.
package analysis

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Analysis defaults.
const (
	FFTSize   = 512
	Smoothing = 0.8
	MinDB     = -100.0
	MaxDB     = -30.0
)

// Analyzer keeps the most recent FFTSize mono samples and turns them into
// FFTSize/2 magnitude bins in [0,255].
type Analyzer struct {
	mu   sync.Mutex
	ring []float64
	pos  int

	fft      *fourier.FFT
	window   []float64
	frame    []float64
	coeffs   []complex128
	smoothed []float64
	released bool
}

// NewAnalyzer creates an analyzer with a window of FFTSize samples.
func NewAnalyzer() *Analyzer {
	w := make([]float64, FFTSize)
	for i := range w {
		w[i] = 1
	}
	return &Analyzer{
		ring:     make([]float64, FFTSize),
		fft:      fourier.NewFFT(FFTSize),
		window:   window.Blackman(w),
		frame:    make([]float64, FFTSize),
		coeffs:   make([]complex128, FFTSize/2+1),
		smoothed: make([]float64, FFTSize/2),
	}
}

// Capture copies a mono mix of samples into the ring buffer.
func (a *Analyzer) Capture(samples [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return
	}
	for _, s := range samples {
		a.ring[a.pos] = (s[0] + s[1]) / 2
		a.pos = (a.pos + 1) % len(a.ring)
	}
}

// Bins windows the buffered samples, runs the FFT and returns smoothed
// magnitudes mapped from [MinDB, MaxDB] to [0,255].
func (a *Analyzer) Bins() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.ring)
	for i := range n {
		a.frame[i] = a.ring[(a.pos+i)%n] * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	out := make([]byte, len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / float64(n)
		a.smoothed[k] = Smoothing*a.smoothed[k] + (1-Smoothing)*mag
		out[k] = toByte(a.smoothed[k])
	}
	return out
}

func (a *Analyzer) release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.released = true
}

func toByte(mag float64) byte {
	if mag <= 0 || math.IsNaN(mag) {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - MinDB) / (MaxDB - MinDB)
	return byte(min(max(v, 0), 255))
}
