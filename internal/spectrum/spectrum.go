// Package spectrum turns frequency-bin snapshots into the intensity scalar
// and bar array drawn by the visualizer.
package spectrum

import (
	"math"
	"time"
)

// BarCount is the number of bars in every Snapshot.
const BarCount = 64

// Default visual tuning.
const (
	DefaultExponent      = 1.7
	DefaultGain          = 1.7
	DefaultIdleIntensity = 0.2
	DefaultPlayingFloor  = 0.4
	DefaultFrameRate     = 30
)

// Config holds the visual tuning constants. Zero or invalid fields take
// the defaults, except IdleIntensity where zero is a valid level and only
// negative or NaN values fall back.
type Config struct {
	Exponent      float64 // power-law bin remapping
	Gain          float64 // bar boost before clipping
	IdleIntensity float64 // intensity reported while not playing
	PlayingFloor  float64 // minimum intensity while playing
	FrameRate     int     // frames per second for the real clock
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Exponent:      DefaultExponent,
		Gain:          DefaultGain,
		IdleIntensity: DefaultIdleIntensity,
		PlayingFloor:  DefaultPlayingFloor,
		FrameRate:     DefaultFrameRate,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if !positive(c.Exponent) {
		c.Exponent = d.Exponent
	}
	if !positive(c.Gain) {
		c.Gain = d.Gain
	}
	if math.IsNaN(c.IdleIntensity) || c.IdleIntensity < 0 {
		c.IdleIntensity = d.IdleIntensity
	}
	if !positive(c.PlayingFloor) {
		c.PlayingFloor = d.PlayingFloor
	}
	if c.FrameRate <= 0 {
		c.FrameRate = d.FrameRate
	}
	c.IdleIntensity = min(c.IdleIntensity, 1)
	c.PlayingFloor = min(c.PlayingFloor, 1)
	return c
}

// FrameInterval returns the time between two frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.withDefaults().FrameRate)
}

func positive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

// Snapshot is one visualizer frame.
type Snapshot struct {
	Intensity float64 // [0,1]
	Bars      [BarCount]float64
}

// IdleSnapshot returns flat bars at the idle intensity.
func IdleSnapshot(cfg Config) Snapshot {
	return Snapshot{Intensity: cfg.withDefaults().IdleIntensity}
}

// Compute derives a Snapshot from byte magnitudes in [0,255].
//
// Bar i reads bin floor((i/BarCount)^Exponent * len(bins)), normalized and
// boosted by Gain, clipped to 1. Intensity is the normalized bin mean
// floored at PlayingFloor while playing, and exactly IdleIntensity otherwise.
func Compute(bins []byte, playing bool, cfg Config) Snapshot {
	cfg = cfg.withDefaults()

	var s Snapshot
	n := len(bins)
	if n > 0 {
		for i := range BarCount {
			pos := math.Pow(float64(i)/BarCount, cfg.Exponent) * float64(n)
			idx := min(max(int(math.Floor(pos)), 0), n-1)
			s.Bars[i] = clamp01(float64(bins[idx]) / 255 * cfg.Gain)
		}
	}

	if !playing {
		s.Intensity = cfg.IdleIntensity
		return s
	}

	var mean float64
	if n > 0 {
		var sum int
		for _, b := range bins {
			sum += int(b)
		}
		mean = float64(sum) / float64(n) / 255
	}
	s.Intensity = clamp01(max(mean, cfg.PlayingFloor))
	return s
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
