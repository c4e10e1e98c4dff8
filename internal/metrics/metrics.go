// Package metrics exposes Prometheus counters for catalog loads, playback
// and the spectrum pipeline.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics groups the player's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	catalogLoads    *prometheus.CounterVec
	catalogDuration prometheus.Histogram
	rowsDropped     prometheus.Counter
	tracksStarted   prometheus.Counter
	playbackErrors  prometheus.Counter
	spectrumFrames  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		catalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundfolio_catalog_loads_total",
				Help: "Catalog loads by the source that produced the tracks",
			},
			[]string{"source"},
		),
		catalogDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "soundfolio_catalog_load_seconds",
				Help:    "Time spent loading the catalog",
				Buckets: prometheus.DefBuckets,
			},
		),
		rowsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "soundfolio_catalog_rows_dropped_total", Help: "Catalog entries dropped on URL resolution failure"},
		),
		tracksStarted: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "soundfolio_tracks_started_total", Help: "Play requests issued"},
		),
		playbackErrors: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "soundfolio_playback_errors_total", Help: "Tracks that failed to play"},
		),
		spectrumFrames: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "soundfolio_spectrum_frames_total", Help: "Spectrum frames published"},
		),
	}
	reg.MustRegister(
		m.catalogLoads,
		m.catalogDuration,
		m.rowsDropped,
		m.tracksStarted,
		m.playbackErrors,
		m.spectrumFrames,
	)
	return m
}

// CatalogLoaded records one catalog load.
func (m *Metrics) CatalogLoaded(source string, dropped int, took time.Duration) {
	if m == nil {
		return
	}
	m.catalogLoads.WithLabelValues(source).Inc()
	m.catalogDuration.Observe(took.Seconds())
	if dropped > 0 {
		m.rowsDropped.Add(float64(dropped))
	}
}

// TrackStarted records a play request.
func (m *Metrics) TrackStarted() {
	if m == nil {
		return
	}
	m.tracksStarted.Inc()
}

// PlaybackError records a failed track.
func (m *Metrics) PlaybackError() {
	if m == nil {
		return
	}
	m.playbackErrors.Inc()
}

// SpectrumFrame records a published spectrum frame.
func (m *Metrics) SpectrumFrame() {
	if m == nil {
		return
	}
	m.spectrumFrames.Inc()
}

// Serve exposes g on addr at path until ctx is cancelled.
func Serve(ctx context.Context, addr, path string, g prometheus.Gatherer, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", zap.String("addr", addr), zap.String("path", path))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
