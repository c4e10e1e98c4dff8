package session

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/analysis"
	"github.com/soundfolio/player/internal/catalog"
	"github.com/soundfolio/player/internal/config"
	"github.com/soundfolio/player/internal/metrics"
	"github.com/soundfolio/player/internal/mpris"
	"github.com/soundfolio/player/internal/notify"
	"github.com/soundfolio/player/internal/playback"
	"github.com/soundfolio/player/internal/player"
	"github.com/soundfolio/player/internal/registry"
	"github.com/soundfolio/player/internal/spectrum"
	"github.com/soundfolio/player/internal/state"
	"github.com/soundfolio/player/internal/storage"
)

// Backends are the catalog sources opened from configuration. Either may
// be nil when disabled.
type Backends struct {
	Registry registry.Store
	Storage  storage.Store
}

// OpenBackends opens the registry and storage selected in cfg.
func OpenBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backends, error) {
	rc := cfg.GetRegistryConfig()
	reg, err := registry.Open(ctx, registry.Options{
		Driver: rc.Driver,
		Path:   rc.Path,
		DSN:    rc.DSN,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	sc := cfg.GetStorageConfig()
	st, err := storage.Open(ctx, storage.Options{
		Backend:       sc.Backend,
		Bucket:        sc.Bucket,
		Endpoint:      sc.Minio.Endpoint,
		AccessKey:     sc.Minio.AccessKey,
		SecretKey:     sc.Minio.SecretKey,
		Region:        sc.Minio.Region,
		UseSSL:        *sc.Minio.UseSSL,
		PublicBaseURL: sc.PublicBaseURL,
		PresignExpiry: sc.PresignExpiry,
		Root:          sc.Local.Root,
	})
	if err != nil {
		if reg != nil {
			_ = reg.Close()
		}
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &Backends{Registry: reg, Storage: st}, nil
}

// Loader returns a catalog loader over the backends.
func (b *Backends) Loader(cfg *config.Config, log *zap.Logger) *catalog.Loader {
	var (
		reg catalog.Registry
		st  catalog.Storage
	)
	if b.Registry != nil {
		reg = b.Registry
	}
	if b.Storage != nil {
		st = b.Storage
	}
	cc := cfg.GetCatalogConfig()
	return catalog.NewLoader(reg, nil, st, catalog.Options{
		Prefix:     cc.Prefix,
		PageSize:   cc.PageSize,
		MaxObjects: cc.MaxObjects,
	}, log)
}

// Close closes the registry.
func (b *Backends) Close() error {
	if b.Registry != nil {
		return b.Registry.Close()
	}
	return nil
}

// Build assembles a complete session from configuration: backends, the
// beep media engine, the transport, the analyzer and the metrics.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*Session, error) {
	backends, err := OpenBackends(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	pc := cfg.GetPlayerConfig()
	media := player.New(player.Options{
		SampleRate:   pc.SampleRate,
		BufferSize:   pc.Buffer,
		FetchTimeout: pc.FetchTimeout,
	}, log.Named("player"))

	transport := playback.New(media, log.Named("transport"))
	transport.SetVolume(*pc.Volume)

	vc := cfg.GetVisualizerConfig()
	scfg := spectrum.Config{
		Exponent:      vc.Exponent,
		Gain:          vc.Gain,
		IdleIntensity: *vc.IdleIntensity,
		PlayingFloor:  vc.PlayingFloor,
		FrameRate:     vc.FrameRate,
	}
	pipeline := spectrum.NewPipeline(analysis.NewPort(), media, nil, scfg, log.Named("spectrum"))

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	s := New(backends.Loader(cfg, log.Named("catalog")), transport, pipeline, m, log)
	s.closers = append(s.closers, backends, media)
	s.UseTags(media)

	if sc := cfg.GetStateConfig(); !sc.Disabled {
		resume(ctx, s, sc.Path, log)
	}

	if cfg.Notify.Enabled {
		n, err := notify.New()
		if err != nil {
			log.Warn("notifications unavailable", zap.Error(err))
		} else {
			np := notify.NewNowPlaying(n)
			s.Announce(np)
			s.closers = append(s.closers, np)
		}
	}

	if cfg.Mpris.Enabled {
		a, err := mpris.New(transport, log.Named("mpris"))
		if err != nil {
			log.Warn("mpris unavailable", zap.Error(err))
		} else {
			s.closers = append(s.closers, a)
		}
	}
	return s, nil
}

// resume restores saved state into s. Failures only cost the saved state.
func resume(ctx context.Context, s *Session, path string, log *zap.Logger) {
	mgr, err := state.Open(ctx, path, log.Named("state"))
	if err != nil {
		log.Warn("state unavailable, starting fresh", zap.Error(err))
		return
	}
	saved, found, err := mgr.Load(ctx)
	if err != nil {
		log.Warn("read saved state", zap.Error(err))
	}
	s.Resume(mgr, saved, found && err == nil)
	s.closers = append(s.closers, mgr)
}
