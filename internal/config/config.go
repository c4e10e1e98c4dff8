package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// sections: SOUNDFOLIO_STORAGE__MINIO__ENDPOINT sets storage.minio.endpoint.
const EnvPrefix = "SOUNDFOLIO_"

const appName = "soundfolio"

type Config struct {
	Registry   RegistryConfig   `koanf:"registry"`
	Storage    StorageConfig    `koanf:"storage"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Player     PlayerConfig     `koanf:"player"`
	Visualizer VisualizerConfig `koanf:"visualizer"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	State      StateConfig      `koanf:"state"`
	Notify     NotifyConfig     `koanf:"notify"`
	Mpris      MprisConfig      `koanf:"mpris"`
}

// RegistryConfig selects the track registry database.
type RegistryConfig struct {
	Driver string `koanf:"driver"` // "sqlite", "mysql" or "none"
	Path   string `koanf:"path"`   // sqlite file (default: $XDG_DATA_HOME/soundfolio/registry.db)
	DSN    string `koanf:"dsn"`    // mysql DSN
}

// StorageConfig selects the object storage holding the audio files.
type StorageConfig struct {
	Backend       string        `koanf:"backend"` // "minio", "local" or "none" (default: inferred)
	Bucket        string        `koanf:"bucket"`  // default: songlist1
	PublicBaseURL string        `koanf:"public_base_url"`
	PresignExpiry time.Duration `koanf:"presign_expiry"` // default: 1h
	Minio         MinioConfig   `koanf:"minio"`
	Local         LocalConfig   `koanf:"local"`
}

// MinioConfig holds S3-compatible endpoint settings.
type MinioConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    *bool  `koanf:"use_ssl"` // default: true
}

// LocalConfig holds the local directory backend settings.
type LocalConfig struct {
	Root string `koanf:"root"` // directory containing the bucket folder
}

// CatalogConfig tunes the storage listing fallback.
type CatalogConfig struct {
	Prefix     string `koanf:"prefix"`
	PageSize   int    `koanf:"page_size"`   // 1-100, default: 100
	MaxObjects int    `koanf:"max_objects"` // default: 1000
}

// PlayerConfig tunes the audio engine.
type PlayerConfig struct {
	SampleRate   int           `koanf:"sample_rate"`   // default: 44100
	Buffer       time.Duration `koanf:"buffer"`        // default: 100ms
	FetchTimeout time.Duration `koanf:"fetch_timeout"` // default: 30s
	Volume       *float64      `koanf:"volume"`        // initial volume 0-1 (default: 1)
}

// VisualizerConfig holds the spectrum tuning constants.
type VisualizerConfig struct {
	Exponent      float64 `koanf:"exponent"`       // default: 1.7
	Gain          float64 `koanf:"gain"`           // default: 1.7
	IdleIntensity *float64 `koanf:"idle_intensity"` // 0-1, default: 0.2
	PlayingFloor  float64 `koanf:"playing_floor"`  // default: 0.4
	FrameRate     int     `koanf:"frame_rate"`     // default: 30
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error (default: info)
	File       string `koanf:"file"`  // default: $XDG_STATE_HOME/soundfolio/soundfolio.log
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// StateConfig controls what is remembered between runs.
type StateConfig struct {
	Path     string `koanf:"path"`     // default: $XDG_DATA_HOME/soundfolio/state.db
	Disabled bool   `koanf:"disabled"` // forget volume and last track
}

// NotifyConfig controls desktop notifications on track start.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"`
}

// MprisConfig controls the MPRIS2 media player interface on the session bus.
type MprisConfig struct {
	Enabled bool `koanf:"enabled"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // e.g. ":9090"
	Path string `koanf:"path"` // default: /metrics
}

// Load reads config files, then .env, then SOUNDFOLIO_ environment variables.
// Extra files are applied after the default locations.
func Load(extra ...string) (*Config, error) {
	return LoadFrom(append(getConfigPaths(), extra...), ".env")
}

// LoadFrom loads the given TOML files in order (last wins), then envFile
// if present, then the environment.
func LoadFrom(paths []string, envFile string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// .env never overrides variables already set in the environment.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Registry.Path = expandPath(cfg.Registry.Path)
	cfg.Storage.Local.Root = expandPath(cfg.Storage.Local.Root)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.State.Path = expandPath(cfg.State.Path)
	cfg.Storage.PublicBaseURL = strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/")

	return cfg, nil
}

// envKey maps SOUNDFOLIO_STORAGE__MINIO__ACCESS_KEY to storage.minio.access_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/soundfolio/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetRegistryConfig returns the registry configuration with defaults applied.
func (c *Config) GetRegistryConfig() RegistryConfig {
	cfg := c.Registry
	cfg.Driver = strings.ToLower(cfg.Driver)
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
		if cfg.DSN != "" {
			cfg.Driver = "mysql"
		}
	}
	if cfg.Path == "" {
		cfg.Path = filepath.Join(xdg.DataHome, appName, "registry.db")
	}
	return cfg
}

// GetStorageConfig returns the storage configuration with defaults applied.
// Without an explicit backend, a MinIO endpoint selects minio and a local
// root selects local.
func (c *Config) GetStorageConfig() StorageConfig {
	cfg := c.Storage
	cfg.Backend = strings.ToLower(cfg.Backend)
	if cfg.Backend == "" {
		switch {
		case cfg.Minio.Endpoint != "":
			cfg.Backend = "minio"
		case cfg.Local.Root != "":
			cfg.Backend = "local"
		default:
			cfg.Backend = "none"
		}
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "songlist1"
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = time.Hour
	}
	if cfg.Minio.UseSSL == nil {
		useSSL := true
		cfg.Minio.UseSSL = &useSSL
	}
	if cfg.Backend == "local" && cfg.Local.Root == "" {
		cfg.Local.Root = filepath.Join(xdg.DataHome, appName, "storage")
	}
	return cfg
}

// GetCatalogConfig returns the catalog configuration with defaults applied.
func (c *Config) GetCatalogConfig() CatalogConfig {
	cfg := c.Catalog
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.MaxObjects <= 0 {
		cfg.MaxObjects = 1000
	}
	return cfg
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 100 * time.Millisecond
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	vol := 1.0
	if cfg.Volume != nil {
		vol = min(max(*cfg.Volume, 0), 1)
	}
	cfg.Volume = &vol
	return cfg
}

// GetVisualizerConfig returns the visualizer configuration with defaults applied.
func (c *Config) GetVisualizerConfig() VisualizerConfig {
	cfg := c.Visualizer
	if cfg.Exponent <= 0 {
		cfg.Exponent = 1.7
	}
	if cfg.Gain <= 0 {
		cfg.Gain = 1.7
	}
	idle := 0.2
	if cfg.IdleIntensity != nil && !math.IsNaN(*cfg.IdleIntensity) {
		idle = min(max(*cfg.IdleIntensity, 0), 1)
	}
	cfg.IdleIntensity = &idle
	if cfg.PlayingFloor <= 0 || cfg.PlayingFloor > 1 {
		cfg.PlayingFloor = 0.4
	}
	if cfg.FrameRate <= 0 || cfg.FrameRate > 120 {
		cfg.FrameRate = 30
	}
	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 28
	}
	return cfg
}

// GetMetricsConfig returns the metrics configuration with defaults applied.
func (c *Config) GetMetricsConfig() MetricsConfig {
	cfg := c.Metrics
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}
	return cfg
}

// HasMetrics returns true if the metrics endpoint is enabled.
func (c *Config) HasMetrics() bool {
	return c.Metrics.Addr != ""
}

// GetStateConfig returns the state configuration with defaults applied.
func (c *Config) GetStateConfig() StateConfig {
	cfg := c.State
	if cfg.Path == "" {
		cfg.Path = filepath.Join(xdg.DataHome, appName, "state.db")
	}
	return cfg
}
