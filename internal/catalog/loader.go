package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	// MaxPageSize is the largest page a storage listing may request.
	MaxPageSize       = 100
	defaultMaxObjects = 1000
)

// Options tunes the storage fallback.
type Options struct {
	Prefix     string // object prefix inside the bucket
	PageSize   int    // objects per listing call, 1..MaxPageSize
	MaxObjects int    // stop paging after this many objects
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 || o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	if o.MaxObjects <= 0 {
		o.MaxObjects = defaultMaxObjects
	}
	return o
}

// Result is the outcome of a catalog load.
// Err records the last backend error seen; it never makes the load fail.
type Result struct {
	Tracks  []Track
	Source  Source
	Dropped int
	Err     error
}

// Loader resolves the catalog with registry-first precedence.
type Loader struct {
	registry Registry
	resolver Resolver
	storage  Storage
	opts     Options
	log      *zap.Logger
}

// NewLoader creates a loader. Any backend may be nil: a nil registry
// behaves like an empty one and a nil storage disables the fallback.
// Registry filenames are resolved through resolver, or through storage when
// resolver is nil.
func NewLoader(registry Registry, resolver Resolver, storage Storage, opts Options, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if resolver == nil && storage != nil {
		resolver = storage
	}
	return &Loader{
		registry: registry,
		resolver: resolver,
		storage:  storage,
		opts:     opts.withDefaults(),
		log:      log,
	}
}

// Load returns the catalog. It never fails: backend errors degrade to the
// storage fallback or to an empty list.
func (l *Loader) Load(ctx context.Context) Result {
	var res Result

	rows, err := l.registryRows(ctx)
	if err != nil {
		l.log.Warn("registry query failed, falling back to storage", zap.Error(err))
		res.Err = err
	}

	if len(rows) > 0 {
		tracks, dropped, lastErr := l.fromRows(ctx, rows)
		res.Dropped += dropped
		if lastErr != nil {
			res.Err = lastErr
		}
		if len(tracks) > 0 {
			res.Tracks = tracks
			res.Source = SourceRegistry
			return res
		}
		l.log.Warn("no registry row could be resolved, falling back to storage",
			zap.Int("rows", len(rows)))
	}

	tracks, dropped, lastErr := l.fromStorage(ctx)
	res.Dropped += dropped
	if lastErr != nil {
		res.Err = lastErr
	}
	if len(tracks) > 0 {
		res.Tracks = tracks
		res.Source = SourceStorage
	}
	return res
}

func (l *Loader) registryRows(ctx context.Context) ([]Row, error) {
	if l.registry == nil {
		return nil, nil
	}
	return l.registry.Rows(ctx)
}

func (l *Loader) fromRows(ctx context.Context, rows []Row) ([]Track, int, error) {
	if l.resolver == nil {
		return nil, len(rows), errors.New("no URL resolver configured")
	}

	var (
		tracks  []Track
		dropped int
		lastErr error
	)
	for _, row := range rows {
		url, err := l.resolver.PublicURL(ctx, row.Filename)
		if err == nil && url == "" {
			err = errors.New("empty URL")
		}
		if err != nil {
			l.log.Warn("dropping registry row",
				zap.Int64("id", row.ID),
				zap.String("filename", row.Filename),
				zap.Error(err))
			dropped++
			lastErr = err
			continue
		}

		name := row.Title
		if name == "" {
			name = UnknownSong
		}
		artist := row.Artist
		if artist == "" {
			artist = UnknownArtist
		}
		tracks = append(tracks, Track{
			ID:          row.ID,
			Name:        name,
			URL:         url,
			Artist:      artist,
			Duration:    secondsToDuration(row.Duration),
			SourceKey:   row.Filename,
			Description: row.Description,
		})
	}
	return tracks, dropped, lastErr
}

func (l *Loader) fromStorage(ctx context.Context) ([]Track, int, error) {
	if l.storage == nil {
		return nil, 0, nil
	}

	objects, err := l.listAll(ctx)
	if err != nil {
		l.log.Warn("storage listing failed", zap.Error(err))
	}

	var (
		tracks  []Track
		dropped int
		lastErr = err
	)
	for _, obj := range objects {
		if !IsAudioFile(obj.Key) {
			continue
		}
		url, err := l.storage.PublicURL(ctx, obj.Key)
		if err == nil && url == "" {
			err = errors.New("empty URL")
		}
		if err != nil {
			l.log.Warn("dropping storage object", zap.String("key", obj.Key), zap.Error(err))
			dropped++
			lastErr = err
			continue
		}

		name := SanitizeName(obj.Key)
		if name == "" {
			name = UnknownSong
		}
		tracks = append(tracks, Track{
			ID:        StorageIDBase + int64(len(tracks)),
			Name:      name,
			URL:       url,
			Artist:    UnknownArtist,
			SourceKey: obj.Key,
		})
	}
	return tracks, dropped, lastErr
}

// listAll pages through the bucket until a short page or MaxObjects.
// Objects gathered before an error are kept.
func (l *Loader) listAll(ctx context.Context) ([]Object, error) {
	var all []Object
	for offset := 0; offset < l.opts.MaxObjects; {
		limit := min(l.opts.PageSize, l.opts.MaxObjects-offset)
		page, err := l.storage.List(ctx, ListOptions{
			Prefix: l.opts.Prefix,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if len(page) < limit {
			break
		}
		offset += len(page)
	}
	return all, nil
}
