// Package storage implements the object storage backends the catalog lists
// and resolves tracks from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/soundfolio/player/internal/catalog"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendMinio = "minio"
	BackendLocal = "local"
)

// ErrEmptyKey is returned when resolving or opening an empty key.
var ErrEmptyKey = errors.New("storage: empty object key")

// Store is a bucket that can list, resolve and read its objects.
type Store interface {
	catalog.Storage
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Bucket  string

	// MinIO / S3
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	UseSSL        bool
	PublicBaseURL string        // when set, URLs are joined instead of presigned
	PresignExpiry time.Duration // lifetime of presigned URLs

	// Local directory
	Root string
}

// Open returns the backend selected by opts.Backend.
// BackendNone returns a nil Store and no error.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMinio:
		m, err := NewMinio(ctx, opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	case BackendLocal:
		l, err := NewLocal(opts.Root, opts.Bucket)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// page applies offset/limit to an already ordered sequence of objects.
func page(objects []catalog.Object, opts catalog.ListOptions) []catalog.Object {
	if opts.Offset >= len(objects) {
		return nil
	}
	objects = objects[opts.Offset:]
	if opts.Limit > 0 && len(objects) > opts.Limit {
		objects = objects[:opts.Limit]
	}
	return objects
}
