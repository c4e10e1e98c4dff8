package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/soundfolio/player/internal/catalog"
)

// Local emulates a bucket with a directory: <root>/<bucket>/<key>.
type Local struct {
	dir string
}

// NewLocal creates a local bucket, creating the directory if missing.
func NewLocal(root, bucket string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage: empty root")
	}
	dir, err := filepath.Abs(filepath.Join(root, bucket))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Dir returns the absolute directory backing the bucket.
func (l *Local) Dir() string { return l.dir }

// List returns one page of objects under opts.Prefix in lexical key order.
func (l *Local) List(ctx context.Context, opts catalog.ListOptions) ([]catalog.Object, error) {
	var objects []catalog.Object
	err := filepath.WalkDir(l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, opts.Prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, catalog.Object{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local storage: list: %w", err)
	}
	return page(objects, opts), nil
}

// PublicURL returns a file:// URL for key. It fails if the object is missing.
func (l *Local) PublicURL(_ context.Context, key string) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("local storage: %s is a directory", key)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String(), nil
}

// Open opens the object for reading.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// path maps a key to a file path, refusing keys that escape the bucket.
func (l *Local) path(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	clean := path.Clean("/" + key)
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}
