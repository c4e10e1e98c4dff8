package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/soundfolio/player/internal/catalog"
)

const defaultPresignExpiry = time.Hour

// Minio is a bucket on a MinIO or S3-compatible server.
type Minio struct {
	client     *minio.Client
	bucket     string
	publicBase string
	expiry     time.Duration
}

// NewMinio connects to the server and checks that the bucket exists.
func NewMinio(ctx context.Context, opts Options) (*Minio, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("minio storage: endpoint and bucket are required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio storage: create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio storage: check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio storage: bucket %q does not exist", opts.Bucket)
	}

	expiry := opts.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &Minio{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: strings.TrimSuffix(opts.PublicBaseURL, "/"),
		expiry:     expiry,
	}, nil
}

// List returns one page of objects under opts.Prefix.
// S3 listings have no offset, so earlier objects are skipped client side.
func (m *Minio) List(ctx context.Context, opts catalog.ListOptions) ([]catalog.Object, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: true,
	})

	var (
		out     []catalog.Object
		skipped int
	)
	for obj := range objectCh {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio storage: list: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		out = append(out, catalog.Object{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

// PublicURL joins key onto the public base URL, or presigns a GET request
// when no public base is configured.
func (m *Minio) PublicURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if m.publicBase != "" {
		return url.JoinPath(m.publicBase, m.bucket, key)
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("minio storage: presign %s: %w", key, err)
	}
	return u.String(), nil
}

// Open streams the object.
func (m *Minio) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio storage: get %s: %w", key, err)
	}
	return obj, nil
}
