package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// fetch reads the whole resource into memory so decoders can seek.
// Supports http(s) URLs, file:// URLs and bare filesystem paths.
func (p *Player) fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare path, including Windows drive letters.
		return p.readFile(raw)
	}

	switch u.Scheme {
	case "http", "https":
		return p.fetchHTTP(ctx, raw)
	case "file":
		return p.readFile(u.Path)
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
}

func (p *Player) fetchHTTP(ctx context.Context, raw string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch track: %s", resp.Status)
	}
	return readLimited(resp.Body, p.opts.MaxBytes)
}

func (p *Player) readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, p.opts.MaxBytes)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("track exceeds %d bytes", limit)
	}
	return data, nil
}

// extension returns the lower-case extension of the locator's path,
// ignoring any query string.
func extension(raw string) string {
	if u, err := url.Parse(raw); err == nil && len(u.Scheme) > 1 {
		return strings.ToLower(path.Ext(u.Path))
	}
	return strings.ToLower(filepath.Ext(raw))
}
