package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://cdn.example.com/songlist1/Track.MP3", ".mp3"},
		{"https://minio:9000/songlist1/a.flac?X-Amz-Signature=abc", ".flac"},
		{"file:///music/demo.wav", ".wav"},
		{"/music/demo.ogg", ".ogg"},
		{"demo", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extension(tt.in), tt.in)
	}
}

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	p := New(Options{}, nil)

	data, err := p.fetch(context.Background(), srv.URL+"/song.mp3")
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))

	_, err = p.fetch(context.Background(), srv.URL+"/missing.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_File(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "demo.wav")
	require.NoError(t, os.WriteFile(name, []byte("wav"), 0o600))

	p := New(Options{}, nil)

	data, err := p.fetch(context.Background(), "file://"+filepath.ToSlash(name))
	require.NoError(t, err)
	assert.Equal(t, "wav", string(data))

	data, err = p.fetch(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, "wav", string(data))

	_, err = p.fetch(context.Background(), filepath.Join(dir, "nope.wav"))
	assert.Error(t, err)
}

func TestFetch_Limits(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "big.mp3")
	require.NoError(t, os.WriteFile(name, []byte(strings.Repeat("x", 64)), 0o600))

	p := New(Options{MaxBytes: 16}, nil)
	_, err := p.fetch(context.Background(), name)
	assert.ErrorContains(t, err, "exceeds")

	_, err = p.fetch(context.Background(), "ftp://example.com/a.mp3")
	assert.ErrorContains(t, err, "unsupported URL scheme")
}
