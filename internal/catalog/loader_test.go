package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	rows  []Row
	err   error
	calls int
}

func (f *fakeRegistry) Rows(_ context.Context) ([]Row, error) {
	f.calls++
	return f.rows, f.err
}

type fakeStorage struct {
	keys      []string
	listErr   error
	failKeys  map[string]bool
	listCalls []ListOptions
}

func (f *fakeStorage) List(_ context.Context, opts ListOptions) ([]Object, error) {
	f.listCalls = append(f.listCalls, opts)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var page []Object
	for i := opts.Offset; i < len(f.keys) && len(page) < opts.Limit; i++ {
		page = append(page, Object{Key: f.keys[i]})
	}
	return page, nil
}

func (f *fakeStorage) PublicURL(_ context.Context, key string) (string, error) {
	if f.failKeys[key] {
		return "", fmt.Errorf("object %s not found", key)
	}
	return "https://cdn.example.com/songlist1/" + key, nil
}

func TestLoad_RegistryTakesPrecedence(t *testing.T) {
	reg := &fakeRegistry{rows: []Row{
		{ID: 7, Title: "Newest", Filename: "newest.mp3", Artist: "Ada", Duration: 200, Description: "live"},
		{ID: 3, Title: "Older", Filename: "older.mp3"},
	}}
	store := &fakeStorage{keys: []string{"other.mp3"}}

	res := NewLoader(reg, nil, store, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 2)
	assert.Equal(t, SourceRegistry, res.Source)
	assert.Empty(t, store.listCalls, "storage must not be listed when the registry has rows")

	first := res.Tracks[0]
	assert.Equal(t, int64(7), first.ID)
	assert.Equal(t, "Newest", first.Name)
	assert.Equal(t, "Ada", first.Artist)
	assert.Equal(t, "https://cdn.example.com/songlist1/newest.mp3", first.URL)
	assert.Equal(t, "live", first.Description)
	assert.Equal(t, "newest.mp3", first.SourceKey)
	assert.Equal(t, 200.0, first.Duration.Seconds())

	second := res.Tracks[1]
	assert.Equal(t, UnknownArtist, second.Artist)
	assert.Zero(t, second.Duration)
}

func TestLoad_RegistryTitleFallback(t *testing.T) {
	reg := &fakeRegistry{rows: []Row{{ID: 1, Filename: "x.mp3"}}}

	res := NewLoader(reg, nil, &fakeStorage{}, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 1)
	assert.Equal(t, UnknownSong, res.Tracks[0].Name)
}

func TestLoad_DropsRowsThatFailResolution(t *testing.T) {
	reg := &fakeRegistry{rows: []Row{
		{ID: 1, Title: "Good", Filename: "good.mp3"},
		{ID: 2, Title: "Broken", Filename: "missing.mp3"},
		{ID: 3, Title: "Also Good", Filename: "good2.mp3"},
	}}
	store := &fakeStorage{failKeys: map[string]bool{"missing.mp3": true}}

	res := NewLoader(reg, nil, store, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 2)
	assert.Equal(t, "Good", res.Tracks[0].Name)
	assert.Equal(t, "Also Good", res.Tracks[1].Name)
	assert.Equal(t, 1, res.Dropped)
	assert.Error(t, res.Err)
	assert.Equal(t, SourceRegistry, res.Source)
}

func TestLoad_FallbackWhenRegistryEmpty(t *testing.T) {
	reg := &fakeRegistry{}
	store := &fakeStorage{keys: []string{"song.mp3", "cover.jpg", "demo.WAV"}}

	res := NewLoader(reg, nil, store, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 2)
	assert.Equal(t, SourceStorage, res.Source)
	assert.Equal(t, "Song", res.Tracks[0].Name)
	assert.Equal(t, "Demo", res.Tracks[1].Name)
	for _, tr := range res.Tracks {
		assert.NotContains(t, strings.ToLower(tr.Name), ".mp3")
		assert.NotContains(t, strings.ToLower(tr.Name), ".wav")
		assert.Equal(t, UnknownArtist, tr.Artist)
	}
	assert.Equal(t, StorageIDBase, res.Tracks[0].ID)
	assert.Equal(t, StorageIDBase+1, res.Tracks[1].ID)
}

func TestLoad_FallbackWhenRegistryErrors(t *testing.T) {
	regErr := errors.New("relation songs does not exist")
	reg := &fakeRegistry{err: regErr}
	store := &fakeStorage{keys: []string{"a.flac"}}

	res := NewLoader(reg, nil, store, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 1)
	assert.Equal(t, SourceStorage, res.Source)
	assert.ErrorIs(t, res.Err, regErr)
}

func TestLoad_FallbackWhenEveryRowDropped(t *testing.T) {
	reg := &fakeRegistry{rows: []Row{{ID: 1, Title: "Gone", Filename: "gone.mp3"}}}
	store := &fakeStorage{
		keys:     []string{"present.ogg"},
		failKeys: map[string]bool{"gone.mp3": true},
	}

	res := NewLoader(reg, nil, store, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 1)
	assert.Equal(t, SourceStorage, res.Source)
	assert.Equal(t, "Present", res.Tracks[0].Name)
	assert.Equal(t, 1, res.Dropped)
}

func TestLoad_NothingAvailable(t *testing.T) {
	store := &fakeStorage{listErr: errors.New("bucket not found")}

	res := NewLoader(nil, nil, store, Options{}, nil).Load(context.Background())

	assert.Empty(t, res.Tracks)
	assert.Equal(t, SourceNone, res.Source)
	assert.Error(t, res.Err)
}

func TestLoad_NoBackends(t *testing.T) {
	res := NewLoader(nil, nil, nil, Options{}, nil).Load(context.Background())

	assert.Empty(t, res.Tracks)
	assert.Equal(t, SourceNone, res.Source)
	assert.NoError(t, res.Err)
}

func TestLoad_StoragePaging(t *testing.T) {
	keys := make([]string, 250)
	for i := range keys {
		keys[i] = fmt.Sprintf("track-%03d.mp3", i)
	}
	store := &fakeStorage{keys: keys}

	res := NewLoader(nil, nil, store, Options{Prefix: "music/"}, nil).Load(context.Background())

	assert.Len(t, res.Tracks, 250)
	require.Len(t, store.listCalls, 3)
	for i, call := range store.listCalls {
		assert.Equal(t, MaxPageSize, call.Limit)
		assert.Equal(t, i*MaxPageSize, call.Offset)
		assert.Equal(t, "music/", call.Prefix)
	}
}

func TestLoad_StorageMaxObjects(t *testing.T) {
	keys := make([]string, 50)
	for i := range keys {
		keys[i] = fmt.Sprintf("t%d.mp3", i)
	}
	store := &fakeStorage{keys: keys}

	res := NewLoader(nil, nil, store, Options{PageSize: 500, MaxObjects: 30}, nil).Load(context.Background())

	assert.Len(t, res.Tracks, 30)
	require.Len(t, store.listCalls, 1)
	assert.Equal(t, 30, store.listCalls[0].Limit)
}

func TestLoad_SeparateResolver(t *testing.T) {
	reg := &fakeRegistry{rows: []Row{{ID: 1, Title: "One", Filename: "one.mp3"}}}
	resolver := &fakeStorage{}

	res := NewLoader(reg, resolver, nil, Options{}, nil).Load(context.Background())

	require.Len(t, res.Tracks, 1)
	assert.Equal(t, SourceRegistry, res.Source)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "none", SourceNone.String())
	assert.Equal(t, "registry", SourceRegistry.String())
	assert.Equal(t, "storage", SourceStorage.String())
	assert.Equal(t, "unknown", Source(42).String())
}
