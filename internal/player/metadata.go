package player

import (
	"bytes"

	"github.com/dhowden/tag"
)

// readTrackInfo reads embedded tags. Tracks without readable tags get
// an info carrying only the URL.
func readTrackInfo(url string, data []byte) *TrackInfo {
	info := &TrackInfo{URL: url}
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return info
	}

	track, _ := m.Track()
	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}

	info.Title = m.Title()
	info.Artist = artist
	info.Album = m.Album()
	info.Year = m.Year()
	info.Track = track
	info.Genre = m.Genre()
	return info
}

// Probe decodes the header of an audio file named key and returns its tags
// and length without touching the speaker.
func Probe(key string, data []byte) (*TrackInfo, error) {
	info := readTrackInfo(key, data)
	dec, format, name, err := decode(extension(key), data)
	if err != nil {
		return info, err
	}
	defer dec.Close()
	info.Format = name
	info.SampleRate = int(format.SampleRate)
	if n := dec.Len(); n > 0 {
		info.Duration = format.SampleRate.D(n)
	}
	return info, nil
}
