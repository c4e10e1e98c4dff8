package player

import (
	"bytes"
	"fmt"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extM4A  = ".m4a"
	extAAC  = ".aac"
)

// memFile is an in-memory track that satisfies io.ReadSeekCloser.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// decode picks a decoder from the file extension.
func decode(ext string, data []byte) (beep.StreamSeekCloser, beep.Format, string, error) {
	f := memFile{bytes.NewReader(data)}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
		name   string
	)
	switch ext {
	case extMP3:
		name = "MP3"
		s, format, err = mp3.Decode(f)
	case extFLAC:
		name = "FLAC"
		// Some taggers prepend ID3v2 to FLAC files.
		s, format, err = flac.Decode(memFile{bytes.NewReader(data[id3Size(data):])})
	case extWAV:
		name = "WAV"
		s, format, err = wav.Decode(f)
	case extOGG:
		name = "OGG"
		s, format, err = vorbis.Decode(f)
	case extM4A:
		var codec string
		name = "M4A"
		s, format, codec, err = decodeMP4(f)
		if err == nil {
			name = codec
		}
	case extAAC:
		name = "AAC"
		s, format, err = decodeADTS(data[id3Size(data):])
	default:
		return nil, beep.Format{}, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, beep.Format{}, "", fmt.Errorf("decode %s: %w", name, err)
	}
	return s, format, name, nil
}

// id3Size returns the length of a leading ID3v2 tag, 0 when there is none.
func id3Size(data []byte) int {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return 0
	}
	// Syncsafe integer: 7 bits per byte.
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	return min(10+size, len(data))
}

// pcm16Frames converts interleaved 16-bit samples to stereo frames,
// duplicating mono.
func pcm16Frames(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		channels = 1
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}
