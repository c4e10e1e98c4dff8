package player

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-faad2"
)

// aacFrameSamples is the PCM frames one AAC-LC access unit decodes to.
const aacFrameSamples = 1024

// adtsDecoder plays a bare ADTS (.aac) stream. ADTS has no index, so the
// length is counted from the frame headers and seeking re-decodes from the
// start.
type adtsDecoder struct {
	data     []byte
	r        *faad2.ADTSReader
	channels int
	length   int
	pos      int
	buf      []int16
	err      error
}

func decodeADTS(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	d := &adtsDecoder{data: data, length: countADTSFrames(data) * aacFrameSamples}
	if err := d.open(); err != nil {
		return nil, beep.Format{}, err
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(d.r.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return d, format, nil
}

func (d *adtsDecoder) open() error {
	r, err := faad2.OpenADTS(context.Background(), bytes.NewReader(d.data))
	if err != nil {
		return err
	}
	d.r = r
	d.channels = max(int(r.Channels()), 1)
	d.pos = 0
	return nil
}

// countADTSFrames walks the frame headers of data.
func countADTSFrames(data []byte) int {
	n := 0
	for off := 0; off < len(data); n++ {
		_, _, size, err := faad2.ParseADTSHeader(data[off:])
		if err != nil || size < 7 {
			break
		}
		off += int(size)
	}
	return n
}

func (d *adtsDecoder) Stream(samples [][2]float64) (int, bool) {
	if d.err != nil || d.r == nil {
		return 0, false
	}
	want := len(samples) * d.channels
	if cap(d.buf) < want {
		d.buf = make([]int16, want)
	}
	got, err := d.r.Read(context.Background(), d.buf[:want])
	if err != nil && !errors.Is(err, io.EOF) {
		d.err = err
	}
	n := copy(samples, pcm16Frames(d.buf[:got], d.channels))
	d.pos += n
	return n, n > 0
}

func (d *adtsDecoder) Err() error    { return d.err }
func (d *adtsDecoder) Len() int      { return d.length }
func (d *adtsDecoder) Position() int { return d.pos }

func (d *adtsDecoder) Seek(p int) error {
	p = min(max(p, 0), d.length)
	if p < d.pos {
		_ = d.r.Close(context.Background())
		if err := d.open(); err != nil {
			d.r = nil
			return err
		}
	}
	d.err = nil
	skip := make([][2]float64, aacFrameSamples)
	for d.pos < p {
		n, ok := d.Stream(skip[:min(len(skip), p-d.pos)])
		if !ok || n == 0 {
			break
		}
	}
	return d.err
}

func (d *adtsDecoder) Close() error {
	if d.r == nil {
		return nil
	}
	return d.r.Close(context.Background())
}
