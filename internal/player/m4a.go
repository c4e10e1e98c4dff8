package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// alacFrameSize is the frames-per-packet default of Apple's encoder.
const alacFrameSize = 4096

// mp4Decoder streams AAC or ALAC packets out of an MP4 container.
type mp4Decoder struct {
	box      *m4a.Reader
	src      io.Closer
	codec    m4a.CodecType
	aac      *faad2.Decoder
	alac     *alac.Alac
	rate     float64
	channels int
	depth    int // bits per ALAC sample
	length   int

	next    int // next container packet
	pending [][2]float64
	err     error
}

// decodeMP4 opens an .m4a file and returns a stream plus the codec name.
func decodeMP4(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, string, error) {
	box, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	d := &mp4Decoder{
		box:      box,
		src:      rc,
		codec:    box.Codec(),
		rate:     float64(box.SampleRate()),
		channels: int(box.Channels()),
		depth:    int(box.SampleSize()),
	}
	d.length = int(box.Duration().Seconds() * d.rate)

	precision := 2
	switch d.codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		if err := dec.Init(ctx, box.CodecConfig()); err != nil {
			_ = dec.Close(ctx)
			return nil, beep.Format{}, "", err
		}
		d.aac = dec
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(box.SampleRate()),
			SampleSize:  d.depth,
			NumChannels: d.channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		d.alac = dec
		if d.depth == 24 {
			precision = 3
		}
	default:
		return nil, beep.Format{}, "", errors.New("no AAC or ALAC track in container")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(box.SampleRate()),
		NumChannels: 2,
		Precision:   precision,
	}
	return d, format, d.codec.String(), nil
}

func (d *mp4Decoder) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) && d.err == nil {
		if len(d.pending) > 0 {
			c := copy(samples[n:], d.pending)
			d.pending = d.pending[c:]
			n += c
			continue
		}
		if d.next >= d.box.SampleCount() {
			break
		}
		packet, err := d.box.ReadSample(d.next)
		if err != nil {
			d.err = err
			break
		}
		d.next++
		d.pending, d.err = d.decodePacket(packet)
	}
	return n, n > 0
}

func (d *mp4Decoder) decodePacket(packet []byte) ([][2]float64, error) {
	if d.aac != nil {
		pcm, err := d.aac.Decode(context.Background(), packet)
		if err != nil {
			return nil, err
		}
		return pcm16Frames(pcm, d.channels), nil
	}
	return alacFrames(d.alac.Decode(packet), d.depth, d.channels), nil
}

// alacFrames converts little-endian 16 or 24-bit PCM to stereo frames.
func alacFrames(data []byte, depth, channels int) [][2]float64 {
	if channels < 1 {
		channels = 1
	}
	width := depth / 8
	if width != 3 {
		width = 2
	}
	scale := float64(int(1) << (8*width - 1))
	sample := func(off int) float64 {
		v := int32(data[off]) | int32(data[off+1])<<8
		if width == 3 {
			v |= int32(data[off+2]) << 16
		}
		shift := 32 - 8*width
		return float64(v<<shift>>shift) / scale // sign-extend
	}

	step := width * channels
	frames := make([][2]float64, len(data)/step)
	for i := range frames {
		off := i * step
		l := sample(off)
		r := l
		if channels > 1 {
			r = sample(off + width)
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func (d *mp4Decoder) Err() error { return d.err }
func (d *mp4Decoder) Len() int   { return d.length }

func (d *mp4Decoder) Position() int {
	return int(d.box.SampleTime(d.next).Seconds() * d.rate)
}

// Seek lands on the container packet covering p.
func (d *mp4Decoder) Seek(p int) error {
	p = min(max(p, 0), d.length)
	d.next = d.box.SeekToTime(time.Duration(float64(p) / d.rate * float64(time.Second)))
	d.pending = nil
	d.err = nil
	return nil
}

func (d *mp4Decoder) Close() error {
	if d.aac != nil {
		_ = d.aac.Close(context.Background())
	}
	return d.src.Close()
}
