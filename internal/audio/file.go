package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/rotisserie/eris"
)

var (
	ErrUnsupportedFile = eris.New("unsupported audio file format")
	ErrInvalidWav      = eris.New("not a valid WAV file")
)

// PCM holds a fully decoded clip as interleaved float32 samples in [-1, 1].
type PCM struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// Frames returns the number of samples per channel.
func (p *PCM) Frames() int {
	if p == nil || p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// DecodeFile decodes a WAV or MP3 file based on its extension.
func DecodeFile(path string) (*PCM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read audio file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return DecodeWAV(bytes.NewReader(data))
	case ".mp3":
		return DecodeMP3(bytes.NewReader(data))
	default:
		return nil, eris.Wrapf(ErrUnsupportedFile, "decode %s", path)
	}
}

// DecodeWAV decodes integer PCM WAV data.
func DecodeWAV(r io.ReadSeeker) (*PCM, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWav
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, eris.Wrap(err, "decode WAV samples")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}

	return &PCM{
		Samples:    intToFloat(buf, bitDepth),
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
	}, nil
}

// DecodeMP3 decodes an MP3 stream. go-mp3 always yields 16-bit stereo.
func DecodeMP3(r io.Reader) (*PCM, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, eris.Wrap(err, "open MP3 stream")
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, eris.Wrap(err, "decode MP3 samples")
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(v) / 32768.0
	}

	return &PCM{
		Samples:    samples,
		Channels:   2,
		SampleRate: dec.SampleRate(),
	}, nil
}

func intToFloat(buf *goaudio.IntBuffer, bitDepth int) []float32 {
	var scale float32
	switch bitDepth {
	case 8:
		scale = 128.0
	case 24:
		scale = 8388608.0
	case 32:
		scale = 2147483648.0
	default:
		scale = 32768.0
	}

	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(v) / scale
	}
	return out
}

// Remix converts interleaved samples between channel counts. Downmixing averages
// the source channels; upmixing repeats the mono mix on every output channel.
func Remix(samples []float32, from, to int) []float32 {
	from = max(from, 1)
	to = max(to, 1)
	if from == to {
		return samples
	}

	frames := len(samples) / from
	out := make([]float32, frames*to)
	for i := range frames {
		var sum float32
		for c := range from {
			sum += samples[i*from+c]
		}
		mono := sum / float32(from)
		for c := range to {
			out[i*to+c] = mono
		}
	}
	return out
}

// FileSource replays a decoded clip through a Link at real-time pace, standing in
// for a hardware input device.
type FileSource struct {
	pcm       *PCM
	blockSize int
	channels  int
	loop      bool
}

// NewFileSource prepares pcm for delivery in blocks of blockSize samples per channel.
func NewFileSource(pcm *PCM, blockSize, channels int, loop bool) *FileSource {
	channels = max(channels, 1)
	return &FileSource{
		pcm: &PCM{
			Samples:    Remix(pcm.Samples, pcm.Channels, channels),
			Channels:   channels,
			SampleRate: pcm.SampleRate,
		},
		blockSize: max(blockSize, 1),
		channels:  channels,
		loop:      loop,
	}
}

// SampleRate returns the clip's sample rate.
func (s *FileSource) SampleRate() int {
	return s.pcm.SampleRate
}

// BlockDuration is the wall-clock length of one delivered block.
func (s *FileSource) BlockDuration() time.Duration {
	if s.pcm.SampleRate <= 0 {
		return time.Millisecond
	}
	return time.Duration(float64(s.blockSize) / float64(s.pcm.SampleRate) * float64(time.Second))
}

// Run delivers blocks to capture until the clip ends (or forever when looping)
// or ctx is cancelled.
func (s *FileSource) Run(ctx context.Context, capture func([]float32)) error {
	ticker := time.NewTicker(s.BlockDuration())
	defer ticker.Stop()

	stride := s.blockSize * s.channels
	block := make([]float32, stride)
	pos := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if pos >= len(s.pcm.Samples) {
			if !s.loop || len(s.pcm.Samples) == 0 {
				return nil
			}
			pos = 0
		}

		n := copy(block, s.pcm.Samples[pos:])
		clear(block[n:])
		pos += stride

		capture(block)
	}
}
