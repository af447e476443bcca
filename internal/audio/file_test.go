package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWav(t *testing.T, path string, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, 8000, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestDecodeFileWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWav(t, path, 2, []int{16384, -16384, 0, 32767})

	pcm, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pcm.Channels)
	assert.Equal(t, 8000, pcm.SampleRate)
	require.Len(t, pcm.Samples, 4)
	assert.InDelta(t, 0.5, pcm.Samples[0], 1e-4)
	assert.InDelta(t, -0.5, pcm.Samples[1], 1e-4)
	assert.Equal(t, 2, pcm.Frames())
}

func TestDecodeFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.flac")
	require.NoError(t, os.WriteFile(path, []byte("fLaC"), 0o600))

	_, err := DecodeFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestRemix(t *testing.T) {
	assert.Equal(t, []float32{0.5, 1}, Remix([]float32{0, 1, 1, 1}, 2, 1))
	assert.Equal(t, []float32{1, 1, 2, 2}, Remix([]float32{1, 2}, 1, 2))

	same := []float32{1, 2}
	assert.Equal(t, same, Remix(same, 1, 1))
}

func TestFileSourceDeliversBlocks(t *testing.T) {
	pcm := &PCM{Samples: []float32{1, 2, 3, 4, 5}, Channels: 1, SampleRate: 8000}
	src := NewFileSource(pcm, 2, 1, false)

	var blocks [][]float32
	err := src.Run(context.Background(), func(in []float32) {
		blocks = append(blocks, append([]float32(nil), in...))
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}, {5, 0}}, blocks)
}

func TestFileSourceStopsOnCancel(t *testing.T) {
	pcm := &PCM{Samples: make([]float32, 64), Channels: 1, SampleRate: 8000}
	src := NewFileSource(pcm, 8, 1, true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := src.Run(ctx, func([]float32) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
