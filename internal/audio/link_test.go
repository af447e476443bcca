package audio

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLinkCopiesBlock(t *testing.T) {
	q := NewFrameQueue(4)
	link := NewLink(q, 1, discardLogger())

	block := []float32{0.1, 0.2, 0.3}
	link.Capture(block)
	block[0] = 9

	frame, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, frame.Samples)
	assert.Equal(t, 1, frame.Channels)
}

func TestLinkNeverBlocksWhenFull(t *testing.T) {
	q := NewFrameQueue(2)
	link := NewLink(q, 2, discardLogger())

	for range 10 {
		link.Capture([]float32{0, 0})
	}

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, uint64(8), q.Dropped())
}
