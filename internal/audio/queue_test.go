package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameQueueDropsWhenFull(t *testing.T) {
	q := NewFrameQueue(DefaultQueueCapacity)

	for i := range 16 {
		assert.True(t, q.TryPush(Frame{Samples: []float32{float32(i)}, Channels: 1}))
	}
	assert.False(t, q.TryPush(Frame{Samples: []float32{16}, Channels: 1}))
	assert.Equal(t, uint64(1), q.Dropped())
	assert.Equal(t, 16, q.Len())

	var got []float32
	n := q.Drain(func(f Frame) {
		got = append(got, f.Samples[0])
	})
	require.Equal(t, 16, n)
	for i, v := range got {
		assert.Equal(t, float32(i), v)
	}

	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestNewFrameQueueDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultQueueCapacity, NewFrameQueue(0).Cap())
}

func TestFrameChannel(t *testing.T) {
	f := Frame{Samples: []float32{1, -1, 2, -2, 3, -3}, Channels: 2}
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []float32{1, 2, 3}, f.Channel(0))
	assert.Equal(t, []float32{-1, -2, -3}, f.Channel(1))
	assert.Nil(t, f.Channel(2))
}
