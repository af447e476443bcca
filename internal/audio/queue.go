package audio

import "sync/atomic"

// DefaultQueueCapacity is the number of frames buffered between capture and analysis.
const DefaultQueueCapacity = 16

// FrameQueue is a bounded FIFO between the capture callback and the analysis loop.
// Pushing into a full queue drops the new frame instead of blocking.
type FrameQueue struct {
	frames  chan Frame
	dropped atomic.Uint64
}

// NewFrameQueue allocates a queue holding up to capacity frames.
func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &FrameQueue{frames: make(chan Frame, capacity)}
}

// TryPush enqueues frame without blocking and reports whether it was accepted.
func (q *FrameQueue) TryPush(frame Frame) bool {
	select {
	case q.frames <- frame:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// TryPop returns the oldest queued frame, if any.
func (q *FrameQueue) TryPop() (Frame, bool) {
	select {
	case frame := <-q.frames:
		return frame, true
	default:
		return Frame{}, false
	}
}

// Drain hands every currently queued frame to fn in arrival order and returns the count.
func (q *FrameQueue) Drain(fn func(Frame)) int {
	n := 0
	for {
		frame, ok := q.TryPop()
		if !ok {
			return n
		}
		fn(frame)
		n++
	}
}

// Len returns the number of frames waiting.
func (q *FrameQueue) Len() int {
	return len(q.frames)
}

// Cap returns the queue capacity.
func (q *FrameQueue) Cap() int {
	return cap(q.frames)
}

// Dropped returns how many frames were rejected because the queue was full.
func (q *FrameQueue) Dropped() uint64 {
	return q.dropped.Load()
}
