package audio

import (
	"fmt"
	"log/slog"
)

// Link is registered as the capture callback. It copies each block out of the
// driver-owned buffer and offers it to the queue without ever blocking.
type Link struct {
	queue    *FrameQueue
	channels int
	logger   *slog.Logger
}

// NewLink builds a Link that tags frames with the given channel count.
func NewLink(queue *FrameQueue, channels int, logger *slog.Logger) *Link {
	if logger == nil {
		logger = slog.Default()
	}
	return &Link{
		queue:    queue,
		channels: max(channels, 1),
		logger:   logger,
	}
}

// Capture is invoked on the real-time audio thread with each new block.
func (l *Link) Capture(in []float32) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("audio capture callback failed", slog.String("panic", fmt.Sprint(r)))
		}
	}()

	samples := make([]float32, len(in))
	copy(samples, in)

	l.queue.TryPush(Frame{Samples: samples, Channels: l.channels})
}

// Status reports a transport-level condition without interrupting capture.
func (l *Link) Status(status string) {
	l.logger.Warn("audio input status", slog.String("status", status))
}

// Queue exposes the queue fed by this link.
func (l *Link) Queue() *FrameQueue {
	return l.queue
}
