// Package audio bridges the real-time capture callback to the analysis loop.
package audio

// Frame is one captured block of interleaved samples. A Frame is never mutated
// after it has been handed to a FrameQueue.
type Frame struct {
	Samples  []float32
	Channels int
}

// Len returns the number of samples per channel.
func (f Frame) Len() int {
	channels := max(f.Channels, 1)
	return len(f.Samples) / channels
}

// Channel returns a copy of the samples belonging to channel ch.
func (f Frame) Channel(ch int) []float32 {
	channels := max(f.Channels, 1)
	if ch < 0 || ch >= channels {
		return nil
	}
	out := make([]float32, 0, f.Len())
	for i := ch; i < len(f.Samples); i += channels {
		out = append(out, f.Samples[i])
	}
	return out
}
