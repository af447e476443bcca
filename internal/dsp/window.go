package dsp

import "gonum.org/v1/gonum/stat"

// DefaultWindowSize is the number of detections averaged for the glow value.
const DefaultWindowSize = 10

// Window is a fixed-capacity rolling buffer that evicts its oldest entry on overflow.
type Window struct {
	values []float64
	start  int
	count  int
}

// NewWindow allocates a Window holding up to size values.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{values: make([]float64, size)}
}

// Push appends v, evicting the oldest value when full.
func (w *Window) Push(v float64) {
	if w.count < len(w.values) {
		w.values[(w.start+w.count)%len(w.values)] = v
		w.count++
		return
	}
	w.values[w.start] = v
	w.start = (w.start + 1) % len(w.values)
}

// Values returns the retained values, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, w.count)
	for i := range w.count {
		out[i] = w.values[(w.start+i)%len(w.values)]
	}
	return out
}

// Mean returns the arithmetic mean of the retained values, or 0 when empty.
func (w *Window) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	return stat.Mean(w.Values(), nil)
}

// Len returns the number of retained values.
func (w *Window) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.values)
}
