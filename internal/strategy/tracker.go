package strategy

import "math"

// PriceTracker maintains a sliding window of the most recent price
// observations and exposes the statistical helpers strategies rely on. The
// window is count-based: ticks of a historical replay arrive at the data's
// own cadence, so wall-clock windows would be meaningless here.
type PriceTracker struct {
	window []float64
	size   int
	next   int
	full   bool
}

// NewPriceTracker creates a tracker holding up to size observations.
func NewPriceTracker(size int) *PriceTracker {
	if size < 2 {
		size = 2
	}
	return &PriceTracker{
		window: make([]float64, size),
		size:   size,
	}
}

// Track records a new price observation, evicting the oldest once the window
// is full.
func (pt *PriceTracker) Track(price float64) {
	pt.window[pt.next] = price
	pt.next = (pt.next + 1) % pt.size
	if pt.next == 0 {
		pt.full = true
	}
}

// Len returns the number of observations currently held.
func (pt *PriceTracker) Len() int {
	if pt.full {
		return pt.size
	}
	return pt.next
}

// Average returns the arithmetic mean of the window, or 0 when empty.
func (pt *PriceTracker) Average() float64 {
	n := pt.Len()
	if n == 0 {
		return 0
	}
	var sum float64
	for _, p := range pt.window[:n] {
		sum += p
	}
	return sum / float64(n)
}

// Volatility returns the population standard deviation of the window, or 0
// with fewer than two observations.
func (pt *PriceTracker) Volatility() float64 {
	n := pt.Len()
	if n < 2 {
		return 0
	}

	mean := pt.Average()
	var variance float64
	for _, p := range pt.window[:n] {
		d := p - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}
