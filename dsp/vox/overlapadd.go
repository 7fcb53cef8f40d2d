package vox

import "github.com/cwbudde/vocalign/dsp/window"

// Accumulator performs windowed overlap-add resynthesis: each synthesized
// time-domain frame is windowed, scaled by a synthesis-compensation gain,
// summed into a ring buffer, and stepSize samples are drained from the
// front on every call to Advance.
type Accumulator struct {
	ring      *Ring
	coeffs    []float64
	scratch   []float64
	gain      float64
	stepSize  int
	frameSize int
}

// NewAccumulator constructs an Accumulator for frames of frameSize samples
// advancing by stepSize samples per frame, using a periodic Von-Hann
// synthesis window and the given post-window compensation gain.
func NewAccumulator(frameSize, stepSize int, gain float64) *Accumulator {
	return &Accumulator{
		ring:      NewRing(frameSize),
		coeffs:    window.Generate(window.TypeHann, frameSize, window.WithPeriodic()),
		scratch:   make([]float64, frameSize),
		gain:      gain,
		stepSize:  stepSize,
		frameSize: frameSize,
	}
}

// AddFrame windows frame, scales it by the synthesis gain, and sums it into
// the accumulator starting at the current position.
func (a *Accumulator) AddFrame(frame []float64) {
	for i, s := range frame {
		a.scratch[i] = s * a.coeffs[i] * a.gain
	}
	a.ring.AddAt(0, a.scratch)
}

// Advance drains stepSize samples from the front of the accumulator into
// out and shifts the ring forward, zero-filling the newly exposed tail.
func (a *Accumulator) Advance(out []float64) []float64 {
	out = a.ring.Front(out, a.stepSize)
	a.ring.Advance(a.stepSize)
	return out
}

// Reset zeros the accumulator.
func (a *Accumulator) Reset() {
	a.ring.Reset()
}
