package vox

import (
	"github.com/cwbudde/vocalign/dsp/buffer"
	"github.com/cwbudde/vocalign/dsp/core"
)

// Ring is a fixed-length shift accumulator: each call to Push discards the
// oldest samples from the front and appends new samples at the tail,
// preserving everything in between. It backs both the dry-signal delay
// line (matching the FFT's inherent latency) and the overlap-add
// resynthesis accumulator.
type Ring struct {
	buf *buffer.Buffer
}

// NewRing returns a zero-filled Ring of the given length.
func NewRing(length int) *Ring {
	return &Ring{buf: buffer.New(length)}
}

// Len returns the ring's fixed length.
func (r *Ring) Len() int {
	return r.buf.Len()
}

// Samples returns the ring's current contents, oldest sample first.
func (r *Ring) Samples() []float64 {
	return r.buf.Samples()
}

// Reset zeros the ring in place.
func (r *Ring) Reset() {
	r.buf.Zero()
}

// Push shifts the ring left by len(in) samples, discarding the oldest
// entries, and copies in into the newly opened tail. If in is longer than
// the ring, only its final Len() samples are retained.
func (r *Ring) Push(in []float64) {
	n := len(in)
	length := r.buf.Len()
	if n >= length {
		copy(r.buf.Samples(), in[n-length:])
		return
	}
	samples := r.buf.Samples()
	copy(samples, samples[n:])
	copy(samples[length-n:], in)
}

// Advance shifts the ring left by n samples, discarding the oldest
// entries, and zero-fills the newly opened tail. It is used to step the
// overlap-add accumulator forward by one hop before the next synthesized
// frame is summed in.
func (r *Ring) Advance(n int) {
	length := r.buf.Len()
	if n <= 0 {
		return
	}
	if n >= length {
		r.buf.Zero()
		return
	}
	samples := r.buf.Samples()
	copy(samples, samples[n:])
	for i := length - n; i < length; i++ {
		samples[i] = 0
	}
}

// AddAt accumulates values into the ring starting at offset, clipping to
// the ring's bounds.
func (r *Ring) AddAt(offset int, values []float64) {
	samples := r.buf.Samples()
	for i, v := range values {
		idx := offset + i
		if idx < 0 || idx >= len(samples) {
			continue
		}
		samples[idx] += v
	}
}

// Front copies the first n samples of the ring into out, growing out if
// necessary, and returns the resulting slice.
func (r *Ring) Front(out []float64, n int) []float64 {
	out = core.EnsureLen(out, n)
	copy(out, r.buf.Samples()[:n])
	return out
}
