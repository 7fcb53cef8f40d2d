package vox

import "sync/atomic"

// SpectrumSwap is a lock-free single-producer/single-consumer double
// buffer for publishing spectrum snapshots to a visualization or
// diagnostics thread without stalling the audio-processing thread. The
// producer calls Publish; the consumer calls Snapshot. Both may be called
// concurrently from their respective single goroutines.
type SpectrumSwap struct {
	buf     [2][]SpectrumValue
	front   atomic.Uint32
	writing int
}

// NewSpectrumSwap allocates a SpectrumSwap whose internal buffers start at
// the given capacity (they grow on demand if a published spectrum is
// larger).
func NewSpectrumSwap(capacity int) *SpectrumSwap {
	s := &SpectrumSwap{writing: 1}
	s.buf[0] = make([]SpectrumValue, 0, capacity)
	s.buf[1] = make([]SpectrumValue, 0, capacity)
	return s
}

// Publish copies values into the buffer not currently visible to the
// consumer, then atomically swaps it in as the new published snapshot.
// Must only be called from the producer goroutine.
func (s *SpectrumSwap) Publish(values []SpectrumValue) {
	dst := append(s.buf[s.writing][:0], values...)
	s.buf[s.writing] = dst
	s.writing = int(s.front.Swap(uint32(s.writing)))
}

// Snapshot copies the most recently published spectrum into out and
// returns the resulting slice. Must only be called from the consumer
// goroutine; it never blocks or observes a torn write.
func (s *SpectrumSwap) Snapshot(out []SpectrumValue) []SpectrumValue {
	idx := s.front.Load()
	return append(out[:0], s.buf[idx]...)
}
