// Package vox implements a real-time monophonic pitch and formant shifter
// built on a peak-tracked phase vocoder.
//
// Pipeline stages:
//   - Ring: shift-register accumulator feeding fixed-length analysis frames.
//   - Engine: real-input FFT/DFT transform pair.
//   - RefineSpectrum: phase-delta frequency correction per bin.
//   - GroupPeaks: harmonic peak merging into a sparse spectrum.
//   - FindFundamental: harmonic-sum fundamental frequency estimation.
//   - FrequencyEnvelope: hold-on-dropout smoothing of the fundamental.
//   - TuningNoteEnvelope: cosine attack ramp for note changes.
//   - PitchShifter: per-target-bin phase-coherent pitch shifting.
//   - AlignFormants: envelope-ratio based formant realignment.
//   - Accumulator: windowed overlap-add resynthesis.
//   - SpectrumSwap: lock-free single-producer/single-consumer snapshot.
//
// Processor wires these stages into the per-channel pitch/formant engine
// described by ChannelParameters and TuningParameters. It performs no
// allocation and no logging once constructed, and is safe to drive from a
// real-time audio callback provided a single goroutine calls Process.
package vox
