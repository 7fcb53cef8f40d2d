package vox

import (
	"math"
	"sync/atomic"
)

// atomicFloat64 is a lock-free float64 published by the audio thread and
// read by any number of other threads (a UI polling the current pitch,
// for instance).
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// channelState holds every piece of per-channel frame state: the pitch and
// formant shifters, the tuning glide envelope, the overlap-add
// accumulator, scratch spectra, and the values published for external
// inspection.
type channelState struct {
	params ChannelParameters

	tuningEnv    TuningNoteEnvelope
	shifter      *PitchShifter
	formantShift *PitchShifter

	spectrum    []complex128    // S_out.coefficients, pitch-shifted, dense
	binSpectrum []SpectrumValue // S_out.binSpectrum, dense (frequency, gain) per bin

	formantSpectrum []complex128    // formant-reference coefficients, dense, reused scratch
	formantBins     []SpectrumValue // formant-reference binSpectrum, dense, reused scratch

	targetGain  []float64
	shiftedGain []float64
	factors     []float64

	timeFrame []float64
	synthOut  []float64

	accumulator *Accumulator
	swap        *SpectrumSwap
	filtered    []SpectrumValue
	grouped     []SpectrumValue
	snapshot    []SpectrumValue

	fundamental atomicFloat64
}

// resolveNote returns the tuning mode's target note and pitch-bend deviation
// in semitones, per the dispatch table: AutoTune with midi=-1 infers the
// note from the input fundamental every hop; AutoTune/MidiTune with midi>=0
// lock to that MIDI note; MidiTune with midi=-1 has no active note.
func (c *channelState) resolveNote(fundamental, standardPitch float64) (Note, float64) {
	deviation := MidiPitchBendToSemitones(c.params.Tuning.pitchBend, 2)

	switch c.params.Tuning.kind {
	case tuningAuto:
		if c.params.Tuning.midiNoteNumber < 0 {
			return ToNote(fundamental, standardPitch), deviation
		}
		return FromMidi(c.params.Tuning.midiNoteNumber), deviation
	case tuningMidi:
		if c.params.Tuning.midiNoteNumber < 0 {
			return InvalidNote, deviation
		}
		return FromMidi(c.params.Tuning.midiNoteNumber), deviation
	default:
		return InvalidNote, deviation
	}
}

// resolvePitchFactor computes the linear frequency multiplier this
// channel's synthesized spectrum should be shifted by, combining the
// channel's tuning mode (locked to a target note, glided in over
// attackTime) with its manual PitchShift semitone offset.
func (c *channelState) resolvePitchFactor(fundamental, standardPitch, timeDiff, attackTime float64) float64 {
	manual := SemitonesToFactor(c.params.PitchShift)

	if c.params.Tuning.kind == tuningNone {
		c.tuningEnv.Reset()
		return manual
	}

	note, deviation := c.resolveNote(fundamental, standardPitch)
	envelope := c.tuningEnv.Process(note, attackTime, timeDiff)

	if note.Name == NoteInvalid || fundamental <= 0 {
		return manual
	}

	noteFreq := standardPitch * SemitonesToFactor(float64(ToMidi(note))+deviation-69)
	tunedFreq := math.Exp2((1-envelope)*math.Log2(fundamental) + envelope*math.Log2(noteFreq))
	return (tunedFreq / fundamental) * manual
}

func newChannelState(nyquistLength, fftLength, stepSize int, params ChannelParameters, synthesisGain float64) *channelState {
	return &channelState{
		params:          params,
		shifter:         NewPitchShifter(nyquistLength),
		formantShift:    NewPitchShifter(nyquistLength),
		spectrum:        make([]complex128, nyquistLength),
		binSpectrum:     make([]SpectrumValue, nyquistLength),
		formantSpectrum: make([]complex128, nyquistLength),
		formantBins:     make([]SpectrumValue, nyquistLength),
		targetGain:      make([]float64, nyquistLength),
		shiftedGain:     make([]float64, nyquistLength),
		factors:         make([]float64, nyquistLength),
		timeFrame:       make([]float64, fftLength),
		synthOut:        make([]float64, stepSize),
		accumulator:     NewAccumulator(fftLength, stepSize, synthesisGain),
		swap:            NewSpectrumSwap(nyquistLength),
		filtered:        make([]SpectrumValue, nyquistLength),
		grouped:         make([]SpectrumValue, 0, nyquistLength),
	}
}

func (c *channelState) reset() {
	c.tuningEnv.Reset()
	c.shifter.Reset()
	c.formantShift.Reset()
	c.accumulator.Reset()
	c.fundamental.Store(0)
	clearComplexSpectrum(c.spectrum)
	clearSpectrumValues(c.binSpectrum)
}

// clearComplexSpectrum zeroes every coefficient in place.
func clearComplexSpectrum(spectrum []complex128) {
	for i := range spectrum {
		spectrum[i] = 0
	}
}

// clearSpectrumValues zeroes every (frequency, gain) pair in place.
func clearSpectrumValues(bins []SpectrumValue) {
	for i := range bins {
		bins[i] = SpectrumValue{}
	}
}

// gainsOf extracts the Gain field of each entry in bins into out.
func gainsOf(bins []SpectrumValue, out []float64) []float64 {
	for i, v := range bins {
		out[i] = v.Gain
	}
	return out
}

// applyFormantFactors scales every output coefficient and its corresponding
// binSpectrum gain by factors[i], per the formant aligner's "multiply each
// output coefficient and gain by alpha[i]" contract.
func applyFormantFactors(spectrum []complex128, bins []SpectrumValue, factors []float64) {
	for i, f := range factors {
		spectrum[i] *= complex(f, 0)
		bins[i].Gain *= f
	}
}
