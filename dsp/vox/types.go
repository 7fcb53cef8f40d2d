package vox

// SpectrumValue is a single grouped spectral component: a frequency in Hz
// and its linear-amplitude gain.
type SpectrumValue struct {
	Frequency float64
	Gain      float64
}

// TuningParameters controls the fundamental-frequency reference, smoothing
// and gliding behavior shared by all channels of a Processor.
type TuningParameters struct {
	// StandardPitch is the frequency, in Hz, assigned to MIDI note A4.
	StandardPitch float64
	// FrequencyAveragingTime is the averaging window, in seconds, used
	// by FrequencyEnvelope to stabilize the estimated fundamental.
	FrequencyAveragingTime float64
	// HoldTime is how long, in seconds, the last valid fundamental is held
	// across a dropout before decaying to zero.
	HoldTime float64
	// AttackTime is the duration, in seconds, of the tuning-note glide
	// envelope after a note change.
	AttackTime float64
}

// DefaultTuningParameters returns the module defaults.
func DefaultTuningParameters() TuningParameters {
	return TuningParameters{
		StandardPitch:          defaultStandardPitch,
		FrequencyAveragingTime: defaultAveragingTime,
		HoldTime:               defaultHoldTime,
		AttackTime:             defaultAttackTime,
	}
}

type tuningKind int

const (
	tuningNone tuningKind = iota
	tuningAuto
	tuningMidi
)

// TuningMode selects how a channel's target pitch is determined.
type TuningMode struct {
	kind           tuningKind
	midiNoteNumber int
	pitchBend      int
}

// NoTuning disables note-locking: the channel's pitch factor is 1 (subject
// only to PitchShift semitones).
func NoTuning() TuningMode {
	return TuningMode{kind: tuningNone}
}

// AutoTune locks the channel's output to the nearest semitone of the
// estimated input fundamental. If midiNoteNumber is -1, the target note is
// inferred from the input fundamental every hop; otherwise the target note
// is fixed to midiNoteNumber. pitchBend is applied as a deviation in both
// cases (14-bit MIDI pitch-bend convention, 8192 = no bend).
func AutoTune(midiNoteNumber, pitchBend int) TuningMode {
	return TuningMode{kind: tuningAuto, midiNoteNumber: midiNoteNumber, pitchBend: pitchBend}
}

// MidiTune locks the channel's output to an explicit MIDI note, optionally
// bent by pitchBend (14-bit MIDI pitch-bend convention, 8192 = no bend).
func MidiTune(midiNoteNumber, pitchBend int) TuningMode {
	return TuningMode{kind: tuningMidi, midiNoteNumber: midiNoteNumber, pitchBend: pitchBend}
}

// ChannelParameters controls the pitch and formant transform applied to a
// single output channel.
type ChannelParameters struct {
	Tuning        TuningMode
	PitchShift    float64 // semitones, applied on top of Tuning
	FormantsShift float64 // semitones
	MixGain       float64 // linear gain applied to the wet channel output
}
