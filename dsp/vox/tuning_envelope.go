package vox

import "math"

// TuningNoteEnvelope produces a 0-to-1 gain ramp following a note change,
// letting a note-locked pitch shift glide in over attackTime instead of
// snapping.
type TuningNoteEnvelope struct {
	current Note
	elapsed float64
}

// Process advances the envelope by timeDiff seconds. Whenever note differs
// from the previously seen note (or is invalid), the ramp restarts from 0.
func (e *TuningNoteEnvelope) Process(note Note, attackTime, timeDiff float64) float64 {
	if note.Name == NoteInvalid || note != e.current {
		e.elapsed = 0
	} else {
		e.elapsed += timeDiff
	}
	e.current = note

	if attackTime <= 0 || e.elapsed >= attackTime {
		return 1
	}

	return 0.5 - 0.5*math.Cos(math.Pi*e.elapsed/attackTime)
}

// Reset clears the envelope to its initial state.
func (e *TuningNoteEnvelope) Reset() {
	*e = TuningNoteEnvelope{}
}
