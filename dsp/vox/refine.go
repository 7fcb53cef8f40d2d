package vox

import "math"

// StandardizePhase folds a phase angle into (-pi, pi].
func StandardizePhase(angle float64) float64 {
	angle = math.Mod(angle+math.Pi, 2*math.Pi)
	if angle <= 0 {
		angle += 2 * math.Pi
	}
	return angle - math.Pi
}

// CorrectedFrequency refines a bin's nominal frequency using the phase
// advance actually observed between two analysis frames timeDiff seconds
// apart. lastPhase and coefficientPhase are bin phases, in radians, from the
// previous and current frame (wrapped values are accepted); binFrequency is the bin's nominal center
// frequency in Hz.
func CorrectedFrequency(lastPhase, coefficientPhase, timeDiff, binFrequency float64) float64 {
	expected := binFrequency * timeDiff * 2 * math.Pi
	deltaPhase := StandardizePhase(coefficientPhase - lastPhase - expected)
	return math.Abs(binFrequency + deltaPhase/(timeDiff*2*math.Pi))
}

// RefineSpectrum converts a raw FFT bin array into a per-bin frequency and
// magnitude estimate using phase-delta correction. binFrequencyStep is
// sampleRate/fftLength; fftLength is N, used to scale each bin's raw
// coefficient magnitude to a single-sided amplitude (gain = |C[k]|*(2/N)).
// lastPhase holds the previous frame's bin phases and is updated in place
// for the next call. out is resized to len(spectrum).
func RefineSpectrum(spectrum []complex128, lastPhase []float64, timeDiff, binFrequencyStep float64, fftLength int, out []SpectrumValue) []SpectrumValue {
	if cap(out) < len(spectrum) {
		out = make([]SpectrumValue, len(spectrum))
	}
	out = out[:len(spectrum)]

	scale := 2.0 / float64(fftLength)

	for k, c := range spectrum {
		mag := math.Hypot(real(c), imag(c)) * scale
		phase := math.Atan2(imag(c), real(c))
		nominal := float64(k) * binFrequencyStep

		freq := nominal
		if timeDiff > 0 {
			freq = CorrectedFrequency(lastPhase[k], phase, timeDiff, nominal)
		}

		out[k] = SpectrumValue{Frequency: freq, Gain: mag}
		lastPhase[k] = phase
	}

	return out
}
