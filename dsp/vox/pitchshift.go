package vox

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/vocalign/dsp/core"
)

// PitchShifter synthesizes a target bin-coefficient array from a source
// frame's coefficients, refined bin spectrum, and phase memory, preserving
// phase coherence across hops. It holds S_out.phases as persistent
// per-target-bin phase state.
type PitchShifter struct {
	phases []float64
}

// NewPitchShifter allocates a PitchShifter for a one-sided spectrum of the
// given length (N/2+1).
func NewPitchShifter(nyquistLength int) *PitchShifter {
	return &PitchShifter{phases: make([]float64, nyquistLength)}
}

// Reset clears the shifter's persistent phase memory.
func (p *PitchShifter) Reset() {
	core.Zero(p.phases)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Shift maps each target bin i to its half-bin preimage under pitchFactor in
// the source spectrum, accumulates a phase-coherent complex contribution
// from every source bin in that preimage, and writes the resulting
// coefficient and refined (frequency, gain) pair for every target bin.
//
// sourceBins and sourcePhases are the source frame's phase-delta-refined
// (frequency, gain) pairs and phase memory (both length K, the analysis
// engine's nyquist length). binFrequencyStep is sampleRate/fftLength.
// outCoefficients and outBins (both length K) are overwritten; the
// shifter's own phase memory is updated in place for the next call.
func (p *PitchShifter) Shift(sourceBins []SpectrumValue, sourcePhases []float64, pitchFactor, binFrequencyStep, timeDiff float64, outCoefficients []complex128, outBins []SpectrumValue) {
	k := len(p.phases)

	for i := 0; i < k; i++ {
		begin := clampInt(int(math.Ceil((float64(i)-0.5)/pitchFactor)), 0, k)
		end := clampInt(int(math.Ceil((float64(i)+0.5)/pitchFactor)), 0, k)

		phiLast := p.phases[i]

		var c complex128
		for j := begin; j < end; j++ {
			f := pitchFactor * sourceBins[j].Frequency
			phiNew := StandardizePhase(phiLast + 2*math.Pi*f*timeDiff)
			alpha := math.Cos(sourcePhases[j] - phiNew)
			scale := 1 / math.Max(math.Abs(alpha), 0.7)
			mag := math.Min(1, scale*sourceBins[j].Gain)
			c += cmplx.Rect(mag, phiNew)
		}

		gain := cmplx.Abs(c)
		phase := sourcePhases[i]
		if gain > 0 {
			phase = cmplx.Phase(c)
		}

		nominal := float64(i) * binFrequencyStep
		refinedFreq := CorrectedFrequency(phiLast, phase, timeDiff, nominal)

		outCoefficients[i] = c * complex(float64(k-1), 0)
		outBins[i] = SpectrumValue{Frequency: refinedFreq, Gain: gain}
		p.phases[i] = phase
	}

	if k > 0 {
		outCoefficients[0] = complex(cmplx.Abs(outCoefficients[0]), 0)
		p.phases[0] = 0
	}
	if k > 1 {
		outCoefficients[k-1] = complex(cmplx.Abs(outCoefficients[k-1]), 0)
		p.phases[k-1] = 0
	}
}
