package vox

import "github.com/cwbudde/vocalign/dsp/core"

const fundamentalCandidateGate = 0.6

// FindFundamental estimates the fundamental frequency of a grouped
// spectrum using a harmonic-sum score. spectrum must be sorted by
// ascending frequency. thresholdFactor is the fraction of the total
// squared gain a candidate's harmonic sum must exceed (T² = thresholdFactor
// * total); upperBound is the highest frequency, in Hz, a candidate may be
// reported at.
//
// If the loudest bin is at or below -120dB, or no candidate's harmonic sum
// clears the threshold within the upper bound, 0 is returned (no confident
// pitch). Among candidates with gain >= 0.6*g_max, only later entries in
// the spectrum contribute to a candidate's harmonic sum, and the candidate
// with the highest sum wins, ties broken by lowest frequency.
func FindFundamental(spectrum []SpectrumValue, thresholdFactor, upperBound float64) float64 {
	if len(spectrum) == 0 {
		return 0
	}

	var total, gMax float64
	for _, v := range spectrum {
		total += v.Gain * v.Gain
		if v.Gain > gMax {
			gMax = v.Gain
		}
	}
	if gMax <= core.DBToLinear(-120) {
		return 0
	}

	threshold := thresholdFactor * total
	gate := fundamentalCandidateGate * gMax

	bestScore := threshold
	best := 0.0
	found := false

	for i, candidate := range spectrum {
		if candidate.Frequency <= 0 || candidate.Frequency > upperBound {
			continue
		}
		if candidate.Gain < gate {
			continue
		}

		var score float64
		for _, v := range spectrum[i:] {
			if IsHarmonic(candidate.Frequency, v.Frequency, semitoneRatio) {
				score += v.Gain * v.Gain
			}
		}

		if score > bestScore {
			bestScore = score
			best = candidate.Frequency
			found = true
		}
	}

	if !found {
		return 0
	}
	return best
}
