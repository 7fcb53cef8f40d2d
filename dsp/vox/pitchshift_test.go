package vox_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/vocalign/dsp/vox"
)

func TestPitchShifterUnityFactorPassesThroughPhaseCoherentBin(t *testing.T) {
	const k = 8
	const binFreqStep = 100.0
	const timeDiff = 0.01

	sourceBins := make([]vox.SpectrumValue, k)
	sourcePhases := make([]float64, k)
	sourceBins[2] = vox.SpectrumValue{Frequency: 200, Gain: 0.5}
	sourcePhases[2] = vox.StandardizePhase(2 * math.Pi * 200 * timeDiff)

	shifter := vox.NewPitchShifter(k)
	outCoeffs := make([]complex128, k)
	outBins := make([]vox.SpectrumValue, k)

	shifter.Shift(sourceBins, sourcePhases, 1.0, binFreqStep, timeDiff, outCoeffs, outBins)

	if math.Abs(outBins[2].Gain-0.5) > 1e-9 {
		t.Fatalf("expected gain 0.5 to pass through unchanged, got %v", outBins[2].Gain)
	}
	wantMag := 0.5 * float64(k-1)
	if math.Abs(cmplx.Abs(outCoeffs[2])-wantMag) > 1e-9 {
		t.Fatalf("expected output coefficient magnitude %v, got %v", wantMag, cmplx.Abs(outCoeffs[2]))
	}
	if math.Abs(cmplx.Phase(outCoeffs[2])-sourcePhases[2]) > 1e-9 {
		t.Fatalf("expected phase to match source phase under phase-coherent unity shift, got %v want %v", cmplx.Phase(outCoeffs[2]), sourcePhases[2])
	}
}

func TestPitchShifterZeroesDCAndNyquistImaginaryParts(t *testing.T) {
	const k = 8
	sourceBins := make([]vox.SpectrumValue, k)
	sourcePhases := make([]float64, k)
	for i := range sourceBins {
		sourceBins[i] = vox.SpectrumValue{Frequency: float64(i) * 100, Gain: 1}
	}

	shifter := vox.NewPitchShifter(k)
	outCoeffs := make([]complex128, k)
	outBins := make([]vox.SpectrumValue, k)

	shifter.Shift(sourceBins, sourcePhases, 1.0, 100, 0.01, outCoeffs, outBins)

	if imag(outCoeffs[0]) != 0 {
		t.Errorf("expected DC bin imaginary part zeroed, got %v", outCoeffs[0])
	}
	if imag(outCoeffs[k-1]) != 0 {
		t.Errorf("expected Nyquist bin imaginary part zeroed, got %v", outCoeffs[k-1])
	}
}

func TestPitchShifterUpwardFactorNarrowsSourcePreimage(t *testing.T) {
	const k = 16
	sourceBins := make([]vox.SpectrumValue, k)
	sourcePhases := make([]float64, k)
	for i := range sourceBins {
		sourceBins[i] = vox.SpectrumValue{Frequency: float64(i) * 100, Gain: 1}
	}

	shifter := vox.NewPitchShifter(k)
	outCoeffs := make([]complex128, k)
	outBins := make([]vox.SpectrumValue, k)

	// pitchFactor=2: target bin 8 draws from source bins around index 4,
	// so its refined frequency should track roughly 2x the source bin rate.
	shifter.Shift(sourceBins, sourcePhases, 2.0, 100, 0.01, outCoeffs, outBins)

	if outBins[8].Gain <= 0 {
		t.Fatalf("expected non-zero gain at shifted target bin, got %v", outBins[8].Gain)
	}
}

func TestPitchShifterResetClearsPhaseMemory(t *testing.T) {
	shifter := vox.NewPitchShifter(4)
	sourceBins := make([]vox.SpectrumValue, 4)
	sourcePhases := make([]float64, 4)
	outCoeffs := make([]complex128, 4)
	outBins := make([]vox.SpectrumValue, 4)

	sourceBins[1] = vox.SpectrumValue{Frequency: 100, Gain: 1}
	shifter.Shift(sourceBins, sourcePhases, 1, 100, 0.01, outCoeffs, outBins)
	shifter.Reset()

	// After reset, phase memory is zeroed so the next call behaves as if
	// starting fresh (no discontinuity carried from the prior hop).
	shifter.Shift(sourceBins, sourcePhases, 1, 100, 0.01, outCoeffs, outBins)
	if outBins[1].Gain <= 0 {
		t.Fatalf("expected coherent output after reset, got gain %v", outBins[1].Gain)
	}
}
