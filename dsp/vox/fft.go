package vox

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Algorithm selects the transform kernel an Engine uses.
type Algorithm int

const (
	// FFT runs the power-of-two radix-2 kernel from algo-fft. Default.
	FFT Algorithm = iota
	// DFT runs a direct O(N^2) summation, accepting any even N. Present
	// for cross-validation against FFT, not for real-time use.
	DFT
)

// Engine transforms between an N-sample real signal and its one-sided
// (Nyquist-length) complex spectrum. It coexists in two variants: FFT,
// backed by algo-fft's radix-2 plan, and DFT, a direct summation usable
// for any even N. Both produce numerically equivalent spectra.
type Engine struct {
	n         int
	algorithm Algorithm
	plan      *algofft.Plan[complex128]
	scratch   []complex128
	roots     []complex128 // precomputed exp(-2*pi*i*k/n) for the DFT variant
}

// NewEngine constructs an Engine for signals of length n. FFT requires n to
// be a power of two, n >= 2; DFT requires only that n is even and >= 2.
func NewEngine(n int, algorithm Algorithm) (*Engine, error) {
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("vox: fft engine length must be even and >= 2: %d", n)
	}

	e := &Engine{n: n, algorithm: algorithm, scratch: make([]complex128, n)}

	switch algorithm {
	case FFT:
		if n&(n-1) != 0 {
			return nil, fmt.Errorf("vox: fft algorithm requires a power-of-two length: %d", n)
		}
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("vox: fft engine: %w", err)
		}
		e.plan = plan
	case DFT:
		e.roots = make([]complex128, n)
		for k := range e.roots {
			theta := -2 * math.Pi * float64(k) / float64(n)
			e.roots[k] = cmplx.Rect(1, theta)
		}
	default:
		return nil, fmt.Errorf("vox: unknown algorithm: %d", algorithm)
	}

	return e, nil
}

// N returns the transform length.
func (e *Engine) N() int {
	return e.n
}

// NyquistLength returns N/2+1, the length of the one-sided spectrum.
func (e *Engine) NyquistLength() int {
	return e.n/2 + 1
}

// Forward computes the one-sided spectrum of a real signal of length N.
// spectrum must have length NyquistLength(); it is overwritten.
func (e *Engine) Forward(signal []float64, spectrum []complex128) error {
	if len(signal) != e.n {
		return fmt.Errorf("%w: signal has %d samples, want %d", errLengthMismatch, len(signal), e.n)
	}
	if len(spectrum) != e.NyquistLength() {
		return fmt.Errorf("%w: spectrum has %d bins, want %d", errInvalidSpectrum, len(spectrum), e.NyquistLength())
	}

	switch e.algorithm {
	case FFT:
		for i, s := range signal {
			e.scratch[i] = complex(s, 0)
		}
		if err := e.plan.Forward(e.scratch, e.scratch); err != nil {
			return fmt.Errorf("vox: forward fft: %w", err)
		}
		copy(spectrum, e.scratch[:e.NyquistLength()])
	case DFT:
		half := e.NyquistLength()
		for k := 0; k < half; k++ {
			var sum complex128
			for t, s := range signal {
				idx := (k * t) % e.n
				sum += complex(s, 0) * e.roots[idx]
			}
			spectrum[k] = sum
		}
	}

	return nil
}

// ForwardComplex computes the full-length complex spectrum of an arbitrary
// complex signal of length N (spec's `transform`). Both signal and spectrum
// must have length N; spectrum is overwritten.
func (e *Engine) ForwardComplex(signal, spectrum []complex128) error {
	if len(signal) != e.n {
		return fmt.Errorf("%w: signal has %d samples, want %d", errLengthMismatch, len(signal), e.n)
	}
	if len(spectrum) != e.n {
		return fmt.Errorf("%w: spectrum has %d bins, want %d", errInvalidSpectrum, len(spectrum), e.n)
	}

	switch e.algorithm {
	case FFT:
		if err := e.plan.Forward(signal, spectrum); err != nil {
			return fmt.Errorf("vox: forward fft: %w", err)
		}
	case DFT:
		for k := 0; k < e.n; k++ {
			var sum complex128
			for t, s := range signal {
				idx := (k * t) % e.n
				sum += s * e.roots[idx]
			}
			spectrum[k] = sum
		}
	}

	return nil
}

// InverseComplex reconstructs a complex signal of length N from its
// full-length complex spectrum (spec's `transform_inverse`), normalized by
// 1/N. Both spectrum and signal must have length N; signal is overwritten.
func (e *Engine) InverseComplex(spectrum, signal []complex128) error {
	if len(spectrum) != e.n {
		return fmt.Errorf("%w: spectrum has %d bins, want %d", errInvalidSpectrum, len(spectrum), e.n)
	}
	if len(signal) != e.n {
		return fmt.Errorf("%w: signal has %d samples, want %d", errLengthMismatch, len(signal), e.n)
	}

	switch e.algorithm {
	case FFT:
		if err := e.plan.Inverse(spectrum, signal); err != nil {
			return fmt.Errorf("vox: inverse fft: %w", err)
		}
	case DFT:
		inv := 1.0 / float64(e.n)
		for t := 0; t < e.n; t++ {
			var sum complex128
			for k, x := range spectrum {
				idx := (k * t) % e.n
				sum += x * cmplx.Conj(e.roots[idx])
			}
			signal[t] = sum * complex(inv, 0)
		}
	}

	return nil
}

// Inverse reconstructs a real signal of length N from its one-sided
// spectrum. signal must have length N; it is overwritten.
func (e *Engine) Inverse(spectrum []complex128, signal []float64) error {
	if len(spectrum) != e.NyquistLength() {
		return fmt.Errorf("%w: spectrum has %d bins, want %d", errInvalidSpectrum, len(spectrum), e.NyquistLength())
	}
	if len(signal) != e.n {
		return fmt.Errorf("%w: signal has %d samples, want %d", errLengthMismatch, len(signal), e.n)
	}

	half := e.NyquistLength()
	switch e.algorithm {
	case FFT:
		copy(e.scratch[:half], spectrum)
		for k := half; k < e.n; k++ {
			e.scratch[k] = cmplx.Conj(e.scratch[e.n-k])
		}
		if err := e.plan.Inverse(e.scratch, e.scratch); err != nil {
			return fmt.Errorf("vox: inverse fft: %w", err)
		}
		for i := range signal {
			signal[i] = real(e.scratch[i])
		}
	case DFT:
		full := e.scratch
		copy(full[:half], spectrum)
		for k := half; k < e.n; k++ {
			full[k] = cmplx.Conj(spectrum[e.n-k])
		}
		inv := 1.0 / float64(e.n)
		for t := range signal {
			var sum complex128
			for k, x := range full {
				idx := (k * t) % e.n
				sum += x * cmplx.Conj(e.roots[idx])
			}
			signal[t] = real(sum) * inv
		}
	}

	return nil
}
