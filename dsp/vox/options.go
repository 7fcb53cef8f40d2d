package vox

import "fmt"

const (
	defaultStandardPitch              = 440.0
	defaultAveragingTime              = 0.005
	defaultHoldTime                   = 0.01
	defaultAttackTime                 = 0.005
	defaultSynthesisGain              = 0.6
	defaultFundamentalThresholdFactor = 0.3
	defaultPeakGroupTolerance         = semitoneRatio
	defaultFilterFloorDB              = -60.0
	defaultFundamentalUpperBound      = 5000.0
)

type processorConfig struct {
	synthesisGain              float64
	fundamentalThresholdFactor float64
	fundamentalUpperBound      float64
	peakGroupTolerance         float64
	filterFloorDB              float64
	algorithm                  Algorithm
}

func defaultProcessorConfig() processorConfig {
	return processorConfig{
		synthesisGain:              defaultSynthesisGain,
		fundamentalThresholdFactor: defaultFundamentalThresholdFactor,
		fundamentalUpperBound:      defaultFundamentalUpperBound,
		peakGroupTolerance:         defaultPeakGroupTolerance,
		filterFloorDB:              defaultFilterFloorDB,
		algorithm:                  FFT,
	}
}

// Option configures a Processor at construction time.
type Option func(*processorConfig) error

// WithSynthesisGain overrides the overlap-add compensation scalar applied
// to each synthesized frame before it is summed into the accumulator.
func WithSynthesisGain(gain float64) Option {
	return func(cfg *processorConfig) error {
		if gain <= 0 {
			return fmt.Errorf("vox: synthesis gain must be > 0: %f", gain)
		}
		cfg.synthesisGain = gain
		return nil
	}
}

// WithFundamentalThresholdFactor overrides the fraction of total squared
// gain a harmonic-sum candidate must reach to be accepted as the
// fundamental.
func WithFundamentalThresholdFactor(factor float64) Option {
	return func(cfg *processorConfig) error {
		if factor <= 0 || factor > 1 {
			return fmt.Errorf("vox: fundamental threshold factor must be in (0,1]: %f", factor)
		}
		cfg.fundamentalThresholdFactor = factor
		return nil
	}
}

// WithFundamentalUpperBound overrides the highest frequency, in Hz, that
// FindFundamental will report as a candidate fundamental.
func WithFundamentalUpperBound(hz float64) Option {
	return func(cfg *processorConfig) error {
		if hz <= 0 {
			return fmt.Errorf("vox: fundamental upper bound must be > 0: %f", hz)
		}
		cfg.fundamentalUpperBound = hz
		return nil
	}
}

// WithPeakGroupTolerance overrides the frequency-ratio tolerance used to
// merge adjacent spectral bins into a single peak.
func WithPeakGroupTolerance(tolerance float64) Option {
	return func(cfg *processorConfig) error {
		if tolerance <= 1 {
			return fmt.Errorf("vox: peak group tolerance must be > 1: %f", tolerance)
		}
		cfg.peakGroupTolerance = tolerance
		return nil
	}
}

// WithFilterFloorDB overrides the gain floor, in dB, below which spectral
// bins are dropped before peak grouping.
func WithFilterFloorDB(db float64) Option {
	return func(cfg *processorConfig) error {
		cfg.filterFloorDB = db
		return nil
	}
}

// WithAlgorithm overrides the transform algorithm used by the analysis and
// synthesis FFT engines. FFT is the default; DFT trades speed for direct
// validation against arbitrary even frame lengths.
func WithAlgorithm(algorithm Algorithm) Option {
	return func(cfg *processorConfig) error {
		cfg.algorithm = algorithm
		return nil
	}
}
