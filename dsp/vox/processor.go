package vox

import (
	"fmt"

	"github.com/cwbudde/vocalign/dsp/core"
	"github.com/cwbudde/vocalign/dsp/window"
)

// Processor is the real-time pitch/formant engine. One Processor instance
// analyzes a single input channel and resynthesizes it independently for
// each of numChannels output channels, each with its own pitch shift,
// formant shift, tuning mode, and mix gain.
//
// A single goroutine must call Process (or ProcessBypassed, or Reset).
// InFundamentalFrequency and OutFundamentalFrequency may be called
// concurrently from any other goroutine; InputSpectrum and OutputSpectrum
// may be called concurrently with Process from one other goroutine.
type Processor struct {
	fftLength    int
	overSampling int
	stepSize     int
	overlapSize  int
	cfg          processorConfig

	engine       *Engine
	windowCoeffs []float64

	inputRing        *Ring
	analysisScratch  []float64
	analysisSpectrum []complex128
	lastPhase        []float64

	inputDense     []SpectrumValue
	filteredCopy   []SpectrumValue
	groupedScratch []SpectrumValue
	inputGainCopy  []float64

	freqFilter       FrequencyEnvelope
	inputFundamental atomicFloat64
	inputSwap        *SpectrumSwap
	inputSnapshot    []SpectrumValue

	dryScratch []float64

	channels []*channelState
}

// NewProcessor constructs a Processor. fftLength is the analysis/synthesis
// frame length; overSampling is the number of overlapping frames per
// fftLength window (stepSize = fftLength/overSampling); numChannels is the
// number of independently pitch/formant-shifted output channels.
func NewProcessor(fftLength, overSampling, numChannels int, opts ...Option) (*Processor, error) {
	if overSampling <= 1 {
		return nil, fmt.Errorf("vox: overSampling must be > 1: %d", overSampling)
	}
	if overSampling*overSampling >= fftLength {
		return nil, fmt.Errorf("vox: overSampling^2 must be < fftLength: overSampling=%d fftLength=%d", overSampling, fftLength)
	}
	if fftLength != (fftLength/overSampling)*overSampling {
		return nil, fmt.Errorf("vox: fftLength must be a multiple of overSampling: fftLength=%d overSampling=%d", fftLength, overSampling)
	}
	if numChannels <= 0 {
		return nil, fmt.Errorf("vox: numChannels must be > 0: %d", numChannels)
	}

	cfg := defaultProcessorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := NewEngine(fftLength, cfg.algorithm)
	if err != nil {
		return nil, err
	}

	stepSize := fftLength / overSampling
	nyquistLength := engine.NyquistLength()

	p := &Processor{
		fftLength:        fftLength,
		overSampling:     overSampling,
		stepSize:         stepSize,
		overlapSize:      fftLength - stepSize,
		cfg:              cfg,
		engine:           engine,
		windowCoeffs:     window.Generate(window.TypeHann, fftLength, window.WithPeriodic()),
		inputRing:        NewRing(fftLength),
		analysisScratch:  make([]float64, fftLength),
		analysisSpectrum: make([]complex128, nyquistLength),
		lastPhase:        make([]float64, nyquistLength),
		inputDense:       make([]SpectrumValue, nyquistLength),
		filteredCopy:     make([]SpectrumValue, nyquistLength),
		groupedScratch:   make([]SpectrumValue, 0, nyquistLength),
		inputGainCopy:    make([]float64, nyquistLength),
		inputSwap:        NewSpectrumSwap(nyquistLength),
		inputSnapshot:    make([]SpectrumValue, 0, nyquistLength),
		dryScratch:       make([]float64, stepSize),
		channels:         make([]*channelState, numChannels),
	}

	for i := range p.channels {
		p.channels[i] = newChannelState(nyquistLength, fftLength, stepSize, ChannelParameters{MixGain: 1}, cfg.synthesisGain)
	}

	return p, nil
}

// FFTLength returns the analysis/synthesis frame length.
func (p *Processor) FFTLength() int { return p.fftLength }

// OverSampling returns the configured oversampling factor.
func (p *Processor) OverSampling() int { return p.overSampling }

// StepSize returns fftLength/overSampling, the number of new samples
// consumed and produced per Process call.
func (p *Processor) StepSize() int { return p.stepSize }

// OverlapSize returns fftLength - StepSize().
func (p *Processor) OverlapSize() int { return p.overlapSize }

// InputSpectrum returns the most recently published grouped input
// spectrum. Safe to call concurrently with Process.
func (p *Processor) InputSpectrum() []SpectrumValue {
	p.inputSnapshot = p.inputSwap.Snapshot(p.inputSnapshot)
	return p.inputSnapshot
}

// OutputSpectrum returns the most recently published filtered, grouped
// output spectrum for the given channel. Safe to call concurrently with Process.
func (p *Processor) OutputSpectrum(channel int) []SpectrumValue {
	if channel < 0 || channel >= len(p.channels) {
		return nil
	}
	ch := p.channels[channel]
	ch.snapshot = ch.swap.Snapshot(ch.snapshot)
	return ch.snapshot
}

// InFundamentalFrequency returns the smoothed input fundamental frequency
// estimate, in Hz, or 0 if no confident pitch is currently detected. Safe
// to call concurrently with Process.
func (p *Processor) InFundamentalFrequency() float64 {
	return p.inputFundamental.Load()
}

// OutFundamentalFrequency returns the given channel's output fundamental
// frequency, in Hz. Safe to call concurrently with Process.
func (p *Processor) OutFundamentalFrequency(channel int) float64 {
	if channel < 0 || channel >= len(p.channels) {
		return 0
	}
	return p.channels[channel].fundamental.Load()
}

// Reset clears all analysis and synthesis state without reallocating,
// as if the Processor had just been constructed.
func (p *Processor) Reset() {
	p.inputRing.Reset()
	core.Zero(p.lastPhase)
	p.freqFilter.Reset()
	p.inputFundamental.Store(0)
	p.inputSwap.Publish(nil)
	for _, ch := range p.channels {
		ch.reset()
		ch.swap.Publish(nil)
	}
}

// Process consumes StepSize() new input samples and produces StepSize()
// output samples per channel (output has length StepSize()*len(channels),
// channel-major). channels must have exactly as many entries as the
// Processor was constructed with.
func (p *Processor) Process(input, output []float64, sampleRate float64, tuning TuningParameters, channels []ChannelParameters, dryMixGain float64) error {
	if len(input) != p.stepSize {
		return fmt.Errorf("%w: input has %d samples, want %d", errLengthMismatch, len(input), p.stepSize)
	}
	if len(output) != p.stepSize*len(p.channels) {
		return fmt.Errorf("%w: output has %d samples, want %d", errLengthMismatch, len(output), p.stepSize*len(p.channels))
	}
	if len(channels) != len(p.channels) {
		return fmt.Errorf("%w: %d channel parameters, want %d", errChannelCountWrong, len(channels), len(p.channels))
	}
	if sampleRate <= 0 {
		return fmt.Errorf("vox: sampleRate must be > 0: %f", sampleRate)
	}

	timeDiff := float64(p.stepSize) / sampleRate
	binFreqStep := sampleRate / float64(p.fftLength)

	p.inputRing.Push(input)

	for i, s := range p.inputRing.Samples() {
		p.analysisScratch[i] = s * p.windowCoeffs[i]
	}

	if err := p.engine.Forward(p.analysisScratch, p.analysisSpectrum); err != nil {
		return err
	}

	p.inputDense = RefineSpectrum(p.analysisSpectrum, p.lastPhase, timeDiff, binFreqStep, p.fftLength, p.inputDense)
	p.inputGainCopy = gainsOf(p.inputDense, p.inputGainCopy)

	copy(p.filteredCopy, p.inputDense)
	filtered := FilterSpectrum(p.filteredCopy, core.DBToLinear(p.cfg.filterFloorDB))
	grouped := GroupPeaks(filtered, p.cfg.peakGroupTolerance, p.groupedScratch)
	p.groupedScratch = grouped

	raw := FindFundamental(grouped, p.cfg.fundamentalThresholdFactor, p.cfg.fundamentalUpperBound)
	smoothed := p.freqFilter.Process(raw, tuning.FrequencyAveragingTime, tuning.HoldTime, timeDiff)
	p.inputFundamental.Store(smoothed)
	p.inputSwap.Publish(grouped)

	for i, ch := range p.channels {
		ch.params = channels[i]
		dst := output[i*p.stepSize : (i+1)*p.stepSize]

		if ch.params.MixGain == 0 {
			ch.reset()
			for j := range dst {
				dst[j] = input[j] * dryMixGain
			}
			continue
		}

		pitchFactor := ch.resolvePitchFactor(smoothed, tuning.StandardPitch, timeDiff, tuning.AttackTime)
		ch.shifter.Shift(p.inputDense, p.lastPhase, pitchFactor, binFreqStep, timeDiff, ch.spectrum, ch.binSpectrum)

		formantsFactor := SemitonesToFactor(ch.params.FormantsShift)
		if !core.NearlyEqual(pitchFactor, formantsFactor, 1e-9) {
			var targetGain []float64
			if core.NearlyEqual(formantsFactor, 1, 1e-9) {
				targetGain = p.inputGainCopy
			} else {
				ch.formantShift.Shift(p.inputDense, p.lastPhase, formantsFactor, binFreqStep, timeDiff, ch.formantSpectrum, ch.formantBins)
				targetGain = gainsOf(ch.formantBins, ch.targetGain)
			}
			shiftedGain := gainsOf(ch.binSpectrum, ch.shiftedGain)
			factors := AlignFormants(targetGain, shiftedGain, ch.factors)
			applyFormantFactors(ch.spectrum, ch.binSpectrum, factors)
		}

		if err := p.engine.Inverse(ch.spectrum, ch.timeFrame); err != nil {
			return err
		}

		ch.accumulator.AddFrame(ch.timeFrame)
		synth := ch.accumulator.Advance(ch.synthOut)

		for j := range dst {
			dst[j] = synth[j]*ch.params.MixGain + input[j]*dryMixGain
		}

		ch.fundamental.Store(pitchFactor * smoothed)

		copy(ch.filtered, ch.binSpectrum)
		chFiltered := FilterSpectrum(ch.filtered, core.DBToLinear(p.cfg.filterFloorDB))
		ch.grouped = GroupPeaks(chFiltered, p.cfg.peakGroupTolerance, ch.grouped)
		ch.swap.Publish(ch.grouped)
	}

	return nil
}

// ProcessBypassed advances the internal delay line without applying any
// pitch or formant transform, emitting the delayed dry input on every
// output channel. It keeps the Processor's latency consistent so a host
// can toggle bypass without a click.
func (p *Processor) ProcessBypassed(input, output []float64) error {
	if len(input) != p.stepSize {
		return fmt.Errorf("%w: input has %d samples, want %d", errLengthMismatch, len(input), p.stepSize)
	}
	if len(output) != p.stepSize*len(p.channels) {
		return fmt.Errorf("%w: output has %d samples, want %d", errLengthMismatch, len(output), p.stepSize*len(p.channels))
	}

	p.inputRing.Push(input)
	p.inputFundamental.Store(0)
	p.inputSwap.Publish(nil)
	for _, ch := range p.channels {
		ch.reset()
	}

	front := p.inputRing.Front(p.dryScratch, p.stepSize)
	p.dryScratch = front
	for i := range p.channels {
		copy(output[i*p.stepSize:(i+1)*p.stepSize], front)
	}

	return nil
}
