package vox

// formantKernel are the fixed 21-tap smoothing weights used to estimate a
// local spectral envelope around each bin before computing an alignment
// factor.
var formantKernel = [21]float64{
	0.0180, 0.0243, 0.0310, 0.0378, 0.0445, 0.0508, 0.0564, 0.0611, 0.0646, 0.0667,
	0.0675,
	0.0667, 0.0646, 0.0611, 0.0564, 0.0508, 0.0445, 0.0378, 0.0310, 0.0243, 0.0180,
}

const formantKernelOffset = len(formantKernel) / 2

// envelopeValue returns the kernel-weighted local envelope of gains around
// bin i, clipping the kernel at the array bounds.
func envelopeValue(gains []float64, i int) float64 {
	var sum float64
	for j, w := range formantKernel {
		idx := i - formantKernelOffset + j
		if idx < 0 || idx >= len(gains) {
			continue
		}
		sum += gains[idx] * w
	}
	return sum
}

// AlignFormants computes, per bin, the gain multiplier that reshapes
// gainsToBeAligned's local spectral envelope to match gains'. factors is
// resized to len(gains) and overwritten. A factor of 1 is emitted where
// gainsToBeAligned's local envelope is zero.
func AlignFormants(gains, gainsToBeAligned []float64, factors []float64) []float64 {
	if cap(factors) < len(gains) {
		factors = make([]float64, len(gains))
	}
	factors = factors[:len(gains)]

	for i := range gains {
		envelope := envelopeValue(gains, i)
		toAlign := envelopeValue(gainsToBeAligned, i)
		if toAlign == 0 {
			factors[i] = 1
			continue
		}
		factors[i] = envelope / toAlign
	}

	return factors
}
