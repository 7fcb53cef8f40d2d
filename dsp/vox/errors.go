package vox

import "errors"

var (
	errLengthMismatch    = errors.New("vox: buffer length mismatch")
	errChannelCountWrong = errors.New("vox: wrong number of channel parameters")
	errInvalidSpectrum   = errors.New("vox: spectrum length mismatch")
)
