package types

import "errors"

// Sentinel kinds for enum normalization failures.
var (
	ErrUnknownTier     = errors.New("unknown tier")
	ErrUnknownVertical = errors.New("unknown vertical")
	ErrUnknownRateKey  = errors.New("unknown rate key")
)
