package disk

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace for disk generation errors.
const Codespace = "diskmaker"

var (
	// ErrInvalidParameter is returned when a disk description or option is rejected
	// before any computation starts.
	ErrInvalidParameter = errorsmod.Register(Codespace, 2, "invalid parameter")

	// ErrNumericDegeneracy is returned when the profile inversion yields NaN or Inf.
	ErrNumericDegeneracy = errorsmod.Register(Codespace, 3, "numeric degeneracy")
)
