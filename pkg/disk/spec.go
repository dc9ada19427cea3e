package disk

import (
	"math"

	errorsmod "cosmossdk.io/errors"
)

// Embryo is an individually placed large body.
type Embryo struct {
	SemiMajorAxis float64 // AU
	Mass          float64 // 0 means DiskSpec.LargeMass
}

// DiskSpec describes a bimodal disk of planetesimals and embryos whose surface
// density follows sigma ∝ r^-alpha between Inner and Outer.
type DiskSpec struct {
	TotalMass float64 // desired total disk mass
	SmallMass float64 // mass of each small body
	LargeMass float64 // mass of each embryo, 0 for none
	NumSmall  int     // number of small bodies
	NumLarge  int     // number of embryos drawn from the profile
	Embryos   []Embryo
	Inner     float64 // AU
	Outer     float64 // AU
	Alpha     float64 // surface density exponent
}

// Validate checks the invariants of the disk description.
func (s DiskSpec) Validate() error {
	if !(s.TotalMass > 0) || math.IsInf(s.TotalMass, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "total mass must be positive, got %g", s.TotalMass)
	}
	if !(s.SmallMass > 0) || math.IsInf(s.SmallMass, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "small body mass must be positive, got %g", s.SmallMass)
	}
	if s.LargeMass < 0 || math.IsNaN(s.LargeMass) || math.IsInf(s.LargeMass, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "embryo mass cannot be negative, got %g", s.LargeMass)
	}
	if s.NumSmall < 0 {
		return errorsmod.Wrapf(ErrInvalidParameter, "small body count cannot be negative, got %d", s.NumSmall)
	}
	if s.NumLarge < 0 {
		return errorsmod.Wrapf(ErrInvalidParameter, "embryo count cannot be negative, got %d", s.NumLarge)
	}
	if s.NumLarge > 0 && s.LargeMass == 0 {
		return errorsmod.Wrapf(ErrInvalidParameter, "%d embryos requested without an embryo mass", s.NumLarge)
	}
	if err := validateBounds(s.Inner, s.Outer); err != nil {
		return err
	}
	if math.IsNaN(s.Alpha) || math.IsInf(s.Alpha, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "alpha must be finite, got %g", s.Alpha)
	}

	for i, e := range s.Embryos {
		if e.SemiMajorAxis < s.Inner || e.SemiMajorAxis > s.Outer || math.IsNaN(e.SemiMajorAxis) {
			return errorsmod.Wrapf(ErrInvalidParameter,
				"embryo %d semi-major axis %g outside [%g, %g]", i, e.SemiMajorAxis, s.Inner, s.Outer)
		}
		if e.Mass < 0 || math.IsNaN(e.Mass) || math.IsInf(e.Mass, 0) {
			return errorsmod.Wrapf(ErrInvalidParameter, "embryo %d mass cannot be negative, got %g", i, e.Mass)
		}
		if e.Mass == 0 && s.LargeMass == 0 {
			return errorsmod.Wrapf(ErrInvalidParameter, "embryo %d has no mass and no default embryo mass is set", i)
		}
	}

	return nil
}

// embryoMass returns the mass of an explicit embryo, falling back to LargeMass.
func (s DiskSpec) embryoMass(e Embryo) float64 {
	if e.Mass > 0 {
		return e.Mass
	}
	return s.LargeMass
}

func validateBounds(inner, outer float64) error {
	if !(inner > 0) || math.IsInf(inner, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "inner radius must be positive, got %g", inner)
	}
	if !(outer > 0) || math.IsInf(outer, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "outer radius must be positive, got %g", outer)
	}
	if inner >= outer {
		return errorsmod.Wrapf(ErrInvalidParameter, "inner radius %g must be smaller than outer radius %g", inner, outer)
	}
	return nil
}
