package disk

import (
	"fmt"
	"math"

	errorsmod "cosmossdk.io/errors"
)

const (
	// EarthToSolarMass converts Earth masses to solar masses.
	EarthToSolarMass = 3.003467e-6

	solarMassKg = 1.98892e30
)

// Kind distinguishes planetesimals from embryos.
type Kind string

const (
	KindSmall  Kind = "small"
	KindEmbryo Kind = "embryo"
)

// Body is one row of a generated disk. Angles are in degrees and the mass is
// in solar masses.
type Body struct {
	Name           string
	Kind           Kind
	SemiMajorAxis  float64 // AU
	Eccentricity   float64
	Inclination    float64 // deg
	ArgPericenter  float64 // deg
	Node           float64 // deg, longitude of ascending node
	MeanAnomaly    float64 // deg
	Mass           float64 // solar masses
	Density        float64 // g/cm³
	Radius         float64 // km, derived from Mass and Density
	CloseEncounter float64 // Hill radii
	Spin           [3]float64
}

// PhysicalRadius returns the radius in km of a sphere of the given mass in
// solar masses and bulk density in g/cm³.
func PhysicalRadius(mass, density float64) float64 {
	if mass <= 0 || density <= 0 {
		return 0
	}
	kg := mass * solarMassKg
	rho := density * 1000 // kg/m³
	return math.Cbrt(3*kg/(4*math.Pi*rho)) / 1000
}

// MassUnit is the unit DiskSpec masses are given in.
type MassUnit string

const (
	MassUnitSolar MassUnit = "solar"
	MassUnitEarth MassUnit = "earth"
)

// ParseMassUnit converts a configuration string into a MassUnit.
func ParseMassUnit(s string) (MassUnit, error) {
	switch MassUnit(s) {
	case MassUnitSolar, "":
		return MassUnitSolar, nil
	case MassUnitEarth:
		return MassUnitEarth, nil
	default:
		return "", errorsmod.Wrapf(ErrInvalidParameter, "unknown mass unit %q", s)
	}
}

// ToSolar converts a mass in u to solar masses.
func (u MassUnit) ToSolar(m float64) float64 {
	if u == MassUnitEarth {
		return m * EarthToSolarMass
	}
	return m
}

// Naming assigns identifiers to bodies using one counter per kind.
type Naming struct {
	SmallPrefix string
	LargePrefix string
	Width       int
	Start       int
}

// DefaultNaming produces PL0001... for planetesimals and EM0001... for embryos.
func DefaultNaming() Naming {
	return Naming{SmallPrefix: "PL", LargePrefix: "EM", Width: 4, Start: 1}
}

func (n Naming) validate(small, large int) error {
	if n.Width <= 0 {
		return errorsmod.Wrapf(ErrInvalidParameter, "name width must be positive, got %d", n.Width)
	}
	if n.SmallPrefix == n.LargePrefix {
		return errorsmod.Wrapf(ErrInvalidParameter, "small and embryo prefixes must differ, both are %q", n.SmallPrefix)
	}
	limit := math.Pow10(n.Width)
	for _, count := range []int{small, large} {
		if count > 0 && float64(n.Start+count-1) >= limit {
			return errorsmod.Wrapf(ErrInvalidParameter,
				"%d bodies do not fit in %d-digit names starting at %d", count, n.Width, n.Start)
		}
	}
	return nil
}

func (n Naming) name(k Kind, i int) string {
	prefix := n.SmallPrefix
	if k == KindEmbryo {
		prefix = n.LargePrefix
	}
	return fmt.Sprintf("%s%0*d", prefix, n.Width, n.Start+i)
}
