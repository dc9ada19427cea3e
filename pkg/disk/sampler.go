package disk

import (
	"math"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// alphaTolerance decides when alpha is treated as exactly 2 and the
// logarithmic inversion is used.
const alphaTolerance = 1e-9

// Spacing selects how the uniform fractions fed to the inverse CDF are drawn.
type Spacing string

const (
	// SpacingRandom draws independent uniform fractions from the source.
	SpacingRandom Spacing = "random"
	// SpacingEven uses the evenly spaced fractions i/n for i in [0, n).
	SpacingEven Spacing = "even"
)

// ParseSpacing converts a configuration string into a Spacing.
func ParseSpacing(s string) (Spacing, error) {
	switch Spacing(s) {
	case SpacingRandom, "":
		return SpacingRandom, nil
	case SpacingEven:
		return SpacingEven, nil
	default:
		return "", errorsmod.Wrapf(ErrInvalidParameter, "unknown spacing %q", s)
	}
}

// Sampler maps uniform fractions onto semi-major axes whose number density
// follows sigma ∝ r^-alpha between Inner and Outer.
type Sampler struct {
	Inner   float64
	Outer   float64
	Alpha   float64
	Spacing Spacing
	Sorted  bool
	Src     rand.Source // required for SpacingRandom
}

// Sample returns exactly n semi-major axes in [Inner, Outer].
func (s Sampler) Sample(n int) ([]float64, error) {
	if err := s.validate(n); err != nil {
		return nil, err
	}

	semis := make([]float64, n)
	if n == 0 {
		return semis, nil
	}

	fractions, err := s.fractions(n)
	if err != nil {
		return nil, err
	}
	return s.invert(fractions)
}

// invert maps fractions in [0, 1] to semi-major axes.
func (s Sampler) invert(fractions []float64) ([]float64, error) {
	semis := make([]float64, len(fractions))
	for i, u := range fractions {
		r := InverseCDF(u, s.Inner, s.Outer, s.Alpha)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, errorsmod.Wrapf(ErrNumericDegeneracy,
				"inverting u=%g with alpha=%g over [%g, %g] gave %g", u, s.Alpha, s.Inner, s.Outer, r)
		}
		semis[i] = clamp(r, s.Inner, s.Outer)
	}

	if s.Sorted {
		sort.Float64s(semis)
	}
	return semis, nil
}

// interleavedFractions places nLarge embryos of ratio times the small body
// mass among nSmall small bodies on one evenly spaced cumulative mass grid.
// Embryos sit at the centres of nLarge equal runs of small bodies, and every
// body starts at the mass enclosed by the bodies before it, so no two bodies
// share a fraction.
func interleavedFractions(nSmall, nLarge int, ratio float64) (small, large []float64) {
	small = make([]float64, 0, nSmall)
	large = make([]float64, 0, nLarge)
	total := float64(nSmall) + float64(nLarge)*ratio

	var enclosed float64
	placed := 0
	for j := 0; j < nLarge; j++ {
		before := int(math.Round((float64(j) + 0.5) * float64(nSmall) / float64(nLarge)))
		for ; placed < before; placed++ {
			small = append(small, enclosed/total)
			enclosed++
		}
		large = append(large, enclosed/total)
		enclosed += ratio
	}
	for ; placed < nSmall; placed++ {
		small = append(small, enclosed/total)
		enclosed++
	}
	return small, large
}

func (s Sampler) validate(n int) error {
	if n < 0 {
		return errorsmod.Wrapf(ErrInvalidParameter, "body count cannot be negative, got %d", n)
	}
	if err := validateBounds(s.Inner, s.Outer); err != nil {
		return err
	}
	if math.IsNaN(s.Alpha) || math.IsInf(s.Alpha, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "alpha must be finite, got %g", s.Alpha)
	}
	if s.Spacing == SpacingRandom && s.Src == nil && n > 0 {
		return errorsmod.Wrap(ErrInvalidParameter, "random spacing requires a random source")
	}
	return nil
}

func (s Sampler) fractions(n int) ([]float64, error) {
	switch s.Spacing {
	case SpacingEven:
		// n+1 points over [0, 1], dropping the closing 1 so the fractions cover [0, 1).
		return floats.Span(make([]float64, n+1), 0, 1)[:n], nil
	case SpacingRandom:
		u := distuv.Uniform{Min: 0, Max: 1, Src: s.Src}
		out := make([]float64, n)
		for i := range out {
			out[i] = u.Rand()
		}
		return out, nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidParameter, "unknown spacing %q", s.Spacing)
	}
}

// InverseCDF maps a fraction u in [0, 1] to the radius enclosing that fraction
// of equal-mass bodies in a disk with sigma ∝ r^-alpha over [inner, outer].
func InverseCDF(u, inner, outer, alpha float64) float64 {
	if isLogarithmic(alpha) {
		return inner * math.Pow(outer/inner, u)
	}
	p := 2 - alpha
	lo := math.Pow(inner, p)
	hi := math.Pow(outer, p)
	return math.Pow(u*(hi-lo)+lo, 1/p)
}

// ProfileCDF is the fraction of bodies inside r, the inverse of InverseCDF.
func ProfileCDF(r, inner, outer, alpha float64) float64 {
	switch {
	case r <= inner:
		return 0
	case r >= outer:
		return 1
	}
	if isLogarithmic(alpha) {
		return math.Log(r/inner) / math.Log(outer/inner)
	}
	p := 2 - alpha
	lo := math.Pow(inner, p)
	return (math.Pow(r, p) - lo) / (math.Pow(outer, p) - lo)
}

func isLogarithmic(alpha float64) bool {
	return math.Abs(alpha-2) < alphaTolerance
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
