package disk

import (
	"log/slog"
	"math"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"golang.org/x/exp/rand"
)

const (
	// DefaultDensity is the bulk density in g/cm³ given to every body.
	DefaultDensity = 3.0
	// DefaultCloseEncounter is the close-encounter distance in Hill radii.
	DefaultCloseEncounter = 0.1
)

// Options controls how a DiskSpec is turned into bodies.
type Options struct {
	Spacing        Spacing
	Sorted         bool // sort all bodies by semi-major axis before naming
	Perturbation   Perturbation
	Naming         Naming
	MassUnit       MassUnit
	Density        float64 // g/cm³
	CloseEncounter float64 // Hill radii

	// Src feeds every random draw. It is required unless both the spacing and
	// the perturbation are deterministic.
	Src    rand.Source
	Logger *slog.Logger
}

// DefaultOptions returns random spacing, uniform perturbations and the
// default naming scheme, drawing from src.
func DefaultOptions(src rand.Source) Options {
	return Options{
		Spacing:        SpacingRandom,
		Perturbation:   DefaultPerturbation(),
		Naming:         DefaultNaming(),
		MassUnit:       MassUnitSolar,
		Density:        DefaultDensity,
		CloseEncounter: DefaultCloseEncounter,
		Src:            src,
	}
}

// NewSource returns a deterministic random source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) validate(s DiskSpec) error {
	if _, err := ParseSpacing(string(o.Spacing)); err != nil {
		return err
	}
	if _, err := ParseMassUnit(string(o.MassUnit)); err != nil {
		return err
	}
	if err := o.Perturbation.validate(); err != nil {
		return err
	}
	if err := o.Naming.validate(s.NumSmall, s.NumLarge+len(s.Embryos)); err != nil {
		return err
	}
	if !(o.Density > 0) || math.IsInf(o.Density, 0) {
		return errorsmod.Wrapf(ErrInvalidParameter, "density must be positive, got %g", o.Density)
	}
	if o.CloseEncounter < 0 || math.IsNaN(o.CloseEncounter) {
		return errorsmod.Wrapf(ErrInvalidParameter, "close-encounter distance cannot be negative, got %g", o.CloseEncounter)
	}

	randomAxes := o.Spacing == SpacingRandom && s.NumSmall+s.NumLarge > 0
	if o.Src == nil && (randomAxes || o.Perturbation.needsSource()) {
		return errorsmod.Wrap(ErrInvalidParameter, "a random source is required for random spacing or perturbations")
	}
	return nil
}

// Generate places the bodies of s. Every parameter is checked before any
// random number is drawn, and nothing is returned on failure.
func Generate(s DiskSpec, opts Options) ([]Body, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(s); err != nil {
		return nil, err
	}
	budget, err := Budget(s)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	nLarge := s.NumLarge + len(s.Embryos)
	log.Info("disk bodies", "small", s.NumSmall, "large", nLarge, "total", s.NumSmall+nLarge)
	if budget.Missing >= budget.Total*missingMassWarnFraction {
		log.Warn("disk mass not assigned to bodies", "missing", budget.Missing, "fraction", budget.MissingFraction())
	} else {
		log.Info("disk mass not assigned to bodies", "missing", budget.Missing)
	}

	sampler := Sampler{
		Inner:   s.Inner,
		Outer:   s.Outer,
		Alpha:   s.Alpha,
		Spacing: opts.Spacing,
		Src:     opts.Src,
	}

	largeSemis, smallSemis, err := sampleAxes(sampler, s)
	if err != nil {
		return nil, err
	}

	bodies := make([]Body, 0, s.NumSmall+nLarge)
	for _, e := range s.Embryos {
		bodies = append(bodies, opts.newBody(KindEmbryo, e.SemiMajorAxis, s.embryoMass(e)))
	}
	for _, a := range largeSemis {
		bodies = append(bodies, opts.newBody(KindEmbryo, a, s.LargeMass))
	}
	for _, a := range smallSemis {
		bodies = append(bodies, opts.newBody(KindSmall, a, s.SmallMass))
	}

	if opts.Sorted {
		sort.SliceStable(bodies, func(i, j int) bool {
			return bodies[i].SemiMajorAxis < bodies[j].SemiMajorAxis
		})
	}

	d := newDrawer(opts.Perturbation, opts.Src)
	counters := map[Kind]int{}
	for i := range bodies {
		b := &bodies[i]
		b.Name = opts.Naming.name(b.Kind, counters[b.Kind])
		counters[b.Kind]++
		d.apply(b)
	}

	return bodies, nil
}

// sampleAxes draws the embryo and small body axes. Even spacing puts both
// populations on one grid weighted by mass, so embryos never land on a small
// body's axis.
func sampleAxes(sampler Sampler, s DiskSpec) (large, small []float64, err error) {
	if sampler.Spacing == SpacingEven && s.NumLarge > 0 {
		if err := sampler.validate(s.NumSmall + s.NumLarge); err != nil {
			return nil, nil, err
		}
		smallU, largeU := interleavedFractions(s.NumSmall, s.NumLarge, s.LargeMass/s.SmallMass)
		if large, err = sampler.invert(largeU); err != nil {
			return nil, nil, err
		}
		if small, err = sampler.invert(smallU); err != nil {
			return nil, nil, err
		}
		return large, small, nil
	}

	if large, err = sampler.Sample(s.NumLarge); err != nil {
		return nil, nil, err
	}
	if small, err = sampler.Sample(s.NumSmall); err != nil {
		return nil, nil, err
	}
	return large, small, nil
}

func (o Options) newBody(k Kind, a, mass float64) Body {
	m := o.MassUnit.ToSolar(mass)
	return Body{
		Kind:           k,
		SemiMajorAxis:  a,
		Mass:           m,
		Density:        o.Density,
		Radius:         PhysicalRadius(m, o.Density),
		CloseEncounter: o.CloseEncounter,
	}
}
