package disk

import (
	"math"

	errorsmod "cosmossdk.io/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// PerturbationModel selects how eccentricities and inclinations are drawn.
type PerturbationModel string

const (
	// PerturbUniform draws e from U[0, Eccentricity] and i from U[0, Inclination].
	PerturbUniform PerturbationModel = "uniform"
	// PerturbRayleigh draws e and i from Rayleigh distributions with the given scales.
	PerturbRayleigh PerturbationModel = "rayleigh"
	// PerturbFixed assigns Eccentricity and Inclination to every body.
	PerturbFixed PerturbationModel = "fixed"
)

// ParsePerturbationModel converts a configuration string into a PerturbationModel.
func ParsePerturbationModel(s string) (PerturbationModel, error) {
	switch PerturbationModel(s) {
	case PerturbUniform, "":
		return PerturbUniform, nil
	case PerturbRayleigh:
		return PerturbRayleigh, nil
	case PerturbFixed:
		return PerturbFixed, nil
	default:
		return "", errorsmod.Wrapf(ErrInvalidParameter, "unknown perturbation model %q", s)
	}
}

// Perturbation configures the small orbital elements given to every body.
// Inclinations and angles are in degrees.
type Perturbation struct {
	Model        PerturbationModel
	Eccentricity float64 // upper bound, Rayleigh scale or fixed value
	Inclination  float64 // upper bound, Rayleigh scale or fixed value

	// RandomAngles draws pericentre, node and mean anomaly from U[0, 360).
	// Otherwise the fixed values below are used.
	RandomAngles  bool
	ArgPericenter float64
	Node          float64
	MeanAnomaly   float64
}

// DefaultPerturbation matches the usual dynamically cold start:
// e ~ U[0, 0.01], i ~ U[0, 0.5°] and uniformly random angles.
func DefaultPerturbation() Perturbation {
	return Perturbation{
		Model:        PerturbUniform,
		Eccentricity: 0.01,
		Inclination:  0.5,
		RandomAngles: true,
	}
}

func (p Perturbation) validate() error {
	if _, err := ParsePerturbationModel(string(p.Model)); err != nil {
		return err
	}
	if p.Eccentricity < 0 || p.Eccentricity >= 1 || math.IsNaN(p.Eccentricity) {
		return errorsmod.Wrapf(ErrInvalidParameter, "eccentricity parameter must be in [0, 1), got %g", p.Eccentricity)
	}
	if p.Inclination < 0 || p.Inclination > 180 || math.IsNaN(p.Inclination) {
		return errorsmod.Wrapf(ErrInvalidParameter, "inclination parameter must be in [0, 180], got %g", p.Inclination)
	}
	return nil
}

// needsSource reports whether drawing elements consumes randomness.
func (p Perturbation) needsSource() bool {
	return p.Model != PerturbFixed || p.RandomAngles
}

// drawer produces per-body elements from one shared source.
type drawer struct {
	p     Perturbation
	ecc   distuv.Rander
	inc   distuv.Rander
	angle distuv.Rander
}

func newDrawer(p Perturbation, src rand.Source) drawer {
	d := drawer{p: p}
	switch p.Model {
	case PerturbRayleigh:
		// A Rayleigh distribution with scale sigma is a Weibull with k=2 and lambda=sigma*sqrt(2).
		d.ecc = distuv.Weibull{K: 2, Lambda: p.Eccentricity * math.Sqrt2, Src: src}
		d.inc = distuv.Weibull{K: 2, Lambda: p.Inclination * math.Sqrt2, Src: src}
	case PerturbFixed:
	default:
		d.ecc = distuv.Uniform{Min: 0, Max: p.Eccentricity, Src: src}
		d.inc = distuv.Uniform{Min: 0, Max: p.Inclination, Src: src}
	}
	if p.RandomAngles {
		d.angle = distuv.Uniform{Min: 0, Max: 360, Src: src}
	}
	return d
}

// apply fills the perturbed elements of b in a fixed draw order: e, i, g, n, M.
func (d drawer) apply(b *Body) {
	b.Eccentricity, b.Inclination = d.p.Eccentricity, d.p.Inclination
	if d.ecc != nil {
		b.Eccentricity = d.draw(d.ecc, 1)
		b.Inclination = d.draw(d.inc, 180)
	}

	b.ArgPericenter, b.Node, b.MeanAnomaly = d.p.ArgPericenter, d.p.Node, d.p.MeanAnomaly
	if d.angle != nil {
		b.ArgPericenter = d.draw(d.angle, 360)
		b.Node = d.draw(d.angle, 360)
		b.MeanAnomaly = d.draw(d.angle, 360)
	}
}

// draw redraws until the value falls below limit. Only the Rayleigh tail can
// reach the limit and it does so with vanishing probability for sane scales.
func (d drawer) draw(r distuv.Rander, limit float64) float64 {
	for {
		if v := r.Rand(); v < limit {
			return v
		}
	}
}
