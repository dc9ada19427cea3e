package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oxygene76/diskmaker/internal/types"
	"github.com/oxygene76/diskmaker/pkg/astronomy/nbody"
	"github.com/oxygene76/diskmaker/pkg/astronomy/orbital"
	"github.com/oxygene76/diskmaker/pkg/disk"
)

// ksCoefficient1pct is c(α) of the asymptotic one-sample Kolmogorov–Smirnov
// critical value c(α)/√n at α = 0.01.
const ksCoefficient1pct = 1.628

// Profile is the surface density law a disk is compared against.
type Profile struct {
	Inner, Outer, Alpha float64
}

// Summarize computes counts, masses and spacing statistics for bodies
// orbiting centralMass. When profile is non-nil the small bodies are tested
// against it.
func Summarize(bodies []disk.Body, profile *Profile, centralMass float64) (*types.DiskSummary, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("no bodies to summarize")
	}

	sorted := make([]disk.Body, len(bodies))
	copy(sorted, bodies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SemiMajorAxis < sorted[j].SemiMajorAxis
	})

	s := &types.DiskSummary{NumBodies: len(sorted)}
	semis := make([]float64, len(sorted))
	masses := make([]float64, len(sorted))
	var smallSemis []float64
	s.MinPerihelion = math.Inf(1)

	for i, b := range sorted {
		semis[i] = b.SemiMajorAxis
		masses[i] = b.Mass
		if b.Kind == disk.KindEmbryo {
			s.NumEmbryos++
			s.EmbryoMass += b.Mass
		} else {
			s.NumSmall++
			s.SmallMass += b.Mass
			smallSemis = append(smallSemis, b.SemiMajorAxis)
		}

		oe := orbital.FromDegrees(b.SemiMajorAxis, b.Eccentricity, b.Inclination, b.ArgPericenter, b.Node, b.MeanAnomaly)
		s.MinPerihelion = math.Min(s.MinPerihelion, oe.GetPerihelion())
		s.MaxAphelion = math.Max(s.MaxAphelion, oe.GetAphelion())
		if i == 0 {
			s.InnerPeriodDays = oe.GetOrbitalPeriod(orbital.Mu(centralMass, b.Mass))
		}
	}

	s.TotalMass = floats.Sum(masses)
	s.SemiMajorAxis = distribution(semis)
	s.CumulativeMass = cumulativeMass(semis, masses)

	if len(sorted) > 1 {
		spacing := make([]float64, len(sorted)-1)
		for i := range spacing {
			a, b := sorted[i], sorted[i+1]
			rh := orbital.MutualHillRadius(a.SemiMajorAxis, b.SemiMajorAxis, a.Mass, b.Mass, centralMass)
			spacing[i] = (b.SemiMajorAxis - a.SemiMajorAxis) / rh
		}
		sort.Float64s(spacing)
		d := distribution(spacing)
		s.HillSpacing = &d
	}

	sys, err := nbody.FromDisk(sorted, centralMass, 0)
	if err != nil {
		return nil, err
	}
	s.AngularMomentum = sys.GetAngularMomentum().Array()

	if profile != nil && len(smallSemis) > 0 {
		p := *profile
		d := KolmogorovSmirnov(smallSemis, func(r float64) float64 {
			return disk.ProfileCDF(r, p.Inner, p.Outer, p.Alpha)
		})
		critical := KSCriticalValue(len(smallSemis))
		s.Profile = &types.ProfileFit{
			Inner:      p.Inner,
			Outer:      p.Outer,
			Alpha:      p.Alpha,
			KSStat:     d,
			Critical:   critical,
			Consistent: d <= critical,
		}
	}

	return s, nil
}

// distribution expects sorted values.
func distribution(sorted []float64) types.Distribution {
	return types.Distribution{
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

func cumulativeMass(semis, masses []float64) []types.CurvePoint {
	cum := make([]float64, len(masses))
	floats.CumSum(cum, masses)

	curve := make([]types.CurvePoint, len(semis))
	for i := range semis {
		curve[i] = types.CurvePoint{SemiMajorAxis: semis[i], Mass: cum[i]}
	}
	return curve
}

// KolmogorovSmirnov returns the one-sample statistic D = sup |F_n(x) - F(x)|
// of sample against the continuous CDF.
func KolmogorovSmirnov(sample []float64, cdf func(float64) float64) float64 {
	n := len(sample)
	if n == 0 {
		return 0
	}
	x := make([]float64, n)
	copy(x, sample)
	sort.Float64s(x)

	var d float64
	for i, v := range x {
		f := cdf(v)
		d = math.Max(d, math.Max(float64(i+1)/float64(n)-f, f-float64(i)/float64(n)))
	}
	return d
}

// KSCriticalValue is the 1% critical value of D for a sample of size n.
func KSCriticalValue(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return ksCoefficient1pct / math.Sqrt(float64(n))
}
