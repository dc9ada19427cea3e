package disk_test

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/diskmaker/pkg/disk"
)

func quietOptions(seed uint64) disk.Options {
	opts := disk.DefaultOptions(disk.NewSource(seed))
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func referenceSpec() disk.DiskSpec {
	return disk.DiskSpec{
		TotalMass: 5.0,
		SmallMass: 0.01,
		LargeMass: 0.1,
		NumSmall:  260,
		Inner:     0.2,
		Outer:     4.0,
		Alpha:     1.5,
	}
}

func TestGenerateReferenceDisk(t *testing.T) {
	bodies, err := disk.Generate(referenceSpec(), quietOptions(1))
	require.NoError(t, err)
	require.Len(t, bodies, 260)

	for i, b := range bodies {
		assert.Equal(t, disk.KindSmall, b.Kind)
		assert.Equal(t, 0.01, b.Mass)
		assert.GreaterOrEqual(t, b.SemiMajorAxis, 0.2)
		assert.LessOrEqual(t, b.SemiMajorAxis, 4.0)
		assert.GreaterOrEqual(t, b.Eccentricity, 0.0)
		assert.Less(t, b.Eccentricity, 0.01)
		assert.GreaterOrEqual(t, b.Inclination, 0.0)
		assert.Less(t, b.Inclination, 0.5)
		for _, angle := range []float64{b.ArgPericenter, b.Node, b.MeanAnomaly} {
			assert.GreaterOrEqual(t, angle, 0.0)
			assert.Less(t, angle, 360.0)
		}
		assert.Equal(t, disk.DefaultDensity, b.Density)
		assert.Equal(t, disk.DefaultCloseEncounter, b.CloseEncounter)
		assert.Greater(t, b.Radius, 0.0)
		assert.Equal(t, [3]float64{}, b.Spin)

		if i == 0 {
			assert.Equal(t, "PL0001", b.Name)
		}
	}
	assert.Equal(t, "PL0260", bodies[259].Name)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := disk.Generate(referenceSpec(), quietOptions(2024))
	require.NoError(t, err)
	b, err := disk.Generate(referenceSpec(), quietOptions(2024))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := disk.Generate(referenceSpec(), quietOptions(2025))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateEmpty(t *testing.T) {
	spec := referenceSpec()
	spec.NumSmall = 0

	bodies, err := disk.Generate(spec, quietOptions(1))
	require.NoError(t, err)
	assert.Empty(t, bodies)
}

func TestGenerateEmbryos(t *testing.T) {
	spec := referenceSpec()
	spec.NumLarge = 3
	spec.Embryos = []disk.Embryo{{SemiMajorAxis: 1.0}, {SemiMajorAxis: 2.5, Mass: 0.3}}

	opts := quietOptions(5)
	opts.Sorted = true
	bodies, err := disk.Generate(spec, opts)
	require.NoError(t, err)
	require.Len(t, bodies, 265)

	var embryos []disk.Body
	for i, b := range bodies {
		if i > 0 {
			assert.LessOrEqual(t, bodies[i-1].SemiMajorAxis, b.SemiMajorAxis)
		}
		if b.Kind == disk.KindEmbryo {
			embryos = append(embryos, b)
		}
	}
	require.Len(t, embryos, 5)
	for i, e := range embryos {
		assert.Equal(t, "EM"+[]string{"0001", "0002", "0003", "0004", "0005"}[i], e.Name)
	}

	var explicit []float64
	for _, e := range embryos {
		if e.SemiMajorAxis == 1.0 || e.SemiMajorAxis == 2.5 {
			explicit = append(explicit, e.Mass)
		}
	}
	assert.ElementsMatch(t, []float64{0.1, 0.3}, explicit)
}

func TestGenerateEarthMasses(t *testing.T) {
	opts := quietOptions(3)
	opts.MassUnit = disk.MassUnitEarth

	bodies, err := disk.Generate(referenceSpec(), opts)
	require.NoError(t, err)
	small := 0.01
	for _, b := range bodies {
		assert.Equal(t, small*disk.EarthToSolarMass, b.Mass)
	}
}

func TestGenerateDeterministicWithoutSource(t *testing.T) {
	opts := quietOptions(0)
	opts.Src = nil
	opts.Spacing = disk.SpacingEven
	opts.Perturbation = disk.Perturbation{
		Model:         disk.PerturbFixed,
		Eccentricity:  0.002,
		Inclination:   0.1,
		ArgPericenter: 10,
		Node:          20,
		MeanAnomaly:   30,
	}

	bodies, err := disk.Generate(referenceSpec(), opts)
	require.NoError(t, err)
	require.Len(t, bodies, 260)
	for i, b := range bodies {
		assert.InDelta(t, disk.InverseCDF(float64(i)/260, 0.2, 4.0, 1.5), b.SemiMajorAxis, 1e-12)
		assert.Equal(t, 0.002, b.Eccentricity)
		assert.Equal(t, 0.1, b.Inclination)
		assert.Equal(t, 10.0, b.ArgPericenter)
		assert.Equal(t, 20.0, b.Node)
		assert.Equal(t, 30.0, b.MeanAnomaly)
	}
}

func TestGenerateRayleighPerturbation(t *testing.T) {
	opts := quietOptions(11)
	opts.Perturbation.Model = disk.PerturbRayleigh
	opts.Perturbation.Eccentricity = 0.01
	opts.Perturbation.Inclination = 0.5

	spec := referenceSpec()
	spec.NumSmall = 400
	bodies, err := disk.Generate(spec, opts)
	require.NoError(t, err)

	var sumE float64
	for _, b := range bodies {
		assert.GreaterOrEqual(t, b.Eccentricity, 0.0)
		assert.Less(t, b.Eccentricity, 1.0)
		sumE += b.Eccentricity
	}
	// Rayleigh mean is sigma*sqrt(pi/2).
	assert.InDelta(t, 0.01*math.Sqrt(math.Pi/2), sumE/float64(len(bodies)), 0.002)
}

func TestGenerateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*disk.DiskSpec, *disk.Options)
	}{
		{"inner above outer", func(s *disk.DiskSpec, _ *disk.Options) { s.Inner, s.Outer = 4.0, 0.2 }},
		{"zero total mass", func(s *disk.DiskSpec, _ *disk.Options) { s.TotalMass = 0 }},
		{"negative small mass", func(s *disk.DiskSpec, _ *disk.Options) { s.SmallMass = -1 }},
		{"negative count", func(s *disk.DiskSpec, _ *disk.Options) { s.NumSmall = -5 }},
		{"mass budget exceeded", func(s *disk.DiskSpec, _ *disk.Options) { s.NumSmall = 501 }},
		{"embryos exceed budget", func(s *disk.DiskSpec, _ *disk.Options) { s.NumLarge = 25 }},
		{"embryos without mass", func(s *disk.DiskSpec, _ *disk.Options) { s.LargeMass, s.NumLarge = 0, 2 }},
		{"embryo outside disk", func(s *disk.DiskSpec, _ *disk.Options) { s.Embryos = []disk.Embryo{{SemiMajorAxis: 9}} }},
		{"names overflow", func(_ *disk.DiskSpec, o *disk.Options) { o.Naming.Width = 2 }},
		{"missing source", func(_ *disk.DiskSpec, o *disk.Options) { o.Src = nil }},
		{"bad density", func(_ *disk.DiskSpec, o *disk.Options) { o.Density = 0 }},
		{"bad eccentricity", func(_ *disk.DiskSpec, o *disk.Options) { o.Perturbation.Eccentricity = 1.2 }},
		{"unknown model", func(_ *disk.DiskSpec, o *disk.Options) { o.Perturbation.Model = "gaussian" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, opts := referenceSpec(), quietOptions(1)
			tt.mutate(&spec, &opts)

			bodies, err := disk.Generate(spec, opts)
			require.ErrorIs(t, err, disk.ErrInvalidParameter)
			assert.Nil(t, bodies)
		})
	}
}

func TestBudget(t *testing.T) {
	spec := referenceSpec()
	spec.NumLarge = 24

	b, err := disk.Budget(spec)
	require.NoError(t, err)
	assert.Equal(t, 2.6, b.Small)
	assert.Equal(t, 2.4, b.Large)
	assert.Equal(t, 0.0, b.Missing)

	spec.NumLarge = 10
	b, err = disk.Budget(spec)
	require.NoError(t, err)
	assert.Equal(t, 1.4, b.Missing)
	assert.InDelta(t, 0.28, b.MissingFraction(), 1e-12)
}

func TestFillEmbryos(t *testing.T) {
	filled, err := disk.FillEmbryos(referenceSpec())
	require.NoError(t, err)
	assert.Equal(t, 24, filled.NumLarge)

	spec := referenceSpec()
	spec.Embryos = []disk.Embryo{{SemiMajorAxis: 1, Mass: 0.25}}
	filled, err = disk.FillEmbryos(spec)
	require.NoError(t, err)
	assert.Equal(t, 21, filled.NumLarge)

	spec = referenceSpec()
	spec.LargeMass = 0
	_, err = disk.FillEmbryos(spec)
	require.ErrorIs(t, err, disk.ErrInvalidParameter)
}

func TestFillEmbryosTooMany(t *testing.T) {
	spec := disk.DiskSpec{
		TotalMass: 100,
		SmallMass: 0.01,
		LargeMass: 1e-17,
		NumSmall:  10,
		Inner:     0.2,
		Outer:     4.0,
		Alpha:     1.5,
	}

	require.NotPanics(t, func() {
		_, err := disk.FillEmbryos(spec)
		require.ErrorIs(t, err, disk.ErrInvalidParameter)
	})

	// Fits in an int64 but not in a slice of bodies.
	spec.LargeMass = 1e-9
	_, err := disk.FillEmbryos(spec)
	require.ErrorIs(t, err, disk.ErrInvalidParameter)
}

func TestBudgetBelowResolution(t *testing.T) {
	spec := referenceSpec()
	spec.SmallMass = 4e-19
	spec.NumSmall = 10

	_, err := disk.Budget(spec)
	require.ErrorIs(t, err, disk.ErrInvalidParameter)

	bodies, err := disk.Generate(spec, quietOptions(1))
	require.ErrorIs(t, err, disk.ErrInvalidParameter)
	assert.Nil(t, bodies)

	// The smallest representable mass still counts.
	spec.SmallMass = 1e-18
	b, err := disk.Budget(spec)
	require.NoError(t, err)
	assert.InDelta(t, 1e-17, b.Small, 1e-30)
}

func TestGenerateMissingMassLog(t *testing.T) {
	tests := []struct {
		name     string
		numLarge int
		level    string
		missing  string
	}{
		{"planetesimals only", 0, "level=WARN", "missing=2.4"},
		{"filled with embryos", 24, "level=INFO", "missing=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := quietOptions(1)
			opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))
			spec := referenceSpec()
			spec.NumLarge = tt.numLarge

			_, err := disk.Generate(spec, opts)
			require.NoError(t, err)

			var line string
			for _, l := range strings.Split(buf.String(), "\n") {
				if strings.Contains(l, `msg="disk mass not assigned to bodies"`) {
					line = l
				}
			}
			require.NotEmpty(t, line, buf.String())
			assert.Contains(t, line, tt.level)
			assert.Contains(t, line, tt.missing)
			assert.NotContains(t, buf.String(), "level=ERROR")
			if tt.level == "level=INFO" {
				assert.NotContains(t, buf.String(), "level=WARN")
			}
		})
	}
}

func TestGenerateEvenSpacingDistinctAxes(t *testing.T) {
	opts := quietOptions(0)
	opts.Src = nil
	opts.Spacing = disk.SpacingEven
	opts.Sorted = true
	opts.Perturbation = disk.Perturbation{Model: disk.PerturbFixed}

	spec := referenceSpec()
	spec.NumLarge = 20

	bodies, err := disk.Generate(spec, opts)
	require.NoError(t, err)
	require.Len(t, bodies, 280)
	assert.InDelta(t, spec.Inner, bodies[0].SemiMajorAxis, 1e-12)

	axes := make([]float64, len(bodies))
	var embryos int
	for i, b := range bodies {
		axes[i] = b.SemiMajorAxis
		if b.Kind == disk.KindEmbryo {
			embryos++
		}
	}
	assert.Equal(t, 20, embryos)
	require.True(t, sort.Float64sAreSorted(axes))
	for i := 1; i < len(axes); i++ {
		assert.Greater(t, axes[i], axes[i-1], "bodies %d and %d share an axis", i-1, i)
	}
	assert.Less(t, axes[len(axes)-1], spec.Outer)
}

func TestPhysicalRadius(t *testing.T) {
	// One Earth mass at Earth's mean density.
	assert.InDelta(t, 6371, disk.PhysicalRadius(disk.EarthToSolarMass, 5.51), 30)
	assert.Equal(t, 0.0, disk.PhysicalRadius(0, 3))
}

func TestParseOptions(t *testing.T) {
	sp, err := disk.ParseSpacing("even")
	require.NoError(t, err)
	assert.Equal(t, disk.SpacingEven, sp)

	mu, err := disk.ParseMassUnit("")
	require.NoError(t, err)
	assert.Equal(t, disk.MassUnitSolar, mu)

	_, err = disk.ParsePerturbationModel("lognormal")
	require.ErrorIs(t, err, disk.ErrInvalidParameter)
}
