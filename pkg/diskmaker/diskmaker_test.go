package diskmaker

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxygene76/diskmaker/pkg/disk"
	"github.com/oxygene76/diskmaker/pkg/mercury"
)

func testOptions(seed uint64) Options {
	opts := DefaultOptions(disk.NewSource(seed))
	opts.Disk.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func scenario() disk.DiskSpec {
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

func TestCreateBigInScenario(t *testing.T) {
	text, err := CreateBigIn(scenario(), testOptions(2024))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(text, mercury.Header(mercury.StyleAsteroidal, 0)))

	f, err := mercury.Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, f.Records, 260)

	for _, rec := range f.Records {
		assert.Equal(t, 0.01, rec.Mass)
		assert.GreaterOrEqual(t, rec.Coordinates[0], 0.2)
		assert.LessOrEqual(t, rec.Coordinates[0], 4.0)
		assert.True(t, strings.HasPrefix(rec.Name, "PL"), rec.Name)
	}
	assert.Equal(t, "PL0001", f.Records[0].Name)
	assert.Equal(t, "PL0260", f.Records[259].Name)
}

func TestCreateBigInDeterministic(t *testing.T) {
	a, err := CreateBigIn(scenario(), testOptions(7))
	require.NoError(t, err)
	b, err := CreateBigIn(scenario(), testOptions(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := CreateBigIn(scenario(), testOptions(8))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCreateBigInNoBodies(t *testing.T) {
	spec := scenario()
	spec.NumSmall = 0

	opts := testOptions(1)
	opts.Output.Epoch = 365.25
	text, err := CreateBigIn(spec, opts)
	require.NoError(t, err)
	assert.Equal(t, mercury.Header(mercury.StyleAsteroidal, 365.25), text)
}

func TestCreateBigInInvalid(t *testing.T) {
	tests := map[string]func(*disk.DiskSpec, *Options){
		"inner beyond outer": func(s *disk.DiskSpec, _ *Options) { s.Inner, s.Outer = 4, 0.2 },
		"zero inner":         func(s *disk.DiskSpec, _ *Options) { s.Inner = 0 },
		"mass overflow":      func(s *disk.DiskSpec, _ *Options) { s.NumSmall = 501 },
		"cometary output":    func(_ *disk.DiskSpec, o *Options) { o.Output.Style = mercury.StyleCometary },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			spec, opts := scenario(), testOptions(1)
			mutate(&spec, &opts)

			text, err := CreateBigIn(spec, opts)
			require.Error(t, err)
			assert.Empty(t, text)
		})
	}

	spec := scenario()
	spec.Inner, spec.Outer = 4, 0.2
	_, err := CreateBigIn(spec, testOptions(1))
	require.ErrorIs(t, err, disk.ErrInvalidParameter)
}

func TestCreateBigInRejectsOutputFirst(t *testing.T) {
	tests := map[string]func(*mercury.Options){
		"cometary style":        func(o *mercury.Options) { o.Style = mercury.StyleCometary },
		"cartesian without sun": func(o *mercury.Options) { o.Style, o.CentralMass = mercury.StyleCartesian, 0 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := testOptions(1)
			opts.Disk.Logger = slog.New(slog.NewTextHandler(&buf, nil))
			opts.FillEmbryos = true
			mutate(&opts.Output)

			text, err := CreateBigIn(scenario(), opts)
			require.Error(t, err)
			assert.Empty(t, text)
			assert.Empty(t, buf.String(), "bodies were generated before the output options were checked")
		})
	}

	opts := testOptions(1)
	opts.Output.Style = mercury.StyleCometary
	_, err := CreateBigIn(scenario(), opts)
	require.ErrorIs(t, err, mercury.ErrUnsupportedStyle)
}

func TestCreateBigInFillEmbryos(t *testing.T) {
	spec := scenario()
	spec.NumSmall = 260

	opts := testOptions(3)
	opts.FillEmbryos = true
	opts.Disk.Sorted = true

	bodies, err := Generate(spec, opts)
	require.NoError(t, err)

	var embryos int
	for i, b := range bodies {
		if b.Kind == disk.KindEmbryo {
			embryos++
			assert.Equal(t, 0.1, b.Mass)
		}
		if i > 0 {
			assert.LessOrEqual(t, bodies[i-1].SemiMajorAxis, b.SemiMajorAxis)
		}
	}
	// (5.0 - 260*0.01) / 0.1
	assert.Equal(t, 24, embryos)

	text, err := CreateBigIn(spec, opts)
	require.NoError(t, err)
	assert.Equal(t, 260+24, strings.Count(text, " m="))
}
