package orbital

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircularOrbit(t *testing.T) {
	mu := Mu(1, 0)
	pos, vel := OrbitalElements{SemiMajorAxis: 1}.ToCartesian(mu)

	assert.InDelta(t, 1, pos.X, 1e-15)
	assert.InDelta(t, 0, pos.Y, 1e-15)
	assert.InDelta(t, 0, vel.X, 1e-15)
	// One AU circular speed is k AU/day.
	assert.InDelta(t, 0.01720209895, vel.Y, 1e-12)
}

func TestVisViva(t *testing.T) {
	mu := Mu(1, 3e-6)
	oe := FromDegrees(2.5, 0.3, 12, 40, 70, 200)
	pos, vel := oe.ToCartesian(mu)

	r := pos.Magnitude()
	v := vel.Magnitude()
	assert.InDelta(t, -mu/(2*oe.SemiMajorAxis), v*v/2-mu/r, 1e-14)
	assert.GreaterOrEqual(t, r, oe.GetPerihelion()-1e-12)
	assert.LessOrEqual(t, r, oe.GetAphelion()+1e-12)
}

func TestCartesianRoundTrip(t *testing.T) {
	mu := Mu(1, 0)
	for _, want := range []OrbitalElements{
		FromDegrees(1.5, 0.1, 11.5, 114.6, 57.3, 28.6),
		FromDegrees(0.4, 0.02, 0.3, 300, 200, 100),
		FromDegrees(30, 0.6, 45, 10, 350, 330),
	} {
		pos, vel := want.ToCartesian(mu)
		got := CartesianToOrbital(pos, vel, mu)

		require.InDelta(t, want.SemiMajorAxis, got.SemiMajorAxis, 1e-9*want.SemiMajorAxis)
		assert.InDelta(t, want.Eccentricity, got.Eccentricity, 1e-9)
		assert.InDelta(t, want.Inclination, got.Inclination, 1e-9)
		assert.InDelta(t, want.LongitudeAscendingNode, got.LongitudeAscendingNode, 1e-9)
		assert.InDelta(t, want.ArgumentPerihelion, got.ArgumentPerihelion, 1e-7)
		assert.InDelta(t, want.MeanAnomaly, got.MeanAnomaly, 1e-7)
	}
}

func TestOrbitalPeriod(t *testing.T) {
	// One AU around one solar mass takes one Gaussian year.
	oe := OrbitalElements{SemiMajorAxis: 1}
	assert.InDelta(t, 2*math.Pi/0.01720209895, oe.GetOrbitalPeriod(Mu(1, 0)), 1e-9)
}

func TestMutualHillRadius(t *testing.T) {
	// Two Earths at 1 AU.
	got := MutualHillRadius(1, 1, 3.003467e-6, 3.003467e-6, 1)
	assert.InDelta(t, math.Cbrt(2*3.003467e-6/3), got, 1e-15)
	assert.InDelta(t, 0.0126, got, 1e-4)
}
