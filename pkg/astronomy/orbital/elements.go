package orbital

import (
	"math"

	astromath "github.com/oxygene76/diskmaker/pkg/astronomy/math"
)

// GaussianK2 is the square of the Gaussian gravitational constant, G in
// AU³/(M☉·day²). Mercury uses the same value.
const GaussianK2 = 0.01720209895 * 0.01720209895

const degToRad = math.Pi / 180

// OrbitalElements represents Keplerian orbital elements
type OrbitalElements struct {
	SemiMajorAxis          float64 // a - Semi-major axis (AU)
	Eccentricity           float64 // e - Eccentricity (0-1)
	Inclination            float64 // i - Inclination (radians)
	LongitudeAscendingNode float64 // Ω - Longitude of ascending node (radians)
	ArgumentPerihelion     float64 // ω - Argument of perihelion (radians)
	MeanAnomaly            float64 // M - Mean anomaly at epoch (radians)
}

// FromDegrees builds elements from angles given in degrees, the order Mercury
// uses: a e I g n M.
func FromDegrees(a, e, inc, argPeri, node, meanAnomaly float64) OrbitalElements {
	return OrbitalElements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            inc * degToRad,
		LongitudeAscendingNode: node * degToRad,
		ArgumentPerihelion:     argPeri * degToRad,
		MeanAnomaly:            meanAnomaly * degToRad,
	}
}

// Mu returns the gravitational parameter in AU³/day² for a body of mass m
// orbiting a central mass, both in solar masses.
func Mu(centralMass, m float64) float64 {
	return GaussianK2 * (centralMass + m)
}

// ToCartesian converts orbital elements to cartesian position and velocity
// mu is the gravitational parameter in AU³/day²
func (oe OrbitalElements) ToCartesian(mu float64) (pos, vel astromath.Vector3) {
	E := oe.solveKeplersEquation()
	cosE, sinE := math.Cos(E), math.Sin(E)
	e := oe.Eccentricity
	a := oe.SemiMajorAxis
	sqrt1me2 := math.Sqrt(1 - e*e)

	r := a * (1 - e*cosE)

	// Position and velocity in the orbital plane, pericentre along x
	x := a * (cosE - e)
	y := a * sqrt1me2 * sinE
	vFactor := math.Sqrt(mu*a) / r
	vx := -vFactor * sinE
	vy := vFactor * sqrt1me2 * cosE

	cosOmega := math.Cos(oe.LongitudeAscendingNode)
	sinOmega := math.Sin(oe.LongitudeAscendingNode)
	cosI := math.Cos(oe.Inclination)
	sinI := math.Sin(oe.Inclination)
	cosW := math.Cos(oe.ArgumentPerihelion)
	sinW := math.Sin(oe.ArgumentPerihelion)

	// Rz(Ω)·Rx(i)·Rz(ω)
	r11 := cosOmega*cosW - sinOmega*sinW*cosI
	r12 := -cosOmega*sinW - sinOmega*cosW*cosI
	r21 := sinOmega*cosW + cosOmega*sinW*cosI
	r22 := -sinOmega*sinW + cosOmega*cosW*cosI
	r31 := sinW * sinI
	r32 := cosW * sinI

	pos = astromath.Vector3{X: r11*x + r12*y, Y: r21*x + r22*y, Z: r31*x + r32*y}
	vel = astromath.Vector3{X: r11*vx + r12*vy, Y: r21*vx + r22*vy, Z: r31*vx + r32*vy}
	return pos, vel
}

// solveKeplersEquation solves Kepler's equation M = E - e*sin(E) for E
func (oe OrbitalElements) solveKeplersEquation() float64 {
	M := math.Mod(oe.MeanAnomaly, 2*math.Pi)
	E := M
	if oe.Eccentricity > 0.8 {
		E = math.Pi
	}

	const tolerance = 1e-14
	for i := 0; i < 50; i++ {
		f := E - oe.Eccentricity*math.Sin(E) - M
		fp := 1 - oe.Eccentricity*math.Cos(E)
		deltaE := f / fp
		E -= deltaE
		if math.Abs(deltaE) < tolerance {
			break
		}
	}
	return E
}

// GetPerihelion returns the perihelion distance
func (oe OrbitalElements) GetPerihelion() float64 {
	return oe.SemiMajorAxis * (1 - oe.Eccentricity)
}

// GetAphelion returns the aphelion distance
func (oe OrbitalElements) GetAphelion() float64 {
	return oe.SemiMajorAxis * (1 + oe.Eccentricity)
}

// GetOrbitalPeriod returns the orbital period in days
func (oe OrbitalElements) GetOrbitalPeriod(mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(oe.SemiMajorAxis, 3)/mu)
}

// CartesianToOrbital converts position and velocity vectors to orbital elements
func CartesianToOrbital(pos, vel astromath.Vector3, mu float64) OrbitalElements {
	h := pos.Cross(vel)
	r := pos.Magnitude()
	v := vel.Magnitude()
	eVec := vel.Cross(h).Scale(1.0 / mu).Sub(pos.Scale(1.0 / r))
	e := eVec.Magnitude()

	a := 1.0 / (2.0/r - v*v/mu)
	// atan2 keeps precision for nearly coplanar orbits where acos does not.
	i := math.Atan2(math.Hypot(h.X, h.Y), h.Z)

	n := astromath.Vector3{Z: 1}.Cross(h)
	Omega := 0.0
	if n.Magnitude() > 1e-10 {
		Omega = math.Atan2(n.Y, n.X)
		if Omega < 0 {
			Omega += 2 * math.Pi
		}
	}

	omega := 0.0
	if n.Magnitude() > 1e-10 && e > 1e-10 {
		cosOmega := n.Dot(eVec) / (n.Magnitude() * e)
		omega = math.Acos(math.Max(-1, math.Min(1, cosOmega)))
		if eVec.Z < 0 {
			omega = 2*math.Pi - omega
		}
	}

	E := 0.0
	if e > 1e-10 {
		cosE := (1 - r/a) / e
		E = math.Acos(math.Max(-1, math.Min(1, cosE)))
		if pos.Dot(vel) < 0 {
			E = 2*math.Pi - E
		}
	}

	return OrbitalElements{
		SemiMajorAxis:          a,
		Eccentricity:           e,
		Inclination:            i,
		LongitudeAscendingNode: Omega,
		ArgumentPerihelion:     omega,
		MeanAnomaly:            E - e*math.Sin(E),
	}
}

// MutualHillRadius returns the mutual Hill radius in AU of two bodies with
// semi-major axes in AU and masses in units of the central mass.
func MutualHillRadius(a1, a2, m1, m2, centralMass float64) float64 {
	return 0.5 * (a1 + a2) * math.Cbrt((m1+m2)/(3*centralMass))
}
