package nbody

import (
	"fmt"

	astromath "github.com/oxygene76/diskmaker/pkg/astronomy/math"
	"github.com/oxygene76/diskmaker/pkg/astronomy/orbital"
	"github.com/oxygene76/diskmaker/pkg/disk"
)

// Body is a heliocentric state vector.
type Body struct {
	ID       string            `json:"id"`
	Mass     float64           `json:"mass"`     // solar masses
	Position astromath.Vector3 `json:"position"` // AU
	Velocity astromath.Vector3 `json:"velocity"` // AU/day
}

// System is a set of bodies orbiting a central mass.
type System struct {
	Bodies      []Body
	CentralMass float64 // solar masses
	Time        float64 // epoch in days
}

// FromDisk converts disk bodies to heliocentric state vectors around a
// central mass given in solar masses.
func FromDisk(bodies []disk.Body, centralMass, epoch float64) (*System, error) {
	if !(centralMass > 0) {
		return nil, fmt.Errorf("central mass must be positive, got %g", centralMass)
	}

	s := &System{
		Bodies:      make([]Body, 0, len(bodies)),
		CentralMass: centralMass,
		Time:        epoch,
	}
	for _, b := range bodies {
		pos, vel := StateVector(b, centralMass)
		s.Bodies = append(s.Bodies, Body{
			ID:       b.Name,
			Mass:     b.Mass,
			Position: pos,
			Velocity: vel,
		})
	}
	return s, nil
}

// StateVector returns the heliocentric position and velocity of b.
func StateVector(b disk.Body, centralMass float64) (pos, vel astromath.Vector3) {
	oe := orbital.FromDegrees(b.SemiMajorAxis, b.Eccentricity, b.Inclination, b.ArgPericenter, b.Node, b.MeanAnomaly)
	return oe.ToCartesian(orbital.Mu(centralMass, b.Mass))
}

// GetTotalMass returns the mass of all bodies, excluding the central mass.
func (s *System) GetTotalMass() float64 {
	total := 0.0
	for _, body := range s.Bodies {
		total += body.Mass
	}
	return total
}

// GetAngularMomentum calculates total angular momentum of the bodies
func (s *System) GetAngularMomentum() astromath.Vector3 {
	totalL := astromath.Vector3{}
	for _, body := range s.Bodies {
		if body.Mass > 0 {
			L := body.Position.Cross(body.Velocity).Scale(body.Mass)
			totalL = totalL.Add(L)
		}
	}
	return totalL
}
