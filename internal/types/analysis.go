package types

// DiskSummary describes a generated or parsed disk.
type DiskSummary struct {
	NumBodies  int     `json:"num_bodies"`
	NumSmall   int     `json:"num_small"`
	NumEmbryos int     `json:"num_embryos"`
	TotalMass  float64 `json:"total_mass"`  // solar masses
	SmallMass  float64 `json:"small_mass"`  // solar masses
	EmbryoMass float64 `json:"embryo_mass"` // solar masses

	SemiMajorAxis Distribution  `json:"semi_major_axis"`      // AU
	HillSpacing   *Distribution `json:"hill_spacing,omitempty"` // neighbour separation in mutual Hill radii

	MinPerihelion   float64    `json:"min_perihelion"`    // AU
	MaxAphelion     float64    `json:"max_aphelion"`      // AU
	InnerPeriodDays float64    `json:"inner_period_days"` // orbital period of the innermost body
	AngularMomentum [3]float64 `json:"angular_momentum"`  // M☉·AU²/day

	Profile        *ProfileFit  `json:"profile,omitempty"`
	CumulativeMass []CurvePoint `json:"cumulative_mass,omitempty"`
}

// Distribution summarises a sample.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ProfileFit compares the small body semi-major axes with a power-law profile.
type ProfileFit struct {
	Inner      float64 `json:"inner"`
	Outer      float64 `json:"outer"`
	Alpha      float64 `json:"alpha"`
	KSStat     float64 `json:"ks_statistic"`
	Critical   float64 `json:"critical_value"` // at 1% significance
	Consistent bool    `json:"consistent"`
}

// CurvePoint is one step of the cumulative mass curve.
type CurvePoint struct {
	SemiMajorAxis float64 `json:"a"`
	Mass          float64 `json:"mass"`
}
