package disk

import (
	"math"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// missingMassWarnFraction is the share of the total mass that may go
// unassigned before the shortfall is reported as a warning.
const missingMassWarnFraction = 0.05

// maxFilledEmbryos bounds the embryo count FillEmbryos may derive.
const maxFilledEmbryos = math.MaxInt32

// MassBudget is the exact accounting of a disk's mass.
type MassBudget struct {
	Total   float64
	Small   float64 // mass in small bodies
	Large   float64 // mass in embryos, sampled and explicit
	Missing float64 // total minus assigned
}

// MissingFraction is Missing relative to Total.
func (b MassBudget) MissingFraction() float64 {
	return b.Missing / b.Total
}

type decBudget struct {
	total, small, large, missing sdkmath.LegacyDec
}

// Budget accounts the disk's mass with decimal arithmetic and fails when the
// requested bodies need more than TotalMass.
func Budget(s DiskSpec) (MassBudget, error) {
	b, err := budget(s)
	if err != nil {
		return MassBudget{}, err
	}
	if b.missing.IsNegative() {
		return MassBudget{}, errorsmod.Wrapf(ErrInvalidParameter,
			"bodies need %s but the disk only holds %s", b.small.Add(b.large), b.total)
	}

	return MassBudget{
		Total:   s.TotalMass,
		Small:   b.small.MustFloat64(),
		Large:   b.large.MustFloat64(),
		Missing: b.missing.MustFloat64(),
	}, nil
}

// FillEmbryos sets NumLarge to the number of LargeMass embryos that fit in the
// mass left over after the small bodies and any explicit embryos.
func FillEmbryos(s DiskSpec) (DiskSpec, error) {
	if err := s.Validate(); err != nil {
		return s, err
	}
	if s.LargeMass == 0 {
		return s, errorsmod.Wrap(ErrInvalidParameter, "filling embryos requires an embryo mass")
	}

	s.NumLarge = 0
	b, err := budget(s)
	if err != nil {
		return s, err
	}
	if b.missing.IsNegative() {
		return s, errorsmod.Wrapf(ErrInvalidParameter,
			"bodies need %s but the disk only holds %s", b.small.Add(b.large), b.total)
	}

	large, err := toDec(s.LargeMass)
	if err != nil {
		return s, err
	}
	n := b.missing.Quo(large).TruncateInt()
	if !n.IsInt64() || n.Int64() > maxFilledEmbryos {
		return s, errorsmod.Wrapf(ErrInvalidParameter,
			"filling %s of missing mass with embryos of %s needs %s bodies, more than %d", b.missing, large, n, maxFilledEmbryos)
	}
	s.NumLarge = int(n.Int64())
	return s, nil
}

func budget(s DiskSpec) (decBudget, error) {
	var b decBudget
	var err error

	if b.total, err = toDec(s.TotalMass); err != nil {
		return b, err
	}
	small, err := toDec(s.SmallMass)
	if err != nil {
		return b, err
	}
	large, err := toDec(s.LargeMass)
	if err != nil {
		return b, err
	}

	b.small = small.MulInt64(int64(s.NumSmall))
	b.large = large.MulInt64(int64(s.NumLarge))
	for _, e := range s.Embryos {
		m, err := toDec(s.embryoMass(e))
		if err != nil {
			return b, err
		}
		b.large = b.large.Add(m)
	}
	b.missing = b.total.Sub(b.small).Sub(b.large)
	return b, nil
}

// toDec converts a mass to a fixed point decimal using its shortest decimal
// form, so 0.1 is exactly one tenth. Values finer than the 18 decimal places
// of LegacyDec are rounded to them, and a positive mass that rounds to zero
// is rejected.
func toDec(v float64) (sdkmath.LegacyDec, error) {
	str := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(str, '.'); i >= 0 && len(str)-i-1 > sdkmath.LegacyPrecision {
		str = strconv.FormatFloat(v, 'f', sdkmath.LegacyPrecision, 64)
	}
	d, err := sdkmath.LegacyNewDecFromStr(str)
	if err != nil {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrInvalidParameter, "mass %g: %s", v, err)
	}
	if v > 0 && d.IsZero() {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrInvalidParameter,
			"mass %g is below the %d decimal place resolution of the mass budget", v, sdkmath.LegacyPrecision)
	}
	return d, nil
}
