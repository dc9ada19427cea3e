// Package mercury reads and writes the big-body initial data file (big.in)
// of the Mercury N-body integrator.
package mercury

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/oxygene76/diskmaker/pkg/astronomy/nbody"
	"github.com/oxygene76/diskmaker/pkg/disk"
)

// Codespace is the error codespace for big.in handling.
const Codespace = "mercury"

var (
	// ErrMalformed is returned for text that does not follow the big.in grammar.
	ErrMalformed = errorsmod.Register(Codespace, 2, "malformed big.in")

	// ErrUnsupportedStyle is returned for coordinate styles this package cannot write.
	ErrUnsupportedStyle = errorsmod.Register(Codespace, 3, "unsupported style")
)

// Style is the coordinate style declared in the file header.
type Style string

const (
	StyleAsteroidal Style = "Asteroidal"
	StyleCartesian  Style = "Cartesian"
	StyleCometary   Style = "Cometary"
)

// ParseStyle accepts a style name in any letter case.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asteroidal", "":
		return StyleAsteroidal, nil
	case "cartesian":
		return StyleCartesian, nil
	case "cometary":
		return StyleCometary, nil
	default:
		return "", errorsmod.Wrapf(ErrUnsupportedStyle, "%q", s)
	}
}

const (
	headerFirstLine = ")O+_06 Big-body initial data  (WARNING: Do not delete this line!!)"
	rule            = ")---------------------------------------------------"
	longRule        = ")---------------------------------------------------------------------"
)

// Options controls the document layout.
type Options struct {
	Style       Style
	Epoch       float64 // days
	CentralMass float64 // solar masses, used by the Cartesian style
}

// DefaultOptions writes Asteroidal elements at epoch 0 around one solar mass.
func DefaultOptions() Options {
	return Options{Style: StyleAsteroidal, CentralMass: 1}
}

// Validate reports whether Format can write a document with these options.
func (o Options) Validate() error {
	switch o.Style {
	case StyleAsteroidal, StyleCartesian:
	default:
		return errorsmod.Wrapf(ErrUnsupportedStyle, "cannot write %q", o.Style)
	}
	if o.Style == StyleCartesian && !(o.CentralMass > 0) {
		return errorsmod.Wrapf(disk.ErrInvalidParameter, "central mass must be positive, got %g", o.CentralMass)
	}
	if math.IsNaN(o.Epoch) || math.IsInf(o.Epoch, 0) {
		return errorsmod.Wrapf(disk.ErrInvalidParameter, "epoch must be finite, got %g", o.Epoch)
	}
	return nil
}

// Header returns the fixed preamble of a big.in file.
func Header(style Style, epoch float64) string {
	var sb strings.Builder
	sb.WriteString(headerFirstLine + "\n")
	sb.WriteString(") Lines beginning with `)' are ignored.\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "style (Cartesian, Asteroidal, Cometary) = %s\n", style)
	fmt.Fprintf(&sb, "epoch (in days) = %s\n", formatEpoch(epoch))
	sb.WriteString(longRule + "\n")
	return sb.String()
}

// Format renders bodies in input order. The result is identical for identical
// bodies and options.
func Format(bodies []disk.Body, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(512 + len(bodies)*160)
	sb.WriteString(Header(opts.Style, opts.Epoch))

	seen := make(map[string]struct{}, len(bodies))
	for i, b := range bodies {
		if strings.TrimSpace(b.Name) == "" || strings.ContainsAny(b.Name, " \t\r\n") {
			return "", errorsmod.Wrapf(disk.ErrInvalidParameter, "body %d has an unusable name %q", i, b.Name)
		}
		if _, dup := seen[b.Name]; dup {
			return "", errorsmod.Wrapf(disk.ErrInvalidParameter, "duplicate body name %q", b.Name)
		}
		seen[b.Name] = struct{}{}

		writeBody(&sb, b, opts)
	}
	return sb.String(), nil
}

// formatEpoch keeps every digit of the epoch and always shows a decimal point.
func formatEpoch(epoch float64) string {
	s := strconv.FormatFloat(epoch, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func writeBody(sb *strings.Builder, b disk.Body, opts Options) {
	fmt.Fprintf(sb, " %s m=%.6e r=%.6e d=%.6e\n", b.Name, b.Mass, b.CloseEncounter, b.Density)

	switch opts.Style {
	case StyleCartesian:
		pos, vel := nbody.StateVector(b, opts.CentralMass)
		fmt.Fprintf(sb, "  %.15e %.15e %.15e %.15e %.15e %.15e\n",
			pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z)
	default:
		fmt.Fprintf(sb, "  %.6e %.7e %.4e %.4e %.4e %.4e\n",
			b.SemiMajorAxis, b.Eccentricity, b.Inclination, b.ArgPericenter, b.Node, b.MeanAnomaly)
	}

	fmt.Fprintf(sb, "  %.6e %.6e %.6e\n", b.Spin[0], b.Spin[1], b.Spin[2])
}
