package mercury

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	astromath "github.com/oxygene76/diskmaker/pkg/astronomy/math"
	"github.com/oxygene76/diskmaker/pkg/astronomy/orbital"
	"github.com/oxygene76/diskmaker/pkg/disk"
)

// valuesPerBody is six coordinates followed by three spin components.
const valuesPerBody = 9

// Record is one body block as written in the file.
type Record struct {
	Name           string
	Mass           float64
	CloseEncounter float64
	Density        float64
	Coordinates    [6]float64 // a e I g n M, or x y z vx vy vz
	Spin           [3]float64
	Extra          map[string]string // header keys other than m, r and d

	n int // values read so far
}

// File is a parsed big.in.
type File struct {
	Style   Style
	Epoch   float64
	Records []Record
}

// Parse reads a big.in document. Numbers may use Fortran D exponents and a
// body's nine values may be split over any number of lines.
func Parse(r io.Reader) (*File, error) {
	f := &File{Style: StyleAsteroidal}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cur *Record
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, ")") || strings.TrimSpace(line) == "" {
			continue
		}

		if cur != nil && cur.n < valuesPerBody {
			if err := cur.addValues(strings.Fields(line)); err != nil {
				return nil, errorsmod.Wrapf(ErrMalformed, "line %d: %s", lineNo, err)
			}
			continue
		}

		if len(f.Records) == 0 && cur == nil && !isIndented(line) {
			if ok, err := f.headerLine(line); err != nil {
				return nil, errorsmod.Wrapf(ErrMalformed, "line %d: %s", lineNo, err)
			} else if ok {
				continue
			}
		}

		if cur != nil {
			f.Records = append(f.Records, *cur)
		}
		rec, err := parseBodyHeader(line)
		if err != nil {
			return nil, errorsmod.Wrapf(ErrMalformed, "line %d: %s", lineNo, err)
		}
		cur = &rec
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if cur != nil {
		if cur.n < valuesPerBody {
			return nil, errorsmod.Wrapf(ErrMalformed, "body %s has %d of %d values", cur.Name, cur.n, valuesPerBody)
		}
		f.Records = append(f.Records, *cur)
	}
	return f, nil
}

// headerLine handles the style and epoch settings.
func (f *File) headerLine(line string) (bool, error) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return false, nil
	}
	// The setting name is the first word, as in "style (Cartesian, ...) = ".
	words := strings.Fields(strings.ToLower(key))
	if len(words) == 0 {
		return false, nil
	}
	if i := strings.IndexByte(words[0], '('); i >= 0 {
		words[0] = words[0][:i]
	}
	value = strings.TrimSpace(value)

	switch words[0] {
	case "style":
		style, err := ParseStyle(value)
		if err != nil {
			return false, err
		}
		f.Style = style
		return true, nil
	case "epoch":
		epoch, err := parseFloat(value)
		if err != nil {
			return false, err
		}
		f.Epoch = epoch
		return true, nil
	}
	return false, nil
}

// isIndented reports whether line starts with blank space. Settings start in
// the first column and body lines usually do not.
func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func parseBodyHeader(line string) (Record, error) {
	fields := strings.Fields(line)
	// Mercury's defaults for keys left out of the header.
	rec := Record{Name: fields[0], CloseEncounter: 1, Density: 1}
	if strings.Contains(rec.Name, "=") {
		return rec, fmt.Errorf("missing body name before %q", rec.Name)
	}

	for _, kv := range fields[1:] {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return rec, fmt.Errorf("body %s: expected key=value, got %q", rec.Name, kv)
		}
		key = strings.ToLower(key)

		var target *float64
		switch key {
		case "m":
			target = &rec.Mass
		case "r":
			target = &rec.CloseEncounter
		case "d":
			target = &rec.Density
		default:
			if rec.Extra == nil {
				rec.Extra = map[string]string{}
			}
			rec.Extra[key] = value
			continue
		}

		v, err := parseFloat(value)
		if err != nil {
			return rec, fmt.Errorf("body %s key %s: %w", rec.Name, key, err)
		}
		*target = v
	}
	return rec, nil
}

func (r *Record) addValues(fields []string) error {
	for _, field := range fields {
		if r.n == valuesPerBody {
			return fmt.Errorf("body %s has more than %d values", r.Name, valuesPerBody)
		}
		v, err := parseFloat(field)
		if err != nil {
			return fmt.Errorf("body %s: %w", r.Name, err)
		}
		if r.n < len(r.Coordinates) {
			r.Coordinates[r.n] = v
		} else {
			r.Spin[r.n-len(r.Coordinates)] = v
		}
		r.n++
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	s = strings.NewReplacer("D", "e", "d", "e").Replace(s)
	return strconv.ParseFloat(s, 64)
}

// Body rebuilds a disk body from an Asteroidal record. Names starting with
// naming.LargePrefix are embryos.
func (r Record) Body(naming disk.Naming) disk.Body {
	kind := disk.KindSmall
	if naming.LargePrefix != "" && strings.HasPrefix(r.Name, naming.LargePrefix) {
		kind = disk.KindEmbryo
	}
	return disk.Body{
		Name:           r.Name,
		Kind:           kind,
		SemiMajorAxis:  r.Coordinates[0],
		Eccentricity:   r.Coordinates[1],
		Inclination:    r.Coordinates[2],
		ArgPericenter:  r.Coordinates[3],
		Node:           r.Coordinates[4],
		MeanAnomaly:    r.Coordinates[5],
		Mass:           r.Mass,
		Density:        r.Density,
		Radius:         disk.PhysicalRadius(r.Mass, r.Density),
		CloseEncounter: r.CloseEncounter,
		Spin:           r.Spin,
	}
}

// Bodies converts every record to a disk body. Cartesian records are turned
// back into elements around centralMass.
func (f *File) Bodies(naming disk.Naming, centralMass float64) ([]disk.Body, error) {
	if f.Style == StyleCometary {
		return nil, errorsmod.Wrap(ErrUnsupportedStyle, "cometary elements cannot be converted")
	}
	if f.Style == StyleCartesian && !(centralMass > 0) {
		return nil, errorsmod.Wrapf(disk.ErrInvalidParameter, "central mass must be positive, got %g", centralMass)
	}

	bodies := make([]disk.Body, 0, len(f.Records))
	for _, rec := range f.Records {
		if f.Style == StyleCartesian {
			rec.Coordinates = cartesianToDegrees(rec, centralMass)
		}
		bodies = append(bodies, rec.Body(naming))
	}
	return bodies, nil
}

func cartesianToDegrees(rec Record, centralMass float64) [6]float64 {
	c := rec.Coordinates
	pos := astromath.Vector3{X: c[0], Y: c[1], Z: c[2]}
	vel := astromath.Vector3{X: c[3], Y: c[4], Z: c[5]}
	oe := orbital.CartesianToOrbital(pos, vel, orbital.Mu(centralMass, rec.Mass))

	const rad = 180 / math.Pi
	return [6]float64{
		oe.SemiMajorAxis,
		oe.Eccentricity,
		oe.Inclination * rad,
		oe.ArgumentPerihelion * rad,
		oe.LongitudeAscendingNode * rad,
		oe.MeanAnomaly * rad,
	}
}
