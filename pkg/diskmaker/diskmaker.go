// Package diskmaker builds complete big.in documents from disk parameters.
package diskmaker

import (
	"golang.org/x/exp/rand"

	"github.com/oxygene76/diskmaker/pkg/disk"
	"github.com/oxygene76/diskmaker/pkg/mercury"
)

// Options combines body generation and output layout.
type Options struct {
	Disk   disk.Options
	Output mercury.Options

	// FillEmbryos replaces spec.NumLarge with the number of LargeMass embryos
	// that fit in the mass left over by the small bodies.
	FillEmbryos bool
}

// DefaultOptions draws from src and writes Asteroidal elements at epoch 0.
func DefaultOptions(src rand.Source) Options {
	return Options{
		Disk:   disk.DefaultOptions(src),
		Output: mercury.DefaultOptions(),
	}
}

// Generate returns the bodies CreateBigIn would write.
func Generate(spec disk.DiskSpec, opts Options) ([]disk.Body, error) {
	if opts.FillEmbryos {
		var err error
		if spec, err = disk.FillEmbryos(spec); err != nil {
			return nil, err
		}
	}
	return disk.Generate(spec, opts.Disk)
}

// CreateBigIn samples, derives and formats a disk in one call. Output options
// are checked before any body is drawn. On error the returned text is always
// empty.
func CreateBigIn(spec disk.DiskSpec, opts Options) (string, error) {
	if err := opts.Output.Validate(); err != nil {
		return "", err
	}
	bodies, err := Generate(spec, opts)
	if err != nil {
		return "", err
	}
	return mercury.Format(bodies, opts.Output)
}
