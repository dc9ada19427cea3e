package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxygene76/diskmaker/pkg/astronomy/nbody"
	"github.com/oxygene76/diskmaker/pkg/disk"
	"github.com/oxygene76/diskmaker/pkg/diskmaker"
	"github.com/oxygene76/diskmaker/pkg/mercury"
	"github.com/oxygene76/diskmaker/pkg/utils"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a disk and write it as big.in",
		Long: `Generate samples semi-major axes from the surface density profile, gives
every body a small eccentricity, inclination and random angles, and writes the
result in Mercury's big.in format. Use --output - to write to stdout.

A seed of 0 draws a fresh seed from the operating system. The seed in use is
always logged so the run can be repeated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.OutOrStdout())
		},
	}

	d := utils.DefaultConfig()
	f := cmd.Flags()
	f.Float64("total-mass", d.Disk.TotalMass, "total disk mass")
	f.Float64("small-mass", d.Disk.SmallMass, "mass of each planetesimal")
	f.Float64("large-mass", d.Disk.LargeMass, "mass of each embryo")
	f.Int("n-small", d.Disk.NumSmall, "number of planetesimals")
	f.Int("n-large", d.Disk.NumLarge, "number of embryos drawn from the profile")
	f.Bool("fill-embryos", d.Disk.FillEmbryos, "fill the remaining disk mass with embryos")
	f.Float64("inner", d.Disk.Inner, "inner disk edge (AU)")
	f.Float64("outer", d.Disk.Outer, "outer disk edge (AU)")
	f.Float64("alpha", d.Disk.Alpha, "surface density exponent, sigma ∝ r^-alpha")
	f.String("spacing", d.Disk.Spacing, "semi-major axis spacing (random, even)")
	f.Bool("sorted", d.Disk.Sorted, "order bodies by semi-major axis")
	f.Uint64("seed", d.Disk.Seed, "random seed, 0 for a random one")
	f.String("perturbation", d.Bodies.Perturbation, "e and i distribution (uniform, rayleigh, fixed)")
	f.Float64("eccentricity", d.Bodies.Eccentricity, "eccentricity bound, scale or value")
	f.Float64("inclination", d.Bodies.Inclination, "inclination bound, scale or value (deg)")
	f.Float64("density", d.Bodies.Density, "bulk density (g/cm³)")
	f.String("mass-unit", d.Bodies.MassUnit, "unit of the configured masses (solar, earth)")
	f.StringP("output", "o", d.Output.Path, "output file, - for stdout")
	f.String("style", d.Output.Style, "coordinate style (Asteroidal, Cartesian)")
	f.Float64("epoch", d.Output.Epoch, "epoch in days")
	f.Float64("central-mass", d.Output.CentralMass, "central mass in solar masses")
	f.String("jsonl", d.Output.JSONLPath, "also write heliocentric state vectors as JSON lines")
	f.String("small-prefix", d.Output.SmallPrefix, "name prefix of planetesimals")
	f.String("large-prefix", d.Output.LargePrefix, "name prefix of embryos")
	f.Int("name-width", d.Output.NameWidth, "digits in body names")

	return cmd
}

func (a *app) runGenerate(stdout io.Writer) error {
	cfg := a.cfg

	seed := cfg.Disk.Seed
	if seed == 0 {
		var err error
		if seed, err = newSeed(); err != nil {
			return err
		}
	}
	a.log.Info("random seed", "seed", seed)

	opts, err := cfg.Options(disk.NewSource(seed))
	if err != nil {
		return err
	}
	opts.Disk.Logger = a.log
	if err := opts.Output.Validate(); err != nil {
		return err
	}

	bodies, err := diskmaker.Generate(cfg.DiskSpec(), opts)
	if err != nil {
		return err
	}
	text, err := mercury.Format(bodies, opts.Output)
	if err != nil {
		return err
	}

	if err := a.writeBigIn(stdout, text, len(bodies)); err != nil {
		return err
	}

	if cfg.Output.JSONLPath != "" {
		if err := writeStateVectors(cfg.Output.JSONLPath, bodies, opts.Output); err != nil {
			return err
		}
		a.log.Info("wrote state vectors", "path", cfg.Output.JSONLPath)
	}
	return nil
}

func (a *app) writeBigIn(stdout io.Writer, text string, n int) error {
	path := a.cfg.Output.Path
	if path == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.log.Info("wrote big.in", "path", path, "bodies", n)
	return nil
}

func writeStateVectors(path string, bodies []disk.Body, out mercury.Options) error {
	sys, err := nbody.FromDisk(bodies, out.CentralMass, out.Epoch)
	if err != nil {
		return err
	}
	w, err := nbody.NewJSONLSnapshotWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := sys.WriteSnapshot(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
