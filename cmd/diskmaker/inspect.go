package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxygene76/diskmaker/internal/types"
	"github.com/oxygene76/diskmaker/pkg/analysis"
	"github.com/oxygene76/diskmaker/pkg/mercury"
	"github.com/oxygene76/diskmaker/pkg/utils"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		profile bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <big.in>",
		Short: "Summarize the bodies of a big.in file",
		Long: `Inspect reads a big.in file, or stdin when the path is -, and reports body
counts, masses, the semi-major axis distribution, neighbour spacing in mutual
Hill radii and the cumulative mass curve.

With --profile the planetesimal semi-major axes are tested against the
configured surface density profile with a Kolmogorov-Smirnov test.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], profile, asJSON)
		},
	}

	d := utils.DefaultConfig()
	f := cmd.Flags()
	f.BoolVar(&asJSON, "json", false, "print the summary as JSON")
	f.BoolVar(&profile, "profile", false, "test planetesimals against the configured profile")
	f.Float64("inner", d.Disk.Inner, "inner disk edge (AU) for --profile")
	f.Float64("outer", d.Disk.Outer, "outer disk edge (AU) for --profile")
	f.Float64("alpha", d.Disk.Alpha, "surface density exponent for --profile")
	f.Float64("central-mass", d.Output.CentralMass, "central mass in solar masses")
	f.String("large-prefix", d.Output.LargePrefix, "name prefix that marks embryos")

	return cmd
}

func (a *app) runInspect(stdout io.Writer, stdin io.Reader, path string, profile, asJSON bool) error {
	in := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	f, err := mercury.Parse(in)
	if err != nil {
		return err
	}
	a.log.Debug("parsed big.in", "style", f.Style, "epoch", f.Epoch, "records", len(f.Records))

	bodies, err := f.Bodies(a.cfg.Naming(), a.cfg.Output.CentralMass)
	if err != nil {
		return err
	}

	var p *analysis.Profile
	if profile {
		p = &analysis.Profile{Inner: a.cfg.Disk.Inner, Outer: a.cfg.Disk.Outer, Alpha: a.cfg.Disk.Alpha}
	}
	summary, err := analysis.Summarize(bodies, p, a.cfg.Output.CentralMass)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(stdout, path, summary)
	return nil
}

func printSummary(w io.Writer, path string, s *types.DiskSummary) {
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Bodies: %d (%d planetesimals, %d embryos)\n", s.NumBodies, s.NumSmall, s.NumEmbryos)
	fmt.Fprintf(w, "Mass: %.6e total, %.6e planetesimals, %.6e embryos\n", s.TotalMass, s.SmallMass, s.EmbryoMass)
	fmt.Fprintf(w, "Semi-major axis: min %.4f  median %.4f  mean %.4f  max %.4f AU\n",
		s.SemiMajorAxis.Min, s.SemiMajorAxis.Median, s.SemiMajorAxis.Mean, s.SemiMajorAxis.Max)
	fmt.Fprintf(w, "Perihelion/aphelion: %.4f / %.4f AU\n", s.MinPerihelion, s.MaxAphelion)
	fmt.Fprintf(w, "Innermost period: %.2f days\n", s.InnerPeriodDays)
	if s.HillSpacing != nil {
		fmt.Fprintf(w, "Hill spacing: min %.3f  median %.3f  mean %.3f  max %.3f\n",
			s.HillSpacing.Min, s.HillSpacing.Median, s.HillSpacing.Mean, s.HillSpacing.Max)
	}
	if p := s.Profile; p != nil {
		verdict := "consistent"
		if !p.Consistent {
			verdict = "inconsistent"
		}
		fmt.Fprintf(w, "Profile alpha=%g [%g, %g]: D=%.4f critical=%.4f (%s)\n",
			p.Alpha, p.Inner, p.Outer, p.KSStat, p.Critical, verdict)
	}
}
