package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/oxygene76/diskmaker/pkg/utils"
)

const (
	appName = "diskmaker"
	version = "v1.0.0"

	defaultConfigFile = "diskmaker.yaml"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"total-mass":   "disk.total_mass",
	"small-mass":   "disk.small_mass",
	"large-mass":   "disk.large_mass",
	"n-small":      "disk.n_small_bodies",
	"n-large":      "disk.n_large_bodies",
	"fill-embryos": "disk.fill_embryos",
	"inner":        "disk.inner",
	"outer":        "disk.outer",
	"alpha":        "disk.alpha",
	"spacing":      "disk.spacing",
	"sorted":       "disk.sorted",
	"seed":         "disk.seed",
	"perturbation": "bodies.perturbation",
	"eccentricity": "bodies.eccentricity",
	"inclination":  "bodies.inclination",
	"density":      "bodies.density",
	"mass-unit":    "bodies.mass_unit",
	"output":       "output.path",
	"style":        "output.style",
	"epoch":        "output.epoch",
	"central-mass": "output.central_mass",
	"jsonl":        "output.jsonl_path",
	"small-prefix": "output.small_prefix",
	"large-prefix": "output.large_prefix",
	"name-width":   "output.name_width",
}

// app holds state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg *utils.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Generate planetesimal disks as Mercury big.in files",
		Long: `diskmaker places planetesimals and planetary embryos in a disk whose
surface density follows sigma ∝ r^-alpha and writes them as big-body initial
data for the Mercury N-body integrator.

Settings come from a YAML file (--config), DISKMAKER_* environment variables
and command line flags, in increasing order of precedence.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-level", utils.DefaultConfig().LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newInitCmd(a),
	)
	return rootCmd
}

// initConfig loads the configuration and installs the logger
func (a *app) initConfig(cmd *cobra.Command) error {
	if cmd.Name() == "init" {
		a.setupLogger(cmd, slog.LevelInfo)
		return nil
	}

	v, err := utils.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := utils.LoadConfig(v)
	if err != nil {
		return err
	}
	level, err := utils.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	a.cfg = cfg
	a.setupLogger(cmd, level)
	if file := v.ConfigFileUsed(); file != "" {
		a.log.Debug("using config file", "path", file)
	}
	return nil
}

func (a *app) setupLogger(cmd *cobra.Command, level slog.Level) {
	a.log = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(a.log)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newSeed returns a non-zero seed from the operating system's entropy source.
func newSeed() (uint64, error) {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := binary.LittleEndian.Uint64(b[:]); seed != 0 {
			return seed, nil
		}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
