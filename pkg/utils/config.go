package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/diskmaker/pkg/disk"
	"github.com/oxygene76/diskmaker/pkg/diskmaker"
	"github.com/oxygene76/diskmaker/pkg/mercury"
)

// EnvPrefix is prepended to environment overrides, e.g. DISKMAKER_DISK_ALPHA.
const EnvPrefix = "DISKMAKER"

// Config represents the generator configuration
type Config struct {
	Disk     DiskConfig   `yaml:"disk" mapstructure:"disk"`
	Bodies   BodiesConfig `yaml:"bodies" mapstructure:"bodies"`
	Output   OutputConfig `yaml:"output" mapstructure:"output"`
	LogLevel string       `yaml:"log_level" mapstructure:"log_level"`
}

// DiskConfig describes the mass budget and radial profile
type DiskConfig struct {
	TotalMass   float64        `yaml:"total_mass" mapstructure:"total_mass"`
	SmallMass   float64        `yaml:"small_mass" mapstructure:"small_mass"`
	LargeMass   float64        `yaml:"large_mass" mapstructure:"large_mass"`
	NumSmall    int            `yaml:"n_small_bodies" mapstructure:"n_small_bodies"`
	NumLarge    int            `yaml:"n_large_bodies" mapstructure:"n_large_bodies"`
	FillEmbryos bool           `yaml:"fill_embryos" mapstructure:"fill_embryos"`
	Inner       float64        `yaml:"inner" mapstructure:"inner"`
	Outer       float64        `yaml:"outer" mapstructure:"outer"`
	Alpha       float64        `yaml:"alpha" mapstructure:"alpha"`
	Spacing     string         `yaml:"spacing" mapstructure:"spacing"`
	Sorted      bool           `yaml:"sorted" mapstructure:"sorted"`
	Seed        uint64         `yaml:"seed" mapstructure:"seed"` // 0 picks a random seed
	Embryos     []EmbryoConfig `yaml:"embryos" mapstructure:"embryos"`
}

// EmbryoConfig places a single embryo
type EmbryoConfig struct {
	SemiMajorAxis float64 `yaml:"semi_major_axis" mapstructure:"semi_major_axis"`
	Mass          float64 `yaml:"mass,omitempty" mapstructure:"mass"`
}

// BodiesConfig contains per-body physical and orbital settings
type BodiesConfig struct {
	Perturbation   string  `yaml:"perturbation" mapstructure:"perturbation"`
	Eccentricity   float64 `yaml:"eccentricity" mapstructure:"eccentricity"`
	Inclination    float64 `yaml:"inclination" mapstructure:"inclination"`
	RandomAngles   bool    `yaml:"random_angles" mapstructure:"random_angles"`
	ArgPericenter  float64 `yaml:"arg_pericenter" mapstructure:"arg_pericenter"`
	Node           float64 `yaml:"node" mapstructure:"node"`
	MeanAnomaly    float64 `yaml:"mean_anomaly" mapstructure:"mean_anomaly"`
	Density        float64 `yaml:"density" mapstructure:"density"`
	CloseEncounter float64 `yaml:"close_encounter" mapstructure:"close_encounter"`
	MassUnit       string  `yaml:"mass_unit" mapstructure:"mass_unit"`
}

// OutputConfig contains big.in layout settings
type OutputConfig struct {
	Path        string  `yaml:"path" mapstructure:"path"`
	Style       string  `yaml:"style" mapstructure:"style"`
	Epoch       float64 `yaml:"epoch" mapstructure:"epoch"`
	CentralMass float64 `yaml:"central_mass" mapstructure:"central_mass"`
	SmallPrefix string  `yaml:"small_prefix" mapstructure:"small_prefix"`
	LargePrefix string  `yaml:"large_prefix" mapstructure:"large_prefix"`
	NameWidth   int     `yaml:"name_width" mapstructure:"name_width"`
	JSONLPath   string  `yaml:"jsonl_path" mapstructure:"jsonl_path"`
}

// DefaultConfig returns a default configuration: 260 planetesimals of 0.01
// in a 5.0 disk between 0.2 and 4 AU with alpha 1.5.
func DefaultConfig() *Config {
	perturb := disk.DefaultPerturbation()
	naming := disk.DefaultNaming()

	return &Config{
		Disk: DiskConfig{
			TotalMass: 5.0,
			SmallMass: 0.01,
			LargeMass: 0.1,
			NumSmall:  260,
			Inner:     0.2,
			Outer:     4.0,
			Alpha:     1.5,
			Spacing:   string(disk.SpacingRandom),
			Embryos:   []EmbryoConfig{},
		},
		Bodies: BodiesConfig{
			Perturbation:   string(perturb.Model),
			Eccentricity:   perturb.Eccentricity,
			Inclination:    perturb.Inclination,
			RandomAngles:   perturb.RandomAngles,
			Density:        disk.DefaultDensity,
			CloseEncounter: disk.DefaultCloseEncounter,
			MassUnit:       string(disk.MassUnitSolar),
		},
		Output: OutputConfig{
			Path:        "big.in",
			Style:       string(mercury.StyleAsteroidal),
			CentralMass: 1.0,
			SmallPrefix: naming.SmallPrefix,
			LargePrefix: naming.LargePrefix,
			NameWidth:   naming.Width,
		},
		LogLevel: "info",
	}
}

// NewViper returns a viper instance seeded with the defaults, reading
// DISKMAKER_* environment variables and, when path is not empty, the YAML
// file at path.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	if err := SetDefaults(v, DefaultConfig()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return v, nil
}

// SetDefaults registers every key of cfg so environment variables can
// override keys that appear in no file.
func SetDefaults(v *viper.Viper, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to decode defaults: %w", err)
	}
	for key, value := range tree {
		v.SetDefault(key, value)
	}
	return nil
}

// LoadConfig decodes and validates the configuration held by v
func LoadConfig(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// SaveConfig writes config as YAML to path. An existing file is only replaced
// when overwrite is set.
func SaveConfig(config *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every enumerated setting and the disk invariants
func (c *Config) Validate() error {
	if _, err := c.Options(nil); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return c.DiskSpec().Validate()
}

// DiskSpec converts the disk section
func (c *Config) DiskSpec() disk.DiskSpec {
	spec := disk.DiskSpec{
		TotalMass: c.Disk.TotalMass,
		SmallMass: c.Disk.SmallMass,
		LargeMass: c.Disk.LargeMass,
		NumSmall:  c.Disk.NumSmall,
		NumLarge:  c.Disk.NumLarge,
		Inner:     c.Disk.Inner,
		Outer:     c.Disk.Outer,
		Alpha:     c.Disk.Alpha,
	}
	for _, e := range c.Disk.Embryos {
		spec.Embryos = append(spec.Embryos, disk.Embryo{SemiMajorAxis: e.SemiMajorAxis, Mass: e.Mass})
	}
	return spec
}

// Options converts the bodies and output sections, drawing from src
func (c *Config) Options(src rand.Source) (diskmaker.Options, error) {
	opts := diskmaker.DefaultOptions(src)
	var err error

	if opts.Disk.Spacing, err = disk.ParseSpacing(c.Disk.Spacing); err != nil {
		return opts, err
	}
	if opts.Disk.MassUnit, err = disk.ParseMassUnit(c.Bodies.MassUnit); err != nil {
		return opts, err
	}
	if opts.Disk.Perturbation.Model, err = disk.ParsePerturbationModel(c.Bodies.Perturbation); err != nil {
		return opts, err
	}
	if opts.Output.Style, err = mercury.ParseStyle(c.Output.Style); err != nil {
		return opts, err
	}

	opts.FillEmbryos = c.Disk.FillEmbryos
	opts.Disk.Sorted = c.Disk.Sorted
	opts.Disk.Perturbation.Eccentricity = c.Bodies.Eccentricity
	opts.Disk.Perturbation.Inclination = c.Bodies.Inclination
	opts.Disk.Perturbation.RandomAngles = c.Bodies.RandomAngles
	opts.Disk.Perturbation.ArgPericenter = c.Bodies.ArgPericenter
	opts.Disk.Perturbation.Node = c.Bodies.Node
	opts.Disk.Perturbation.MeanAnomaly = c.Bodies.MeanAnomaly
	opts.Disk.Density = c.Bodies.Density
	opts.Disk.CloseEncounter = c.Bodies.CloseEncounter
	opts.Disk.Naming.SmallPrefix = c.Output.SmallPrefix
	opts.Disk.Naming.LargePrefix = c.Output.LargePrefix
	opts.Disk.Naming.Width = c.Output.NameWidth

	opts.Output.Epoch = c.Output.Epoch
	opts.Output.CentralMass = c.Output.CentralMass
	return opts, nil
}

// Naming returns the naming scheme used to tell embryos from planetesimals
// when reading files back.
func (c *Config) Naming() disk.Naming {
	n := disk.DefaultNaming()
	n.SmallPrefix = c.Output.SmallPrefix
	n.LargePrefix = c.Output.LargePrefix
	n.Width = c.Output.NameWidth
	return n
}

// ParseLogLevel accepts debug, info, warn or error
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
