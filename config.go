package hullcarve

import (
	"os"
	"runtime"

	"github.com/osuushi/hullcarve/internal/carve"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the carve tolerances plus how to run the carve. In YAML the
// tolerances sit at the top level next to workers and verbose.
type Config struct {
	carve.Config `yaml:",inline"`
	// Workers bounds how many faces are carved at once. Zero means one per
	// CPU.
	Workers int `yaml:"workers"`
	// Verbose logs every diagnostic as it is returned.
	Verbose bool `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Config:  carve.DefaultConfig(),
		Workers: runtime.NumCPU(),
	}
}

func (c Config) withDefaults() Config {
	c.Config = c.Config.WithDefaults()
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the file
// keep their default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg.withDefaults(), nil
}
