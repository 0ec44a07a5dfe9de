// Package config holds the settings of an indexing run. Settings come from
// defaults, then an optional YAML file, then command line flags.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sourcegraph/lsif-flow/internal/index"
)

// Config is the full set of run settings.
type Config struct {
	Output        string   `yaml:"output"`
	Parallelism   int      `yaml:"parallelism"`
	StartID       uint64   `yaml:"start_id"`
	Language      string   `yaml:"language"`
	MonikerScheme string   `yaml:"moniker_scheme"`
	Exclude       []string `yaml:"exclude"`
	MetricsFile   string   `yaml:"metrics_file"`
	NoProgress    bool     `yaml:"no_progress"`
	Quiet         bool     `yaml:"quiet"`
	Verbose       bool     `yaml:"verbose"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Output:        "dump.lsif",
		Parallelism:   index.DefaultParallelism,
		Language:      index.LanguageScala,
		MonikerScheme: index.DefaultMonikerScheme,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Parallelism < 0 {
		return errors.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	if c.Language == "" {
		return errors.New("language must not be empty")
	}
	if c.MonikerScheme == "" {
		return errors.New("moniker scheme must not be empty")
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}

	return nil
}
