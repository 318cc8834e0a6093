package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"dataprep/internal/etl"
)

// Config is the complete application configuration: a YAML file with
// DATAPREP_* environment overrides. There is no process-wide state; the
// loaded Config is passed to each component at construction.
type Config struct {
	StagingDir string        `yaml:"staging_dir" envconfig:"STAGING_DIR"`
	StorePath  string        `yaml:"store_path" envconfig:"STORE_PATH"`
	Logging    LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Datasets   []Dataset     `yaml:"datasets"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL"`
}

// Dataset configures one pipeline run: where the data comes from, how it is
// cleaned, and which warehouse table receives it.
type Dataset struct {
	Name     string           `yaml:"name"`
	Table    string           `yaml:"table"`
	Source   Source           `yaml:"source"`
	Cleaning []etl.RuleConfig `yaml:"cleaning,omitempty"`
}

// Source mirrors etl.Source in YAML form.
type Source struct {
	Format string `yaml:"format"` // "csv" | "xlsx" | "htmltable" | "database"
	URL    string `yaml:"url,omitempty"`
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Table  string `yaml:"table,omitempty"`
}

// Load reads configuration from the YAML file at path, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Env overrides come last; envconfig defaults would clobber YAML values,
	// so defaults are applied by hand below.
	if err := envconfig.Process("DATAPREP", &cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if cfg.StagingDir == "" {
		cfg.StagingDir = "data/staging"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "data/warehouse.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.StagingDir == "" {
		return fmt.Errorf("staging_dir is required")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path is required")
	}
	if len(c.Datasets) == 0 {
		return fmt.Errorf("at least one dataset is required")
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.Name == "" {
			return fmt.Errorf("dataset %d: name is required", i+1)
		}
		if seen[d.Name] {
			return fmt.Errorf("dataset %q: duplicate name", d.Name)
		}
		seen[d.Name] = true
		if d.Table == "" {
			return fmt.Errorf("dataset %q: table is required", d.Name)
		}
		switch d.Source.Format {
		case "csv", "xlsx", "htmltable":
			if d.Source.URL == "" {
				return fmt.Errorf("dataset %q: source url is required for %s", d.Name, d.Source.Format)
			}
		case "database":
			if d.Source.Driver == "" || d.Source.DSN == "" || d.Source.Table == "" {
				return fmt.Errorf("dataset %q: database source requires driver, dsn and table", d.Name)
			}
		case "":
			return fmt.Errorf("dataset %q: source format is required", d.Name)
		default:
			return fmt.Errorf("dataset %q: unknown source format %q", d.Name, d.Source.Format)
		}
	}
	return nil
}

// Job converts a configured dataset into a pipeline job.
func (d Dataset) Job() etl.Job {
	return etl.Job{
		Name:  d.Name,
		Table: d.Table,
		Source: etl.Source{
			Format: d.Source.Format,
			URL:    d.Source.URL,
			Driver: d.Source.Driver,
			DSN:    d.Source.DSN,
			Table:  d.Source.Table,
		},
		Rules: d.Cleaning,
	}
}
