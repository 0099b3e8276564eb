package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"viewlint/internal/binder"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "viewlint.yaml"

type Config struct {
	Project struct {
		Root   string   `yaml:"root"`
		Ignore []string `yaml:"ignore"` // extra directory names to skip
	} `yaml:"project"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Output struct {
		Format string `yaml:"format"` // pretty or json
		Color  *bool  `yaml:"color"`  // nil means auto-detect
	} `yaml:"output"`
	Analysis struct {
		Concurrency    int `yaml:"concurrency"`
		MaxDiagnostics int `yaml:"max_diagnostics"`
	} `yaml:"analysis"`
	Externs []binder.Extern `yaml:"externs"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Storage.DBPath = ".viewlint/history.db"
	cfg.Output.Format = "pretty"
	cfg.Analysis.Concurrency = 4
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if root := os.Getenv("VIEWLINT_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if db := os.Getenv("VIEWLINT_DB_PATH"); db != "" {
		cfg.Storage.DBPath = db
	}
	if format := os.Getenv("VIEWLINT_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
	if ignore := os.Getenv("VIEWLINT_IGNORE"); ignore != "" {
		for _, name := range strings.Split(ignore, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Project.Ignore = append(cfg.Project.Ignore, name)
			}
		}
	}
	if c := os.Getenv("VIEWLINT_CONCURRENCY"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return fmt.Errorf("VIEWLINT_CONCURRENCY: %w", err)
		}
		cfg.Analysis.Concurrency = n
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		off := false
		cfg.Output.Color = &off
	}
	return nil
}

// Validate reports configuration values no command can work with.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("analysis.concurrency must be positive, got %d", c.Analysis.Concurrency)
	}
	return nil
}
