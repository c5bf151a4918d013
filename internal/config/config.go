// Package config loads the satprep YAML configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/satprep/internal/audit"
	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/problemgen"
)

// Config is the top-level configuration file.
type Config struct {
	Version  int            `yaml:"version"`
	Generate GenerateConfig `yaml:"generate"`
	Validate ValidateConfig `yaml:"validate"`
	Store    StoreConfig    `yaml:"store"`
	Serve    ServeConfig    `yaml:"serve"`
}

type GenerateConfig struct {
	Seed            uint32 `yaml:"seed"`
	TargetPerBucket int    `yaml:"target_per_bucket"`
	MaxAttempts     int    `yaml:"max_attempts"`
	Out             string `yaml:"out"`
}

type ValidateConfig struct {
	In              string  `yaml:"in"`
	Issues          string  `yaml:"issues"`
	Matrix          string  `yaml:"matrix"`
	TargetPerBucket int     `yaml:"target_per_bucket"`
	Tolerance       float64 `yaml:"tolerance"`
	Policy          string  `yaml:"policy"`
	FailOnError     bool    `yaml:"fail_on_error"`
}

type StoreConfig struct {
	// DSN is a SQLite path or a postgres:// URL. Empty means the default
	// data path.
	DSN    string `yaml:"dsn"`
	Record bool   `yaml:"record"`
	Keep   int    `yaml:"keep"`
}

type ServeConfig struct {
	Addr           string   `yaml:"addr"`
	In             string   `yaml:"in"`
	RequireVisual  bool     `yaml:"require_visual"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

const (
	DefaultQuestionsPath = "data/questions.json"
	DefaultIssuesPath    = "reports/issues.json"
	DefaultMatrixPath    = "reports/matrix.csv"
)

// Default returns the configuration used when no file is given.
func Default() Config {
	gen := problemgen.DefaultConfig()
	return Config{
		Version: 1,
		Generate: GenerateConfig{
			Seed:            gen.Seed,
			TargetPerBucket: gen.TargetPerBucket,
			MaxAttempts:     gen.MaxAttempts,
			Out:             DefaultQuestionsPath,
		},
		Validate: ValidateConfig{
			In:              DefaultQuestionsPath,
			Issues:          DefaultIssuesPath,
			Matrix:          DefaultMatrixPath,
			TargetPerBucket: gen.TargetPerBucket,
			Tolerance:       audit.DefaultTolerance,
			Policy:          string(bank.PolicyStrict),
		},
		Store: StoreConfig{Keep: 50},
		Serve: ServeConfig{
			Addr:           ":8080",
			In:             DefaultQuestionsPath,
			AllowedOrigins: []string{"*"},
		},
	}
}

// Parse decodes a single YAML document over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&yaml.Node{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads, parses, normalizes, and validates a config file. An empty
// path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return Config{}, err
		}
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize trims values and fills fields that default from others.
func Normalize(cfg *Config) {
	cfg.Generate.Out = strings.TrimSpace(cfg.Generate.Out)
	cfg.Validate.In = strings.TrimSpace(cfg.Validate.In)
	cfg.Validate.Issues = strings.TrimSpace(cfg.Validate.Issues)
	cfg.Validate.Matrix = strings.TrimSpace(cfg.Validate.Matrix)
	cfg.Validate.Policy = strings.ToLower(strings.TrimSpace(cfg.Validate.Policy))
	cfg.Store.DSN = strings.TrimSpace(cfg.Store.DSN)
	cfg.Serve.In = strings.TrimSpace(cfg.Serve.In)

	if cfg.Validate.In == "" {
		cfg.Validate.In = cfg.Generate.Out
	}
	if cfg.Serve.In == "" {
		cfg.Serve.In = cfg.Generate.Out
	}
	if cfg.Validate.TargetPerBucket == 0 {
		cfg.Validate.TargetPerBucket = cfg.Generate.TargetPerBucket
	}
	if cfg.Validate.Policy == "" {
		cfg.Validate.Policy = string(bank.PolicyStrict)
	}
}

// Generator returns the generator settings.
func (c Config) Generator() problemgen.Config {
	return problemgen.Config{
		Seed:            c.Generate.Seed,
		TargetPerBucket: c.Generate.TargetPerBucket,
		MaxAttempts:     c.Generate.MaxAttempts,
	}
}

// AuditOptions returns the auditor settings with the standard checks.
func (c Config) AuditOptions() audit.Options {
	opts := audit.DefaultOptions()
	opts.TargetPerBucket = c.Validate.TargetPerBucket
	opts.Tolerance = c.Validate.Tolerance
	opts.Policy = bank.VisualPolicy(c.Validate.Policy)
	return opts
}

// LoaderOptions returns the bank loader settings used by serve.
func (c Config) LoaderOptions() bank.LoaderOptions {
	return bank.LoaderOptions{
		RequireVisual: c.Serve.RequireVisual,
		Policy:        bank.VisualPolicy(c.Validate.Policy),
	}
}
