// Package config loads huefind settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/huefind/internal/colour"
	"github.com/jmylchreest/huefind/internal/index"
	"github.com/jmylchreest/huefind/internal/match"
)

// Default locations, relative to the working directory.
const (
	DefaultDatasetDir = "image_data"
	DefaultIndexPath  = "image_data.json"
	DefaultOutputDir  = "matched_images"
)

// Config holds huefind settings. Command-line flags take precedence.
type Config struct {
	DatasetDir  string          `yaml:"dataset_dir"`
	IndexPath   string          `yaml:"index_path"`
	OutputDir   string          `yaml:"output_dir"`
	Store       index.StoreKind `yaml:"store"`        // file, sqlite (default: file)
	Threshold   float64         `yaml:"threshold"`    // maximum RGB distance for a match
	Seed        int64           `yaml:"seed"`         // clustering seed in fixed mode
	SeedMode    string          `yaml:"seed_mode"`    // fixed, content (default: fixed)
	Workers     int             `yaml:"workers"`      // 0 = one per CPU
	MetricsFile string          `yaml:"metrics_file"` // Prometheus textfile written after a build
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DatasetDir: DefaultDatasetDir,
		IndexPath:  DefaultIndexPath,
		OutputDir:  DefaultOutputDir,
		Store:      index.StoreFile,
		Threshold:  match.DefaultThreshold,
		Seed:       colour.DefaultSeed,
		SeedMode:   string(colour.SeedModeFixed),
	}
}

// Load reads configuration from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or the default config file when path is empty.
// A missing default file is not an error.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}

	path, err := DefaultPath()
	if err != nil {
		return Default(), nil //nolint:nilerr // no config directory, use built-in defaults
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// DefaultPath returns the path of the per-user config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "huefind", "config.yaml"), nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.DatasetDir == "" {
		c.DatasetDir = DefaultDatasetDir
	}
	if c.IndexPath == "" {
		c.IndexPath = DefaultIndexPath
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Store == "" {
		c.Store = index.StoreFile
	}
	if c.SeedMode == "" {
		c.SeedMode = string(colour.SeedModeFixed)
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if !index.IsValidStoreKind(c.Store) {
		return fmt.Errorf("store must be one of %v, got %q", index.ValidStoreKinds(), c.Store)
	}
	if _, err := colour.ParseSeedMode(c.SeedMode); err != nil {
		return fmt.Errorf("seed_mode: %w", err)
	}
	if err := match.ValidateThreshold(c.Threshold); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(m []byte) []byte {
		expr := string(m[2 : len(m)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
