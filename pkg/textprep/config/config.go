package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/resource"
)

// Environment variables that override the file
const (
	EnvWorkers     = "TEXTPREP_WORKERS"
	EnvResourceDir = "TEXTPREP_RESOURCE_DIR"
	EnvDB          = "TEXTPREP_DB"
	EnvPunkt       = "TEXTPREP_PUNKT"
	EnvTagger      = "TEXTPREP_TAGGER"
)

// File represents the textprep configuration file
type File struct {
	Workers   int       `yaml:"workers"`
	Resources Resources `yaml:"resources"`
}

// Resources says where model artifacts come from. Punkt and Tagger are
// resource keys; an empty Tagger disables tagging.
type Resources struct {
	Dir    string `yaml:"dir"`
	SQLite string `yaml:"sqlite"`
	Punkt  string `yaml:"punkt"`
	Tagger string `yaml:"tagger"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Workers: runtime.GOMAXPROCS(0),
		Resources: Resources{
			Punkt: resource.PunktPortuguese,
		},
	}
}

// LoadFile loads configuration from a YAML file on top of Default().
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (f *File) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", internalerr.ErrInvalidConfig, EnvWorkers, v)
		}
		f.Workers = n
	}
	if v := getenv(EnvResourceDir); v != "" {
		f.Resources.Dir = v
	}
	if v := getenv(EnvDB); v != "" {
		f.Resources.SQLite = v
	}
	if v := getenv(EnvPunkt); v != "" {
		f.Resources.Punkt = v
	}
	if v := getenv(EnvTagger); v != "" {
		f.Resources.Tagger = v
	}
	return f.Validate()
}

// Validate checks the configuration is usable.
func (f File) Validate() error {
	if f.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", internalerr.ErrInvalidConfig, f.Workers)
	}
	if f.Resources.Punkt == "" {
		return fmt.Errorf("%w: resources.punkt is required", internalerr.ErrInvalidConfig)
	}
	return nil
}
