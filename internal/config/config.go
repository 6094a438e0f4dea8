// Package config loads shadow.toml project configuration.
//
//	[types]
//	package = "bank"          # package unqualified names resolve in
//	decls = ["decls"]         # CUE declaration directories
//
//	[build]
//	cache = ".shadow/cache.db"
//
//	[log]
//	level = "info"            # debug, info, warn or error
//
//	[harness]
//	scenarios = "scenarios"
//
// Relative paths are resolved against the directory holding the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/shadow-language/shadowc/internal/canon"
)

// FileName is the configuration file searched for by Find.
const FileName = "shadow.toml"

// Config is the project configuration.
type Config struct {
	Types   Types   `toml:"types"`
	Build   Build   `toml:"build"`
	Log     Log     `toml:"log"`
	Harness Harness `toml:"harness"`

	// Dir is the directory the configuration was loaded from. It is empty
	// for the defaults.
	Dir string `toml:"-"`
}

// Types configures declaration loading.
type Types struct {
	Package string   `toml:"package"`
	Decls   []string `toml:"decls"`
}

// Build configures the interface cache. An empty Cache disables it.
type Build struct {
	Cache string `toml:"cache"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Harness configures conformance scenario discovery.
type Harness struct {
	Scenarios string `toml:"scenarios"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Types:   Types{Package: "default"},
		Log:     Log{Level: "info"},
		Harness: Harness{Scenarios: "scenarios"},
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults; unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes configuration text over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Types.Package == "" {
		return fmt.Errorf("types.package must not be empty")
	}
	return nil
}

// LogLevel maps Log.Level to a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	return level, nil
}

func (c *Config) resolve(dir string) {
	c.Dir = dir
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, d := range c.Types.Decls {
		c.Types.Decls[i] = abs(d)
	}
	c.Build.Cache = abs(c.Build.Cache)
	c.Harness.Scenarios = abs(c.Harness.Scenarios)
}

// Find searches start and its parents for FileName and returns its path,
// or "" when there is none.
func Find(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Hash identifies the settings that affect build output. Logging and
// harness settings are excluded.
func (c *Config) Hash() (string, error) {
	decls := make([]string, len(c.Types.Decls))
	for i, d := range c.Types.Decls {
		decls[i] = filepath.ToSlash(d)
	}
	return canon.Hash(canon.DomainConfig, map[string]any{
		"package": c.Types.Package,
		"decls":   decls,
	})
}
