package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/xa-lang/xa/internal/vfs"
)

// DefaultConfigFiles are looked up in the working directory when no config
// file is given.
var DefaultConfigFiles = []string{"xa.toml", "xa.yaml", "xa.yml"}

// Config represents the configuration of the xa tools
type Config struct {
	Run    RunConfig    `toml:"run" yaml:"run"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Output OutputConfig `toml:"output" yaml:"output"`

	// File is the file the configuration was read from, if any.
	File string `toml:"-" yaml:"-"`
}

// RunConfig controls program execution.
type RunConfig struct {
	MaxIterations int64         `toml:"max_iterations" yaml:"max_iterations"`
	WatchDebounce time.Duration `toml:"watch_debounce" yaml:"watch_debounce"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Color    bool   `toml:"color" yaml:"color"`
	Format   string `toml:"format" yaml:"format"`
	Indent   int    `toml:"indent" yaml:"indent"`
	Requires string `toml:"requires" yaml:"requires"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Run:    RunConfig{WatchDebounce: 100 * time.Millisecond},
		Log:    LogConfig{Level: "warn"},
		Output: OutputConfig{Color: true, Format: "tree", Indent: 4},
	}
}

// LoadConfig loads configuration from configPath, or from the first of
// DefaultConfigFiles present in fsys, then applies XA_* overrides read
// through lookupEnv. A named file must exist; the default files are optional.
func LoadConfig(fsys vfs.FileSystem, configPath string, lookupEnv func(string) (string, bool)) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		for _, name := range DefaultConfigFiles {
			if _, err := fsys.Stat(name); err == nil {
				configPath = name
				break
			}
		}
	}

	if configPath != "" {
		data, err := vfs.ReadFile(fsys, configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeConfig(configPath, data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
		config.File = configPath
	}

	if lookupEnv != nil {
		if err := config.applyEnv(lookupEnv); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeConfig(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), config)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil

	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
	return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("XA_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("XA_MAX_ITERATIONS"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("XA_MAX_ITERATIONS: %w", err)
		}
		c.Run.MaxIterations = n
	}
	if _, ok := lookup("XA_NO_COLOR"); ok {
		c.Output.Color = false
	}
	return nil
}

// Validate checks value ranges and the version requirement.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Run.MaxIterations < 0 {
		return fmt.Errorf("run.max_iterations: must not be negative, got %d", c.Run.MaxIterations)
	}
	if c.Run.WatchDebounce < 0 {
		return fmt.Errorf("run.watch_debounce: must not be negative, got %s", c.Run.WatchDebounce)
	}
	switch c.Output.Format {
	case "tree", "yaml", "json":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Output.Indent < 1 || c.Output.Indent > 16 {
		return fmt.Errorf("output.indent: must be between 1 and 16, got %d", c.Output.Indent)
	}
	return CheckRequires(c.Output.Requires)
}
