// Package config loads the arcmd configuration file.
//
// The format follows the file extension: .yaml and .yml files are YAML,
// .toml files are TOML. Both share the same keys:
//
//	schemas = ["schemas/ardrone3.yaml", "schemas/common.yaml"]
//
//	[filter]
//	default = "allowed"
//	rules = [
//	  { target = "ardrone3.Piloting", behavior = "blocked" },
//	  { target = "ardrone3.Piloting.Landing", behavior = "allowed" },
//	]
//
//	[log]
//	level = "debug"
//	protocol_log = "arcmd.cbor"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/examples"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/filter"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/specparse"
)

// AllTarget is the rule target matching every command.
const AllTarget = "*"

// ErrUnsupportedFormat indicates a config file extension with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the arcmd configuration.
type Config struct {
	// Schemas lists the command schema files. Empty selects the built-in
	// demo schema.
	Schemas []string `yaml:"schemas" toml:"schemas"`

	Filter FilterConfig `yaml:"filter" toml:"filter"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// FilterConfig configures the command filter.
type FilterConfig struct {
	// Default is the behaviour of every command before rules apply.
	Default string `yaml:"default" toml:"default"`

	// Rules are applied in order; later rules override earlier ones.
	Rules []Rule `yaml:"rules" toml:"rules"`
}

// Rule sets the behaviour of a feature, class or command.
type Rule struct {
	// Target is "feature[.class][.command]" or "*".
	Target   string `yaml:"target" toml:"target"`
	Behavior string `yaml:"behavior" toml:"behavior"`
}

// LogConfig configures operational and protocol logging.
type LogConfig struct {
	// Level is the slog level: debug, info, warn or error.
	Level string `yaml:"level" toml:"level"`

	// ProtocolLog is the CBOR protocol log file. Empty disables it.
	ProtocolLog string `yaml:"protocol_log" toml:"protocol_log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Filter: FilterConfig{Default: "allowed"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads and validates the configuration at path. Keys missing from the
// file keep their defaults; unknown keys are rejected. Relative schema and
// protocol log paths are resolved against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or
// ".toml") over the defaults and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	for i, s := range c.Schemas {
		if !filepath.IsAbs(s) {
			c.Schemas[i] = filepath.Join(dir, s)
		}
	}
	if p := c.Log.ProtocolLog; p != "" && !filepath.IsAbs(p) {
		c.Log.ProtocolLog = filepath.Join(dir, p)
	}
}

// Validate checks behaviours, rule targets and the log level. Rule targets
// are resolved against a registry only by ApplyFilter.
func (c *Config) Validate() error {
	if _, err := filter.ParseBehavior(c.Filter.Default); err != nil {
		return fmt.Errorf("filter.default: %w", err)
	}
	for i, r := range c.Filter.Rules {
		if strings.TrimSpace(r.Target) == "" {
			return fmt.Errorf("filter.rules[%d]: empty target", i)
		}
		if _, err := filter.ParseBehavior(r.Behavior); err != nil {
			return fmt.Errorf("filter.rules[%d]: %w", i, err)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// SlogLevel returns the configured operational log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Registry loads the configured schemas, or returns the demo registry when
// none are configured.
func (c *Config) Registry() (*model.Registry, error) {
	if len(c.Schemas) == 0 {
		return examples.Registry(), nil
	}
	return specparse.LoadRegistry(c.Schemas...)
}

// NewFilter creates a filter over reg with the configured default and rules.
func (c *Config) NewFilter(reg *model.Registry) (*filter.Filter, error) {
	def, err := filter.ParseBehavior(c.Filter.Default)
	if err != nil {
		return nil, err
	}
	f, err := filter.New(reg, def)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyFilter(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ApplyFilter applies the rules to f in order.
func (c *Config) ApplyFilter(f *filter.Filter) error {
	for i, r := range c.Filter.Rules {
		behavior, err := filter.ParseBehavior(r.Behavior)
		if err != nil {
			return fmt.Errorf("filter.rules[%d]: %w", i, err)
		}
		target := strings.TrimSpace(r.Target)
		if target == AllTarget {
			err = f.SetAllBehavior(behavior)
		} else {
			err = f.SetBehaviorByName(target, behavior)
		}
		if err != nil {
			return fmt.Errorf("filter.rules[%d] %q: %w", i, target, err)
		}
	}
	return nil
}
