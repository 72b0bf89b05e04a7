// Package config loads docweave settings from an optional YAML file,
// DOCWEAVE_ environment variables and built-in defaults, in that order of
// precedence from lowest to highest: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsawler/docweave"
	"github.com/tsawler/docweave/diagram"
	"github.com/tsawler/docweave/templates"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. DOCWEAVE_TEMPLATES_DIR.
const EnvPrefix = "DOCWEAVE"

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "docweave"

// Config is the complete settings tree.
type Config struct {
	Templates Templates `mapstructure:"templates"`
	Diagram   Diagram   `mapstructure:"diagram"`
	Brand     Brand     `mapstructure:"brand"`
	Log       Log       `mapstructure:"log"`
}

// Templates locates the template files.
type Templates struct {
	Dir      string `mapstructure:"dir"`
	Standard string `mapstructure:"standard"`
	Cover    string `mapstructure:"cover"`
}

// Diagram configures the external diagram converter.
type Diagram struct {
	Command []string      `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
	DPI     int           `mapstructure:"dpi"`
	Scale   int           `mapstructure:"scale"`
}

// Brand names the brand footers are matched against.
type Brand struct {
	Name string `mapstructure:"name"`
}

// Log configures logging. An empty File disables the rotating file.
type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration. With an empty path, docweave.yaml in the
// working directory is used when present; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets the default values.
func setDefaults(v *viper.Viper) {
	set := templates.DefaultSet()
	v.SetDefault("templates.dir", set.Dir)
	v.SetDefault("templates.standard", set.Standard)
	v.SetDefault("templates.cover", set.Cover)

	v.SetDefault("diagram.command", append([]string(nil), diagram.DefaultCommand...))
	v.SetDefault("diagram.timeout", diagram.DefaultTimeout)
	v.SetDefault("diagram.dpi", diagram.DefaultDPI)
	v.SetDefault("diagram.scale", diagram.DefaultScale)

	v.SetDefault("brand.name", docweave.DefaultBrand)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", true)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Diagram.Timeout <= 0 {
		return fmt.Errorf("%w: diagram.timeout must be positive, got %s", ErrInvalidConfig, c.Diagram.Timeout)
	}
	if c.Diagram.DPI <= 0 {
		return fmt.Errorf("%w: diagram.dpi must be positive, got %d", ErrInvalidConfig, c.Diagram.DPI)
	}
	if c.Diagram.Scale <= 0 {
		return fmt.Errorf("%w: diagram.scale must be positive, got %d", ErrInvalidConfig, c.Diagram.Scale)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TemplateSet returns the configured template locations.
func (c *Config) TemplateSet() templates.Set {
	return templates.Set{
		Dir:      c.Templates.Dir,
		Standard: c.Templates.Standard,
		Cover:    c.Templates.Cover,
	}
}

// DiagramRenderer returns a converter configured from c.
func (c *Config) DiagramRenderer(logger *zap.Logger) *diagram.Renderer {
	r := diagram.NewRenderer(logger)
	r.Command = append([]string(nil), c.Diagram.Command...)
	r.Timeout = c.Diagram.Timeout
	r.DPI = c.Diagram.DPI
	r.Scale = c.Diagram.Scale
	return r
}
