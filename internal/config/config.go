// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/geodesic-labs/arealens/internal/synth"
)

// Config holds the full application configuration.
type Config struct {
	Synth  synth.Config `yaml:"synth" mapstructure:"synth"`
	Grid   GridConfig   `yaml:"grid" mapstructure:"grid"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// GridConfig bounds the grid sizes the dashboard may request.
type GridConfig struct {
	MinSize      int   `yaml:"min_size" mapstructure:"min_size"`
	MaxSize      int   `yaml:"max_size" mapstructure:"max_size"`
	DefaultSize  int   `yaml:"default_size" mapstructure:"default_size"`
	CompareSizes []int `yaml:"compare_sizes" mapstructure:"compare_sizes"`
}

// Allows reports whether a requested grid size is within bounds.
func (g GridConfig) Allows(size int) bool {
	return size >= g.MinSize && size <= g.MaxSize
}

// StoreConfig configures the run persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// ExportConfig configures report file output.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AREALENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("synth.seed", synth.DefaultSeed)
	v.SetDefault("synth.count", synth.DefaultCount)
	v.SetDefault("synth.sigma", synth.DefaultSigma)
	v.SetDefault("grid.min_size", 5)
	v.SetDefault("grid.max_size", 20)
	v.SetDefault("grid.default_size", 10)
	v.SetDefault("grid.compare_sizes", []int{5, 10, 20})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "arealens.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 25.0)
	v.SetDefault("server.rate_burst", 50)
	v.SetDefault("export.dir", "reports")
	v.SetDefault("export.format", "csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// The hub list and bounding box have no flat viper defaults; fall back to
	// the reference region when the config file leaves them out.
	if len(cfg.Synth.Hubs) == 0 {
		cfg.Synth.Hubs = synth.DefaultHubs
	}
	if !cfg.Synth.BBox.Valid() {
		cfg.Synth.BBox = synth.IleDeFrance
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would fail later in confusing ways.
func (c *Config) Validate() error {
	if err := c.Synth.Validate(); err != nil {
		return err
	}
	if c.Grid.MinSize <= 0 || c.Grid.MaxSize < c.Grid.MinSize {
		return eris.Errorf("config: invalid grid bounds [%d, %d]", c.Grid.MinSize, c.Grid.MaxSize)
	}
	if !c.Grid.Allows(c.Grid.DefaultSize) {
		return eris.Errorf("config: default grid size %d outside [%d, %d]",
			c.Grid.DefaultSize, c.Grid.MinSize, c.Grid.MaxSize)
	}
	for _, s := range c.Grid.CompareSizes {
		if !c.Grid.Allows(s) {
			return eris.Errorf("config: compare size %d outside [%d, %d]", s, c.Grid.MinSize, c.Grid.MaxSize)
		}
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Dump renders the effective configuration as YAML, for `arealens config`.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", eris.Wrap(err, "config: marshal yaml")
	}
	return string(out), nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
