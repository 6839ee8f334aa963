// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/phosim/internal/sim"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Engine     EngineConfig     `mapstructure:"engine" yaml:"engine"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Export     ExportConfig     `mapstructure:"export" yaml:"export"`
}

// LoggerConfig controls the zap logger construction.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig configures the sweep worker pool.
type EngineConfig struct {
	WorkerConcurrency int `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
}

// SimulationConfig collects the model parameters for a grid run.
type SimulationConfig struct {
	NMax       int             `mapstructure:"n_max" yaml:"n_max"`
	TimeUnits  int             `mapstructure:"time_units" yaml:"time_units"`
	Alpha      float64         `mapstructure:"alpha" yaml:"alpha"`
	NoiseStart float64         `mapstructure:"noise_start" yaml:"noise_start"`
	NoiseStop  float64         `mapstructure:"noise_stop" yaml:"noise_stop"`
	NoiseStep  float64         `mapstructure:"noise_step" yaml:"noise_step"`
	Response   string          `mapstructure:"response" yaml:"response"`
	BaseSeed   uint64          `mapstructure:"base_seed" yaml:"base_seed"`
	Payoffs    sim.PayoffTable `mapstructure:"payoffs" yaml:"payoffs"`
}

// ExportConfig names the optional output sinks. Empty paths disable the
// corresponding exporter.
type ExportConfig struct {
	JSONPath   string `mapstructure:"json_path" yaml:"json_path"`
	CSVPath    string `mapstructure:"csv_path" yaml:"csv_path"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	WithCurves bool   `mapstructure:"with_curves" yaml:"with_curves"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "phosim")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.worker_concurrency", 8)

	// -- Simulation --
	v.SetDefault("simulation.n_max", 10)
	v.SetDefault("simulation.time_units", 100)
	v.SetDefault("simulation.alpha", 0.5)
	v.SetDefault("simulation.noise_start", 0.0)
	v.SetDefault("simulation.noise_stop", 1.0)
	v.SetDefault("simulation.noise_step", 0.01)
	v.SetDefault("simulation.response", "amplified")
	v.SetDefault("simulation.base_seed", 1)
	v.SetDefault("simulation.payoffs.tp", 1.0)
	v.SetDefault("simulation.payoffs.fp", -1.0)
	v.SetDefault("simulation.payoffs.fn", -1.0)
	v.SetDefault("simulation.payoffs.tn", 1.0)

	// -- Export --
	v.SetDefault("export.json_path", "phosim-report.json")
	v.SetDefault("export.csv_path", "")
	v.SetDefault("export.sqlite_path", "")
	v.SetDefault("export.with_curves", false)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults alone.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. Parameter faults are
// rejected here, before any simulation runs.
func (c *Config) Validate() error {
	if c.Engine.WorkerConcurrency <= 0 {
		return fmt.Errorf("engine.worker_concurrency must be a positive integer")
	}
	s := c.Simulation
	if s.NMax < 1 {
		return fmt.Errorf("simulation.n_max must be >= 1")
	}
	if s.TimeUnits < 1 {
		return fmt.Errorf("simulation.time_units must be >= 1")
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return fmt.Errorf("simulation.alpha must lie in [0,1]")
	}
	if s.NoiseStart < 0 || s.NoiseStop > 1 || s.NoiseStop < s.NoiseStart {
		return fmt.Errorf("simulation noise range must satisfy 0 <= start <= stop <= 1")
	}
	if s.NoiseStep <= 0 {
		return fmt.Errorf("simulation.noise_step must be positive")
	}
	if _, err := sim.ResponseByName(s.Response); err != nil {
		return err
	}
	return nil
}
