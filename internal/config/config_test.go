// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "phosim", cfg.Logger.ServiceName)
	assert.Equal(t, 8, cfg.Engine.WorkerConcurrency)

	assert.Equal(t, 10, cfg.Simulation.NMax)
	assert.Equal(t, 100, cfg.Simulation.TimeUnits)
	assert.InDelta(t, 0.5, cfg.Simulation.Alpha, 1e-12)
	assert.InDelta(t, 0.01, cfg.Simulation.NoiseStep, 1e-12)
	assert.Equal(t, "amplified", cfg.Simulation.Response)
	assert.InDelta(t, 1.0, cfg.Simulation.Payoffs.TP, 1e-12)
	assert.InDelta(t, -1.0, cfg.Simulation.Payoffs.FP, 1e-12)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("simulation.n_max", 4)
	v.Set("simulation.time_units", 2500)
	v.Set("simulation.response", "identity")
	v.Set("export.sqlite_path", "out.db")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Simulation.NMax)
	assert.Equal(t, 2500, cfg.Simulation.TimeUnits)
	assert.Equal(t, "identity", cfg.Simulation.Response)
	assert.Equal(t, "out.db", cfg.Export.SQLitePath)
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.Engine.WorkerConcurrency = 0 }},
		{"zero n_max", func(c *Config) { c.Simulation.NMax = 0 }},
		{"zero time_units", func(c *Config) { c.Simulation.TimeUnits = 0 }},
		{"alpha out of range", func(c *Config) { c.Simulation.Alpha = 1.5 }},
		{"noise stop above one", func(c *Config) { c.Simulation.NoiseStop = 1.2 }},
		{"inverted noise range", func(c *Config) { c.Simulation.NoiseStart = 0.9; c.Simulation.NoiseStop = 0.1 }},
		{"zero noise step", func(c *Config) { c.Simulation.NoiseStep = 0 }},
		{"unknown response", func(c *Config) { c.Simulation.Response = "quadratic" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewConfigFromViperRejectsInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("simulation.alpha", -1)

	_, err := NewConfigFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
