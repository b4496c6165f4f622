package config

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages pipeline configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Network construction parameters
	v.SetDefault("wgcna.beta", 6.0)
	v.SetDefault("wgcna.signed", true)
	v.SetDefault("network.threshold", 0.5)

	// Expression filtering parameters
	v.SetDefault("expression.min_level", 1.0)
	v.SetDefault("expression.max_low_fraction", 0.9)
	v.SetDefault("expression.variance_percentile", 0.25)

	// Motif sampling parameters
	v.SetDefault("sampling.subsample_size", 10)
	v.SetDefault("sampling.num_samples", 1000)
	v.SetDefault("sampling.num_workers", runtime.NumCPU())

	// Bootstrap test parameters
	v.SetDefault("bootstrap.replicates", 10000)
	v.SetDefault("bootstrap.seed", int64(42))

	// Module detection parameters
	v.SetDefault("modules.max_levels", 10)
	v.SetDefault("modules.max_iterations", 100)
	v.SetDefault("modules.min_modularity_gain", 1e-6)
	v.SetDefault("modules.random_seed", int64(42))

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", true)
	v.SetDefault("logging.progress_interval", 500)

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for network parameters
func (c *Config) Beta() float64          { return c.v.GetFloat64("wgcna.beta") }
func (c *Config) Signed() bool           { return c.v.GetBool("wgcna.signed") }
func (c *Config) Threshold() float64     { return c.v.GetFloat64("network.threshold") }

// Getters for expression filtering
func (c *Config) MinExpressionLevel() float64 { return c.v.GetFloat64("expression.min_level") }
func (c *Config) MaxLowFraction() float64     { return c.v.GetFloat64("expression.max_low_fraction") }
func (c *Config) VariancePercentile() float64 { return c.v.GetFloat64("expression.variance_percentile") }

// Getters for sampling parameters
func (c *Config) SubsampleSize() int { return c.v.GetInt("sampling.subsample_size") }
func (c *Config) NumSamples() int    { return c.v.GetInt("sampling.num_samples") }
func (c *Config) NumWorkers() int    { return c.v.GetInt("sampling.num_workers") }

// Getters for bootstrap parameters
func (c *Config) BootstrapReplicates() int { return c.v.GetInt("bootstrap.replicates") }
func (c *Config) BootstrapSeed() int64     { return c.v.GetInt64("bootstrap.seed") }

// Getters for module detection parameters
func (c *Config) MaxLevels() int               { return c.v.GetInt("modules.max_levels") }
func (c *Config) MaxIterations() int           { return c.v.GetInt("modules.max_iterations") }
func (c *Config) MinModularityGain() float64   { return c.v.GetFloat64("modules.min_modularity_gain") }
func (c *Config) RandomSeed() int64            { return c.v.GetInt64("modules.random_seed") }

// Getters for logging parameters
func (c *Config) LogLevel() string        { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool    { return c.v.GetBool("logging.enable_progress") }
func (c *Config) ProgressInterval() int   { return c.v.GetInt("logging.progress_interval") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "motif-comparison").Logger()
}
