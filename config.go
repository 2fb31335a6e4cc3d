package backoff

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ExponentialConfig is the YAML form of an ExponentialBackoff.
// Zero fields keep their defaults. Durations are written as Go duration
// strings; max_elapsed_time: 0s retries without a time budget.
//
//	initial_interval: 100ms
//	randomization_factor: 0.2
//	multiplier: 2
//	max_interval: 10s
//	max_elapsed_time: 1m
type ExponentialConfig struct {
	InitialInterval     time.Duration  `yaml:"initial_interval"`
	RandomizationFactor *float64       `yaml:"randomization_factor"`
	Multiplier          float64        `yaml:"multiplier"`
	MaxInterval         time.Duration  `yaml:"max_interval"`
	MaxElapsedTime      *time.Duration `yaml:"max_elapsed_time"`
}

// LoadExponentialConfig decodes a YAML document into an ExponentialConfig.
func LoadExponentialConfig(data []byte) (ExponentialConfig, error) {
	var cfg ExponentialConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ExponentialConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Options converts the set fields to ExponentialOptions.
func (c ExponentialConfig) Options() []ExponentialOption {
	var opts []ExponentialOption
	if c.InitialInterval != 0 {
		opts = append(opts, WithInitialInterval(c.InitialInterval))
	}
	if c.RandomizationFactor != nil {
		opts = append(opts, WithRandomizationFactor(*c.RandomizationFactor))
	}
	if c.Multiplier != 0 {
		opts = append(opts, WithMultiplier(c.Multiplier))
	}
	if c.MaxInterval != 0 {
		opts = append(opts, WithMaxInterval(c.MaxInterval))
	}
	if c.MaxElapsedTime != nil {
		opts = append(opts, WithMaxElapsedTime(*c.MaxElapsedTime))
	}
	return opts
}

// Build creates a validated ExponentialBackoff. opts are applied after the
// config, so they can inject a clock or random source.
func (c ExponentialConfig) Build(opts ...ExponentialOption) (*ExponentialBackoff, error) {
	return NewExponential(append(c.Options(), opts...)...)
}
