// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the run configuration of the search tools.
//
// A configuration file is optional. Values it omits keep the defaults of
// DefaultConfig, and command-line flags override both.
package config

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/heursearch/services/search"
)

// ErrInvalidConfig indicates a configuration that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full run configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Limits    LimitsConfig    `yaml:"limits"`
	Strategy  StrategyConfig  `yaml:"strategy"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Results   ResultsConfig   `yaml:"results"`
}

// LoggingConfig controls the stderr logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=auto text json"`
	Dir    string `yaml:"dir,omitempty"`
}

// LimitsConfig bounds every search run. Zero disables a limit.
type LimitsConfig struct {
	MaxExpansions int64         `yaml:"max_expansions" validate:"gte=0"`
	TimeLimit     time.Duration `yaml:"time_limit" validate:"gte=0"`
}

// StrategyConfig holds the default strategy weights.
type StrategyConfig struct {
	Weight          float64 `yaml:"weight" validate:"gte=1"`
	StartWeight     float64 `yaml:"start_weight" validate:"gte=1"`
	WeightDecrement float64 `yaml:"weight_decrement" validate:"gt=0"`
	CostWeight      float64 `yaml:"cost_weight" validate:"gte=0"`
	TimeWeight      float64 `yaml:"time_weight" validate:"gte=0"`
}

// TelemetryConfig selects span and metric export.
type TelemetryConfig struct {
	// Trace is "none" or "stderr".
	Trace string `yaml:"trace" validate:"oneof=none stderr"`

	// MetricsFile, when set, receives the Prometheus text exposition of
	// the run's metrics.
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// ResultsConfig locates the results database. Empty disables it.
type ResultsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

var configValidate = validator.New()

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	o := search.DefaultOptions()
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "auto"},
		Strategy: StrategyConfig{
			Weight:          o.Weight,
			StartWeight:     o.StartWeight,
			WeightDecrement: o.WeightDecrement,
			CostWeight:      o.CostWeight,
			TimeWeight:      o.TimeWeight,
		},
		Telemetry: TelemetryConfig{Trace: "none"},
	}
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

// SearchOptions converts the strategy and limit settings to search options.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		Weight:          c.Strategy.Weight,
		StartWeight:     c.Strategy.StartWeight,
		WeightDecrement: c.Strategy.WeightDecrement,
		CostWeight:      c.Strategy.CostWeight,
		TimeWeight:      c.Strategy.TimeWeight,
		Limits: search.Limits{
			MaxExpansions: c.Limits.MaxExpansions,
			TimeLimit:     c.Limits.TimeLimit,
		},
	}
}
