// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() is invalid: %v", err)
	}
	o := cfg.SearchOptions()
	if o.Weight != 1.5 || o.StartWeight != 5 || o.WeightDecrement != 1 {
		t.Errorf("SearchOptions() = %+v", o)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`
limits:
  max_expansions: 50000
  time_limit: 30s
strategy:
  weight: 2.5
telemetry:
  trace: stderr
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Limits.MaxExpansions != 50000 {
		t.Errorf("MaxExpansions = %d", cfg.Limits.MaxExpansions)
	}
	if cfg.Limits.TimeLimit != 30*time.Second {
		t.Errorf("TimeLimit = %v", cfg.Limits.TimeLimit)
	}
	if cfg.Strategy.Weight != 2.5 {
		t.Errorf("Weight = %v", cfg.Strategy.Weight)
	}
	if cfg.Strategy.StartWeight != 5 {
		t.Errorf("StartWeight = %v, want the default", cfg.Strategy.StartWeight)
	}
	if cfg.Telemetry.Trace != "stderr" {
		t.Errorf("Trace = %q", cfg.Telemetry.Trace)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"weight below one", "strategy:\n  weight: 0.5\n", true},
		{"negative limit", "limits:\n  max_expansions: -1\n", true},
		{"unknown exporter", "telemetry:\n  trace: jaeger\n", true},
		{"bad level", "logging:\n  level: loud\n", true},
		{"unknown field", "strategy:\n  wieght: 2\n", false},
		{"not yaml", "strategy: [", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() succeeded")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Parse(nil) = %+v", cfg)
	}
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDefault(&buf); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	cfg, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(WriteDefault()) error = %v\n%s", err, buf.String())
	}
	if cfg != DefaultConfig() {
		t.Errorf("round trip = %+v", cfg)
	}
}
