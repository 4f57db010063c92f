// Cinematch - Joint Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type limitsSection struct {
	Neighbors int     `koanf:"neighbors" validate:"min=1,max=1000"`
	Fill      float64 `koanf:"neutral_fill" validate:"gte=0,lte=5"`
	Strategy  string  `koanf:"default_strategy" validate:"required,strategy"`
}

type loggingSection struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type testConfig struct {
	Name      string         `koanf:"name" validate:"required,min=2"`
	Recommend limitsSection  `koanf:"recommend"`
	Logging   loggingSection `koanf:"logging"`
	Internal  int            `koanf:"-" validate:"gte=0"`
}

func validTestConfig() testConfig {
	return testConfig{
		Name:      "cinematch",
		Recommend: limitsSection{Neighbors: 50, Fill: 2.5, Strategy: "hybrid"},
		Logging:   loggingSection{Level: "info", Format: "json"},
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	cfg := validTestConfig()
	if err := ValidateStruct(&cfg); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}

	for _, s := range []string{"intersection", "weighted", "least_misery", " Hybrid "} {
		cfg.Recommend.Strategy = s
		if err := ValidateStruct(&cfg); err != nil {
			t.Errorf("strategy %q rejected: %v", s, err)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*testConfig)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing name",
			mutate:    func(c *testConfig) { c.Name = "" },
			wantField: "name",
			wantTag:   "required",
			wantMsg:   "name is required",
		},
		{
			name:      "short string",
			mutate:    func(c *testConfig) { c.Name = "x" },
			wantField: "name",
			wantTag:   "min",
			wantMsg:   "name must be at least 2 characters",
		},
		{
			name:      "numeric min",
			mutate:    func(c *testConfig) { c.Recommend.Neighbors = 0 },
			wantField: "recommend.neighbors",
			wantTag:   "min",
			wantMsg:   "recommend.neighbors must be at least 1",
		},
		{
			name:      "numeric max",
			mutate:    func(c *testConfig) { c.Recommend.Neighbors = 5000 },
			wantField: "recommend.neighbors",
			wantTag:   "max",
			wantMsg:   "recommend.neighbors must be at most 1000",
		},
		{
			name:      "lte",
			mutate:    func(c *testConfig) { c.Recommend.Fill = 6 },
			wantField: "recommend.neutral_fill",
			wantTag:   "lte",
			wantMsg:   "recommend.neutral_fill must be less than or equal to 5",
		},
		{
			name:      "unknown strategy",
			mutate:    func(c *testConfig) { c.Recommend.Strategy = "borda" },
			wantField: "recommend.default_strategy",
			wantTag:   "strategy",
			wantMsg:   "recommend.default_strategy must be one of: intersection, weighted, least_misery, hybrid",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *testConfig) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
			wantTag:   "loglevel",
		},
		{
			name:      "oneof",
			mutate:    func(c *testConfig) { c.Logging.Format = "xml" },
			wantField: "logging.format",
			wantTag:   "oneof",
			wantMsg:   "logging.format must be one of: json console",
		},
		{
			name:      "field without koanf key",
			mutate:    func(c *testConfig) { c.Internal = -1 },
			wantField: "Internal",
			wantTag:   "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(&cfg)

			err := ValidateStruct(&cfg)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	cfg := validTestConfig()
	cfg.Name = ""
	cfg.Recommend.Neighbors = 0
	cfg.Logging.Format = "xml"

	err := ValidateStruct(&cfg)
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	want := []string{"name", "recommend.neighbors", "logging.format"}
	if got := err.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
	if strings.Count(err.Error(), ";") != 2 {
		t.Errorf("Error() = %q, want three messages joined by ';'", err.Error())
	}

	var target *RequestValidationError
	var asErr error = err
	if !errors.As(asErr, &target) {
		t.Error("errors.As should find *RequestValidationError")
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	err := ValidateStruct(42)
	if err == nil {
		t.Fatal("ValidateStruct(42) = nil, want error")
	}
	if errs := err.Errors(); len(errs) != 1 || errs[0].Field() != "unknown" {
		t.Errorf("Errors() = %v", errs)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q, want 'validation failed'", ve.Error())
	}
}

func TestValidationError_Accessors(t *testing.T) {
	cfg := validTestConfig()
	cfg.Recommend.Neighbors = 5000

	errs := ValidateStruct(&cfg).Errors()
	if errs[0].Param() != "1000" {
		t.Errorf("Param() = %q, want 1000", errs[0].Param())
	}
	if v, ok := errs[0].Value().(int); !ok || v != 5000 {
		t.Errorf("Value() = %v, want 5000", errs[0].Value())
	}
}
