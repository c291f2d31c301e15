package config

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/teatak/lmvocab/arpa"
)

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
model:
  path: data/zh.arpa
  log_base: e
merge:
  batch_size: 500
  global: true
  extra_inputs: [user.txt]
grammar:
  enabled: true
`
	cfg, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.Path != "data/zh.arpa" || cfg.LogBase() != arpa.BaseE {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.Model.Order != 3 {
		t.Errorf("order default lost: %d", cfg.Model.Order)
	}
	if cfg.Merge.BatchSize != 500 || !cfg.Merge.Global || cfg.Merge.MaxLength != 8 {
		t.Errorf("merge = %+v", cfg.Merge)
	}
	if !reflect.DeepEqual(cfg.Merge.ExtraInputs, []string{"user.txt"}) {
		t.Errorf("extra inputs = %v", cfg.Merge.ExtraInputs)
	}
	if !cfg.Grammar.Enabled || cfg.Grammar.Language != "zh-hans" {
		t.Errorf("grammar = %+v", cfg.Grammar)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("merge:\n  batchsize: 10\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Defaults()) {
		t.Errorf("empty config differs from defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"order", func(c *Config) { c.Model.Order = 0 }},
		{"base", func(c *Config) { c.Model.LogBase = "2" }},
		{"batch", func(c *Config) { c.Merge.BatchSize = 0 }},
		{"lengths", func(c *Config) { c.Merge.MinLength, c.Merge.MaxLength = 5, 3 }},
		{"corpus", func(c *Config) { c.Train.Enabled = true; c.Train.Corpus = "" }},
		{"grammar", func(c *Config) { c.Grammar.Enabled = true; c.Grammar.Language = "" }},
	}
	for _, tt := range tests {
		cfg := Defaults()
		tt.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	b, err := Marshal(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Decode(strings.NewReader(string(b)))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Defaults()) {
		t.Errorf("round trip mismatch:\n%s", b)
	}
}
