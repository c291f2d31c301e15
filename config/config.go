// Package config holds the run-time settings of the vocabulary pipeline.
// Settings come from defaults, then a YAML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teatak/lmvocab/arpa"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is read once and not modified while the pipeline runs.
type Config struct {
	Model   Model   `yaml:"model"`
	Tables  Tables  `yaml:"tables"`
	Merge   Merge   `yaml:"merge"`
	Train   Train   `yaml:"train"`
	Grammar Grammar `yaml:"grammar"`
}

// Model describes the ARPA language model.
type Model struct {
	Path    string `yaml:"path"`
	Order   int    `yaml:"order"`
	LogBase string `yaml:"log_base"`
}

// Tables places the per-order frequency tables.
type Tables struct {
	Dir        string `yaml:"dir"`
	NameFormat string `yaml:"name_format"`
}

// Merge configures the merged vocabulary table.
type Merge struct {
	Output       string   `yaml:"output"`
	BatchSize    int      `yaml:"batch_size"`
	Global       bool     `yaml:"global"`
	MinLength    int      `yaml:"min_length"`
	MaxLength    int      `yaml:"max_length"`
	FilterTokens []string `yaml:"filter_tokens"`
	// ExtraInputs are merged after the per-order tables.
	ExtraInputs []string `yaml:"extra_inputs,omitempty"`
	// CorpusCounts adds the word counts of Train.Corpus as an extra input.
	CorpusCounts bool `yaml:"corpus_counts"`
	// PruneRatio > 0 runs substring pruning on the merged table.
	PruneRatio float64 `yaml:"prune_ratio"`
	// MaxLineBytes caps input lines; 0 keeps the merge default.
	MaxLineBytes int `yaml:"max_line_bytes,omitempty"`
}

// Train configures the external model trainer.
type Train struct {
	Enabled bool   `yaml:"enabled"`
	Binary  string `yaml:"binary"`
	Corpus  string `yaml:"corpus"`
	TmpDir  string `yaml:"tmp_dir"`
	Memory  string `yaml:"memory"`
	Prune   []int  `yaml:"prune"`
}

// Grammar configures the external grammar compiler.
type Grammar struct {
	Enabled    bool   `yaml:"enabled"`
	Binary     string `yaml:"binary"`
	Language   string `yaml:"language"`
	OutputName string `yaml:"output_name"`
	WorkDir    string `yaml:"work_dir"`
}

// Defaults returns the settings of the reference pipeline.
func Defaults() Config {
	return Config{
		Model: Model{
			Path:    "log.arpa",
			Order:   3,
			LogBase: "10",
		},
		Tables: Tables{
			Dir:        ".",
			NameFormat: "ngram_%d_.txt",
		},
		Merge: Merge{
			Output:       "merge1_2_3.txt",
			BatchSize:    20000,
			MinLength:    2,
			MaxLength:    8,
			FilterTokens: []string{"<unk>"},
		},
		Train: Train{
			Binary: "lmplz",
			Corpus: "分词后.txt",
			TmpDir: "~/ARPAtmp",
			Memory: "4G",
			Prune:  []int{0, 75, 300},
		},
		Grammar: Grammar{
			Binary:     "./build_grammar",
			Language:   "zh-hans",
			OutputName: "wanxiang-lts-%s.gram",
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks value ranges and cross-field requirements.
func (c Config) Validate() error {
	if c.Model.Path == "" {
		return fmt.Errorf("%w: model.path is empty", ErrInvalidConfig)
	}
	if c.Model.Order < 1 {
		return fmt.Errorf("%w: model.order must be >= 1, got %d", ErrInvalidConfig, c.Model.Order)
	}
	if _, err := arpa.ParseBase(c.Model.LogBase); err != nil {
		return fmt.Errorf("%w: model.log_base: %v", ErrInvalidConfig, err)
	}
	if c.Merge.Output == "" {
		return fmt.Errorf("%w: merge.output is empty", ErrInvalidConfig)
	}
	if c.Merge.BatchSize < 1 {
		return fmt.Errorf("%w: merge.batch_size must be >= 1, got %d", ErrInvalidConfig, c.Merge.BatchSize)
	}
	if c.Merge.MinLength < 1 || c.Merge.MaxLength < c.Merge.MinLength {
		return fmt.Errorf("%w: merge length bounds [%d, %d]", ErrInvalidConfig, c.Merge.MinLength, c.Merge.MaxLength)
	}
	if c.Merge.PruneRatio < 0 {
		return fmt.Errorf("%w: merge.prune_ratio must be >= 0", ErrInvalidConfig)
	}
	if (c.Train.Enabled || c.Merge.CorpusCounts) && c.Train.Corpus == "" {
		return fmt.Errorf("%w: train.corpus is empty", ErrInvalidConfig)
	}
	if c.Train.Enabled && c.Train.Binary == "" {
		return fmt.Errorf("%w: train.binary is empty", ErrInvalidConfig)
	}
	if c.Grammar.Enabled && (c.Grammar.Binary == "" || c.Grammar.Language == "") {
		return fmt.Errorf("%w: grammar.binary and grammar.language are required", ErrInvalidConfig)
	}
	return nil
}

// LogBase returns the parsed model.log_base.
func (c Config) LogBase() arpa.Base {
	b, _ := arpa.ParseBase(c.Model.LogBase)
	return b
}
