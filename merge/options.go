// Package merge combines frequency tables into a single filtered vocabulary
// table while keeping at most a bounded number of words in memory.
package merge

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/teatak/lmvocab/util"
)

// DefaultBatchSize bounds the number of distinct words held before a flush.
const DefaultBatchSize = 20000

// DefaultMaxLineBytes is the longest input line a merge reads.
const DefaultMaxLineBytes = 1024 * 1024

// Options configures a merge.
type Options struct {
	// BatchSize is the number of distinct words that triggers a flush.
	BatchSize int
	// Global keeps every word until the end so each appears exactly once
	// in the output. Memory then grows with the vocabulary, not BatchSize.
	Global bool
	// MinLength and MaxLength bound the character length of kept words.
	MinLength int
	MaxLength int
	// FilterTokens drop any line containing one of them.
	FilterTokens []string
	StartMarker  string
	EndMarker    string
	Sentinel     string
	// MaxLineBytes caps a single input line. Reading an input stops at the
	// first longer line.
	MaxLineBytes int
}

// DefaultOptions returns the settings used for input-method grammars.
func DefaultOptions() Options {
	return Options{
		BatchSize:    DefaultBatchSize,
		MinLength:    2,
		MaxLength:    8,
		FilterTokens: []string{"<unk>"},
		StartMarker:  "<s>",
		EndMarker:    "</s>",
		Sentinel:     "$",
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.MinLength <= 0 {
		o.MinLength = d.MinLength
	}
	if o.MaxLength <= 0 {
		o.MaxLength = d.MaxLength
	}
	if o.FilterTokens == nil {
		o.FilterTokens = d.FilterTokens
	}
	if o.StartMarker == "" {
		o.StartMarker = d.StartMarker
	}
	if o.EndMarker == "" {
		o.EndMarker = d.EndMarker
	}
	if o.Sentinel == "" {
		o.Sentinel = d.Sentinel
	}
	if o.MaxLineBytes <= 0 {
		o.MaxLineBytes = d.MaxLineBytes
	}
	return o
}

// Normalize turns a table word into its vocabulary form: token spacing is
// removed, the start marker dropped and the end marker replaced by the
// sentinel.
func (o Options) Normalize(raw string) string {
	w := strings.ReplaceAll(raw, " ", "")
	if o.StartMarker != "" {
		w = strings.ReplaceAll(w, o.StartMarker, "")
	}
	if o.EndMarker != "" {
		w = strings.ReplaceAll(w, o.EndMarker, o.Sentinel)
	}
	return norm.NFC.String(w)
}

// Accept reports whether a normalized word has an allowed length.
func (o Options) Accept(word string) bool {
	n := util.RuneLen(word)
	return n >= o.MinLength && n <= o.MaxLength
}

// Filtered reports whether line carries one of the filter tokens.
func (o Options) Filtered(line string) bool {
	for _, tok := range o.FilterTokens {
		if tok != "" && strings.Contains(line, tok) {
			return true
		}
	}
	return false
}
