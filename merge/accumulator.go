package merge

import (
	"sort"

	"github.com/teatak/lmvocab/dictionary"
)

// Accumulator sums frequencies per word until it is drained.
type Accumulator struct {
	words map[string]int64
	limit int
}

// NewAccumulator returns an accumulator that reports Full at limit words.
// A limit <= 0 never fills.
func NewAccumulator(limit int) *Accumulator {
	return &Accumulator{words: make(map[string]int64), limit: limit}
}

// Add adds freq to word.
func (a *Accumulator) Add(word string, freq int64) {
	a.words[word] += freq
}

// Len returns the number of distinct words held.
func (a *Accumulator) Len() int { return len(a.words) }

// Full reports whether the accumulator reached its limit.
func (a *Accumulator) Full() bool {
	return a.limit > 0 && len(a.words) >= a.limit
}

// Drain returns the held words sorted lexicographically and empties the accumulator.
func (a *Accumulator) Drain() []dictionary.Record {
	res := make([]dictionary.Record, 0, len(a.words))
	for w, f := range a.words {
		res = append(res, dictionary.Record{Word: w, Freq: f})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Word < res[j].Word
	})
	clear(a.words)
	return res
}
