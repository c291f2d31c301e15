package optimizer

import (
	"sort"
	"strings"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/dictionary"
	"github.com/teatak/lmvocab/util"
)

// Sentinel marks the end of a sentence in vocabulary words.
const Sentinel = '$'

// CleanTable prunes substring noise from a frequency table and writes the
// remaining words sorted lexicographically. A word is dropped when a longer
// word extending it at either end carries at least ratio of its frequency,
// or when stripping one character off it yields a word more than five times
// as frequent. Repeated words are summed first. Returns the number of words kept.
func CleanTable(inputPath, outputPath string, ratio float64) (int, error) {
	dict := dictionary.NewDictionary()
	if err := dict.Load(inputPath); err != nil {
		return 0, err
	}

	var words []dictionary.Record
	for _, r := range dict.Records() {
		if r.Freq <= 0 || util.ContainsPunctuation(r.Word, Sentinel) {
			continue
		}
		words = append(words, r)
	}
	before := len(words)

	cleaned := prunePrefixes(words, ratio)
	cleaned = pruneSuffixes(cleaned, ratio)
	cleaned = pruneNoisyExtensions(cleaned)

	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].Word < cleaned[j].Word
	})
	if err := dictionary.Save(outputPath, cleaned); err != nil {
		return 0, err
	}
	glog.Infof("pruning done: %d -> %d words (removed %d)", before, len(cleaned), before-len(cleaned))
	return len(cleaned), nil
}

func pruneNoisyExtensions(words []dictionary.Record) []dictionary.Record {
	dict := dictionary.NewDictionary()
	for _, w := range words {
		dict.Add(w.Word, w.Freq)
	}

	keep := make([]bool, len(words))
	for i := range keep {
		keep[i] = true
	}

	for i, w := range words {
		runes := []rune(w.Word)
		if len(runes) <= 2 {
			continue
		}

		// Strip front: "城希尔顿" -> "希尔顿"
		front := string(runes[1:])
		if f, ok := dict.Frequency(front); ok {
			if float64(f)/float64(w.Freq) > 5.0 {
				keep[i] = false
				continue
			}
		}

		lastChar := runes[len(runes)-1]
		if isProtectedSuffix(lastChar) {
			continue
		}

		// Strip tail: "希尔顿店" -> "希尔顿"
		tail := string(runes[:len(runes)-1])
		if f, ok := dict.Frequency(tail); ok {
			if float64(f)/float64(w.Freq) > 5.0 {
				keep[i] = false
				continue
			}
		}
	}

	var res []dictionary.Record
	for i, w := range words {
		if keep[i] {
			res = append(res, w)
		}
	}
	return res
}

// The sentence sentinel is protected too: "你好$" is not noise around "你好".
func isProtectedSuffix(r rune) bool {
	protected := []rune("市省区县店站路里院校园$")
	for _, p := range protected {
		if r == p {
			return true
		}
	}
	return false
}

func prunePrefixes(words []dictionary.Record, ratio float64) []dictionary.Record {
	sort.Slice(words, func(i, j int) bool {
		return words[i].Word < words[j].Word
	})

	keep := make([]bool, len(words))
	for i := range keep {
		keep[i] = true
	}

	for i := 0; i < len(words)-1; i++ {
		curr := words[i]
		next := words[i+1]

		if strings.HasPrefix(next.Word, curr.Word) && !isSentinelOf(next.Word, curr.Word) {
			score := float64(next.Freq) / float64(curr.Freq)
			if score >= ratio {
				keep[i] = false
			}
		}
	}

	var res []dictionary.Record
	for i, w := range words {
		if keep[i] {
			res = append(res, w)
		}
	}
	return res
}

// isSentinelOf reports whether long is short followed by the sentinel.
func isSentinelOf(long, short string) bool {
	return long == short+string(Sentinel)
}

func pruneSuffixes(words []dictionary.Record, ratio float64) []dictionary.Record {
	for i := range words {
		words[i].Word = reverse(words[i].Word)
	}
	cleaned := prunePrefixes(words, ratio)
	for i := range cleaned {
		cleaned[i].Word = reverse(cleaned[i].Word)
	}
	return cleaned
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
