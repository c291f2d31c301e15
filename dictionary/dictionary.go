package dictionary

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/teatak/lmvocab/util"
)

// Dictionary holds words and their cumulative frequencies.
type Dictionary struct {
	Total  int64
	Words  map[string]int64
	MaxLen int
	Loaded bool
}

// NewDictionary creates a new empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Words: make(map[string]int64),
	}
}

// Load loads words from a frequency table, summing repeated words.
// File format: word<TAB>frequency. Blank lines, '#' comments and malformed
// lines are skipped.
func (d *Dictionary) Load(path string) error {
	file, err := util.OpenText(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil || rec.Word == "" {
			continue
		}
		d.Add(rec.Word, rec.Freq)
	}
	d.Loaded = true
	return scanner.Err()
}

// Add adds freq to word.
func (d *Dictionary) Add(word string, freq int64) {
	d.Words[word] += freq
	d.Total += freq
	if n := util.RuneLen(word); n > d.MaxLen {
		d.MaxLen = n
	}
}

// Frequency returns the frequency of a word.
func (d *Dictionary) Frequency(word string) (int64, bool) {
	val, ok := d.Words[word]
	return val, ok
}

// Records returns the dictionary content sorted lexicographically by word.
func (d *Dictionary) Records() []Record {
	res := make([]Record, 0, len(d.Words))
	for w, f := range d.Words {
		res = append(res, Record{Word: w, Freq: f})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Word < res[j].Word
	})
	return res
}

// Save writes records to path, one table line each.
func Save(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, r := range records {
		if err := FormatRecord(writer, r); err != nil {
			return err
		}
	}
	return writer.Flush()
}
