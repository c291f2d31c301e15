package dictionary

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrNoSeparator is returned for a table line without a tab.
	ErrNoSeparator = errors.New("missing tab separator")
	// ErrBadFrequency is returned when the frequency field is not a non-negative integer.
	ErrBadFrequency = errors.New("invalid frequency")
)

// Record is one line of a frequency table: "word\tfrequency".
type Record struct {
	Word string
	Freq int64
}

// ParseRecord splits a table line into its word and frequency.
// The word is the first tab-separated field and the frequency the last one,
// so lines carrying extra columns still parse.
func ParseRecord(line string) (Record, error) {
	i := strings.IndexByte(line, '\t')
	if i < 0 {
		return Record{}, ErrNoSeparator
	}
	word := line[:i]
	raw := strings.TrimSpace(line[strings.LastIndexByte(line, '\t')+1:])
	freq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || freq < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrBadFrequency, raw)
	}
	return Record{Word: word, Freq: freq}, nil
}

// FormatRecord writes r as a single table line.
func FormatRecord(w io.Writer, r Record) error {
	_, err := fmt.Fprintf(w, "%s\t%d\n", r.Word, r.Freq)
	return err
}
