package arpa

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/teatak/lmvocab/util"
)

// Base is the logarithm base the model's log-probabilities are stored in.
type Base int

const (
	// Base10 is the ARPA convention (SRILM, KenLM lmplz).
	Base10 Base = iota
	// BaseE treats log-probabilities as natural logarithms.
	BaseE
)

// ParseBase parses "10", "e" or "ln".
func ParseBase(s string) (Base, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "10":
		return Base10, nil
	case "e", "ln":
		return BaseE, nil
	}
	return Base10, fmt.Errorf("unknown log base %q", s)
}

func (b Base) String() string {
	if b == BaseE {
		return "e"
	}
	return "10"
}

// Prob converts a stored log-probability to a probability.
func (b Base) Prob(logProb float64) float64 {
	if b == BaseE {
		return math.Exp(logProb)
	}
	return math.Pow(10, logProb)
}

// Entry is one n-gram of the model.
type Entry struct {
	Order   int
	Tokens  string
	LogProb float64
	Prob    float64
}

var (
	sectionLine = regexp.MustCompile(`^\\(\d+)-grams:$`)
	entryLine   = regexp.MustCompile(`^([-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)\t(.+?)(?:\t[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)?$`)
)

// Stream yields the entries of a model one at a time. It reads the input
// once and cannot be restarted: after Next returns false the stream is
// exhausted and stays so.
type Stream struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	base      Base
	order     int
	cur       Entry
	err       error
	exhausted bool
}

// Open opens the model at path for streaming.
func Open(path string, base Base) (*Stream, error) {
	file, err := util.OpenText(path)
	if err != nil {
		return nil, err
	}
	s := NewStream(file, base)
	s.closer = file
	return s, nil
}

// NewStream streams entries from r.
func NewStream(r io.Reader, base Base) *Stream {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	return &Stream{scanner: scanner, base: base}
}

// Next advances to the next entry. Section headers update the current order;
// lines that are not entries, and entries seen before any section, are skipped.
func (s *Stream) Next() bool {
	if s.exhausted {
		return false
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if m := sectionLine.FindStringSubmatch(line); m != nil {
			if order, err := strconv.Atoi(m[1]); err == nil {
				s.order = order
			}
			continue
		}
		m := entryLine.FindStringSubmatch(line)
		if m == nil || s.order < 1 {
			continue
		}
		logProb, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		s.cur = Entry{
			Order:   s.order,
			Tokens:  strings.TrimSpace(m[2]),
			LogProb: logProb,
			Prob:    s.base.Prob(logProb),
		}
		return true
	}
	s.err = s.scanner.Err()
	s.exhausted = true
	s.cur = Entry{}
	s.Close()
	return false
}

// Entry returns the entry produced by the last successful Next.
func (s *Stream) Entry() Entry { return s.cur }

// Order returns the order of the section being read.
func (s *Stream) Order() int { return s.order }

// Exhausted reports whether the stream reached its end.
func (s *Stream) Exhausted() bool { return s.exhausted }

// Err returns the first read error, if any.
func (s *Stream) Err() error { return s.err }

// Close releases the underlying file. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
