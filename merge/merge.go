package merge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/dictionary"
	"github.com/teatak/lmvocab/util"
)

// ErrOutputIsInput is returned when the output table is also one of the
// inputs; creating it would truncate the input before it is read.
var ErrOutputIsInput = errors.New("merge output is one of its inputs")

// Stats summarizes a merge.
type Stats struct {
	Files        int
	MissingFiles int
	// Truncated counts inputs whose reading stopped before the end, for
	// example on a line longer than Options.MaxLineBytes.
	Truncated    int
	Lines        int64
	Accepted     int64
	Dropped      int64
	Batches      int
	Written      int64
}

type merger struct {
	opts  Options
	acc   *Accumulator
	out   *bufio.Writer
	stats Stats
}

// Merge reads the frequency tables in inputs one after another and writes a
// single table to output.
//
// Words are normalized, length filtered and summed. Without Options.Global,
// the words in memory are flushed, sorted, whenever BatchSize distinct words
// are held, so a word is unique within a flushed batch but may reappear in a
// later one. With Options.Global everything is flushed once at the end.
//
// Missing inputs and malformed lines are reported and skipped. An input whose
// reading fails midway keeps the lines read so far and is counted in
// Stats.Truncated. Only a failure to create or write output, or an output that
// is one of the inputs, is returned.
func Merge(inputs []string, output string, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	if err := checkOutput(inputs, output); err != nil {
		return Stats{}, err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Stats{}, err
		}
	}
	outFile, err := os.Create(output)
	if err != nil {
		return Stats{}, err
	}
	defer outFile.Close()

	limit := opts.BatchSize
	if opts.Global {
		limit = 0
	}
	m := &merger{opts: opts, acc: NewAccumulator(limit), out: bufio.NewWriter(outFile)}

	for i, path := range inputs {
		if !util.FileExists(path) {
			glog.Errorf("[%d/%d] %s does not exist, skipping", i+1, len(inputs), path)
			m.stats.MissingFiles++
			continue
		}
		glog.Infof("[%d/%d] merging %s", i+1, len(inputs), path)
		if err := m.mergeFile(path); err != nil {
			return m.stats, err
		}
		m.stats.Files++
	}
	if err := m.flush(); err != nil {
		return m.stats, err
	}
	if err := m.out.Flush(); err != nil {
		return m.stats, err
	}
	if err := outFile.Close(); err != nil {
		return m.stats, err
	}
	glog.Infof("merged %d files into %s: %d words in %d batches", m.stats.Files, output, m.stats.Written, m.stats.Batches)
	return m.stats, nil
}

func checkOutput(inputs []string, output string) error {
	out, err := os.Stat(output)
	if err != nil {
		return nil
	}
	for _, path := range inputs {
		in, err := os.Stat(path)
		if err == nil && os.SameFile(in, out) {
			return fmt.Errorf("%w: %s", ErrOutputIsInput, path)
		}
	}
	return nil
}

// errOutput marks errors of the output side, which abort the merge.
type errOutput struct{ err error }

func (e errOutput) Error() string { return e.err.Error() }
func (e errOutput) Unwrap() error { return e.err }

func (m *merger) mergeFile(path string) error {
	file, err := util.OpenText(path)
	if err != nil {
		glog.Errorf("cannot open %s, skipping: %v", path, err)
		return nil
	}
	defer file.Close()

	err = m.mergeReader(path, file)
	var oe errOutput
	if errors.As(err, &oe) {
		return oe.err
	}
	if errors.Is(err, bufio.ErrTooLong) {
		glog.Warningf("reading %s stopped early: a line exceeds %d bytes", path, m.opts.MaxLineBytes)
		m.stats.Truncated++
	} else if err != nil {
		glog.Errorf("reading %s stopped early: %v", path, err)
		m.stats.Truncated++
	}
	return nil
}

func (m *merger) mergeReader(name string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, m.opts.MaxLineBytes)), m.opts.MaxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		m.stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || m.opts.Filtered(line) {
			m.stats.Dropped++
			continue
		}

		rec, err := dictionary.ParseRecord(line)
		if err != nil {
			if errors.Is(err, dictionary.ErrBadFrequency) {
				glog.Warningf("%s:%d: %v", name, lineNo, err)
			} else if glog.V(1) {
				glog.Infof("%s:%d: %v", name, lineNo, err)
			}
			m.stats.Dropped++
			continue
		}

		word := m.opts.Normalize(rec.Word)
		if !m.opts.Accept(word) {
			m.stats.Dropped++
			continue
		}
		m.acc.Add(word, rec.Freq)
		m.stats.Accepted++

		if m.acc.Full() {
			if err := m.flush(); err != nil {
				return errOutput{err}
			}
		}
	}
	return scanner.Err()
}

func (m *merger) flush() error {
	if m.acc.Len() == 0 {
		return nil
	}
	records := m.acc.Drain()
	for _, r := range records {
		if err := dictionary.FormatRecord(m.out, r); err != nil {
			return fmt.Errorf("write batch %d: %w", m.stats.Batches+1, err)
		}
	}
	m.stats.Batches++
	m.stats.Written += int64(len(records))
	if glog.V(1) {
		glog.Infof("flushed batch %d with %d words", m.stats.Batches, len(records))
	}
	return nil
}
