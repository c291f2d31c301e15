package optimizer

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/arpa"
	"github.com/teatak/lmvocab/dictionary"
)

// ErrOrderInterleaved is returned when a model section revisits a lower
// n-gram order than the one currently being written.
var ErrOrderInterleaved = errors.New("n-gram orders are not contiguous")

// DefaultNameFormat names per-order tables: ngram_1_.txt, ngram_2_.txt, ...
const DefaultNameFormat = "ngram_%d_.txt"

// TableLayout decides where the per-order tables go.
type TableLayout struct {
	Dir        string
	NameFormat string
}

// Path returns the table path for order.
func (l TableLayout) Path(order int) string {
	format := l.NameFormat
	if format == "" {
		format = DefaultNameFormat
	}
	return filepath.Join(l.Dir, fmt.Sprintf(format, order))
}

// Paths returns the table paths for orders 1..maxOrder.
func (l TableLayout) Paths(maxOrder int) []string {
	var res []string
	for o := 1; o <= maxOrder; o++ {
		res = append(res, l.Path(o))
	}
	return res
}

// EntrySource is a single-pass sequence of model entries.
type EntrySource interface {
	Next() bool
	Entry() arpa.Entry
	Err() error
}

type orderTable struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	rows   int64
}

func (t *orderTable) close() error {
	if err := t.writer.Flush(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}

// Frequency converts an entry probability to an occurrence count. Halves
// round to even.
func Frequency(prob float64, total int64) int64 {
	return int64(math.RoundToEven(prob * float64(total)))
}

// WriteOrderTables writes one "tokens\tfrequency" table per n-gram order.
// A table is created when its order first appears, so orders absent from the
// stream produce no file. Entries of one order must be contiguous and orders
// must increase; otherwise ErrOrderInterleaved stops the writer. Tables
// finished before an error are left on disk.
func WriteOrderTables(counts arpa.Counts, src EntrySource, layout TableLayout) ([]string, error) {
	if layout.Dir != "" {
		if err := os.MkdirAll(layout.Dir, 0755); err != nil {
			return nil, err
		}
	}

	var (
		paths []string
		cur   *orderTable
		order int
		total int64
	)
	closeCurrent := func() error {
		if cur == nil {
			return nil
		}
		glog.Infof("wrote %d %d-grams to %s", cur.rows, order, cur.path)
		err := cur.close()
		cur = nil
		return err
	}

	for src.Next() {
		e := src.Entry()
		if e.Order < 1 {
			glog.Warningf("skipping %q with invalid order %d", e.Tokens, e.Order)
			continue
		}
		if e.Order != order {
			if e.Order < order {
				closeCurrent()
				return paths, fmt.Errorf("%w: %d-gram %q after %d-grams", ErrOrderInterleaved, e.Order, e.Tokens, order)
			}
			if err := closeCurrent(); err != nil {
				return paths, err
			}
			order = e.Order
			path := layout.Path(order)
			file, err := os.Create(path)
			if err != nil {
				return paths, err
			}
			cur = &orderTable{path: path, file: file, writer: bufio.NewWriter(file)}
			paths = append(paths, path)

			total = counts.Total(order)
			glog.Infof("writing %d-grams to %s", order, path)
		}

		if e.Tokens == "" {
			glog.Warningf("skipping %d-gram with empty token sequence", e.Order)
			continue
		}
		rec := dictionary.Record{Word: e.Tokens, Freq: Frequency(e.Prob, total)}
		if err := dictionary.FormatRecord(cur.writer, rec); err != nil {
			closeCurrent()
			return paths, err
		}
		cur.rows++
	}
	if err := closeCurrent(); err != nil {
		return paths, err
	}
	return paths, src.Err()
}

// ExtractTables reads the model header, then streams the model into
// per-order tables. A missing model is reported and produces no tables.
func ExtractTables(modelPath string, base arpa.Base, layout TableLayout) ([]string, error) {
	counts := arpa.ReadCounts(modelPath)
	glog.Infof("model %s declares orders %v", modelPath, counts.Orders())

	stream, err := arpa.Open(modelPath, base)
	if err != nil {
		if os.IsNotExist(err) {
			glog.Errorf("language model %s not found, no tables written", modelPath)
			return nil, nil
		}
		return nil, err
	}
	defer stream.Close()

	return WriteOrderTables(counts, stream, layout)
}
