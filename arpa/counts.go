// Package arpa reads statistical language models in the ARPA text format.
//
// An ARPA file starts with a \data\ block declaring how many entries each
// n-gram order holds ("ngram 2=200"), followed by one \N-grams: section per
// order whose lines carry "logprob<TAB>tokens[<TAB>backoff]".
package arpa

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/util"
)

// DefaultCount is used as the total of an order the header does not declare.
// Frequencies of such an order are skewed, so the table writer warns when it
// falls back to it.
const DefaultCount int64 = 1

var countLine = regexp.MustCompile(`^ngram\s+(\d+)\s*=\s*(\d+)$`)

// Counts maps an n-gram order to the number of entries the model declares for it.
type Counts map[int]int64

// ReadCounts scans the header of the model at path. Scanning stops at the
// first \1-grams: section. A model that cannot be read yields an empty Counts.
func ReadCounts(path string) Counts {
	counts := make(Counts)

	file, err := util.OpenText(path)
	if err != nil {
		glog.Errorf("cannot read language model %s: %v", path, err)
		return counts
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `\1-grams:` {
			break
		}
		m := countLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		order, err1 := strconv.Atoi(m[1])
		count, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 != nil || err2 != nil {
			glog.Warningf("ignoring header line %q", line)
			continue
		}
		counts[order] = count
	}
	if err := scanner.Err(); err != nil {
		glog.Errorf("reading header of %s: %v", path, err)
	}
	return counts
}

// Lookup returns the declared count for order.
func (c Counts) Lookup(order int) (int64, bool) {
	n, ok := c[order]
	return n, ok
}

// Total returns the declared count for order. When the header has none it
// logs a warning and returns DefaultCount.
func (c Counts) Total(order int) int64 {
	if n, ok := c[order]; ok {
		return n
	}
	glog.Warningf("no header count for %d-grams, frequencies use total %d", order, DefaultCount)
	return DefaultCount
}

// MaxOrder returns the highest declared order, or 0.
func (c Counts) MaxOrder() int {
	top := 0
	for o := range c {
		if o > top {
			top = o
		}
	}
	return top
}

// Orders returns the declared orders in ascending order.
func (c Counts) Orders() []int {
	res := make([]int, 0, len(c))
	for o := range c {
		res = append(res, o)
	}
	sort.Ints(res)
	return res
}
