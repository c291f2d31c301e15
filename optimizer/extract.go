package optimizer

import (
	"bufio"
	"sort"
	"strings"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/dictionary"
	"github.com/teatak/lmvocab/util"
)

// CountCorpus counts the words of a segmented corpus (space separated) and
// writes them as a frequency table, most frequent first. Single characters
// and words without any Chinese character are skipped. Returns the number
// of distinct words written.
func CountCorpus(corpusPath, outputPath string) (int, error) {
	file, err := util.OpenText(corpusPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	counts := make(map[string]int64)
	scanner := bufio.NewScanner(file)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		for _, w := range strings.Fields(scanner.Text()) {
			if util.RuneLen(w) <= 1 || !util.HasChinese(w) {
				continue
			}
			counts[w]++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	ss := make([]dictionary.Record, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, dictionary.Record{Word: k, Freq: v})
	}
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Freq != ss[j].Freq {
			return ss[i].Freq > ss[j].Freq
		}
		return ss[i].Word < ss[j].Word
	})

	if err := dictionary.Save(outputPath, ss); err != nil {
		return 0, err
	}
	glog.Infof("counted %d distinct words from %s into %s", len(ss), corpusPath, outputPath)
	return len(ss), nil
}
