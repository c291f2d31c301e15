// Command mergefreq merges frequency tables into one filtered vocabulary table.
//
// Usage:
//
//	mergefreq [flags] table...
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/merge"
)

func main() {
	outputPath := flag.String("output", "merge1_2_3.txt", "Path of the merged table")
	batchSize := flag.Int("batch-size", merge.DefaultBatchSize, "Distinct words held before a flush")
	global := flag.Bool("global", false, "Hold every word until the end so each appears once")
	minLen := flag.Int("min-length", 2, "Minimum word length in characters")
	maxLen := flag.Int("max-length", 8, "Maximum word length in characters")
	filter := flag.String("filter", "<unk>", "Comma separated tokens whose lines are dropped")
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide at least one frequency table")
		os.Exit(2)
	}

	opts := merge.DefaultOptions()
	opts.BatchSize = *batchSize
	opts.Global = *global
	opts.MinLength = *minLen
	opts.MaxLength = *maxLen
	opts.FilterTokens = nil
	for _, tok := range strings.Split(*filter, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			opts.FilterTokens = append(opts.FilterTokens, tok)
		}
	}
	if opts.FilterTokens == nil {
		opts.FilterTokens = []string{}
	}

	stats, err := merge.Merge(inputs, *outputPath, opts)
	if err != nil {
		glog.Errorf("merge failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	fmt.Printf("Merged %d words (%d batches) into %s\n", stats.Written, stats.Batches, *outputPath)
	if stats.Truncated > 0 {
		fmt.Printf("%d input(s) were only partly read, see the log\n", stats.Truncated)
	}
}
