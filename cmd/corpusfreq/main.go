package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/optimizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to the segmented corpus file (space separated)")
	outputPath := flag.String("output", "corpus_freq.txt", "Path to save the frequency table")
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	if *inputPath == "" {
		fmt.Println("Please provide an input file using -input flag")
		os.Exit(2)
	}

	n, err := optimizer.CountCorpus(*inputPath, *outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error counting corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Found %d unique words. Table saved to %s\n", n, *outputPath)
}
