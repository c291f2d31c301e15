package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/optimizer"
)

func main() {
	inputPath := flag.String("input", "merge1_2_3.txt", "Input table path")
	outputPath := flag.String("output", "merge_clean.txt", "Output table path")
	ratio := flag.Float64("ratio", 0.9, "Frequency ratio threshold (if Freq(Super)/Freq(Sub) >= ratio, prune Sub)")
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	glog.Infof("Cleaning %s...", *inputPath)
	n, err := optimizer.CleanTable(*inputPath, *outputPath, *ratio)
	if err != nil {
		glog.Errorf("Failed to clean table: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	fmt.Printf("Kept %d words. Saved to %s\n", n, *outputPath)
}
