// Command arpa2freq writes one "tokens\tfrequency" table per n-gram order of
// an ARPA language model.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/arpa"
	"github.com/teatak/lmvocab/optimizer"
)

func main() {
	inputPath := flag.String("input", "log.arpa", "Path to the ARPA language model")
	outDir := flag.String("dir", ".", "Directory for the per-order tables")
	nameFormat := flag.String("name", optimizer.DefaultNameFormat, "Table file name format (%d is the order)")
	logBase := flag.String("log-base", "10", "Log base of the model: 10 or e")
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	base, err := arpa.ParseBase(*logBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	paths, err := optimizer.ExtractTables(*inputPath, base, optimizer.TableLayout{Dir: *outDir, NameFormat: *nameFormat})
	if err != nil {
		glog.Errorf("extraction failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}
