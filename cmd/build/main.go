// Command build runs the whole vocabulary pipeline: optional model training,
// per-order table extraction, merging, optional pruning and optional grammar
// compilation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/config"
	"github.com/teatak/lmvocab/optimizer"
	"github.com/teatak/lmvocab/util"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "lmvocab.yaml", "Path to the YAML config (skipped if the default is absent)")
	modelPath := flag.String("model", "", "ARPA model path (overrides model.path)")
	logBase := flag.String("log-base", "", "Log base of the model: 10 or e (overrides model.log_base)")
	output := flag.String("output", "", "Merged table path (overrides merge.output)")
	batchSize := flag.Int("batch-size", 0, "Distinct words held before a flush (overrides merge.batch_size)")
	global := flag.Bool("global", false, "Deduplicate across the whole run (overrides merge.global)")
	train := flag.Bool("train", false, "Train the model with lmplz first (overrides train.enabled)")
	grammar := flag.Bool("grammar", false, "Compile the grammar afterwards (overrides grammar.enabled)")
	dump := flag.Bool("dump-config", false, "Print the effective config and exit")
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	cfg := config.Defaults()
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	if explicit || util.FileExists(*configPath) {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 2
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model.Path = *modelPath
		case "log-base":
			cfg.Model.LogBase = *logBase
		case "output":
			cfg.Merge.Output = *output
		case "batch-size":
			cfg.Merge.BatchSize = *batchSize
		case "global":
			cfg.Merge.Global = *global
		case "train":
			cfg.Train.Enabled = *train
		case "grammar":
			cfg.Grammar.Enabled = *grammar
		}
	})

	if *dump {
		b, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(b)
		return 0
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := optimizer.Run(ctx, cfg)
	if err != nil {
		glog.Errorf("pipeline failed: %v", err)
		return 1
	}
	fmt.Printf("Merged %d words into %s\n", res.Stats.Written, res.Merged)
	if res.Grammar != "" {
		fmt.Printf("Grammar saved to %s\n", res.Grammar)
	}
	return 0
}
