package optimizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/golang/glog"

	"github.com/teatak/lmvocab/config"
	"github.com/teatak/lmvocab/merge"
	"github.com/teatak/lmvocab/toolchain"
)

// Result lists the artifacts of a pipeline run.
type Result struct {
	Tables  []string
	Merged  string
	Stats   merge.Stats
	Grammar string
}

// MergeOptions converts the merge section of cfg.
func MergeOptions(cfg config.Config) merge.Options {
	o := merge.DefaultOptions()
	o.BatchSize = cfg.Merge.BatchSize
	o.Global = cfg.Merge.Global
	o.MinLength = cfg.Merge.MinLength
	o.MaxLength = cfg.Merge.MaxLength
	if cfg.Merge.FilterTokens != nil {
		o.FilterTokens = cfg.Merge.FilterTokens
	}
	if cfg.Merge.MaxLineBytes > 0 {
		o.MaxLineBytes = cfg.Merge.MaxLineBytes
	}
	return o
}

// Layout converts the tables section of cfg.
func Layout(cfg config.Config) TableLayout {
	return TableLayout{Dir: cfg.Tables.Dir, NameFormat: cfg.Tables.NameFormat}
}

// Run executes the vocabulary pipeline. Each stage reads the files the
// previous one wrote; files of completed stages stay on disk when a later
// stage fails.
func Run(ctx context.Context, cfg config.Config) (Result, error) {
	var res Result
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	glog.Infof("=== Starting vocabulary pipeline ===")
	glog.Infof("Time: %s", time.Now().Format(time.RFC3339))

	// 1. Train
	if cfg.Train.Enabled {
		glog.Infof("[1/6] Training %d-gram model from %s...", cfg.Model.Order, cfg.Train.Corpus)
		tr := toolchain.Trainer{
			Binary: cfg.Train.Binary,
			Order:  cfg.Model.Order,
			TmpDir: cfg.Train.TmpDir,
			Memory: cfg.Train.Memory,
			Prune:  cfg.Train.Prune,
		}
		if err := tr.Train(ctx, cfg.Train.Corpus, cfg.Model.Path); err != nil {
			return res, fmt.Errorf("training failed: %w", err)
		}
	} else {
		glog.Infof("[1/6] Training disabled, using existing model %s", cfg.Model.Path)
	}

	// 2. Per-order tables
	glog.Infof("[2/6] Extracting per-order frequency tables (log base %s)...", cfg.LogBase())
	tables, err := ExtractTables(cfg.Model.Path, cfg.LogBase(), Layout(cfg))
	res.Tables = tables
	if err != nil {
		return res, fmt.Errorf("extraction failed: %w", err)
	}

	// Tables of orders 1..N are expected even if the model lacks some; the
	// merge reports and skips the missing ones.
	inputs := Layout(cfg).Paths(cfg.Model.Order)
	for _, t := range tables {
		if !slices.Contains(inputs, t) {
			inputs = append(inputs, t)
		}
	}

	// 3. Corpus counts
	if cfg.Merge.CorpusCounts {
		glog.Infof("[3/6] Counting words of %s...", cfg.Train.Corpus)
		counted := filepath.Join(cfg.Tables.Dir, "corpus_counts.tmp.txt")
		if _, err := CountCorpus(cfg.Train.Corpus, counted); err != nil {
			glog.Warningf("corpus counting failed, continuing without it: %v", err)
		} else {
			inputs = append(inputs, counted)
			defer os.Remove(counted)
		}
	} else {
		glog.Infof("[3/6] Corpus counts disabled")
	}
	inputs = append(inputs, cfg.Merge.ExtraInputs...)

	// 4. Merge
	glog.Infof("[4/6] Merging %d tables into %s...", len(inputs), cfg.Merge.Output)
	stats, err := merge.Merge(inputs, cfg.Merge.Output, MergeOptions(cfg))
	res.Stats = stats
	if err != nil {
		return res, fmt.Errorf("merge failed: %w", err)
	}
	res.Merged = cfg.Merge.Output

	// 5. Clean
	if cfg.Merge.PruneRatio > 0 {
		glog.Infof("[5/6] Pruning substring noise (ratio %.2f)...", cfg.Merge.PruneRatio)
		tmp := cfg.Merge.Output + ".clean.tmp"
		if _, err := CleanTable(cfg.Merge.Output, tmp, cfg.Merge.PruneRatio); err != nil {
			os.Remove(tmp)
			return res, fmt.Errorf("clean failed: %w", err)
		}
		if err := os.Rename(tmp, cfg.Merge.Output); err != nil {
			return res, fmt.Errorf("failed to move clean table: %w", err)
		}
	} else {
		glog.Infof("[5/6] Pruning disabled")
	}

	// 6. Grammar
	if cfg.Grammar.Enabled {
		glog.Infof("[6/6] Compiling %s grammar...", cfg.Grammar.Language)
		c := toolchain.Compiler{
			Binary:     cfg.Grammar.Binary,
			Language:   cfg.Grammar.Language,
			OutputName: cfg.Grammar.OutputName,
			WorkDir:    cfg.Grammar.WorkDir,
		}
		merged, err := filepath.Abs(cfg.Merge.Output)
		if err != nil {
			return res, err
		}
		out, err := c.Compile(ctx, merged)
		if err != nil {
			return res, fmt.Errorf("grammar compilation failed: %w", err)
		}
		res.Grammar = out
	} else {
		glog.Infof("[6/6] Grammar compilation disabled")
	}

	glog.Infof("=== Vocabulary pipeline completed ===")
	return res, nil
}
