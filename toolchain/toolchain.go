// Package toolchain runs the external programs around the vocabulary core:
// the n-gram model trainer (KenLM lmplz) and the grammar compiler.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// ErrToolFailed matches every *ToolError.
var ErrToolFailed = errors.New("external tool failed")

// ToolError reports a non-zero exit of an external program.
type ToolError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Is(target error) bool { return target == ErrToolFailed }

func (e *ToolError) Unwrap() error { return e.Err }

func run(cmd *exec.Cmd, tool string) error {
	glog.Infof("running %s", strings.Join(cmd.Args, " "))
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ToolError{Tool: tool, ExitCode: ee.ExitCode(), Err: err}
	}
	return &ToolError{Tool: tool, ExitCode: -1, Err: err}
}

func outputs(out, errOut io.Writer) (io.Writer, io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return out, errOut
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Trainer builds an ARPA model from a segmented corpus with lmplz.
type Trainer struct {
	Binary string
	Order  int
	// TmpDir holds lmplz sort buffers. It is created before and removed after training.
	TmpDir string
	Memory string
	// Prune thresholds per order, passed as --prune when not empty.
	Prune  []int
	Stdout io.Writer
	Stderr io.Writer
}

// Args returns the command line arguments for training.
func (t Trainer) Args(corpus, arpaPath, tmpDir string) []string {
	args := []string{
		"-o", strconv.Itoa(t.Order),
		"--text", corpus,
		"--arpa", arpaPath,
		"-T", tmpDir,
	}
	if t.Memory != "" {
		args = append(args, "-S", t.Memory)
	}
	if len(t.Prune) > 0 {
		args = append(args, "--prune")
		for _, p := range t.Prune {
			args = append(args, strconv.Itoa(p))
		}
	}
	return args
}

// Train runs the trainer on corpus and writes the model to arpaPath.
func (t Trainer) Train(ctx context.Context, corpus, arpaPath string) error {
	tmpDir := ExpandHome(t.TmpDir)
	if tmpDir == "" {
		dir, err := os.MkdirTemp("", "arpatmp")
		if err != nil {
			return err
		}
		tmpDir = dir
	} else if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			glog.Warningf("cannot remove %s: %v", tmpDir, err)
		}
	}()

	cmd := exec.CommandContext(ctx, t.Binary, t.Args(corpus, arpaPath, tmpDir)...)
	cmd.Stdout, cmd.Stderr = outputs(t.Stdout, t.Stderr)
	if err := run(cmd, t.Binary); err != nil {
		return err
	}
	glog.Infof("language model written to %s", arpaPath)
	return nil
}

// DefaultOutputName names the compiled grammar; %s is the language tag.
const DefaultOutputName = "wanxiang-lts-%s.gram"

// Compiler turns a merged vocabulary table into a binary grammar.
// The compiler reads the table on stdin and writes "<language>.gram" in
// its working directory, which is then renamed to OutputName.
type Compiler struct {
	Binary     string
	Language   string
	OutputName string
	WorkDir    string
	Stdout     io.Writer
	Stderr     io.Writer
}

// Compile runs the compiler on mergedPath and returns the path of the grammar.
func (c Compiler) Compile(ctx context.Context, mergedPath string) (string, error) {
	in, err := os.Open(mergedPath)
	if err != nil {
		return "", err
	}
	defer in.Close()

	cmd := exec.CommandContext(ctx, c.Binary, c.Language)
	cmd.Dir = c.WorkDir
	cmd.Stdin = in
	cmd.Stdout, cmd.Stderr = outputs(c.Stdout, c.Stderr)
	if err := run(cmd, c.Binary); err != nil {
		return "", err
	}

	name := c.OutputName
	if name == "" {
		name = DefaultOutputName
	}
	if strings.Contains(name, "%s") {
		name = fmt.Sprintf(name, c.Language)
	}
	built := filepath.Join(c.WorkDir, c.Language+".gram")
	final := filepath.Join(c.WorkDir, name)
	if err := os.Rename(built, final); err != nil {
		return "", fmt.Errorf("rename grammar: %w", err)
	}
	glog.Infof("grammar written to %s", final)
	return final, nil
}
