package toolchain

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTrainerArgs(t *testing.T) {
	tr := Trainer{Order: 3, Memory: "4G", Prune: []int{0, 75, 300}}
	got := tr.Args("seg.txt", "log.arpa", "/tmp/x")
	want := []string{"-o", "3", "--text", "seg.txt", "--arpa", "log.arpa", "-T", "/tmp/x", "-S", "4G", "--prune", "0", "75", "300"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args = %q, want %q", got, want)
	}
}

func TestTrainerTrain(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "lmplz", `
while [ $# -gt 0 ]; do
  case "$1" in
    --arpa) out="$2"; shift ;;
    -T) tmp="$2"; shift ;;
  esac
  shift
done
[ -d "$tmp" ] || exit 4
printf 'ngram 1=1\n' > "$out"`)

	tmp := filepath.Join(dir, "sortbuf")
	arpaPath := filepath.Join(dir, "log.arpa")
	tr := Trainer{Binary: bin, Order: 2, TmpDir: tmp, Stdout: io.Discard, Stderr: io.Discard}
	if err := tr.Train(context.Background(), "corpus.txt", arpaPath); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if b, err := os.ReadFile(arpaPath); err != nil || string(b) != "ngram 1=1\n" {
		t.Errorf("model = %q, %v", b, err)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("temp dir still present: %v", err)
	}
}

func TestTrainerFailure(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "lmplz", "exit 3")
	tr := Trainer{Binary: bin, Order: 3, Stdout: io.Discard, Stderr: io.Discard}
	err := tr.Train(context.Background(), "corpus.txt", filepath.Join(dir, "log.arpa"))
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("err = %v, want ErrToolFailed", err)
	}
	var te *ToolError
	if !errors.As(err, &te) || te.ExitCode != 3 {
		t.Errorf("ToolError = %+v", te)
	}
}

func TestCompilerCompile(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "build_grammar", `cat > "$1.gram"`)
	merged := filepath.Join(dir, "merged.txt")
	if err := os.WriteFile(merged, []byte("你好\t3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := Compiler{Binary: bin, Language: "zh-hans", WorkDir: dir, Stdout: io.Discard, Stderr: io.Discard}
	out, err := c.Compile(context.Background(), merged)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if filepath.Base(out) != "wanxiang-lts-zh-hans.gram" {
		t.Errorf("output = %s", out)
	}
	if b, _ := os.ReadFile(out); string(b) != "你好\t3\n" {
		t.Errorf("grammar content = %q", b)
	}
	if _, err := os.Stat(filepath.Join(dir, "zh-hans.gram")); !os.IsNotExist(err) {
		t.Error("intermediate grammar not renamed")
	}
}

func TestCompilerFailure(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "build_grammar", "exit 1")
	merged := filepath.Join(dir, "merged.txt")
	os.WriteFile(merged, nil, 0644)

	c := Compiler{Binary: bin, Language: "zh-hans", WorkDir: dir, Stdout: io.Discard, Stderr: io.Discard}
	if _, err := c.Compile(context.Background(), merged); !errors.Is(err, ErrToolFailed) {
		t.Errorf("err = %v, want ErrToolFailed", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip(err)
	}
	if got := ExpandHome("~/ARPAtmp"); got != filepath.Join(home, "ARPAtmp") {
		t.Errorf("ExpandHome = %s", got)
	}
	if got := ExpandHome("rel/~x"); !strings.HasPrefix(got, "rel") {
		t.Errorf("ExpandHome changed %s", got)
	}
}
