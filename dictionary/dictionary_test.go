package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDictionary_Load(t *testing.T) {
	content := "南京市\t100\n长江大桥\t100\n南京\t10\n# comment\n南京\t5\nbroken line\n"
	tmpfile, err := os.CreateTemp("", "dict.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	dict := NewDictionary()
	err = dict.Load(tmpfile.Name())
	if err != nil {
		t.Errorf("Load() error = %v", err)
	}

	if dict.Total != 215 {
		t.Errorf("dict.Total = %v, want 215", dict.Total)
	}

	if dict.MaxLen != 4 { // "长江大桥" is 4 characters
		t.Errorf("dict.MaxLen = %v, want 4", dict.MaxLen)
	}

	if f, _ := dict.Frequency("南京"); f != 15 {
		t.Errorf("Frequency('南京') = %d, want 15", f)
	}
	if _, ok := dict.Frequency("南京市"); !ok {
		t.Errorf("dict should contain '南京市'")
	}
	if _, ok := dict.Frequency("上海"); ok {
		t.Errorf("dict should not contain '上海'")
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		line    string
		want    Record
		wantErr error
	}{
		{"的\t5", Record{"的", 5}, nil},
		{"你 好\t12", Record{"你 好", 12}, nil},
		{"词\t-0.5\t7", Record{"词", 7}, nil},
		{"no separator 5", Record{}, ErrNoSeparator},
		{"词\tabc", Record{}, ErrBadFrequency},
		{"词\t-3", Record{}, ErrBadFrequency},
	}
	for _, tt := range tests {
		got, err := ParseRecord(tt.line)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseRecord(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRecord(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestSaveRecords(t *testing.T) {
	dict := NewDictionary()
	dict.Add("长江", 3)
	dict.Add("南京", 2)
	dict.Add("长江", 1)

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := Save(path, dict.Records()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), "南京\t2\n长江\t4\n"; got != want {
		t.Errorf("Save content = %q, want %q", got, want)
	}

	reloaded := NewDictionary()
	if err := reloaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(reloaded.Words, dict.Words) {
		t.Errorf("reloaded words = %v, want %v", reloaded.Words, dict.Words)
	}
}
