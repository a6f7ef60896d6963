package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func dictDirFixture(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "dict")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"char.bin", "matrix.bin", "sys.dic", "unk.dic"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// execute runs the command tree with flags reset to their defaults.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	reset := func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}
	reset(rootCmd)
	for _, c := range rootCmd.Commands() {
		reset(c)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLabelCommand(t *testing.T) {
	dict := dictDirFixture(t)

	out, err := execute(t, "", "label", "-d", dict, "こんにちは")
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected labels, got %q", out)
	}
	if !strings.Contains(lines[0], "-sil+") {
		t.Errorf("first label %q", lines[0])
	}

	stdinOut, err := execute(t, "こんにちは\n", "label", "-d", dict)
	if err != nil {
		t.Fatalf("label from stdin: %v", err)
	}
	if stdinOut != out {
		t.Errorf("stdin output differs:\n%s\nvs\n%s", stdinOut, out)
	}
}

func TestNodesCommand(t *testing.T) {
	dict := dictDirFixture(t)

	out, err := execute(t, "", "nodes", "-d", dict, "東京")
	if err != nil {
		t.Fatalf("nodes: %v", err)
	}
	if !strings.HasPrefix(out, "東京,名詞,") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = execute(t, "", "nodes", "--mecab", "-d", dict, "東京")
	if err != nil {
		t.Fatalf("nodes --mecab: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "EOS") {
		t.Errorf("expected MeCab output ending in EOS, got %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	dict := dictDirFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing dict flag", []string{"label", "x"}, "dict"},
		{"unknown backend", []string{"label", "--backend", "cuda", "-d", dict, "x"}, "unsupported"},
		{"missing dictionary", []string{"label", "-d", filepath.Join(dict, "nope"), "x"}, "Mecab_load"},
		{"dict-index status", []string{"dict-index", "--", "-d", dict}, "exit status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDictIndexCommand(t *testing.T) {
	dict := dictDirFixture(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "words.csv")
	userdic := filepath.Join(dir, "user.dic")
	row := "ジェイトーク,1345,1345,3000,名詞,固有名詞,一般,*,*,*,ジェイトーク,ジェイトーク,ジェイトーク,3/6,*\n"
	if err := os.WriteFile(csvPath, []byte(row), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "dict-index", "--", "-d", dict, "-u", userdic, csvPath); err != nil {
		t.Fatalf("dict-index: %v", err)
	}
	out, err := execute(t, "", "nodes", "-d", dict, "-u", userdic, "ジェイトーク")
	if err != nil {
		t.Fatalf("nodes with user dictionary: %v", err)
	}
	if !strings.HasPrefix(out, "ジェイトーク,") || strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Errorf("expected one user dictionary node, got %q", out)
	}
}
