// Package testutil holds helpers shared by the binding tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/native/sim"
)

// DictionaryFiles are the files of a compiled open_jtalk dictionary.
var DictionaryFiles = []string{"char.bin", "matrix.bin", "sys.dic", "unk.dic"}

// NewLib creates a simulated collaborator and fails the test if any
// allocation is still live when the test ends.
func NewLib(t *testing.T, opts ...sim.Option) (*sim.Backend, *native.Lib) {
	t.Helper()
	b := sim.New(opts...)
	t.Cleanup(func() {
		if live := b.Heap().Live(); live != 0 {
			t.Errorf("%d native allocations leaked", live)
		}
		_ = b.Close(context.Background())
	})
	return b, native.New(b)
}

// DictDir creates a directory laid out like an open_jtalk dictionary.
func DictDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "dict")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range DictionaryFiles {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// MustPanic fails the test unless fn panics.
func MustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}
