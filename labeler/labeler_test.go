package labeler

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/internal/testutil"
	"github.com/wippyai/jtalk/mecab"
	"github.com/wippyai/jtalk/njd"
	"github.com/wippyai/jtalk/resource"
)

func newLabeler(t *testing.T, cfg Config) *Labeler {
	t.Helper()
	_, lib := testutil.NewLib(t)
	if cfg.DictDir == "" {
		cfg.DictDir = testutil.DictDir(t)
	}
	l, err := New(lib, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return l
}

// center returns the current phoneme of a full-context label.
func center(label string) string {
	_, rest, _ := strings.Cut(label, "-")
	phone, _, _ := strings.Cut(rest, "+")
	return phone
}

func TestLabeler_ExtractFullContext(t *testing.T) {
	l := newLabeler(t, Config{})

	labels, err := l.ExtractFullContext("こんにちは")
	if err != nil {
		t.Fatalf("ExtractFullContext failed: %v", err)
	}
	if len(labels) < 3 {
		t.Fatalf("expected labels, got %q", labels)
	}
	if got := center(labels[0]); got != "sil" {
		t.Errorf("first label %q, expected sil", labels[0])
	}
	if got := center(labels[len(labels)-1]); got != "sil" {
		t.Errorf("last label %q, expected sil", labels[len(labels)-1])
	}
	var phones []string
	for _, label := range labels[1 : len(labels)-1] {
		phones = append(phones, center(label))
	}
	if got := strings.Join(phones, " "); got != "k o N n i ch i w a" {
		t.Errorf("phonemes %q", got)
	}

	again, err := l.ExtractFullContext("こんにちは")
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(labels) {
		t.Errorf("second run produced %d labels, expected %d", len(again), len(labels))
	}
}

func TestLabeler_EmptyText(t *testing.T) {
	l := newLabeler(t, Config{})

	for _, text := range []string{"", "\n\t"} {
		labels, err := l.ExtractFullContext(text)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if len(labels) != 0 {
			t.Errorf("%q: expected no labels, got %q", text, labels)
		}
	}
}

func TestLabeler_Errors(t *testing.T) {
	l := newLabeler(t, Config{})

	tests := []struct {
		name   string
		text   string
		target error
	}{
		{"nul", "a\x00b", &errors.Error{Phase: errors.PhaseNormalize, Kind: errors.KindInvalidArgument}},
		{"too long", strings.Repeat("a", 8192), &errors.Error{Phase: errors.PhaseNormalize, Kind: errors.KindRange}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.ExtractFullContext(tt.text); !errors.Is(err, tt.target) {
				t.Errorf("ExtractFullContext: got %v", err)
			}
			if _, err := l.Analyze(tt.text); !errors.Is(err, tt.target) {
				t.Errorf("Analyze: got %v", err)
			}
		})
	}

	// the resources stay usable after a failed call
	if _, err := l.ExtractFullContext("はい"); err != nil {
		t.Errorf("after errors: %v", err)
	}
}

func TestLabeler_Analyze(t *testing.T) {
	l := newLabeler(t, Config{})

	nodes, err := l.Analyze("東京へ行きます。")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected nodes")
	}
	if got := nodes[0].Surface.String(); got != "東京" {
		t.Errorf("first surface %q", got)
	}
	if got := nodes[0].Pron.String(); got != "トーキョー" {
		t.Errorf("first pron %q", got)
	}
}

func TestLabeler_Transform(t *testing.T) {
	var calls int
	l := newLabeler(t, Config{
		Transform: func(nodes []njd.Node) []njd.Node {
			calls++
			return nil
		},
	})

	labels, err := l.ExtractFullContext("こんにちは")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("transform called %d times", calls)
	}
	if len(labels) != 0 {
		t.Errorf("expected no labels after dropping every node, got %q", labels)
	}

	// Analyze reports nodes before any transform.
	nodes, err := l.Analyze("こんにちは")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) == 0 || calls != 1 {
		t.Errorf("Analyze: %d nodes, %d transform calls", len(nodes), calls)
	}
}

func TestLabeler_TransformPanicRestores(t *testing.T) {
	l := newLabeler(t, Config{
		Transform: func([]njd.Node) []njd.Node { panic("boom") },
	})

	testutil.MustPanic(t, "transform", func() { _, _ = l.ExtractFullContext("こんにちは") })

	if _, err := l.Analyze("はい"); err != nil {
		t.Errorf("after panic: %v", err)
	}
}

func TestLabeler_Lifecycle(t *testing.T) {
	_, lib := testutil.NewLib(t)
	tracker := resource.NewTracker()

	l, err := New(lib, Config{DictDir: testutil.DictDir(t), Observer: tracker})
	if err != nil {
		t.Fatal(err)
	}
	if got := tracker.Live(); got != 3 {
		t.Errorf("expected 3 live resources, got %d (%v)", got, tracker.ByKind())
	}

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if tracker.Live() != 0 || tracker.Cleared() != 3 {
		t.Errorf("after Close: live %d cleared %d", tracker.Live(), tracker.Cleared())
	}

	notInit := &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindNotInitialized}
	if _, err := l.ExtractFullContext("はい"); !errors.Is(err, notInit) {
		t.Errorf("ExtractFullContext after Close: %v", err)
	}
	if _, err := l.Analyze("はい"); !errors.Is(err, notInit) {
		t.Errorf("Analyze after Close: %v", err)
	}
}

func TestNew_LoadFailureReleases(t *testing.T) {
	dict := testutil.DictDir(t)
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name   string
		cfg    Config
		target error
	}{
		{"missing dictionary", Config{DictDir: missing}, mecab.ErrUnsuccessful},
		{"missing user dictionary", Config{DictDir: dict, UserDict: filepath.Join(missing, "user.dic")}, mecab.ErrUnsuccessful},
		{"nul in dictionary path", Config{DictDir: "dic\x00"}, mecab.ErrNul},
		{"nul in user dictionary path", Config{DictDir: dict, UserDict: "user\x00.dic"}, mecab.ErrNul},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, lib := testutil.NewLib(t)
			tracker := resource.NewTracker()
			tt.cfg.Observer = tracker

			l, err := New(lib, tt.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if l != nil {
				t.Error("expected nil labeler on error")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
			if got := tracker.Live(); got != 0 {
				t.Errorf("%d resources left live", got)
			}
			if got := tracker.Cleared(); got != 3 {
				t.Errorf("expected 3 clears, got %d", got)
			}
		})
	}
}

func TestLabeler_Concurrent(t *testing.T) {
	l := newLabeler(t, Config{})
	want, err := l.ExtractFullContext("今日は晴れです")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := l.ExtractFullContext("今日は晴れです")
			if err != nil {
				errs <- err
				return
			}
			if len(got) != len(want) {
				errs <- errors.InvalidInput(errors.PhaseLabel, "label count changed")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	b, err := OpenBackend(ctx, BackendConfig{})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if b.PointerSize() != 4 {
		t.Errorf("sim pointer size %d", b.PointerSize())
	}
	_ = b.Close(ctx)

	tests := []struct {
		name   string
		cfg    BackendConfig
		target error
	}{
		{"unknown kind", BackendConfig{Kind: "cuda"}, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindUnsupported}},
		{"wasm without path", BackendConfig{Kind: BackendWasm}, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidInput}},
		{"dynlib without path", BackendConfig{Kind: BackendDynlib}, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidInput}},
		{"wasm missing file", BackendConfig{Kind: BackendWasm, Path: filepath.Join(t.TempDir(), "open_jtalk.wasm")}, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidInput}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenBackend(ctx, tt.cfg)
			if err == nil {
				_ = b.Close(ctx)
				t.Fatal("expected error")
			}
			if b != nil {
				t.Errorf("expected nil backend, got %T", b)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("got %v", err)
			}
		})
	}
}
