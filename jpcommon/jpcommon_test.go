package jpcommon

import (
	"strings"
	"testing"

	"github.com/wippyai/jtalk/internal/testutil"
	"github.com/wippyai/jtalk/mecab"
	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/native/sim"
	"github.com/wippyai/jtalk/njd"
	"github.com/wippyai/jtalk/resource"
	"github.com/wippyai/jtalk/text2mecab"
)

func acquire[R resource.Resource](t *testing.T, r R) R {
	t.Helper()
	m, err := resource.Acquire(r)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m.Get()
}

func TestJPCommon_Preconditions(t *testing.T) {
	_, lib := testutil.NewLib(t)
	j := New(lib)
	testutil.MustPanic(t, "label size before initialize", func() { j.LabelSize() })

	j.Initialize()
	testutil.MustPanic(t, "double initialize", func() { j.Initialize() })
	j.Clear()
	testutil.MustPanic(t, "double clear", func() { j.Clear() })
}

func TestJPCommon_BeforeMakeLabel(t *testing.T) {
	_, lib := testutil.NewLib(t)
	j := acquire(t, New(lib))

	if j.LabelSize() != 0 {
		t.Errorf("expected 0 labels, got %d", j.LabelSize())
	}
	if _, ok := j.Labels(); ok {
		t.Error("expected labels to be absent")
	}
	j.Refresh()
}

// labels runs the whole chain over text.
func labels(t *testing.T, lib *native.Lib, text string) *JPCommon {
	t.Helper()
	m := acquire(t, mecab.New(lib))
	if err := m.Load(testutil.DictDir(t)); err != nil {
		t.Fatal(err)
	}
	normalized, err := text2mecab.Normalize(lib, text)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Analysis(normalized) {
		t.Fatal("analysis failed")
	}
	features, _ := m.Features()

	n := acquire(t, njd.New(lib))
	n.FromMecab(features, m.Size())
	n.SetPronunciation()
	n.SetDigit()
	n.SetAccentType()
	n.SetAccentPhrase()
	n.SetUnvoicedVowel()
	n.SetLongVowel()

	j := acquire(t, New(lib))
	j.FromNJD(n)
	j.MakeLabel()
	return j
}

func TestJPCommon_MakeLabel(t *testing.T) {
	for _, ptrSize := range []uint32{4, 8} {
		_, lib := testutil.NewLib(t, sim.WithPointerSize(ptrSize))
		j := labels(t, lib, "こんにちは")

		size := j.LabelSize()
		if size <= 0 {
			t.Fatalf("ptr %d: expected labels, got %d", ptrSize, size)
		}
		l, ok := j.Labels()
		if !ok {
			t.Fatalf("ptr %d: expected labels", ptrSize)
		}
		got := l.Strings()
		if int32(len(got)) != size || l.Len() != size {
			t.Fatalf("ptr %d: decoded %d labels, size %d", ptrSize, len(got), size)
		}
		if !strings.Contains(got[0], "-sil+") || !strings.Contains(got[len(got)-1], "-sil+") {
			t.Errorf("ptr %d: expected silence at both ends: %q ... %q", ptrSize, got[0], got[len(got)-1])
		}

		j.Refresh()
		if j.LabelSize() != 0 {
			t.Errorf("ptr %d: expected no labels after refresh", ptrSize)
		}
		if _, ok := j.Labels(); ok {
			t.Errorf("ptr %d: expected labels absent after refresh", ptrSize)
		}
	}
}

func TestLabels_Restartable(t *testing.T) {
	_, lib := testutil.NewLib(t)
	j := labels(t, lib, "今日は")
	l, ok := j.Labels()
	if !ok {
		t.Fatal("expected labels")
	}

	first := l.Strings()
	second := l.Strings()
	if strings.Join(first, "\n") != strings.Join(second, "\n") {
		t.Error("second pass differs from the first")
	}

	n := 0
	for range l.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early stop yielded %d labels", n)
	}
	if got := len(l.Strings()); got != len(first) {
		t.Errorf("sequence not restarted after early stop: %d of %d", got, len(first))
	}
}
