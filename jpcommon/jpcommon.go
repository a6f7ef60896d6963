// Package jpcommon binds open_jtalk's JPCommon label generator.
package jpcommon

import (
	"iter"

	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/njd"
)

// JPCommon is a native JPCommon struct. The zero pointer means
// uninitialized. JPCommon is NOT thread-safe.
type JPCommon struct {
	lib *native.Lib
	ptr native.Ptr
}

// New returns an uninitialized JPCommon bound to lib.
func New(lib *native.Lib) *JPCommon {
	return &JPCommon{lib: lib}
}

// Initialize allocates and initializes the native struct.
func (j *JPCommon) Initialize() bool {
	if j.ptr != 0 {
		panic("jpcommon: already initialized")
	}
	j.ptr = j.lib.Malloc(j.lib.Layout().JPCommonBytes)
	j.lib.JPCommonInitialize(j.ptr)
	return true
}

// Clear releases the words, the labels and the native struct.
func (j *JPCommon) Clear() bool {
	ptr := j.raw()
	j.lib.JPCommonClear(ptr)
	j.lib.Free(ptr)
	j.ptr = 0
	return true
}

// Raw returns the native struct pointer.
func (j *JPCommon) Raw() native.Ptr {
	return j.raw()
}

func (j *JPCommon) raw() native.Ptr {
	if j.ptr == 0 {
		panic("jpcommon: not initialized")
	}
	return j.ptr
}

// FromNJD appends the words of n.
func (j *JPCommon) FromNJD(n *njd.NJD) {
	j.lib.NJD2JPCommon(j.raw(), n.Raw())
}

// MakeLabel generates labels from the current words.
func (j *JPCommon) MakeLabel() {
	j.lib.JPCommonMakeLabel(j.raw())
}

// LabelSize returns the number of labels; 0 before MakeLabel.
func (j *JPCommon) LabelSize() int32 {
	return j.lib.JPCommonGetLabelSize(j.raw())
}

// Labels returns the generated labels. They are absent before MakeLabel.
func (j *JPCommon) Labels() (Labels, bool) {
	ptr := j.raw()
	feature := j.lib.JPCommonGetLabelFeature(ptr)
	if feature == 0 {
		return Labels{}, false
	}
	return Labels{lib: j.lib, ptr: feature, size: j.lib.JPCommonGetLabelSize(ptr)}, true
}

// Refresh discards words and labels.
func (j *JPCommon) Refresh() {
	j.lib.JPCommonRefresh(j.raw())
}

// Labels is a read-only view of the native label array. It is valid
// until the next MakeLabel, Refresh or Clear on its JPCommon.
type Labels struct {
	lib  *native.Lib
	ptr  native.Ptr
	size int32
}

// Len returns the number of labels.
func (l Labels) Len() int32 { return l.size }

// All yields every label in order. Each call starts from the first label.
func (l Labels) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range l.lib.CStringArray(l.ptr, l.size) {
			if !yield(l.lib.GoString(p, string(native.SymJPCommonGetLabelFeats))) {
				return
			}
		}
	}
}

// Strings collects All.
func (l Labels) Strings() []string {
	out := make([]string, 0, l.size)
	for s := range l.All() {
		out = append(out, s)
	}
	return out
}
