package mecab

import (
	"github.com/wippyai/jtalk/native"
)

// FeatureTable is a read-only view of the analyzer's char** feature
// array. It is valid until the next Analysis, Refresh or Clear on the Mecab
// that produced it.
type FeatureTable struct {
	lib  *native.Lib
	ptr  native.Ptr
	size int32
}

// Ptr returns the native char** pointer.
func (f FeatureTable) Ptr() native.Ptr { return f.ptr }

// Len returns the number of entries.
func (f FeatureTable) Len() int32 { return f.size }

// Strings decodes every entry.
func (f FeatureTable) Strings() []string {
	ptrs := f.lib.CStringArray(f.ptr, f.size)
	out := make([]string, len(ptrs))
	for i, p := range ptrs {
		out[i] = f.lib.GoString(p, string(native.SymMecabGetFeature))
	}
	return out
}
