// Package njd binds open_jtalk's NJD word list.
//
// The list lives in native memory. The set_* passes rewrite it in place;
// Update moves it into Go, lets the caller edit it, and rebuilds it.
package njd

import (
	"fmt"
	"slices"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/mecab"
	"github.com/wippyai/jtalk/native"
)

// NJD is a native NJD struct. The zero pointer means uninitialized.
// NJD is NOT thread-safe.
type NJD struct {
	lib *native.Lib
	ptr native.Ptr
}

// New returns an uninitialized NJD bound to lib.
func New(lib *native.Lib) *NJD {
	return &NJD{lib: lib}
}

// Initialize allocates and initializes the native struct.
func (n *NJD) Initialize() bool {
	if n.ptr != 0 {
		panic("njd: already initialized")
	}
	n.ptr = n.lib.Malloc(n.lib.Layout().NJDBytes)
	n.lib.NJDInitialize(n.ptr)
	return true
}

// Clear releases the list and the native struct.
func (n *NJD) Clear() bool {
	ptr := n.raw()
	n.lib.NJDClear(ptr)
	n.lib.Free(ptr)
	n.ptr = 0
	return true
}

// Raw returns the native struct pointer.
func (n *NJD) Raw() native.Ptr {
	return n.raw()
}

func (n *NJD) raw() native.Ptr {
	if n.ptr == 0 {
		panic("njd: not initialized")
	}
	return n.ptr
}

// FromMecab appends one node per entry of an analyzer feature table.
func (n *NJD) FromMecab(features mecab.FeatureTable, size int32) {
	n.lib.Mecab2NJD(n.raw(), features.Ptr(), size)
}

func (n *NJD) SetPronunciation() { n.lib.NJDSetPronunciation(n.raw()) }
func (n *NJD) SetDigit()         { n.lib.NJDSetDigit(n.raw()) }
func (n *NJD) SetAccentType()    { n.lib.NJDSetAccentType(n.raw()) }
func (n *NJD) SetAccentPhrase()  { n.lib.NJDSetAccentPhrase(n.raw()) }
func (n *NJD) SetUnvoicedVowel() { n.lib.NJDSetUnvoicedVowel(n.raw()) }
func (n *NJD) SetLongVowel()     { n.lib.NJDSetLongVowel(n.raw()) }

// Refresh empties the list.
func (n *NJD) Refresh() { n.lib.NJDRefresh(n.raw()) }

// Size returns the number of nodes.
func (n *NJD) Size() int32 { return n.lib.NJDGetSize(n.raw()) }

func (n *NJD) head(ptr native.Ptr) native.Ptr {
	return n.lib.ReadPtr(ptr + native.Ptr(n.lib.Layout().NJDHead))
}

func (n *NJD) next(node native.Ptr) native.Ptr {
	return n.lib.ReadPtr(node + native.Ptr(n.lib.Layout().Node.Next))
}

// Nodes returns a copy of the list, leaving it unchanged.
func (n *NJD) Nodes() []Node {
	ptr := n.raw()
	nodes := make([]Node, 0, n.lib.NJDGetSize(ptr))
	for p := n.head(ptr); p != 0; p = n.next(p) {
		nodes = append(nodes, decodeNode(n.lib, p))
	}
	return nodes
}

// Update replaces the list with fn applied to its contents.
//
// The nodes are moved out of native memory (every string and node freed
// once), fn receives its own copy, and the returned nodes are pushed back
// as newly allocated native nodes. If fn panics, returns a node with a NUL
// byte in a string, or pushing the result fails part way, whatever was
// pushed is freed and the original list is rebuilt before the panic
// propagates. A failure while rebuilding the original is not recovered.
func (n *NJD) Update(fn func([]Node) []Node) {
	ptr := n.raw()
	original := n.extract(ptr)

	rebuilt := false
	defer func() {
		if !rebuilt {
			n.drain(ptr)
			n.rebuild(ptr, original)
		}
	}()

	out := fn(slices.Clone(original))
	for i := range out {
		if field, bad := out[i].invalidField(); bad {
			panic(errors.InvalidInput(errors.PhaseBridge,
				fmt.Sprintf("node %d: %s contains a NUL byte", i, field)))
		}
	}

	n.rebuild(ptr, out)
	rebuilt = true
}

// extract decodes the whole list first so a decoding panic leaves it
// intact, then frees it.
func (n *NJD) extract(ptr native.Ptr) []Node {
	nodes := n.Nodes()
	n.drain(ptr)
	return nodes
}

// drain frees the list node by node. It ends empty with
// head = tail = NULL.
func (n *NJD) drain(ptr native.Ptr) {
	layout := n.lib.Layout()
	headField := ptr + native.Ptr(layout.NJDHead)
	for head := n.head(ptr); head != 0; head = n.head(ptr) {
		next := n.next(head)
		freeNode(n.lib, head)
		n.lib.WritePtr(headField, next)
	}
	n.lib.WritePtr(ptr+native.Ptr(layout.NJDTail), 0)
}

func (n *NJD) rebuild(ptr native.Ptr, nodes []Node) {
	for _, node := range nodes {
		n.lib.NJDPushNode(ptr, encodeNode(n.lib, node))
	}
}
