package njd

import (
	"github.com/wippyai/jtalk/native"
)

// Node is one word of the NJD list, owned by Go.
type Node struct {
	Surface   Text
	Pos       Text
	PosGroup1 Text
	PosGroup2 Text
	PosGroup3 Text
	CType     Text
	CForm     Text
	Orig      Text
	Read      Text
	Pron      Text
	Acc       int32
	MoraSize  int32
	ChainRule Text
	ChainFlag int32
}

type textField struct {
	name string
	off  uint32
	text *Text
}

func (n *Node) texts(l native.NodeLayout) []textField {
	return []textField{
		{"string", l.Surface, &n.Surface},
		{"pos", l.Pos, &n.Pos},
		{"pos_group1", l.PosGroup1, &n.PosGroup1},
		{"pos_group2", l.PosGroup2, &n.PosGroup2},
		{"pos_group3", l.PosGroup3, &n.PosGroup3},
		{"ctype", l.CType, &n.CType},
		{"cform", l.CForm, &n.CForm},
		{"orig", l.Orig, &n.Orig},
		{"read", l.Read, &n.Read},
		{"pron", l.Pron, &n.Pron},
		{"chain_rule", l.ChainRule, &n.ChainRule},
	}
}

// decodeNode copies a native node into Go memory without changing it.
func decodeNode(lib *native.Lib, p native.Ptr) Node {
	l := lib.Layout().Node
	var n Node
	for _, f := range n.texts(l) {
		s := lib.ReadPtr(p + native.Ptr(f.off))
		if s == 0 {
			continue
		}
		*f.text = Text{Value: lib.GoString(s, "NJDNode."+f.name), Valid: true}
	}
	n.Acc = lib.ReadInt(p + native.Ptr(l.Acc))
	n.MoraSize = lib.ReadInt(p + native.Ptr(l.MoraSize))
	n.ChainFlag = lib.ReadInt(p + native.Ptr(l.ChainFlag))
	return n
}

// freeNode frees every string of a native node, then the node.
func freeNode(lib *native.Lib, p native.Ptr) {
	for _, off := range lib.Layout().Node.StringFields() {
		lib.Free(lib.ReadPtr(p + native.Ptr(off)))
	}
	lib.Free(p)
}

// encodeNode allocates a native node holding freshly allocated copies of
// n's strings. prev and next are NULL. n must be representable. If an
// allocation panics, the partial node is freed.
func encodeNode(lib *native.Lib, n Node) native.Ptr {
	l := lib.Layout().Node
	p := lib.Malloc(l.Size)
	lib.NJDNodeInitialize(p)
	done := false
	defer func() {
		if !done {
			freeNode(lib, p)
		}
	}()
	for _, f := range n.texts(l) {
		var s native.Ptr
		if f.text.Valid {
			s, _ = lib.AllocCString(f.text.Value)
		}
		lib.WritePtr(p+native.Ptr(f.off), s)
	}
	lib.WriteInt(p+native.Ptr(l.Acc), n.Acc)
	lib.WriteInt(p+native.Ptr(l.MoraSize), n.MoraSize)
	lib.WriteInt(p+native.Ptr(l.ChainFlag), n.ChainFlag)
	lib.WritePtr(p+native.Ptr(l.Prev), 0)
	lib.WritePtr(p+native.Ptr(l.Next), 0)
	done = true
	return p
}

// invalidField returns the name of the first field that cannot be written
// as a C string.
func (n *Node) invalidField() (string, bool) {
	for _, f := range n.texts(native.NodeLayout{}) {
		if !f.text.representable() {
			return f.name, true
		}
	}
	return "", false
}
