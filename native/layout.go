package native

// NodeLayout holds the field offsets of NJDNode.
type NodeLayout struct {
	Surface   uint32 // char *string
	Pos       uint32
	PosGroup1 uint32
	PosGroup2 uint32
	PosGroup3 uint32
	CType     uint32
	CForm     uint32
	Orig      uint32
	Read      uint32
	Pron      uint32
	Acc       uint32 // int
	MoraSize  uint32 // int
	ChainRule uint32
	ChainFlag uint32 // int
	Prev      uint32
	Next      uint32
	Size      uint32
}

// StringFields returns the offsets of every char* field in declaration order.
func (n NodeLayout) StringFields() []uint32 {
	return []uint32{
		n.Surface, n.Pos, n.PosGroup1, n.PosGroup2, n.PosGroup3,
		n.CType, n.CForm, n.Orig, n.Read, n.Pron, n.ChainRule,
	}
}

// Layout describes the collaborator's structs for one pointer size.
type Layout struct {
	PtrSize uint32

	// Mecab
	MecabFeature uint32 // char **feature
	MecabSize    uint32 // int size
	MecabBytes   uint32

	// NJD
	NJDHead  uint32
	NJDTail  uint32
	NJDBytes uint32

	// JPCommon
	JPCommonLabel uint32
	JPCommonBytes uint32

	Node NodeLayout
}

const intSize = 4

func align(offset, to uint32) uint32 {
	return (offset + to - 1) &^ (to - 1)
}

// NewLayout computes struct layouts for pointers of ptrSize bytes (4 or 8).
func NewLayout(ptrSize uint32) Layout {
	if ptrSize != 4 && ptrSize != 8 {
		panic("native: unsupported pointer size")
	}
	l := Layout{PtrSize: ptrSize}

	// typedef struct _Mecab { char **feature; int size; void *model; void *tagger; void *lattice; }
	l.MecabFeature = 0
	l.MecabSize = ptrSize
	model := align(l.MecabSize+intSize, ptrSize)
	l.MecabBytes = align(model+3*ptrSize, ptrSize)

	// typedef struct _NJD { NJDNode *head; NJDNode *tail; }
	l.NJDHead = 0
	l.NJDTail = ptrSize
	l.NJDBytes = 2 * ptrSize

	// typedef struct _JPCommon { JPCommonNode *head; JPCommonNode *tail; JPCommonLabel *label; }
	l.JPCommonLabel = 2 * ptrSize
	l.JPCommonBytes = 3 * ptrSize

	var n NodeLayout
	off := uint32(0)
	ptr := func() uint32 {
		off = align(off, ptrSize)
		at := off
		off += ptrSize
		return at
	}
	num := func() uint32 {
		off = align(off, intSize)
		at := off
		off += intSize
		return at
	}
	n.Surface = ptr()
	n.Pos = ptr()
	n.PosGroup1 = ptr()
	n.PosGroup2 = ptr()
	n.PosGroup3 = ptr()
	n.CType = ptr()
	n.CForm = ptr()
	n.Orig = ptr()
	n.Read = ptr()
	n.Pron = ptr()
	n.Acc = num()
	n.MoraSize = num()
	n.ChainRule = ptr()
	n.ChainFlag = num()
	n.Prev = ptr()
	n.Next = ptr()
	n.Size = align(off, ptrSize)
	l.Node = n

	return l
}
