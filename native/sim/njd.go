package sim

import (
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/jtalk"
)

const unset = "*"

// node is a view of one NJDNode in simulated memory.
type node struct {
	b *Backend
	p jtalk.Ptr
}

func (n node) field(off uint32) jtalk.Ptr { return n.p + jtalk.Ptr(off) }

// str returns the string at a char* field; NULL reads as "*".
func (n node) str(off uint32) string {
	s := n.b.lib.ReadPtr(n.field(off))
	if s == 0 {
		return unset
	}
	return string(n.b.lib.CBytes(s))
}

// setStr replaces a char* field, freeing the previous buffer.
func (n node) setStr(off uint32, v string) {
	old := n.b.lib.ReadPtr(n.field(off))
	s, ok := n.b.lib.AllocCString(v)
	if !ok {
		panic("sim: string field contains NUL")
	}
	n.b.lib.WritePtr(n.field(off), s)
	n.b.lib.Free(old)
}

func (n node) num(off uint32) int32 { return n.b.lib.ReadInt(n.field(off)) }

func (n node) setInt(off uint32, v int32) { n.b.lib.WriteInt(n.field(off), v) }

func (n node) next() jtalk.Ptr { return n.b.lib.ReadPtr(n.field(n.b.lib.Layout().Node.Next)) }

func (b *Backend) nodeInitialize(p jtalk.Ptr) {
	nl := b.lib.Layout().Node
	b.lib.Zero(p, nl.Size)
	b.lib.WriteInt(p+jtalk.Ptr(nl.ChainFlag), -1)
}

func (b *Backend) nodeFree(p jtalk.Ptr) {
	for _, off := range b.lib.Layout().Node.StringFields() {
		b.lib.Free(b.lib.ReadPtr(p + jtalk.Ptr(off)))
	}
	b.lib.Free(p)
}

func (b *Backend) njdInitialize(njd jtalk.Ptr) {
	b.lib.Zero(njd, b.lib.Layout().NJDBytes)
}

func (b *Backend) njdHead(njd jtalk.Ptr) jtalk.Ptr {
	return b.lib.ReadPtr(njd + jtalk.Ptr(b.lib.Layout().NJDHead))
}

func (b *Backend) njdSetEnds(njd, head, tail jtalk.Ptr) {
	l := b.lib.Layout()
	b.lib.WritePtr(njd+jtalk.Ptr(l.NJDHead), head)
	b.lib.WritePtr(njd+jtalk.Ptr(l.NJDTail), tail)
}

func (b *Backend) njdNodes(njd jtalk.Ptr) []jtalk.Ptr {
	var out []jtalk.Ptr
	for p := b.njdHead(njd); p != 0; p = (node{b, p}).next() {
		out = append(out, p)
	}
	return out
}

// njdRelink rewrites prev/next and head/tail to match list.
func (b *Backend) njdRelink(njd jtalk.Ptr, list []jtalk.Ptr) {
	nl := b.lib.Layout().Node
	for k, p := range list {
		var prev, next jtalk.Ptr
		if k > 0 {
			prev = list[k-1]
		}
		if k+1 < len(list) {
			next = list[k+1]
		}
		b.lib.WritePtr(p+jtalk.Ptr(nl.Prev), prev)
		b.lib.WritePtr(p+jtalk.Ptr(nl.Next), next)
	}
	if len(list) == 0 {
		b.njdSetEnds(njd, 0, 0)
		return
	}
	b.njdSetEnds(njd, list[0], list[len(list)-1])
}

func (b *Backend) njdClear(njd jtalk.Ptr) {
	for _, p := range b.njdNodes(njd) {
		b.nodeFree(p)
	}
	b.njdSetEnds(njd, 0, 0)
}

// njdPushNode appends node (and any nodes chained after it) to the list.
// A NULL head means the list is empty whatever tail says.
func (b *Backend) njdPushNode(njd, p jtalk.Ptr) {
	l := b.lib.Layout()
	nl := l.Node
	head := b.njdHead(njd)
	if head == 0 {
		b.lib.WritePtr(njd+jtalk.Ptr(l.NJDHead), p)
		b.lib.WritePtr(p+jtalk.Ptr(nl.Prev), 0)
	} else {
		tail := b.lib.ReadPtr(njd + jtalk.Ptr(l.NJDTail))
		b.lib.WritePtr(tail+jtalk.Ptr(nl.Next), p)
		b.lib.WritePtr(p+jtalk.Ptr(nl.Prev), tail)
	}
	for {
		next := (node{b, p}).next()
		if next == 0 {
			break
		}
		p = next
	}
	b.lib.WritePtr(njd+jtalk.Ptr(l.NJDTail), p)
}

func (b *Backend) mecab2njd(njd, feature jtalk.Ptr, size int32) {
	nl := b.lib.Layout().Node
	offsets := []uint32{
		nl.Pos, nl.PosGroup1, nl.PosGroup2, nl.PosGroup3,
		nl.CType, nl.CForm, nl.Orig, nl.Read, nl.Pron,
	}
	for _, s := range b.lib.CStringArray(feature, size) {
		fields := strings.Split(string(b.lib.CBytes(s)), ",")
		for len(fields) < 13 {
			fields = append(fields, unset)
		}

		p := b.lib.Malloc(nl.Size)
		b.nodeInitialize(p)
		n := node{b, p}
		n.setStr(nl.Surface, fields[0])
		for k, off := range offsets {
			n.setStr(off, fields[k+1])
		}
		acc, mora, _ := strings.Cut(fields[10], "/")
		n.setInt(nl.Acc, atoi(acc, 0))
		n.setInt(nl.MoraSize, atoi(mora, 0))
		n.setStr(nl.ChainRule, fields[11])
		n.setInt(nl.ChainFlag, atoi(fields[12], -1))
		b.njdPushNode(njd, p)
	}
}

func atoi(s string, def int32) int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}

var punctuation = map[string]bool{
	"、": true, "。": true, "，": true, "．": true, "？": true, "！": true,
	"?": true, "!": true, ",": true, ".": true, "・": true,
}

// setPronunciation fills missing pronunciations from kana surfaces, turns
// punctuation into pauses and drops symbols that have no reading.
func (b *Backend) setPronunciation(njd jtalk.Ptr) {
	nl := b.lib.Layout().Node
	var keep []jtalk.Ptr
	for _, p := range b.njdNodes(njd) {
		n := node{b, p}
		surface := n.str(nl.Surface)
		pron := n.str(nl.Pron)
		pos := n.str(nl.Pos)

		if pron == unset {
			if kana, ok := toKatakana(surface); ok {
				n.setStr(nl.Read, kana)
				n.setStr(nl.Pron, kana)
				pron = kana
			}
		}
		if pos == "記号" {
			if !punctuation[surface] {
				if _, digits := digitReading(surface); !digits {
					b.nodeFree(p)
					continue
				}
			} else {
				n.setStr(nl.Read, pauseMark)
				n.setStr(nl.Pron, pauseMark)
				n.setInt(nl.Acc, 0)
				n.setInt(nl.MoraSize, 0)
				keep = append(keep, p)
				continue
			}
		}
		if pron != unset {
			n.setInt(nl.MoraSize, int32(len(splitMoras(pron))))
		}
		keep = append(keep, p)
	}
	b.njdRelink(njd, keep)
}

// setDigit reads numerals digit by digit.
func (b *Backend) setDigit(njd jtalk.Ptr) {
	nl := b.lib.Layout().Node
	for _, p := range b.njdNodes(njd) {
		n := node{b, p}
		reading, ok := digitReading(n.str(nl.Surface))
		if !ok {
			continue
		}
		n.setStr(nl.Pos, "名詞")
		n.setStr(nl.PosGroup1, "数")
		n.setStr(nl.Read, reading)
		n.setStr(nl.Pron, reading)
		n.setInt(nl.MoraSize, int32(len(splitMoras(reading))))
	}
}

// setAccentType keeps every accent nucleus inside its word.
func (b *Backend) setAccentType(njd jtalk.Ptr) {
	nl := b.lib.Layout().Node
	for _, p := range b.njdNodes(njd) {
		n := node{b, p}
		acc, mora := n.num(nl.Acc), n.num(nl.MoraSize)
		if acc < 0 {
			acc = 0
		}
		if acc > mora {
			acc = mora
		}
		n.setInt(nl.Acc, acc)
	}
}

var dependent = []string{"助詞", "助動詞"}

// setAccentPhrase chains particles, auxiliaries and suffixes to the
// preceding word.
func (b *Backend) setAccentPhrase(njd jtalk.Ptr) {
	nl := b.lib.Layout().Node
	for k, p := range b.njdNodes(njd) {
		n := node{b, p}
		flag := int32(0)
		if k > 0 && (slices.Contains(dependent, n.str(nl.Pos)) || n.str(nl.PosGroup1) == "接尾") {
			flag = 1
		}
		n.setInt(nl.ChainFlag, flag)
	}
}

func voiceless(consonant string) bool {
	switch consonant {
	case "k", "s", "sh", "t", "ch", "ts", "h", "f", "p":
		return true
	}
	return false
}

// setUnvoicedVowel devoices i and u between voiceless consonants and the
// final u of です/ます.
func (b *Backend) setUnvoicedVowel(njd jtalk.Ptr) {
	nl := b.lib.Layout().Node
	for _, p := range b.njdNodes(njd) {
		n := node{b, p}
		pron := n.str(nl.Pron)
		if pron == unset || pron == pauseMark {
			continue
		}
		ms := splitMoras(pron)
		changed := false
		for k := range ms {
			m := &ms[k]
			if !voiceless(m.consonant) || (m.vowel != "i" && m.vowel != "u") {
				continue
			}
			last := k == len(ms)-1
			if (!last && voiceless(ms[k+1].consonant)) ||
				(last && m.text == "ス" && n.str(nl.Pos) == "助動詞") {
				m.text += string(unvoicedMark)
				m.vowel = strings.ToUpper(m.vowel)
				changed = true
			}
		}
		if changed {
			n.setStr(nl.Pron, joinMoras(ms))
		}
	}
}

// setLongVowel writes long vowels for ei and ou inside content words.
func (b *Backend) setLongVowel(njd jtalk.Ptr) {
	nl := b.lib.Layout().Node
	for _, p := range b.njdNodes(njd) {
		n := node{b, p}
		pron := n.str(nl.Pron)
		if pron == unset || pron == pauseMark || slices.Contains(dependent, n.str(nl.Pos)) {
			continue
		}
		ms := splitMoras(pron)
		changed := false
		for k := 1; k < len(ms); k++ {
			prev := strings.ToLower(ms[k-1].vowel)
			if (prev == "e" && ms[k].text == "イ") || (prev == "o" && ms[k].text == "ウ") {
				ms[k] = mora{text: string(longMark), vowel: prev}
				changed = true
			}
		}
		if changed {
			n.setStr(nl.Pron, joinMoras(ms))
		}
	}
}
