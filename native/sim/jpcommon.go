package sim

import (
	"fmt"
	"strconv"

	"github.com/wippyai/jtalk"
)

type word struct {
	pron  string
	acc   int32
	mora  int32
	chain int32
}

type jpcommonState struct {
	words  []word
	labels jtalk.Ptr
	strs   []jtalk.Ptr
	size   int32
}

func (b *Backend) jpcommon(p jtalk.Ptr) *jpcommonState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.jpcommons[p]
	if !ok {
		panic(fmt.Errorf("sim: JPCommon %#x is not initialized", uint64(p)))
	}
	return st
}

func (b *Backend) jpcommonInitialize(p jtalk.Ptr) {
	b.lib.Zero(p, b.lib.Layout().JPCommonBytes)
	b.mu.Lock()
	b.jpcommons[p] = &jpcommonState{}
	b.mu.Unlock()
}

func (b *Backend) freeLabels(p jtalk.Ptr, st *jpcommonState) {
	for _, s := range st.strs {
		b.lib.Free(s)
	}
	b.lib.Free(st.labels)
	st.strs, st.labels, st.size = nil, 0, 0
	b.lib.WritePtr(p+jtalk.Ptr(b.lib.Layout().JPCommonLabel), 0)
}

func (b *Backend) jpcommonRefresh(p jtalk.Ptr) {
	st := b.jpcommon(p)
	b.freeLabels(p, st)
	st.words = nil
}

func (b *Backend) jpcommonClear(p jtalk.Ptr) {
	b.jpcommonRefresh(p)
	b.mu.Lock()
	delete(b.jpcommons, p)
	b.mu.Unlock()
	b.lib.Zero(p, b.lib.Layout().JPCommonBytes)
}

func (b *Backend) njd2jpcommon(jpc, njd jtalk.Ptr) {
	st := b.jpcommon(jpc)
	nl := b.lib.Layout().Node
	for _, p := range b.njdNodes(njd) {
		n := node{b, p}
		pron := n.str(nl.Pron)
		if pron == unset {
			continue
		}
		st.words = append(st.words, word{
			pron:  pron,
			acc:   n.num(nl.Acc),
			mora:  n.num(nl.MoraSize),
			chain: n.num(nl.ChainFlag),
		})
	}
}

type phone struct {
	name   string
	phrase int // index into phrases, -1 for silence and pauses
}

type phrase struct {
	mora int32
	acc  int32
}

// jpcommonMakeLabel renders quinphone labels with the accent phrase's
// mora count and accent type, bracketed by silences.
func (b *Backend) jpcommonMakeLabel(p jtalk.Ptr) {
	st := b.jpcommon(p)
	b.freeLabels(p, st)
	if len(st.words) == 0 {
		return
	}

	phones := []phone{{name: "sil", phrase: -1}}
	var phrases []phrase
	for k, w := range st.words {
		if w.pron == pauseMark {
			phones = append(phones, phone{name: "pau", phrase: -1})
			continue
		}
		if k == 0 || w.chain != 1 || st.words[k-1].pron == pauseMark || len(phrases) == 0 {
			phrases = append(phrases, phrase{acc: w.acc})
		}
		cur := len(phrases) - 1
		phrases[cur].mora += w.mora
		for _, ph := range phonemes(w.pron) {
			phones = append(phones, phone{name: ph, phrase: cur})
		}
	}
	phones = append(phones, phone{name: "sil", phrase: -1})

	name := func(i int) string {
		if i < 0 || i >= len(phones) {
			return "xx"
		}
		return phones[i].name
	}
	labels := make([]string, len(phones))
	for i, ph := range phones {
		f := "xx_xx"
		if ph.phrase >= 0 {
			pr := phrases[ph.phrase]
			f = strconv.Itoa(int(pr.mora)) + "_" + strconv.Itoa(int(pr.acc))
		}
		labels[i] = fmt.Sprintf("%s^%s-%s+%s=%s/F:%s",
			name(i-2), name(i-1), ph.name, name(i+1), name(i+2), f)
	}

	ptrSize := b.lib.Layout().PtrSize
	st.labels = b.lib.Malloc(uint32(len(labels)) * ptrSize)
	for i, l := range labels {
		s, _ := b.lib.AllocCString(l)
		st.strs = append(st.strs, s)
		b.lib.WritePtr(st.labels+jtalk.Ptr(uint32(i)*ptrSize), s)
	}
	st.size = int32(len(labels))
	b.lib.WritePtr(p+jtalk.Ptr(b.lib.Layout().JPCommonLabel), st.labels)
}
