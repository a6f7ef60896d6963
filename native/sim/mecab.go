package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"go.uber.org/zap"

	"github.com/wippyai/jtalk"
)

// dictionaryFiles must exist in a dictionary directory for Mecab_load to
// succeed. The simulator analyzes with the embedded IPA dictionary and only
// checks that the caller points at a real open_jtalk dictionary.
var dictionaryFiles = []string{"sys.dic", "matrix.bin"}

var (
	systemTokenizer    *tokenizer.Tokenizer
	systemTokenizerErr error
	systemOnce         sync.Once
)

func ipaTokenizer() (*tokenizer.Tokenizer, error) {
	systemOnce.Do(func() {
		systemTokenizer, systemTokenizerErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return systemTokenizer, systemTokenizerErr
}

type mecabState struct {
	tok *tokenizer.Tokenizer
}

func (b *Backend) mecab(m jtalk.Ptr) jtalk.Ptr {
	b.mu.Lock()
	_, ok := b.mecabs[m]
	b.mu.Unlock()
	if !ok {
		panic(fmt.Errorf("sim: Mecab %#x is not initialized", uint64(m)))
	}
	return m
}

func (b *Backend) mecabState(m jtalk.Ptr) *mecabState {
	b.mecab(m)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mecabs[m]
}

func (b *Backend) mecabInitialize(m jtalk.Ptr) bool {
	b.lib.Zero(m, b.lib.Layout().MecabBytes)
	b.mu.Lock()
	b.mecabs[m] = &mecabState{}
	b.mu.Unlock()
	return true
}

func (b *Backend) mecabLoad(m, dicDir, userdic jtalk.Ptr) bool {
	st := b.mecabState(m)
	dir := string(b.lib.CBytes(dicDir))
	for _, name := range dictionaryFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			Logger().Debug("dictionary file missing", zap.String("dir", dir), zap.String("file", name))
			return false
		}
	}

	if userdic == 0 {
		tok, err := ipaTokenizer()
		if err != nil {
			Logger().Error("ipa tokenizer", zap.Error(err))
			return false
		}
		st.tok = tok
		return true
	}

	path := string(b.lib.CBytes(userdic))
	udic, err := dict.NewUserDict(path)
	if err != nil {
		Logger().Debug("user dictionary rejected", zap.String("path", path), zap.Error(err))
		return false
	}
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos(), tokenizer.UserDict(udic))
	if err != nil {
		Logger().Error("ipa tokenizer with user dictionary", zap.Error(err))
		return false
	}
	st.tok = tok
	return true
}

func (b *Backend) mecabAnalysis(m, str jtalk.Ptr) bool {
	st := b.mecabState(m)
	if st.tok == nil {
		return false
	}
	raw := b.lib.CBytes(str)
	if !utf8.Valid(raw) {
		return false
	}
	b.mecabRefresh(m)

	var features []string
	for _, t := range st.tok.Tokenize(string(raw)) {
		if t.Class == tokenizer.DUMMY || strings.TrimSpace(t.Surface) == "" {
			continue
		}
		features = append(features, featureLine(t))
	}
	if len(features) == 0 {
		return true
	}

	layout := b.lib.Layout()
	arr := b.lib.Malloc(uint32(len(features)) * layout.PtrSize)
	for k, f := range features {
		s, _ := b.lib.AllocCString(f)
		b.lib.WritePtr(arr+jtalk.Ptr(uint32(k)*layout.PtrSize), s)
	}
	b.lib.WritePtr(m+jtalk.Ptr(layout.MecabFeature), arr)
	b.lib.WriteInt(m+jtalk.Ptr(layout.MecabSize), int32(len(features)))
	return true
}

// featureLine renders a token the way open_jtalk's MeCab dictionary does:
// surface, pos, pos1..3, ctype, cform, orig, read, pron, acc/mora,
// chain rule, chain flag.
func featureLine(t tokenizer.Token) string {
	f := make([]string, 9)
	for k := range f {
		f[k] = "*"
	}
	feats := t.Features()
	if t.Class == tokenizer.USER {
		// pos, segmentation, reading; multi-token entries are joined with "/"
		if len(feats) > 0 {
			f[0] = feats[0]
		}
		f[6] = t.Surface
		if len(feats) > 2 {
			yomi := strings.NewReplacer("/", "", " ", "").Replace(feats[2])
			f[7], f[8] = yomi, yomi
		}
	} else {
		copy(f, feats)
		if f[6] == "*" {
			f[6] = t.Surface
		}
	}
	moras := 0
	if f[8] != "*" {
		moras = len(splitMoras(f[8]))
	}
	fields := append([]string{t.Surface}, f...)
	fields = append(fields, "0/"+strconv.Itoa(moras), "*", "-1")
	return strings.Join(fields, ",")
}

func (b *Backend) mecabRefresh(m jtalk.Ptr) {
	b.mecab(m)
	layout := b.lib.Layout()
	arr := b.lib.ReadPtr(m + jtalk.Ptr(layout.MecabFeature))
	size := b.lib.ReadInt(m + jtalk.Ptr(layout.MecabSize))
	for _, s := range b.lib.CStringArray(arr, size) {
		b.lib.Free(s)
	}
	b.lib.Free(arr)
	b.lib.WritePtr(m+jtalk.Ptr(layout.MecabFeature), 0)
	b.lib.WriteInt(m+jtalk.Ptr(layout.MecabSize), 0)
}

func (b *Backend) mecabPrint(m jtalk.Ptr) bool {
	b.mecab(m)
	layout := b.lib.Layout()
	arr := b.lib.ReadPtr(m + jtalk.Ptr(layout.MecabFeature))
	size := b.lib.ReadInt(m + jtalk.Ptr(layout.MecabSize))
	for _, s := range b.lib.CStringArray(arr, size) {
		if _, err := fmt.Fprintf(b.stdout, "%s\n", b.lib.CBytes(s)); err != nil {
			return false
		}
	}
	_, err := fmt.Fprintln(b.stdout, "EOS")
	return err == nil
}

func (b *Backend) mecabClear(m jtalk.Ptr) bool {
	b.mecabRefresh(m)
	b.mu.Lock()
	delete(b.mecabs, m)
	b.mu.Unlock()
	b.lib.Zero(m, b.lib.Layout().MecabBytes)
	return true
}
