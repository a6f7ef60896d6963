// Package text2mecab normalizes raw text into the form the MeCab analyzer
// expects.
package text2mecab

import (
	"strings"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

// MaxBufferSize is the size of the working buffer handed to the native
// normalizer, terminator included. The native side cannot report the size
// it needs, so the bound is fixed.
const MaxBufferSize = 8192

var (
	// ErrRange matches errors for output that does not fit in MaxBufferSize.
	ErrRange = &errors.Error{Phase: errors.PhaseNormalize, Kind: errors.KindRange}

	// ErrInvalidArgument matches errors for input the normalizer rejects.
	ErrInvalidArgument = &errors.Error{Phase: errors.PhaseNormalize, Kind: errors.KindInvalidArgument}
)

// Normalize runs text2mecab over text.
func Normalize(lib *native.Lib, text string) (string, error) {
	if strings.IndexByte(text, 0) >= 0 {
		return "", errors.InvalidArgument(errors.PhaseNormalize, "text contains a NUL byte")
	}

	in, _ := lib.AllocCString(text)
	defer lib.Free(in)
	out := lib.Malloc(MaxBufferSize)
	defer lib.Free(out)
	lib.Zero(out, 1)

	switch code := lib.Text2Mecab(out, MaxBufferSize, in); code {
	case native.Text2MecabSuccess:
		return lib.GoString(out, string(native.SymText2Mecab)), nil
	case native.Text2MecabRangeError:
		return "", errors.Range(errors.PhaseNormalize, MaxBufferSize)
	case native.Text2MecabInvalidArgument:
		return "", errors.InvalidArgument(errors.PhaseNormalize, "rejected by text2mecab")
	default:
		return "", errors.New(errors.PhaseNormalize, errors.KindUnsuccessful).
			Function(string(native.SymText2Mecab)).
			Value(code).
			Detail("unexpected result %d", code).
			Build()
	}
}
