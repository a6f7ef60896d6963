package sim

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/wippyai/jtalk"
	"github.com/wippyai/jtalk/native"
)

// text2mecab drops control characters and widens half-width characters,
// writing the result NUL-terminated into output.
func (b *Backend) text2mecab(output jtalk.Ptr, size uint32, input jtalk.Ptr) int32 {
	if output == 0 || input == 0 {
		return native.Text2MecabInvalidArgument
	}
	raw := b.lib.CBytes(input)
	if !utf8.Valid(raw) {
		return native.Text2MecabInvalidArgument
	}

	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, string(raw))
	out := width.Widen.String(cleaned)

	if uint64(len(out))+1 > uint64(size) {
		return native.Text2MecabRangeError
	}
	buf := make([]byte, len(out)+1)
	copy(buf, out)
	if err := b.heap.Write(output, buf); err != nil {
		panic(err)
	}
	return native.Text2MecabSuccess
}
