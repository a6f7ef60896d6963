//go:build darwin || linux

package dynlib

import (
	"unsafe"

	"github.com/wippyai/jtalk"
)

func ptrOf(buf []byte) jtalk.Ptr {
	return jtalk.Ptr(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
}
