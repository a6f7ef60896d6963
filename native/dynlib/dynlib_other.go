//go:build !darwin && !linux

package dynlib

import (
	"runtime"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

// Backend is unavailable on this platform.
type Backend struct {
	native.Backend
}

// Open always fails on this platform.
func Open(path string) (*Backend, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "dynamic loading on "+runtime.GOOS)
}
