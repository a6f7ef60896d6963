package mecab

import (
	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

// DictIndex runs mecab-dict-index with argv passed through unchanged;
// argv[0] is the program name. A non-zero exit status is returned as an
// unsuccessful error carrying the status.
func DictIndex(lib *native.Lib, argv ...string) error {
	ptrSize := lib.Layout().PtrSize
	args := make([]native.Ptr, 0, len(argv))
	defer func() {
		for _, p := range args {
			lib.Free(p)
		}
	}()
	for _, a := range argv {
		p, ok := lib.AllocCString(a)
		if !ok {
			return errors.Nul(errors.PhaseIndex, a)
		}
		args = append(args, p)
	}

	// argv[argc] is NULL, as for main.
	arr := lib.Malloc(uint32(len(args)+1) * ptrSize)
	defer lib.Free(arr)
	for i, p := range args {
		lib.WritePtr(arr+native.Ptr(uint32(i)*ptrSize), p)
	}
	lib.WritePtr(arr+native.Ptr(uint32(len(args))*ptrSize), 0)

	if code := lib.MecabDictIndex(int32(len(args)), arr); code != 0 {
		return errors.New(errors.PhaseIndex, errors.KindUnsuccessful).
			Function(string(native.SymMecabDictIndex)).
			Value(code).
			Detail("exit status %d", code).
			Build()
	}
	return nil
}
