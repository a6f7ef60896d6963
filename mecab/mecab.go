// Package mecab binds open_jtalk's MeCab morphological analyzer.
//
// Mecab is a resource.Resource: acquire it through resource.Acquire, load
// a dictionary, then alternate Analysis and Refresh.
package mecab

import (
	"strings"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

var (
	// ErrUnsuccessful matches load errors where the native call reported
	// failure. The concrete error carries the failing function name.
	ErrUnsuccessful = &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindUnsuccessful}

	// ErrNul matches load errors for paths that contain a NUL byte. The
	// concrete error carries the offending filename.
	ErrNul = &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindNul}
)

// Mecab is a native Mecab struct. The zero pointer means uninitialized.
// Mecab is NOT thread-safe.
type Mecab struct {
	lib *native.Lib
	ptr native.Ptr
}

// New returns an uninitialized Mecab bound to lib.
func New(lib *native.Lib) *Mecab {
	return &Mecab{lib: lib}
}

// Initialize allocates and initializes the native struct.
func (m *Mecab) Initialize() bool {
	if m.ptr != 0 {
		panic("mecab: already initialized")
	}
	m.ptr = m.lib.Malloc(m.lib.Layout().MecabBytes)
	return m.lib.MecabInitialize(m.ptr)
}

// Clear releases the analyzer and the native struct.
func (m *Mecab) Clear() bool {
	ptr := m.raw()
	ok := m.lib.MecabClear(ptr)
	m.lib.Free(ptr)
	m.ptr = 0
	return ok
}

// Raw returns the native struct pointer.
func (m *Mecab) Raw() native.Ptr {
	return m.raw()
}

func (m *Mecab) raw() native.Ptr {
	if m.ptr == 0 {
		panic("mecab: not initialized")
	}
	return m.ptr
}

// Load loads the system dictionary in dir. It may be called again to
// replace the active dictionary.
func (m *Mecab) Load(dir string) error {
	ptr := m.raw()
	cdir, err := m.filename(dir)
	if err != nil {
		return err
	}
	defer m.lib.Free(cdir)

	if !m.lib.MecabLoad(ptr, cdir) {
		return errors.Unsuccessful(errors.PhaseLoad, string(native.SymMecabLoad))
	}
	return nil
}

// LoadWithUserDic loads the system dictionary in dir together with the
// compiled user dictionary userdic. An empty userdic loads none.
func (m *Mecab) LoadWithUserDic(dir, userdic string) error {
	ptr := m.raw()
	cdir, err := m.filename(dir)
	if err != nil {
		return err
	}
	defer m.lib.Free(cdir)

	var cuser native.Ptr
	if userdic != "" {
		if cuser, err = m.filename(userdic); err != nil {
			return err
		}
		defer m.lib.Free(cuser)
	}

	if !m.lib.MecabLoadWithUserdic(ptr, cdir, cuser) {
		return errors.Unsuccessful(errors.PhaseLoad, string(native.SymMecabLoadWithUserdic))
	}
	return nil
}

func (m *Mecab) filename(name string) (native.Ptr, error) {
	p, ok := m.lib.AllocCString(name)
	if !ok {
		return 0, errors.Nul(errors.PhaseLoad, name)
	}
	return p, nil
}

// Analysis analyzes normalized text (see text2mecab.Normalize). It reports
// false if the analyzer fails or text contains a NUL byte.
func (m *Mecab) Analysis(text string) bool {
	ptr := m.raw()
	if strings.IndexByte(text, 0) >= 0 {
		return false
	}
	ctext, _ := m.lib.AllocCString(text)
	defer m.lib.Free(ctext)
	return m.lib.MecabAnalysis(ptr, ctext)
}

// Features returns the feature table of the last analysis. It is absent
// before any analysis and after Refresh.
func (m *Mecab) Features() (FeatureTable, bool) {
	ptr := m.raw()
	feature := m.lib.MecabGetFeature(ptr)
	if feature == 0 {
		return FeatureTable{}, false
	}
	return FeatureTable{lib: m.lib, ptr: feature, size: m.lib.MecabGetSize(ptr)}, true
}

// Size returns the number of entries in the feature table.
func (m *Mecab) Size() int32 {
	return m.lib.MecabGetSize(m.raw())
}

// Refresh discards the last analysis.
func (m *Mecab) Refresh() bool {
	return m.lib.MecabRefresh(m.raw())
}

// Print writes the last analysis to the collaborator's stdout.
func (m *Mecab) Print() bool {
	return m.lib.MecabPrint(m.raw())
}
