package labeler

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/jpcommon"
	"github.com/wippyai/jtalk/mecab"
	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/njd"
	"github.com/wippyai/jtalk/resource"
	"github.com/wippyai/jtalk/text2mecab"
)

// Config holds configuration for New
type Config struct {
	// DictDir is the compiled system dictionary directory.
	DictDir string

	// UserDict is an optional compiled user dictionary (see mecab.DictIndex).
	UserDict string

	// Transform, if set, rewrites the NJD nodes after the feature passes
	// and before label generation.
	Transform func([]njd.Node) []njd.Node

	// Observer receives lifecycle events of the owned resources.
	Observer resource.Observer
}

// Labeler is a loaded open_jtalk front end.
// Labeler is safe for concurrent use.
type Labeler struct {
	lib       *native.Lib
	mecab     *resource.Managed[*mecab.Mecab]
	njd       *resource.Managed[*njd.NJD]
	jpcommon  *resource.Managed[*jpcommon.JPCommon]
	transform func([]njd.Node) []njd.Node
	mu        sync.Mutex
	closed    bool
}

// New acquires the resources and loads the dictionary. On error nothing
// acquired is left behind.
func New(lib *native.Lib, cfg Config) (*Labeler, error) {
	var opts []resource.Option
	if cfg.Observer != nil {
		opts = append(opts, resource.WithObserver(cfg.Observer))
	}

	l := &Labeler{lib: lib, transform: cfg.Transform}
	if err := l.acquire(cfg, opts); err != nil {
		if rerr := l.release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return nil, err
	}

	Logger().Debug("labeler ready",
		zap.String("dict", cfg.DictDir),
		zap.String("userdic", cfg.UserDict))
	return l, nil
}

// acquire fills l's resources in order. On error the ones already
// acquired stay set for release.
func (l *Labeler) acquire(cfg Config, opts []resource.Option) error {
	var err error
	if l.mecab, err = resource.Acquire(mecab.New(l.lib), opts...); err != nil {
		return err
	}
	if l.njd, err = resource.Acquire(njd.New(l.lib), opts...); err != nil {
		return err
	}
	if l.jpcommon, err = resource.Acquire(jpcommon.New(l.lib), opts...); err != nil {
		return err
	}
	return l.mecab.Get().LoadWithUserDic(cfg.DictDir, cfg.UserDict)
}

// ExtractFullContext returns the full-context labels for text. Empty or
// all-symbol text yields no labels.
func (l *Labeler) ExtractFullContext(text string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.refresh()

	if err := l.analyze(text); err != nil {
		return nil, err
	}
	n := l.njd.Get()
	if l.transform != nil {
		n.Update(l.transform)
	}

	jpc := l.jpcommon.Get()
	jpc.FromNJD(n)
	jpc.MakeLabel()

	labels, ok := jpc.Labels()
	if !ok {
		return []string{}, nil
	}
	out := labels.Strings()
	Logger().Debug("labels generated",
		zap.Int("nodes", int(n.Size())),
		zap.Int("labels", len(out)))
	return out, nil
}

// Analyze returns the NJD nodes for text after the feature passes. The
// transform is not applied.
func (l *Labeler) Analyze(text string) ([]njd.Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.refresh()

	if err := l.analyze(text); err != nil {
		return nil, err
	}
	return l.njd.Get().Nodes(), nil
}

// Print writes MeCab's analysis of text to the collaborator's stdout.
func (l *Labeler) Print(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.refresh()

	if err := l.check(); err != nil {
		return err
	}
	normalized, err := text2mecab.Normalize(l.lib, text)
	if err != nil {
		return err
	}
	m := l.mecab.Get()
	if !m.Analysis(normalized) {
		return errors.Unsuccessful(errors.PhaseAnalyze, string(native.SymMecabAnalysis))
	}
	if !m.Print() {
		return errors.Unsuccessful(errors.PhaseAnalyze, string(native.SymMecabPrint))
	}
	return nil
}

func (l *Labeler) check() error {
	if l.closed {
		return errors.NotInitialized(errors.PhaseInit, "labeler")
	}
	return nil
}

func (l *Labeler) analyze(text string) error {
	if err := l.check(); err != nil {
		return err
	}
	normalized, err := text2mecab.Normalize(l.lib, text)
	if err != nil {
		return err
	}

	m := l.mecab.Get()
	if !m.Analysis(normalized) {
		return errors.Unsuccessful(errors.PhaseAnalyze, string(native.SymMecabAnalysis))
	}
	n := l.njd.Get()
	if features, ok := m.Features(); ok {
		n.FromMecab(features, features.Len())
	}
	n.SetPronunciation()
	n.SetDigit()
	n.SetAccentType()
	n.SetAccentPhrase()
	n.SetUnvoicedVowel()
	n.SetLongVowel()
	return nil
}

func (l *Labeler) refresh() {
	if l.closed {
		return
	}
	l.jpcommon.Get().Refresh()
	l.njd.Get().Refresh()
	if !l.mecab.Get().Refresh() {
		Logger().Warn("mecab refresh failed")
	}
}

// Close releases every resource. Further calls return a not-initialized
// error; Close itself is idempotent.
func (l *Labeler) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.release()
}

// release clears in reverse acquisition order.
func (l *Labeler) release() error {
	var errs []error
	if l.jpcommon != nil {
		errs = append(errs, l.jpcommon.Close())
	}
	if l.njd != nil {
		errs = append(errs, l.njd.Close())
	}
	if l.mecab != nil {
		errs = append(errs, l.mecab.Close())
	}
	return errors.Join(errs...)
}
