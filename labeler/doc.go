// Package labeler runs the full open_jtalk front end: text normalization,
// morphological analysis, NJD feature passes and full-context label
// generation.
//
// A Labeler owns one Mecab, one NJD and one JPCommon resource and
// serializes access to them, so it may be shared between goroutines:
//
//	lib := native.New(backend)
//	l, err := labeler.New(lib, labeler.Config{DictDir: "/usr/share/open_jtalk/dic"})
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	labels, err := l.ExtractFullContext("こんにちは")
package labeler
