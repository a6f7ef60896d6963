package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/jtalk"
)

// Columns of a MeCab IPA dictionary CSV row.
const (
	colSurface = 0
	colPos     = 4
	colRead    = 11
	minColumns = 13
)

// dictIndex implements the user-dictionary mode of mecab-dict-index:
//
//	mecab-dict-index -d <dicdir> -u <out> [-f charset] [-t charset] <csv>...
//
// The compiled output is a kagome user dictionary. It returns the process
// exit status.
func (b *Backend) dictIndex(argc int32, argv jtalk.Ptr) int32 {
	var args []string
	for _, p := range b.lib.CStringArray(argv, argc) {
		args = append(args, string(b.lib.CBytes(p)))
	}
	if err := runDictIndex(args); err != nil {
		Logger().Warn("mecab_dict_index failed", zap.Strings("argv", args), zap.Error(err))
		return 1
	}
	return 0
}

func runDictIndex(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty argv")
	}
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dicdir := fs.StringP("dicdir", "d", ".", "system dictionary directory")
	userdic := fs.StringP("userdic", "u", "", "user dictionary output file")
	from := fs.StringP("dictionary-charset", "f", "utf-8", "charset of the CSV input")
	to := fs.StringP("charset", "t", "utf-8", "charset of the output")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if !isUTF8(*from) || !isUTF8(*to) {
		return fmt.Errorf("unsupported charset %s -> %s", *from, *to)
	}
	if *userdic == "" {
		return fmt.Errorf("system dictionary compilation is not supported, pass -u")
	}
	if st, err := os.Stat(*dicdir); err != nil || !st.IsDir() {
		return fmt.Errorf("dictionary directory %q not found", *dicdir)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("no CSV input")
	}

	var rows [][]string
	for _, path := range fs.Args() {
		r, err := readDictCSV(path)
		if err != nil {
			return err
		}
		rows = append(rows, r...)
	}

	out, err := os.Create(*userdic)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := w.WriteAll(rows); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// readDictCSV converts MeCab rows into kagome user dictionary records:
// surface, segmentation, reading, pos.
func readDictCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(rec) < minColumns {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%s:%d: expected %d columns, got %d", path, line, minColumns, len(rec))
		}
		surface := rec[colSurface]
		if surface == "" {
			continue
		}
		rows = append(rows, []string{surface, surface, rec[colRead], rec[colPos]})
	}
	return rows, nil
}
