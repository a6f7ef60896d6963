package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "function and file",
			err: &Error{
				Phase:    PhaseLoad,
				Kind:     KindUnsuccessful,
				Function: "Mecab_load_with_userdic",
				Filename: "/dic/user.dic",
				Detail:   "user dictionary rejected",
			},
			contains: []string{"[load]", "unsuccessful", "`Mecab_load_with_userdic` failed", `"/dic/user.dic"`, "user dictionary rejected"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseNormalize,
				Kind:  KindRange,
			},
			contains: []string{"[normalize]", "range"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseNative,
				Kind:   KindAllocation,
				Detail: "heap exhausted",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[native]", "allocation", "heap exhausted", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Unsuccessful(PhaseLoad, "Mecab_load")

	if !err.Is(&Error{Phase: PhaseLoad, Kind: KindUnsuccessful}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseAnalyze, Kind: KindUnsuccessful}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseLoad, Kind: KindNul}) {
		t.Error("Is should not match different kind")
	}

	sentinel := New(PhaseLoad, KindUnsuccessful).Build()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should match sentinel")
	}

	var target *Error
	if !errors.As(err, &target) || target.Function != "Mecab_load" {
		t.Errorf("errors.As = %v, want function Mecab_load", target)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseIndex, KindUnsuccessful).
		Function("mecab_dict_index").
		Filename("user.csv").
		Value(1).
		Cause(cause).
		Detail("exit status %d", 1).
		Build()

	if err.Phase != PhaseIndex {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseIndex)
	}
	if err.Kind != KindUnsuccessful {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsuccessful)
	}
	if err.Function != "mecab_dict_index" {
		t.Errorf("Function = %v, want mecab_dict_index", err.Function)
	}
	if err.Filename != "user.csv" {
		t.Errorf("Filename = %v, want user.csv", err.Filename)
	}
	if err.Value != 1 {
		t.Errorf("Value = %v, want 1", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "exit status 1" {
		t.Errorf("Detail = %v, want 'exit status 1'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Nul", func(t *testing.T) {
		err := Nul(PhaseLoad, "a\x00b")
		if err.Kind != KindNul {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNul)
		}
		if err.Filename != "a\x00b" {
			t.Errorf("Filename = %q", err.Filename)
		}
		if !strings.Contains(err.Error(), `\x00`) {
			t.Errorf("message %q should quote the NUL byte", err.Error())
		}
	})

	t.Run("Range", func(t *testing.T) {
		err := Range(PhaseNormalize, 8192)
		if err.Kind != KindRange {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRange)
		}
		if !strings.Contains(err.Detail, "8192") {
			t.Errorf("Detail = %v, should contain limit", err.Detail)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseLabel, "JPCommon_get_label_feature", []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Detail, "fffe") {
			t.Errorf("Detail = %v, should contain preview", err.Detail)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseNative, 1024)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("Trap", func(t *testing.T) {
		cause := errors.New("unreachable")
		err := Trap("NJD_push_node", cause)
		if err.Phase != PhaseNative || err.Kind != KindTrap {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !errors.Is(err, cause) {
			t.Error("Trap should wrap cause")
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseNative, 0x10000, 4)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if !strings.Contains(err.Detail, "0x10000") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("NotInitialized", func(t *testing.T) {
		err := NotInitialized(PhaseInit, "mecab")
		if err.Kind != KindNotInitialized {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotInitialized)
		}
	})
}

func TestMissingSymbolsError(t *testing.T) {
	t.Run("grouped by subsystem", func(t *testing.T) {
		err := NewMissingSymbolsError("open_jtalk.wasm", []string{
			"Mecab_load",
			"njd_set_digit",
			"Mecab_print",
			"malloc",
		})
		msg := err.Error()
		for _, want := range []string{"missing 4", "open_jtalk.wasm", "mecab:", "njd:", "libc:", "Mecab_print"} {
			if !strings.Contains(msg, want) {
				t.Errorf("error %q should contain %q", msg, want)
			}
		}
		if strings.Index(msg, "mecab:") > strings.Index(msg, "njd:") {
			t.Error("groups should keep first-seen order")
		}
	})

	t.Run("copies input", func(t *testing.T) {
		syms := []string{"free"}
		err := NewMissingSymbolsError("", syms)
		syms[0] = "changed"
		if err.Symbols[0] != "free" {
			t.Error("symbols should be copied")
		}
	})

	t.Run("empty", func(t *testing.T) {
		err := NewMissingSymbolsError("lib", nil)
		if !strings.Contains(err.Error(), "no symbols specified") {
			t.Errorf("empty error should have specific message, got: %s", err.Error())
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewMissingSymbolsError("lib", []string{"free"})
		if !errors.Is(err, &MissingSymbolsError{}) {
			t.Error("errors.Is should match MissingSymbolsError")
		}
	})
}
