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
			name: "full error",
			err: &Error{
				Phase:    PhaseMarshal,
				Kind:     KindTypeConversion,
				Method:   "moveProp",
				Expected: "int",
				Detail:   "cannot convert",
			},
			contains: []string{"[marshal]", "type_conversion", "moveProp", "expected int", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDispatch,
				Kind:  KindUnknownMethod,
			},
			contains: []string{"[dispatch]", "unknown_method"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseReload,
				Kind:   KindReloadFailed,
				Script: "Data/Scripts/Game.lua",
				Cause:  errors.New("syntax error near 'end'"),
			},
			contains: []string{"[reload]", "reload_failed", "Data/Scripts/Game.lua", "caused by", "syntax error"},
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
		Phase: PhaseExec,
		Kind:  KindScriptError,
		Cause: cause,
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should match the wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
}

func TestError_Is(t *testing.T) {
	a := ArgCount("update", 2, 0)
	b := &Error{Phase: PhaseDispatch, Kind: KindArgCount}
	if !errors.Is(a, b) {
		t.Errorf("errors with matching phase and kind should satisfy Is")
	}
	c := &Error{Phase: PhaseDispatch, Kind: KindUnknownMethod}
	if errors.Is(a, c) {
		t.Errorf("errors with different kinds should not satisfy Is")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseExec, KindScriptError).
		Method("update").
		Script("Game.lua").
		Detail("frame %d", 42).
		Cause(cause).
		Build()

	if err.Phase != PhaseExec || err.Kind != KindScriptError {
		t.Fatalf("builder lost phase/kind: %+v", err)
	}
	if err.Detail != "frame 42" {
		t.Errorf("Detail = %q, want %q", err.Detail, "frame 42")
	}
	if err.Unwrap() != cause {
		t.Errorf("builder lost cause")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		kind     Kind
		contains string
	}{
		{"arg count", ArgCount("createCube", 3, 1), KindArgCount, "needs 3 arguments, but received 1"},
		{"arg count range", ArgCountRange("spawn", 1, 4, 7), KindArgCount, "needs 1-4 arguments, but received 7"},
		{"type conversion", TypeConversion("float", "abc"), KindTypeConversion, "expected float"},
		{"vec arity", VecArity(2), KindTypeConversion, "Vec3 requires 3 values (x, y, z)"},
		{"unknown method", UnknownMethod("frobnicate"), KindUnknownMethod, "unknown method: frobnicate"},
		{"unknown property", UnknownProperty("score"), KindUnknownProperty, "unknown property: score"},
		{"not initialized", NotInitialized("FileWatcher"), KindNotInitialized, "FileWatcher not initialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
