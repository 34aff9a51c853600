package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")

	err := Wrap(FileNotIndexed, "file not in table", cause)

	if err.Code != FileNotIndexed {
		t.Errorf("Code = %v, want %v", err.Code, FileNotIndexed)
	}
	if err.Message != "file not in table" {
		t.Errorf("Message = %q, want %q", err.Message, "file not in table")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      HistoryUnavailable,
			message:   "cannot open history database",
			cause:     errors.New("disk I/O error"),
			wantParts: []string{"HISTORY_UNAVAILABLE", "cannot open history database", "disk I/O error"},
		},
		{
			name:      "without cause",
			code:      FileNotIndexed,
			message:   "app/Models/User.php is not indexed",
			cause:     nil,
			wantParts: []string{"FILE_NOT_INDEXED", "app/Models/User.php is not indexed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err *Error
			if tt.cause != nil {
				err = Wrap(tt.code, tt.message, tt.cause)
			} else {
				err = New(tt.code, tt.message)
			}
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(InternalError, "something went wrong", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}

	errNoCause := New(SymbolMissing, "no symbol in selection")
	if errNoCause.Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestError_WithDetails(t *testing.T) {
	err := New(ConfigInvalid, "bad scan budget")
	details := map[string]int{"maxFiles": -1}

	result := err.WithDetails(details)

	if result != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestError_WithFixes(t *testing.T) {
	err := New(CacheUnavailable, "cache dir not writable").
		WithFixes(FixAction{Type: RunCommand, Command: "archmap cache clear", Safe: true})

	if len(err.SuggestedFixes) != 1 {
		t.Fatalf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
	if err.SuggestedFixes[0].Command != "archmap cache clear" {
		t.Errorf("Command = %q, want %q", err.SuggestedFixes[0].Command, "archmap cache clear")
	}
}

func TestIsCode(t *testing.T) {
	err := New(FileNotIndexed, "missing")

	if !IsCode(err, FileNotIndexed) {
		t.Error("IsCode should match the error's code")
	}
	if IsCode(err, ConfigInvalid) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(errors.New("plain"), FileNotIndexed) {
		t.Error("IsCode should not match a plain error")
	}
	if IsCode(nil, FileNotIndexed) {
		t.Error("IsCode should not match nil")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
		wantLen int
	}{
		{FileNotIndexed, false, 1},
		{ConfigInvalid, false, 1},
		{CacheUnavailable, false, 1},
		{SymbolMissing, true, 0}, // No predefined fixes
		{InternalError, true, 0}, // No predefined fixes
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)

			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) != tt.wantLen {
				t.Errorf("GetSuggestedFixes(%v) len = %d, want %d", tt.code, len(fixes), tt.wantLen)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	// Ensure all error codes are unique
	codes := []ErrorCode{
		ProjectNotFound,
		FileNotIndexed,
		ConfigInvalid,
		CacheUnavailable,
		HistoryUnavailable,
		SymbolMissing,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true

		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestErrorActionsMap(t *testing.T) {
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}
