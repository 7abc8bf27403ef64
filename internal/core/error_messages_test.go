package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/JonMunkholm/limitdiff/internal/limits"
	"github.com/JonMunkholm/limitdiff/internal/source"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
			err:  nil,
		},
		{
			name:        "empty input",
			err:         fmt.Errorf("parse old: %w", limits.ErrEmptyInput),
			wantCode:    "PARSE001",
			wantMessage: "The table has no rows",
		},
		{
			name: "invalid numeric value",
			err: fmt.Errorf("parse new: %w", &limits.InvalidValueError{
				Row: 4, Column: 3, Metric: "max", Text: "abc", Err: strconv.ErrSyntax,
			}),
			wantCode:    "PARSE002",
			wantMessage: "A metric cell is not a number",
		},
		{
			name:        "invalid options",
			err:         fmt.Errorf("%w: empty parametric marker", limits.ErrInvalidOptions),
			wantCode:    "PARSE003",
			wantMessage: "Parse options are incomplete",
		},
		{
			name:        "unsupported format before unavailable",
			err:         &source.UnavailableError{Name: "a.xls", Err: source.ErrUnsupportedFormat},
			wantCode:    "SRC002",
			wantMessage: "Unsupported file format",
		},
		{
			name:        "sheet not found before unavailable",
			err:         &source.UnavailableError{Name: "a.xlsx", Err: fmt.Errorf("%w: %q", source.ErrSheetNotFound, "X")},
			wantCode:    "SRC003",
			wantMessage: "The requested worksheet does not exist",
		},
		{
			name:        "source unavailable",
			err:         &source.UnavailableError{Name: "a.csv", Err: errors.New("open a.csv: no such file")},
			wantCode:    "SRC001",
			wantMessage: "The file could not be read",
		},
		{
			name:        "too many comparisons",
			err:         ErrTooManyComparisons,
			wantCode:    "CMP001",
			wantMessage: "System is busy processing other comparisons",
		},
		{
			name:        "cancelled",
			err:         fmt.Errorf("compare: %w", context.Canceled),
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "http body limit by pattern",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "no file by pattern, case insensitive",
			err:         errors.New("NO FILE PROVIDED for field old"),
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "unknown report format",
			err:         errors.New(`unknown report format "pdf"`),
			wantCode:    "FMT001",
			wantMessage: "The requested report format is not supported",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrTooManyComparisons)

	expected := "System is busy processing other comparisons (Code: CMP001). Please wait a moment and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"known error", limits.ErrEmptyInput, true},
		{"unknown error", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	techErr := fmt.Errorf("parse old: %w", limits.ErrEmptyInput)
	userErr := NewUserError(techErr)

	if userErr.Error() != "The table has no rows" {
		t.Errorf("Error() = %q, want user message", userErr.Error())
	}
	if !errors.Is(userErr, limits.ErrEmptyInput) {
		t.Error("Unwrap() should expose the technical error")
	}
	if userErr.User.Code != "PARSE001" {
		t.Errorf("Code = %q, want PARSE001", userErr.User.Code)
	}
}
