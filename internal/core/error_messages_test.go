package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "empty selection maps to notice",
			err:         ErrNoRowsSelected,
			wantCode:    "SEL001",
			wantMessage: "No rows selected for export.",
		},
		{
			name:        "wrapped view error maps correctly",
			err:         fmt.Errorf("export: %w", ErrViewNotFound),
			wantCode:    "VIEW001",
			wantMessage: "This page has expired",
		},
		{
			name:        "record not found maps correctly",
			err:         fmt.Errorf("%w: ISO-9", ErrRecordNotFound),
			wantCode:    "REC001",
			wantMessage: "Record not found",
		},
		{
			name:        "duplicate id maps correctly",
			err:         fmt.Errorf("records 1 and 2: %w %q", ErrDuplicateRecordID, "ISO-1"),
			wantCode:    "DS001",
			wantMessage: "Two records share the same document code",
		},
		{
			name:        "deadline maps correctly",
			err:         context.DeadlineExceeded,
			wantCode:    "REQ003",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("NO ROWS SELECTED"),
			wantCode:    "SEL001",
			wantMessage: "No rows selected for export.",
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
	result := FormatUserError(ErrNoRowsSelected)

	expected := "No rows selected for export. (Code: SEL001). Select one or more rows and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrViewNotFound,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		userErr := NewUserError(ErrNoRowsSelected)

		if userErr.Error() != "No rows selected for export." {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrNoRowsSelected) {
			t.Error("Unwrap() should return original error")
		}
	})
}
