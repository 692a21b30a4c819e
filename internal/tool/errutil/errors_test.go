package errutil

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestToolError_Error(t *testing.T) {
	t.Parallel()

	err := New(CodeNotFound, "path does not exist: %s", "/ws/missing")
	want := "not_found: path does not exist: /ws/missing"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := &ToolError{Code: CodeWritesDisabled}
	if bare.Error() != "writes_disabled" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	t.Run("direct tool error", func(t *testing.T) {
		if got := CodeOf(New(CodeIsBinary, "x")); got != CodeIsBinary {
			t.Errorf("CodeOf = %s", got)
		}
	})

	t.Run("wrapped tool error", func(t *testing.T) {
		wrapped := fmt.Errorf("while reading: %w", New(CodeFileTooLarge, "x"))
		if got := CodeOf(wrapped); got != CodeFileTooLarge {
			t.Errorf("CodeOf = %s", got)
		}
	})

	t.Run("foreign error maps to io_error", func(t *testing.T) {
		if got := CodeOf(errors.New("boom")); got != CodeIO {
			t.Errorf("CodeOf = %s", got)
		}
	})
}

func TestFromOSError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"not exist", os.ErrNotExist, CodeNotFound},
		{"permission", os.ErrPermission, CodePermissionDenied},
		{"other", errors.New("disk on fire"), CodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromOSError("/ws/x", tt.err)
			if got.Code != tt.want {
				t.Errorf("FromOSError code = %s, want %s", got.Code, tt.want)
			}
		})
	}
}
