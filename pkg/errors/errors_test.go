package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidStyle, "unknown animation style: %s", "spiral")

	if err.Code != ErrCodeInvalidStyle {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidStyle)
	}
	if err.Message != "unknown animation style: spiral" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause should be nil, got %v", err.Cause)
	}

	want := "INVALID_STYLE: unknown animation style: spiral"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeEncode, cause, "write frame %d", 12)

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	want := "ENCODE_ERROR: write frame 12: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidFrames, "total frames must be positive"), ErrCodeInvalidFrames, true},
		{"different code", New(ErrCodeInvalidFrames, "total frames must be positive"), ErrCodeInvalidStyle, false},
		{"wrapped in fmt", fmt.Errorf("setup: %w", New(ErrCodeFontNotFound, "no monospace font")), ErrCodeFontNotFound, true},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeVideo, "ffmpeg not found")); got != ErrCodeVideo {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeVideo)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}
