package limits

import (
	"errors"
	"testing"
)

func TestValidateFrameSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		max     int
		wantErr error
	}{
		{"empty", 0, 10, ErrFrameEmpty},
		{"one byte", 1, 10, nil},
		{"at limit", 10, 10, nil},
		{"over limit", 11, 10, ErrFrameTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFrameSize(make([]byte, tt.size), tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFrameSize(%d, %d) = %v, want %v", tt.size, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFrame(t *testing.T) {
	if err := ValidateFrame(make([]byte, MaxFrame)); err != nil {
		t.Errorf("frame at MaxFrame rejected: %v", err)
	}
	if err := ValidateFrame(make([]byte, MaxFrame+1)); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized frame: got %v, want ErrFrameTooLarge", err)
	}
	if err := ValidateFrame(nil); !errors.Is(err, ErrFrameEmpty) {
		t.Errorf("nil frame: got %v, want ErrFrameEmpty", err)
	}
}
