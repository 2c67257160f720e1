package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxFrame is the largest command payload any decoder accepts (1MB).
	// Login and QR frames are a few KB; the cap stops absurd inputs early.
	MaxFrame = 1024 * 1024

	// MinQRFrame is the shortest QR-family frame that carries a body.
	MinQRFrame = 48

	// MaxElemDepth bounds how deeply quoted messages may nest inside a
	// reply element before the decoder stops descending.
	MaxElemDepth = 16
)

var (
	// ErrFrameEmpty indicates an empty frame was provided.
	ErrFrameEmpty = errors.New("empty frame")

	// ErrFrameTooLarge indicates a frame exceeds the configured maximum.
	ErrFrameTooLarge = errors.New("frame too large")
)

// ValidateFrameSize validates a frame against maxSize.
// Returns an error with context including the actual and maximum sizes.
func ValidateFrameSize(frame []byte, maxSize int) error {
	if len(frame) == 0 {
		return ErrFrameEmpty
	}
	if len(frame) > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrFrameTooLarge, len(frame), maxSize)
	}
	return nil
}

// ValidateFrame validates a frame against MaxFrame.
func ValidateFrame(frame []byte) error {
	return ValidateFrameSize(frame, MaxFrame)
}
