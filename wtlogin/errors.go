package wtlogin

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTag is wrapped by DecodeError when a required TLV tag is absent.
	ErrMissingTag = errors.New("missing tag")
	// ErrNoDevice indicates a session without a device identity.
	ErrNoDevice = errors.New("session has no device identity")
	// ErrNoPacketBuilder indicates the device-lock branch was reached
	// without a packet builder to hand the follow-up to.
	ErrNoPacketBuilder = errors.New("no packet builder for device lock follow-up")
	// ErrSessionNotEstablished indicates a renewal before any login succeeded.
	ErrSessionNotEstablished = errors.New("session not established")
)

// DecodeError reports a structurally invalid or incomplete frame. Phase names
// the decoder branch, Field the tag or region that was missing or malformed.
type DecodeError struct {
	Phase string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("wtlogin: decode %s: %s malformed", e.Phase, e.Field)
	}
	return fmt.Sprintf("wtlogin: decode %s: %s: %v", e.Phase, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ProtocolError reports an outcome code or tag combination the decoders do
// not model. The caller decides whether to retry or abort.
type ProtocolError struct {
	Phase string
	Code  int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wtlogin: %s: unrecognized code %d (0x%x)", e.Phase, e.Code, e.Code)
}

func missingTag(phase string, tag uint16) *DecodeError {
	return &DecodeError{Phase: phase, Field: fmt.Sprintf("tag 0x%x", tag), Err: ErrMissingTag}
}

func malformed(phase, field string, err error) *DecodeError {
	return &DecodeError{Phase: phase, Field: field, Err: err}
}
