// Package tlv implements the byte cursor and tag-length-value codec shared by
// every frame decoder in this module.
//
// All integers are big-endian. Length-prefixed fields come in two flavours,
// a 1-byte prefix ("tiny") and a 2-byte prefix ("short"); callers always pick
// one explicitly. Every read is bounds-checked: running off the end of the
// buffer returns ErrTruncated instead of panicking, which matters because
// the bytes being parsed are controlled by the remote server.
//
// Example:
//
//	r := tlv.NewReader(payload)
//	code, err := r.ReadUint8()
//	if err != nil {
//	    return err
//	}
//	m, err := r.ReadTlvMap(2)
package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTruncated indicates a read past the end of the buffer.
	ErrTruncated = errors.New("tlv: truncated input")
	// ErrTagWidth indicates a tag width other than 1 or 2 bytes.
	ErrTagWidth = errors.New("tlv: tag width must be 1 or 2")
	// ErrNegativeLength indicates a signed length prefix below zero.
	ErrNegativeLength = errors.New("tlv: negative length")
)

// Reader is a forward-only cursor over a byte slice.
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a cursor positioned at the start of b without copying it.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Len() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.off, r.Len())
	}
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return int64(v), nil
}

// ReadBytes reads exactly n bytes and returns them as a fresh copy, so the
// caller may keep the result after the input frame is released.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// ReadAvailable copies and consumes everything left in the buffer.
func (r *Reader) ReadAvailable() []byte {
	out, _ := r.ReadBytes(r.Len())
	return out
}

// ReadBytesTiny reads a field prefixed with a 1-byte length.
func (r *Reader) ReadBytesTiny() ([]byte, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadBytesShort reads a field prefixed with a 2-byte length.
func (r *Reader) ReadBytesShort() ([]byte, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadStringTiny reads a string prefixed with a 1-byte length.
func (r *Reader) ReadStringTiny() (string, error) {
	b, err := r.ReadBytesTiny()
	return string(b), err
}

// ReadStringShort reads a string prefixed with a 2-byte length.
func (r *Reader) ReadStringShort() (string, error) {
	b, err := r.ReadBytesShort()
	return string(b), err
}

// ReadStringLimit reads a string of exactly n bytes.
func (r *Reader) ReadStringLimit(n int) (string, error) {
	b, err := r.ReadBytes(n)
	return string(b), err
}

// ReadStringInt32 reads a string prefixed with a signed 4-byte length.
func (r *Reader) ReadStringInt32() (string, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	return r.ReadStringLimit(int(n))
}
