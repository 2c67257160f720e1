package tlv

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer builds a big-endian byte buffer. It mirrors Reader's length-prefix
// conventions.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteUint64 appends a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytesTiny appends b behind a 1-byte length.
func (w *Writer) WriteBytesTiny(b []byte) error {
	if len(b) > math.MaxUint8 {
		return fmt.Errorf("tlv: tiny field of %d bytes exceeds %d", len(b), math.MaxUint8)
	}
	w.WriteUint8(uint8(len(b)))
	w.WriteBytes(b)
	return nil
}

// WriteBytesShort appends b behind a 2-byte length.
func (w *Writer) WriteBytesShort(b []byte) error {
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("tlv: short field of %d bytes exceeds %d", len(b), math.MaxUint16)
	}
	w.WriteUint16(uint16(len(b)))
	w.WriteBytes(b)
	return nil
}

// WriteStringShort appends s behind a 2-byte length.
func (w *Writer) WriteStringShort(s string) error {
	return w.WriteBytesShort([]byte(s))
}

// WriteTlv appends one [tag][len:u16][value] record.
func (w *Writer) WriteTlv(tagWidth int, tag uint16, value []byte) error {
	if len(value) > math.MaxUint16 {
		return fmt.Errorf("tlv: value of tag 0x%x is %d bytes, exceeds %d", tag, len(value), math.MaxUint16)
	}
	switch tagWidth {
	case 1:
		if tag > math.MaxUint8 {
			return fmt.Errorf("tlv: tag 0x%x does not fit one byte", tag)
		}
		w.WriteUint8(uint8(tag))
	case 2:
		w.WriteUint16(tag)
	default:
		return fmt.Errorf("%w: got %d", ErrTagWidth, tagWidth)
	}
	return w.WriteBytesShort(value)
}
