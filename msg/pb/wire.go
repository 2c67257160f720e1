package pb

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrWireType indicates a field encoded with an unexpected wire type.
	ErrWireType = errors.New("pb: unexpected wire type")
	// ErrElemKind indicates an Elem with more than one kind set.
	ErrElemKind = errors.New("pb: elem must carry exactly one kind")
)

// field is one decoded protobuf field. b aliases the input buffer.
type field struct {
	num protowire.Number
	typ protowire.Type
	u   uint64
	b   []byte
}

// walk calls fn for every field in b.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("pb: field tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.u = uint64(v)
		case protowire.Fixed64Type:
			f.u, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("pb: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) varint() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("%w: field %d is %d, want varint", ErrWireType, f.num, f.typ)
	}
	return f.u, nil
}

func (f field) int32() (int32, error) {
	v, err := f.varint()
	return int32(v), err
}

func (f field) int64() (int64, error) {
	v, err := f.varint()
	return int64(v), err
}

func (f field) uint32() (uint32, error) {
	v, err := f.varint()
	return uint32(v), err
}

// bytes returns a copy of a length-delimited field.
func (f field) bytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d is %d, want bytes", ErrWireType, f.num, f.typ)
	}
	return append([]byte(nil), f.b...), nil
}

func (f field) string() (string, error) {
	if f.typ != protowire.BytesType {
		return "", fmt.Errorf("%w: field %d is %d, want bytes", ErrWireType, f.num, f.typ)
	}
	return string(f.b), nil
}

// packedInt32 accepts both the packed and the one-per-field encoding.
func (f field) packedInt32(dst []int32) ([]int32, error) {
	if f.typ == protowire.VarintType {
		return append(dst, int32(f.u)), nil
	}
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d is %d, want varint", ErrWireType, f.num, f.typ)
	}
	b := f.b
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: packed field %d: %w", f.num, protowire.ParseError(n))
		}
		dst = append(dst, int32(v))
		b = b[n:]
	}
	return dst, nil
}

// Zero values are omitted on encode; decoding an absent field yields zero.

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(int64(v)))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendMessage always emits the field, even when the nested message is empty.
func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendTagVarint emits the field even when v is zero, for repeated values.
func appendTagVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
