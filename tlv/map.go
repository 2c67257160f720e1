package tlv

import (
	"fmt"
	"sort"
)

// Map holds TLV records keyed by tag. Duplicate tags keep the last value read.
type Map map[uint16][]byte

// Has reports whether tag is present.
func (m Map) Has(tag uint16) bool {
	_, ok := m[tag]
	return ok
}

// Tags returns the present tags in ascending order.
func (m Map) Tags() []uint16 {
	tags := make([]uint16, 0, len(m))
	for t := range m {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

func (r *Reader) readTag(tagWidth int) (uint16, error) {
	if tagWidth == 1 {
		v, err := r.ReadUint8()
		return uint16(v), err
	}
	return r.ReadUint16()
}

// ReadTlvMap consumes the rest of the buffer as a sequence of
// [tag][len:u16][value] records. tagWidth selects a 1- or 2-byte tag.
// A record cut short anywhere returns ErrTruncated; an empty remainder yields
// an empty map.
func (r *Reader) ReadTlvMap(tagWidth int) (Map, error) {
	if tagWidth != 1 && tagWidth != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTagWidth, tagWidth)
	}
	m := make(Map)
	for r.Len() > 0 {
		tag, err := r.readTag(tagWidth)
		if err != nil {
			return nil, fmt.Errorf("tlv record tag: %w", err)
		}
		value, err := r.ReadBytesShort()
		if err != nil {
			return nil, fmt.Errorf("tlv record 0x%x: %w", tag, err)
		}
		m[tag] = value
	}
	return m, nil
}

// ParseTlvMap is shorthand for NewReader(b).ReadTlvMap(tagWidth).
func ParseTlvMap(b []byte, tagWidth int) (Map, error) {
	return NewReader(b).ReadTlvMap(tagWidth)
}
