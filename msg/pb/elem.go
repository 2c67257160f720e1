package pb

import (
	"github.com/opd-ai/oicq/limits"
	"google.golang.org/protobuf/encoding/protowire"
)

// Elem field numbers of the modeled kinds.
const (
	ElemText       protowire.Number = 1
	ElemFace       protowire.Number = 2
	ElemSrcMsg     protowire.Number = 45
	ElemCommonElem protowire.Number = 53
)

// Elem is one segment of a rich message. At most one kind is set. Kinds the
// package does not model, and modeled kinds whose body fails to parse, are
// kept whole in Other.
type Elem struct {
	Text       *Text
	Face       *Face
	SrcMsg     *SourceMsg
	CommonElem *CommonElem
	Other      *RawElem

	encoded []byte
}

// RawElem is the complete encoding of an Elem of an unmodeled kind.
type RawElem struct {
	Raw []byte
}

// Encoded returns the bytes the Elem was unmarshaled from, or nil for an
// Elem built in memory.
func (e *Elem) Encoded() []byte {
	return e.encoded
}

// IsEmpty reports whether no kind is set.
func (e *Elem) IsEmpty() bool {
	return e.Text == nil && e.Face == nil && e.SrcMsg == nil && e.CommonElem == nil && e.Other == nil
}

// Unmarshal decodes b into e. Only a broken outer framing is an error.
func (e *Elem) Unmarshal(b []byte) error {
	return e.unmarshal(b, 0)
}

func (e *Elem) unmarshal(b []byte, depth int) error {
	*e = Elem{encoded: append([]byte(nil), b...)}
	if len(b) == 0 {
		return nil
	}
	if depth >= limits.MaxElemDepth {
		e.Other = &RawElem{Raw: e.encoded}
		return nil
	}

	var fields []field
	if err := walk(b, func(f field) error {
		fields = append(fields, f)
		return nil
	}); err != nil {
		return err
	}
	if len(fields) != 1 || fields[0].typ != protowire.BytesType {
		e.Other = &RawElem{Raw: e.encoded}
		return nil
	}

	f := fields[0]
	var err error
	switch f.num {
	case ElemText:
		t := new(Text)
		if err = t.Unmarshal(f.b); err == nil {
			e.Text = t
		}
	case ElemFace:
		fc := new(Face)
		if err = fc.Unmarshal(f.b); err == nil {
			e.Face = fc
		}
	case ElemSrcMsg:
		s := new(SourceMsg)
		if err = s.unmarshal(f.b, depth+1); err == nil {
			e.SrcMsg = s
		}
	case ElemCommonElem:
		c := new(CommonElem)
		if err = c.Unmarshal(f.b); err == nil {
			e.CommonElem = c
		}
	}
	if e.IsEmpty() {
		e.Other = &RawElem{Raw: e.encoded}
	}
	return nil
}

// Marshal encodes e. Other is written back verbatim.
func (e *Elem) Marshal() ([]byte, error) {
	set := 0
	for _, ok := range []bool{e.Text != nil, e.Face != nil, e.SrcMsg != nil, e.CommonElem != nil, e.Other != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return nil, ErrElemKind
	}

	switch {
	case e.Text != nil:
		return appendMessage(nil, ElemText, e.Text.Marshal()), nil
	case e.Face != nil:
		return appendMessage(nil, ElemFace, e.Face.Marshal()), nil
	case e.SrcMsg != nil:
		body, err := e.SrcMsg.Marshal()
		if err != nil {
			return nil, err
		}
		return appendMessage(nil, ElemSrcMsg, body), nil
	case e.CommonElem != nil:
		return appendMessage(nil, ElemCommonElem, e.CommonElem.Marshal()), nil
	case e.Other != nil:
		return append([]byte(nil), e.Other.Raw...), nil
	}
	return []byte{}, nil
}

// RichText is a message body. Only the element list is modeled.
type RichText struct {
	Elems []*Elem
}

// Unmarshal decodes b into r.
func (r *RichText) Unmarshal(b []byte) error {
	*r = RichText{}
	return walk(b, func(f field) error {
		if f.num != 2 {
			return nil
		}
		v, err := f.bytes()
		if err != nil {
			return err
		}
		e := new(Elem)
		if err := e.unmarshal(v, 0); err != nil {
			return err
		}
		r.Elems = append(r.Elems, e)
		return nil
	})
}

// Marshal encodes r.
func (r *RichText) Marshal() ([]byte, error) {
	var b []byte
	for _, e := range r.Elems {
		v, err := e.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 2, v)
	}
	return b, nil
}
