package msg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/opd-ai/oicq/msg/pb"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotImplemented is returned when encoding an element the wire
	// encoder does not support yet.
	ErrNotImplemented = errors.New("msg: encoding not implemented")
	// ErrNilElement is returned when encoding a nil Element.
	ErrNilElement = errors.New("msg: nil element")
)

const (
	// newFaceThreshold is the first face index sent as a service-33 elem.
	newFaceThreshold = 260
	newFaceService   = 33
	newFaceBusiness  = 1
	faceOldBase      = 0x1445 - 4

	resvAtGuildMember  = 2
	resvAtGuildChannel = 4

	attr6Len = 13
)

var faceTrailer = []byte{0x00, 0x01, 0x00, 0x04, 0x52, 0xCC, 0xF5, 0xD0}

// FromWire converts a wire segment into an Element. It never fails; anything
// it cannot interpret becomes Opaque.
func FromWire(e *pb.Elem) Element {
	if e == nil || e.IsEmpty() {
		return Empty{}
	}
	switch {
	case e.Text != nil:
		if at, ok := atFromText(e.Text); ok {
			return at
		}
		return Text{Content: e.Text.Str}
	case e.SrcMsg != nil:
		if len(e.SrcMsg.OrigSeqs) > 0 {
			return replyFromSource(e.SrcMsg)
		}
	case e.Face != nil:
		return Face{Index: e.Face.Index, Name: FaceName(e.Face.Index)}
	case e.CommonElem != nil:
		if face, ok := faceFromCommon(e.CommonElem); ok {
			return face
		}
	}
	return Opaque{Elem: e}
}

// FromWireElems converts a segment list.
func FromWireElems(elems []*pb.Elem) []Element {
	out := make([]Element, 0, len(elems))
	for _, e := range elems {
		out = append(out, FromWire(e))
	}
	return out
}

func atFromText(t *pb.Text) (At, bool) {
	if len(t.Attr6Buf) > 0 {
		// [u16 1][u16 0][u16 len][u8 all][u32 target][u16 0]
		if len(t.Attr6Buf) < 11 {
			return At{}, false
		}
		target := int32(binary.BigEndian.Uint32(t.Attr6Buf[7:11]))
		return At{Target: int64(target), Display: t.Str, SubType: AtGroupMember}, true
	}
	if len(t.PbReserve) > 0 {
		var resv pb.TextResvAttr
		if err := resv.Unmarshal(t.PbReserve); err != nil {
			return At{}, false
		}
		switch resv.AtType {
		case resvAtGuildMember:
			return At{Target: int64(resv.AtMemberTinyID), Display: t.Str, SubType: AtGuildMember}, true
		case resvAtGuildChannel:
			var channel uint64
			if resv.AtChannelInfo != nil {
				channel = resv.AtChannelInfo.ChannelID
			}
			return At{Target: int64(channel), Display: t.Str, SubType: AtGuildChannel}, true
		}
	}
	return At{}, false
}

func replyFromSource(src *pb.SourceMsg) Reply {
	return Reply{
		ReplySeq: src.OrigSeqs[0],
		Sender:   src.SenderUin,
		GroupID:  src.ToUin,
		Time:     src.Time,
		Elements: FromWireElems(src.Elems),
	}
}

func faceFromCommon(c *pb.CommonElem) (Face, bool) {
	if c.ServiceType != newFaceService {
		return Face{}, false
	}
	var info pb.MsgElemInfoServtype33
	if err := info.Unmarshal(c.PbElem); err != nil {
		return Face{}, false
	}
	index := int32(info.Index)
	return Face{Index: index, Name: FaceName(index)}, true
}

// ToWire converts an Element into one or more wire segments. Reply and the
// guild mentions are not supported and return ErrNotImplemented.
func ToWire(el Element) ([]*pb.Elem, error) {
	switch el := el.(type) {
	case Text:
		return []*pb.Elem{{Text: &pb.Text{Str: el.Content}}}, nil
	case At:
		return atToWire(el)
	case Face:
		return []*pb.Elem{faceToWire(el)}, nil
	case Reply:
		return nil, fmt.Errorf("%w: reply", ErrNotImplemented)
	case Opaque:
		if el.Elem == nil {
			return nil, nil
		}
		if raw := el.Elem.Encoded(); raw != nil {
			return []*pb.Elem{{Other: &pb.RawElem{Raw: raw}}}, nil
		}
		return []*pb.Elem{el.Elem}, nil
	case Empty:
		return nil, nil
	case nil:
		return nil, ErrNilElement
	}
	return nil, fmt.Errorf("%w: %T", ErrNotImplemented, el)
}

// ToWireElems converts a list, stopping at the first element that cannot be
// encoded.
func ToWireElems(elems []Element) ([]*pb.Elem, error) {
	var out []*pb.Elem
	for i, el := range elems {
		wire, err := ToWire(el)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "ToWireElems",
				"index":    i,
				"error":    err.Error(),
			}).Warn("Cannot encode message element")
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, wire...)
	}
	return out, nil
}

func atToWire(at At) ([]*pb.Elem, error) {
	if at.SubType != AtGroupMember {
		return nil, fmt.Errorf("%w: at %s", ErrNotImplemented, at.SubType)
	}
	attr := make([]byte, attr6Len)
	binary.BigEndian.PutUint16(attr[0:], 1)
	binary.BigEndian.PutUint16(attr[4:], uint16(utf8.RuneCountInString(at.Display)))
	if at.Target == 0 {
		attr[6] = 1
	}
	binary.BigEndian.PutUint32(attr[7:], uint32(at.Target))
	return []*pb.Elem{
		{Text: &pb.Text{Str: at.Display, Attr6Buf: attr}},
		{Text: &pb.Text{Str: " "}},
	}, nil
}

func faceToWire(f Face) *pb.Elem {
	if f.Index >= newFaceThreshold {
		name := f.Name
		if name == "" {
			name = FaceName(f.Index)
		}
		text := []byte("/" + name)
		info := pb.MsgElemInfoServtype33{Index: uint32(f.Index), Text: text, Compat: text}
		return &pb.Elem{CommonElem: &pb.CommonElem{
			ServiceType:  newFaceService,
			PbElem:       info.Marshal(),
			BusinessType: newFaceBusiness,
		}}
	}
	old := make([]byte, 2)
	binary.BigEndian.PutUint16(old, uint16(faceOldBase+f.Index))
	return &pb.Elem{Face: &pb.Face{
		Index: f.Index,
		Old:   old,
		Buf:   append([]byte(nil), faceTrailer...),
	}}
}
