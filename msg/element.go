package msg

import (
	"fmt"

	"github.com/opd-ai/oicq/msg/pb"
)

// Element is one semantic message element.
type Element interface {
	element()
}

// AtSubType says who an At mentions.
type AtSubType int

const (
	AtGroupMember AtSubType = iota
	AtGuildMember
	AtGuildChannel
)

func (t AtSubType) String() string {
	switch t {
	case AtGroupMember:
		return "group member"
	case AtGuildMember:
		return "guild member"
	case AtGuildChannel:
		return "guild channel"
	}
	return fmt.Sprintf("AtSubType(%d)", int(t))
}

// Text is plain text.
type Text struct {
	Content string
}

// At mentions a user or channel. Target 0 with AtGroupMember mentions everyone.
type At struct {
	Target  int64
	Display string
	SubType AtSubType
}

// Reply quotes an earlier message.
type Reply struct {
	ReplySeq int32
	Sender   int64
	GroupID  int64
	Time     int32
	Elements []Element
}

// Face is an emoji by index.
type Face struct {
	Index int32
	Name  string
}

// Opaque carries a wire segment the codec does not interpret.
type Opaque struct {
	Elem *pb.Elem
}

// Empty is a segment with no content.
type Empty struct{}

func (Text) element()   {}
func (At) element()     {}
func (Reply) element()  {}
func (Face) element()   {}
func (Opaque) element() {}
func (Empty) element()  {}
