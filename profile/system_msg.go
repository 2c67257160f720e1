// Package profile decodes group system notifications: join requests and
// invitations to join a group.
package profile

import (
	"errors"
	"fmt"

	"github.com/opd-ai/oicq/limits"
	"github.com/opd-ai/oicq/msg/pb"
	"github.com/sirupsen/logrus"
)

// ErrDecode indicates the outer system message frame could not be decoded.
var ErrDecode = errors.New("profile: failed to decode RspSystemMsgNew")

const (
	subTypeGroupRequest = 1

	msgTypeJoinRequest   = 1
	msgTypeSelfInvited   = 2
	msgTypeInvitedByUser = 22
)

// JoinGroupRequest is someone asking to join a group the account manages.
// InvitorUin and InvitorNick are set when a member invited them.
type JoinGroupRequest struct {
	MsgSeq      int64
	Message     string
	ReqUin      int64
	ReqNick     string
	GroupCode   int64
	GroupName   string
	ActorUin    int64
	Suspicious  bool
	InvitorUin  int64
	InvitorNick string
	HasInvitor  bool
}

// SelfInvited is an invitation for the account itself.
type SelfInvited struct {
	MsgSeq      int64
	InvitorUin  int64
	InvitorNick string
	GroupCode   int64
	GroupName   string
	ActorUin    int64
	ActorNick   string
}

// GroupSystemMessages is the decoded list.
type GroupSystemMessages struct {
	SelfInvited       []SelfInvited
	JoinGroupRequests []JoinGroupRequest
}

// DecodeSystemMsgGroup decodes a group system message list. Entries without
// a body and combinations other than join requests and invitations are
// skipped.
func DecodeSystemMsgGroup(payload []byte) (*GroupSystemMessages, error) {
	if len(payload) > limits.MaxFrame {
		return nil, fmt.Errorf("%w: %w", ErrDecode, limits.ErrFrameTooLarge)
	}
	var rsp pb.RspSystemMsgNew
	if err := rsp.Unmarshal(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out := &GroupSystemMessages{}
	skipped := 0
	for _, st := range rsp.GroupMsgs {
		m := st.Msg
		if m == nil || m.SubType != subTypeGroupRequest {
			skipped++
			continue
		}
		switch m.GroupMsgType {
		case msgTypeJoinRequest, msgTypeInvitedByUser:
			req := JoinGroupRequest{
				MsgSeq:     st.MsgSeq,
				Message:    m.MsgAdditional,
				ReqUin:     st.ReqUin,
				ReqNick:    m.ReqUinNick,
				GroupCode:  m.GroupCode,
				GroupName:  m.GroupName,
				ActorUin:   m.ActorUin,
				Suspicious: m.WarningTips != "",
			}
			if m.GroupMsgType == msgTypeInvitedByUser {
				req.InvitorUin = m.ActionUin
				req.InvitorNick = m.ActionUinQQNick
				req.HasInvitor = true
			}
			out.JoinGroupRequests = append(out.JoinGroupRequests, req)
		case msgTypeSelfInvited:
			out.SelfInvited = append(out.SelfInvited, SelfInvited{
				MsgSeq:      st.MsgSeq,
				InvitorUin:  m.ActionUin,
				InvitorNick: m.ActionUinNick,
				GroupCode:   m.GroupCode,
				GroupName:   m.GroupName,
				ActorUin:    m.ActorUin,
				ActorNick:   m.ActorUinNick,
			})
		default:
			skipped++
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":      "DecodeSystemMsgGroup",
		"entries":       len(rsp.GroupMsgs),
		"join_requests": len(out.JoinGroupRequests),
		"self_invited":  len(out.SelfInvited),
		"skipped":       skipped,
	}).Debug("Decoded group system messages")
	return out, nil
}
