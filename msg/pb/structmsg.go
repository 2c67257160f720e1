package pb

// RspSystemMsgNew is the group system message list response. Only the group
// message list is modeled.
type RspSystemMsgNew struct {
	GroupMsgs []*StructMsg
}

// StructMsg is one entry of the list. Msg is nil when the entry has no body.
type StructMsg struct {
	MsgSeq int64
	ReqUin int64
	Msg    *SystemMsg
}

// SystemMsg is the body of a group system message.
type SystemMsg struct {
	SubType         int32
	MsgAdditional   string
	GroupCode       int64
	ActionUin       int64
	GroupMsgType    int32
	ActorUin        int64
	WarningTips     string
	ReqUinNick      string
	GroupName       string
	ActionUinNick   string
	ActorUinNick    string
	ActionUinQQNick string
}

// Unmarshal decodes b into r.
func (r *RspSystemMsgNew) Unmarshal(b []byte) error {
	*r = RspSystemMsgNew{}
	return walk(b, func(f field) error {
		if f.num != 10 {
			return nil
		}
		v, err := f.bytes()
		if err != nil {
			return err
		}
		st := new(StructMsg)
		if err := st.Unmarshal(v); err != nil {
			return err
		}
		r.GroupMsgs = append(r.GroupMsgs, st)
		return nil
	})
}

// Marshal encodes r.
func (r *RspSystemMsgNew) Marshal() []byte {
	var b []byte
	for _, st := range r.GroupMsgs {
		b = appendMessage(b, 10, st.Marshal())
	}
	return b
}

// Unmarshal decodes b into st.
func (st *StructMsg) Unmarshal(b []byte) error {
	*st = StructMsg{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 3:
			st.MsgSeq, err = f.int64()
		case 5:
			st.ReqUin, err = f.int64()
		case 50:
			var v []byte
			if v, err = f.bytes(); err != nil {
				return err
			}
			st.Msg = new(SystemMsg)
			err = st.Msg.Unmarshal(v)
		}
		return err
	})
}

// Marshal encodes st.
func (st *StructMsg) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 3, uint64(st.MsgSeq))
	b = appendVarint(b, 5, uint64(st.ReqUin))
	if st.Msg != nil {
		b = appendMessage(b, 50, st.Msg.Marshal())
	}
	return b
}

// Unmarshal decodes b into m.
func (m *SystemMsg) Unmarshal(b []byte) error {
	*m = SystemMsg{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			m.SubType, err = f.int32()
		case 4:
			m.MsgAdditional, err = f.string()
		case 10:
			m.GroupCode, err = f.int64()
		case 11:
			m.ActionUin, err = f.int64()
		case 12:
			m.GroupMsgType, err = f.int32()
		case 16:
			m.ActorUin, err = f.int64()
		case 32:
			m.WarningTips, err = f.string()
		case 51:
			m.ReqUinNick, err = f.string()
		case 52:
			m.GroupName, err = f.string()
		case 53:
			m.ActionUinNick, err = f.string()
		case 58:
			m.ActorUinNick, err = f.string()
		case 65:
			m.ActionUinQQNick, err = f.string()
		}
		return err
	})
}

// Marshal encodes m.
func (m *SystemMsg) Marshal() []byte {
	var b []byte
	b = appendInt32(b, 1, m.SubType)
	b = appendString(b, 4, m.MsgAdditional)
	b = appendVarint(b, 10, uint64(m.GroupCode))
	b = appendVarint(b, 11, uint64(m.ActionUin))
	b = appendInt32(b, 12, m.GroupMsgType)
	b = appendVarint(b, 16, uint64(m.ActorUin))
	b = appendString(b, 32, m.WarningTips)
	b = appendString(b, 51, m.ReqUinNick)
	b = appendString(b, 52, m.GroupName)
	b = appendString(b, 53, m.ActionUinNick)
	b = appendString(b, 58, m.ActorUinNick)
	b = appendString(b, 65, m.ActionUinQQNick)
	return b
}
