package pb

// Text is a plain or at-mention text segment.
type Text struct {
	Str       string
	Link      string
	Attr6Buf  []byte
	Attr7Buf  []byte
	Buf       []byte
	PbReserve []byte
}

// Unmarshal decodes b into t.
func (t *Text) Unmarshal(b []byte) error {
	*t = Text{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			t.Str, err = f.string()
		case 2:
			t.Link, err = f.string()
		case 3:
			t.Attr6Buf, err = f.bytes()
		case 4:
			t.Attr7Buf, err = f.bytes()
		case 11:
			t.Buf, err = f.bytes()
		case 12:
			t.PbReserve, err = f.bytes()
		}
		return err
	})
}

// Marshal encodes t.
func (t *Text) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, t.Str)
	b = appendString(b, 2, t.Link)
	b = appendBytes(b, 3, t.Attr6Buf)
	b = appendBytes(b, 4, t.Attr7Buf)
	b = appendBytes(b, 11, t.Buf)
	b = appendBytes(b, 12, t.PbReserve)
	return b
}

// TextResvAttr is the structured attribute carried in Text.PbReserve.
type TextResvAttr struct {
	AtType         uint32
	AtMemberTinyID uint64
	AtChannelInfo  *ExtChannelInfo
}

// ExtChannelInfo identifies a guild channel.
type ExtChannelInfo struct {
	GuildID   uint64
	ChannelID uint64
}

// Unmarshal decodes b into a.
func (a *TextResvAttr) Unmarshal(b []byte) error {
	*a = TextResvAttr{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 3:
			a.AtType, err = f.uint32()
		case 5:
			a.AtMemberTinyID, err = f.varint()
		case 8:
			var v []byte
			if v, err = f.bytes(); err != nil {
				return err
			}
			a.AtChannelInfo = new(ExtChannelInfo)
			err = a.AtChannelInfo.Unmarshal(v)
		}
		return err
	})
}

// Marshal encodes a.
func (a *TextResvAttr) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 3, uint64(a.AtType))
	b = appendVarint(b, 5, a.AtMemberTinyID)
	if a.AtChannelInfo != nil {
		b = appendMessage(b, 8, a.AtChannelInfo.Marshal())
	}
	return b
}

// Unmarshal decodes b into c.
func (c *ExtChannelInfo) Unmarshal(b []byte) error {
	*c = ExtChannelInfo{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			c.GuildID, err = f.varint()
		case 2:
			c.ChannelID, err = f.varint()
		}
		return err
	})
}

// Marshal encodes c.
func (c *ExtChannelInfo) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, c.GuildID)
	b = appendVarint(b, 2, c.ChannelID)
	return b
}
