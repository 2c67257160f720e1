package pb

// Face is a classic emoji segment.
type Face struct {
	Index int32
	Old   []byte
	Buf   []byte
}

// Unmarshal decodes b into fc.
func (fc *Face) Unmarshal(b []byte) error {
	*fc = Face{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			fc.Index, err = f.int32()
		case 2:
			fc.Old, err = f.bytes()
		case 11:
			fc.Buf, err = f.bytes()
		}
		return err
	})
}

// Marshal encodes fc.
func (fc *Face) Marshal() []byte {
	var b []byte
	b = appendInt32(b, 1, fc.Index)
	b = appendBytes(b, 2, fc.Old)
	b = appendBytes(b, 11, fc.Buf)
	return b
}

// CommonElem wraps a service-specific element. Service type 33 carries a
// MsgElemInfoServtype33 new-style face.
type CommonElem struct {
	ServiceType  int32
	PbElem       []byte
	BusinessType int32
}

// Unmarshal decodes b into c.
func (c *CommonElem) Unmarshal(b []byte) error {
	*c = CommonElem{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			c.ServiceType, err = f.int32()
		case 2:
			c.PbElem, err = f.bytes()
		case 3:
			c.BusinessType, err = f.int32()
		}
		return err
	})
}

// Marshal encodes c.
func (c *CommonElem) Marshal() []byte {
	var b []byte
	b = appendInt32(b, 1, c.ServiceType)
	b = appendBytes(b, 2, c.PbElem)
	b = appendInt32(b, 3, c.BusinessType)
	return b
}

// MsgElemInfoServtype33 is a face with an index past the classic range.
type MsgElemInfoServtype33 struct {
	Index  uint32
	Text   []byte
	Compat []byte
	Buf    []byte
}

// Unmarshal decodes b into m.
func (m *MsgElemInfoServtype33) Unmarshal(b []byte) error {
	*m = MsgElemInfoServtype33{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			m.Index, err = f.uint32()
		case 2:
			m.Text, err = f.bytes()
		case 3:
			m.Compat, err = f.bytes()
		case 4:
			m.Buf, err = f.bytes()
		}
		return err
	})
}

// Marshal encodes m.
func (m *MsgElemInfoServtype33) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Index))
	b = appendBytes(b, 2, m.Text)
	b = appendBytes(b, 3, m.Compat)
	b = appendBytes(b, 4, m.Buf)
	return b
}
