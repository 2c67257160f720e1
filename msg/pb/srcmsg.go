package pb

// SourceMsg quotes an earlier message. Elems holds the quoted segments.
type SourceMsg struct {
	OrigSeqs  []int32
	SenderUin int64
	Time      int32
	Flag      int32
	Elems     []*Elem
	Type      int32
	RichMsg   []byte
	PbReserve []byte
	SrcMsg    []byte
	ToUin     int64
	TroopName []byte
}

// Unmarshal decodes b into s.
func (s *SourceMsg) Unmarshal(b []byte) error {
	return s.unmarshal(b, 0)
}

func (s *SourceMsg) unmarshal(b []byte, depth int) error {
	*s = SourceMsg{}
	return walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			s.OrigSeqs, err = f.packedInt32(s.OrigSeqs)
		case 2:
			s.SenderUin, err = f.int64()
		case 3:
			s.Time, err = f.int32()
		case 4:
			s.Flag, err = f.int32()
		case 5:
			var v []byte
			if v, err = f.bytes(); err != nil {
				return err
			}
			e := new(Elem)
			if err = e.unmarshal(v, depth); err == nil {
				s.Elems = append(s.Elems, e)
			}
		case 6:
			s.Type, err = f.int32()
		case 7:
			s.RichMsg, err = f.bytes()
		case 8:
			s.PbReserve, err = f.bytes()
		case 9:
			s.SrcMsg, err = f.bytes()
		case 10:
			s.ToUin, err = f.int64()
		case 11:
			s.TroopName, err = f.bytes()
		}
		return err
	})
}

// Marshal encodes s.
func (s *SourceMsg) Marshal() ([]byte, error) {
	var b []byte
	for _, seq := range s.OrigSeqs {
		b = appendTagVarint(b, 1, uint64(int64(seq)))
	}
	b = appendVarint(b, 2, uint64(s.SenderUin))
	b = appendInt32(b, 3, s.Time)
	b = appendInt32(b, 4, s.Flag)
	for _, e := range s.Elems {
		v, err := e.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 5, v)
	}
	b = appendInt32(b, 6, s.Type)
	b = appendBytes(b, 7, s.RichMsg)
	b = appendBytes(b, 8, s.PbReserve)
	b = appendBytes(b, 9, s.SrcMsg)
	b = appendVarint(b, 10, uint64(s.ToUin))
	b = appendBytes(b, 11, s.TroopName)
	return b, nil
}
