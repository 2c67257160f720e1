package wtlogin

import (
	"github.com/opd-ai/oicq/crypto"
	"github.com/opd-ai/oicq/tlv"
	"github.com/sirupsen/logrus"
)

// accountBlob is the parsed plaintext of tag 0x119. Nothing in it touches the
// session until apply runs, so a malformed blob leaves the session unchanged.
type accountBlob struct {
	m tlv.Map

	uin    int64
	hasUin bool

	profile    AccountInfo
	hasProfile bool

	serverTime int32
	clientIP   []byte
	hasLoginIP bool

	psKeys    map[string][]byte
	pt4Tokens map[string][]byte
	hasTokens bool

	a1       []byte
	noPicSig []byte
}

// openAccountInfo decrypts a 0x119 payload with key and parses every field
// the session cares about.
func openAccountInfo(phase string, data, key []byte) (*accountBlob, error) {
	c, err := crypto.NewTEA(key)
	if err != nil {
		return nil, malformed(phase, "root secret", err)
	}
	plain, err := c.Decrypt(data)
	if err != nil {
		return nil, malformed(phase, "tag 0x119", err)
	}
	r := tlv.NewReader(plain)
	if err := r.Skip(2); err != nil {
		return nil, malformed(phase, "tag 0x119 header", err)
	}
	m, err := r.ReadTlvMap(2)
	if err != nil {
		return nil, malformed(phase, "tag 0x119 records", err)
	}

	b := &accountBlob{m: m}
	if v, ok := m[tagUin]; ok {
		uin, err := tlv.NewReader(v).ReadInt32()
		if err != nil {
			return nil, malformed(phase, "tag 0x113", err)
		}
		b.uin, b.hasUin = int64(uin), true
	}
	if v, ok := m[tagProfile]; ok {
		if b.profile, err = readProfile(v); err != nil {
			return nil, malformed(phase, "tag 0x11a", err)
		}
		b.hasProfile = true
	}
	if v, ok := m[tagLoginIP]; ok {
		if b.serverTime, b.clientIP, err = readLoginIP(v); err != nil {
			return nil, malformed(phase, "tag 0x130", err)
		}
		b.hasLoginIP = true
	}
	if v, ok := m[tagDomainTokens]; ok {
		if b.psKeys, b.pt4Tokens, err = readDomainTokens(v); err != nil {
			return nil, malformed(phase, "tag 0x512", err)
		}
		b.hasTokens = true
	}
	if v, ok := m[tagA1Bundle]; ok {
		if b.a1, b.noPicSig, err = readA1Bundle(v); err != nil {
			return nil, malformed(phase, "tag 0x531", err)
		}
	}
	return b, nil
}

// readProfile parses 0x11a: [face u16][age u8][gender u8][nick tiny-string].
func readProfile(v []byte) (AccountInfo, error) {
	r := tlv.NewReader(v)
	var info AccountInfo
	var err error
	if info.FaceID, err = r.ReadUint16(); err != nil {
		return info, err
	}
	if info.Age, err = r.ReadUint8(); err != nil {
		return info, err
	}
	if info.Gender, err = r.ReadUint8(); err != nil {
		return info, err
	}
	info.Nickname, err = r.ReadStringTiny()
	return info, err
}

// readLoginIP parses 0x130: [2 bytes][time i32][ip 4 bytes].
func readLoginIP(v []byte) (int32, []byte, error) {
	r := tlv.NewReader(v)
	if err := r.Skip(2); err != nil {
		return 0, nil, err
	}
	ts, err := r.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	ip, err := r.ReadBytes(4)
	return ts, ip, err
}

// readDomainTokens parses 0x512: a count followed by
// (domain, ps key, pt4 token) triples of short-prefixed fields.
func readDomainTokens(v []byte) (map[string][]byte, map[string][]byte, error) {
	r := tlv.NewReader(v)
	n, err := r.ReadUint16()
	if err != nil {
		return nil, nil, err
	}
	psKeys := make(map[string][]byte, n)
	pt4 := make(map[string][]byte, n)
	for i := 0; i < int(n); i++ {
		domain, err := r.ReadStringShort()
		if err != nil {
			return nil, nil, err
		}
		key, err := r.ReadBytesShort()
		if err != nil {
			return nil, nil, err
		}
		token, err := r.ReadBytesShort()
		if err != nil {
			return nil, nil, err
		}
		if len(key) > 0 {
			psKeys[domain] = key
		}
		if len(token) > 0 {
			pt4[domain] = token
		}
	}
	return psKeys, pt4, nil
}

// readA1Bundle parses 0x531, a nested TLV map. A1 is 0x106 followed by 0x10c.
func readA1Bundle(v []byte) ([]byte, []byte, error) {
	m, err := tlv.ParseTlvMap(v, 2)
	if err != nil {
		return nil, nil, err
	}
	if !m.Has(tagWebSig) || !m.Has(tagSrmToken) || !m.Has(tagUin) || !m.Has(tagA1Suffix) {
		return nil, nil, nil
	}
	a1 := make([]byte, 0, len(m[tagEncryptedA1])+len(m[tagA1Suffix]))
	a1 = append(a1, m[tagEncryptedA1]...)
	a1 = append(a1, m[tagA1Suffix]...)
	return a1, m[tagSrmToken], nil
}

// DecodeT119 opens the account-info blob with key and installs a fresh set
// of session credentials and the account identity. On error the session is
// left untouched.
func DecodeT119(s *Session, data, key []byte) error {
	const phase = "account info"
	if err := s.checkDevice(phase); err != nil {
		return err
	}
	b, err := openAccountInfo(phase, data, key)
	if err != nil {
		return err
	}

	m := b.m
	if v, ok := m[tagT528]; ok {
		s.Cache.T528 = v
	}
	if v, ok := m[tagT530]; ok {
		s.Cache.T530 = v
	}
	if v, ok := m[tagKsid]; ok {
		s.Cache.Ksid = v
	}
	if b.hasLoginIP {
		s.Cache.ServerTime, s.Cache.ClientIP = b.serverTime, b.clientIP
	}
	if b.hasUin {
		s.Account.Uin = b.uin
	}
	if b.hasProfile {
		s.Account.Nickname = b.profile.Nickname
		s.Account.Age = b.profile.Age
		s.Account.Gender = b.profile.Gender
		s.Account.FaceID = b.profile.FaceID
	}

	s.Cache.Sig.wipe()
	s.Cache.Sig = SigInfo{
		SrmToken:           m[tagSrmToken],
		T133:               m[tagT133],
		EncryptedA1:        m[tagEncryptedA1],
		TGT:                m[tagTGT],
		TGTKey:             m[tagTGTKey],
		UserStKey:          m[tagUserStKey],
		UserStWebSig:       m[tagWebSig],
		SKey:               m[tagSKey],
		SKeyExpiredTime:    s.now().Add(SKeyLifetime).Unix(),
		D2:                 m[tagD2],
		D2Key:              m[tagD2Key],
		WtSessionTicketKey: m[tagTicketKey],
		DeviceToken:        m[tagDeviceToken],
		A1:                 b.a1,
		NoPicSig:           b.noPicSig,
		PsKeyMap:           b.psKeys,
		Pt4TokenMap:        b.pt4Tokens,
	}

	logrus.WithFields(crypto.CredentialFields(logrus.Fields{
		"function": "DecodeT119",
		"uin":      s.Account.Uin,
		"tags":     len(m),
	}, map[string][]byte{
		"d2_key":  s.Cache.Sig.D2Key,
		"tgt_key": s.Cache.Sig.TGTKey,
	})).Debug("Session credentials installed")
	return nil
}

// DecodeT119R opens a renewal blob and refreshes only the renewable
// credentials that are present. Everything else in the session is kept.
func DecodeT119R(s *Session, data, key []byte) error {
	const phase = "account info renewal"
	if err := s.checkDevice(phase); err != nil {
		return err
	}
	b, err := openAccountInfo(phase, data, key)
	if err != nil {
		return err
	}

	m := b.m
	sig := &s.Cache.Sig
	if v, ok := m[tagSKey]; ok {
		crypto.ZeroBytes(sig.SKey)
		sig.SKey = v
		sig.SKeyExpiredTime = s.now().Add(SKeyLifetime).Unix()
	}
	if b.hasProfile {
		s.Account.Nickname = b.profile.Nickname
		s.Account.Age = b.profile.Age
		s.Account.Gender = b.profile.Gender
	}
	if b.hasTokens {
		sig.PsKeyMap = b.psKeys
		sig.Pt4TokenMap = b.pt4Tokens
	}
	replace := func(dst *[]byte, tag uint16) {
		if v, ok := m[tag]; ok {
			crypto.ZeroBytes(*dst)
			*dst = v
		}
	}
	replace(&sig.TGT, tagTGT)
	replace(&sig.TGTKey, tagTGTKey)
	replace(&sig.UserStKey, tagUserStKey)
	replace(&sig.UserStWebSig, tagWebSig)
	replace(&sig.D2, tagD2)
	replace(&sig.D2Key, tagD2Key)

	logrus.WithFields(crypto.CredentialFields(logrus.Fields{
		"function": "DecodeT119R",
		"uin":      s.Account.Uin,
		"tags":     len(m),
	}, map[string][]byte{
		"skey":   sig.SKey,
		"d2_key": sig.D2Key,
	})).Debug("Session credentials renewed")
	return nil
}

// readT161 extracts the rollback signature (0x172) from tag 0x161.
func readT161(v []byte) ([]byte, error) {
	r := tlv.NewReader(v)
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	m, err := r.ReadTlvMap(2)
	if err != nil {
		return nil, err
	}
	return m[tagRollbackSig], nil
}
