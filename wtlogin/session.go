package wtlogin

import (
	"time"

	"github.com/opd-ai/oicq/crypto"
	"github.com/opd-ai/oicq/device"
)

// SKeyLifetime is how long a freshly issued skey stays valid.
const SKeyLifetime = 6 * time.Hour

// SigInfo holds the credentials unpacked from the account-info blob.
type SigInfo struct {
	SrmToken           []byte
	T133               []byte
	EncryptedA1        []byte
	TGT                []byte
	TGTKey             []byte
	UserStKey          []byte
	UserStWebSig       []byte
	SKey               []byte
	SKeyExpiredTime    int64
	D2                 []byte
	D2Key              []byte
	WtSessionTicketKey []byte
	DeviceToken        []byte

	// A1 and NoPicSig come from the 0x531 bundle when the server sends one.
	A1       []byte
	NoPicSig []byte

	PsKeyMap    map[string][]byte
	Pt4TokenMap map[string][]byte
}

func (s *SigInfo) wipe() {
	crypto.ZeroAll(s.SrmToken, s.T133, s.EncryptedA1, s.TGT, s.TGTKey,
		s.UserStKey, s.UserStWebSig, s.SKey, s.D2, s.D2Key,
		s.WtSessionTicketKey, s.DeviceToken, s.A1, s.NoPicSig)
	for _, v := range s.PsKeyMap {
		crypto.ZeroBytes(v)
	}
	for _, v := range s.Pt4TokenMap {
		crypto.ZeroBytes(v)
	}
	*s = SigInfo{}
}

// CacheInfo carries opaque server material between login round trips.
type CacheInfo struct {
	// DPWD, T402 and G are refreshed together whenever tag 0x402 arrives.
	DPWD []byte
	T402 []byte
	G    []byte

	T104        []byte
	T150        []byte
	T174        []byte
	T528        []byte
	T530        []byte
	RandSeed    []byte
	RollbackSig []byte
	Ksid        []byte

	// ServerTime and ClientIP are reported by tag 0x130.
	ServerTime int32
	ClientIP   []byte

	Sig SigInfo
}

// AccountInfo is the account profile reported at login.
type AccountInfo struct {
	Uin      int64
	Nickname string
	Age      uint8
	Gender   uint8
	FaceID   uint16
}

// Session is the mutable login state the decoders read and update. It is
// not safe for concurrent use; callers serialize decodes against one Session.
type Session struct {
	Device  *device.Identity
	Cache   CacheInfo
	Account AccountInfo
	Clock   TimeProvider
}

// NewSession returns a session bound to dev.
func NewSession(dev *device.Identity) *Session {
	return &Session{Device: dev, Clock: DefaultTimeProvider{}}
}

// Established reports whether a login has produced a D2 key.
func (s *Session) Established() bool {
	return len(s.Cache.Sig.D2Key) > 0
}

// Reset wipes every cached credential. The device identity is kept.
func (s *Session) Reset() {
	c := &s.Cache
	crypto.ZeroAll(c.DPWD, c.T402, c.G, c.T104, c.T150, c.T174, c.T528,
		c.T530, c.RandSeed, c.RollbackSig, c.Ksid)
	c.Sig.wipe()
	*c = CacheInfo{}
	s.Account = AccountInfo{}
}

func (s *Session) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Session) checkDevice(phase string) error {
	if s == nil || s.Device == nil {
		return &DecodeError{Phase: phase, Field: "session", Err: ErrNoDevice}
	}
	return nil
}
