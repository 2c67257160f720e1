package wtlogin

import (
	"github.com/opd-ai/oicq/crypto"
	"github.com/opd-ai/oicq/limits"
	"github.com/opd-ai/oicq/tlv"
	"github.com/sirupsen/logrus"
)

// Exchange sub-commands.
const (
	ExchangeRenewD2   = 11
	ExchangeRefreshST = 15
)

// DecodeExchangeResponse decodes a credential-exchange frame and refreshes
// the session. Sub-command 15 uses the device root secret; sub-command 11
// uses MD5 of the current D2 key.
func DecodeExchangeResponse(s *Session, payload []byte) error {
	const phase = "exchange"
	if err := s.checkDevice(phase); err != nil {
		return err
	}
	if err := limits.ValidateFrame(payload); err != nil {
		return malformed(phase, "frame", err)
	}
	r := tlv.NewReader(payload)
	cmd, err := r.ReadUint16()
	if err != nil {
		return malformed(phase, "sub-command", err)
	}
	t, err := r.ReadUint8()
	if err != nil {
		return malformed(phase, "outcome code", err)
	}
	if err := r.Skip(2); err != nil {
		return malformed(phase, "reserved", err)
	}
	m, err := r.ReadTlvMap(2)
	if err != nil {
		return malformed(phase, "tlv records", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "DecodeExchangeResponse",
		"cmd":      cmd,
		"code":     t,
	}).Debug("Decoding credential exchange")

	if t != 0 {
		return &ProtocolError{Phase: phase, Code: int(t)}
	}
	switch cmd {
	case ExchangeRefreshST, ExchangeRenewD2:
	default:
		return &ProtocolError{Phase: phase, Code: int(cmd)}
	}
	t119, ok := m[tagAccountInfo]
	if !ok {
		return missingTag(phase, tagAccountInfo)
	}

	if cmd == ExchangeRefreshST {
		return DecodeT119R(s, t119, s.Device.TGTGTKey)
	}
	if !s.Established() {
		return &DecodeError{Phase: phase, Field: "d2 key", Err: ErrSessionNotEstablished}
	}
	return DecodeT119(s, t119, crypto.MD5(s.Cache.Sig.D2Key))
}
