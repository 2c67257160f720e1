package wtlogin

import (
	"bytes"
	"fmt"

	"github.com/opd-ai/oicq/crypto"
	"github.com/opd-ai/oicq/interfaces"
	"github.com/opd-ai/oicq/limits"
	"github.com/opd-ai/oicq/tlv"
	"github.com/sirupsen/logrus"
)

const (
	loginSubHeaderLen = 5
	displayTokenLen   = 16
)

// AccountFrozenMessage is the fixed text carried by AccountFrozen.
const AccountFrozenMessage = "account is frozen"

// DecodeLoginResponse decodes one login-family frame against s. The builder
// is only consulted for the device-lock step and may be nil otherwise.
func DecodeLoginResponse(s *Session, builder interfaces.IPacketBuilder, payload []byte) (LoginResponse, error) {
	const phase = "login"
	if err := s.checkDevice(phase); err != nil {
		return nil, err
	}
	if err := limits.ValidateFrame(payload); err != nil {
		return nil, malformed(phase, "frame", err)
	}

	r := tlv.NewReader(payload)
	if err := r.Skip(loginSubHeaderLen); err != nil {
		return nil, malformed(phase, "sub-header", err)
	}
	t, err := r.ReadUint8()
	if err != nil {
		return nil, malformed(phase, "outcome code", err)
	}
	if err := r.Skip(2); err != nil {
		return nil, malformed(phase, "reserved", err)
	}
	m, err := r.ReadTlvMap(2)
	if err != nil {
		return nil, malformed(phase, "tlv records", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "DecodeLoginResponse",
		"code":     t,
		"tags":     m.Tags(),
	}).Debug("Decoding login response")

	if t402, ok := m[tagDisplayToken]; ok {
		if err := s.applyDisplayToken(t402); err != nil {
			return nil, malformed(phase, "tag 0x402", err)
		}
	}

	branch := fmt.Sprintf("login(t=%d)", t)
	switch t {
	case codeSuccess:
		return decodeLoginSuccess(s, branch, m)
	case codeVerify:
		return decodeLoginVerify(s, branch, m)
	case codeFrozen:
		return AccountFrozen{Message: AccountFrozenMessage}, nil
	case codeSMS, codeSMSAlt:
		resp, err := decodeLoginSMS(s, branch, m)
		if resp != nil || err != nil {
			return resp, err
		}
	case codeTooManySMS:
		return TooManySMSRequests{}, nil
	case codeDeviceLock:
		return decodeDeviceLock(s, builder, branch, m)
	}
	return decodeLoginFallback(branch, int(t), m)
}

// applyDisplayToken stores a fresh display password and the 0x402 payload,
// then recomputes G = MD5(GUID || DPWD || T402).
func (s *Session) applyDisplayToken(t402 []byte) error {
	dpwd, err := crypto.RandomString(displayTokenLen)
	if err != nil {
		return err
	}
	s.Cache.DPWD = []byte(dpwd)
	s.Cache.T402 = t402
	s.Cache.G = crypto.MD5(s.Device.GUID, s.Cache.DPWD, t402)
	return nil
}

func decodeLoginSuccess(s *Session, phase string, m tlv.Map) (LoginResponse, error) {
	t119, ok := m[tagAccountInfo]
	if !ok {
		return nil, missingTag(phase, tagAccountInfo)
	}
	var rollback []byte
	if v, ok := m[tagT161]; ok {
		var err error
		if rollback, err = readT161(v); err != nil {
			return nil, malformed(phase, "tag 0x161", err)
		}
	}
	if err := DecodeT119(s, t119, s.Device.TGTGTKey); err != nil {
		return nil, err
	}

	if v, ok := m[tagT150]; ok {
		s.Cache.T150 = v
	}
	if rollback != nil {
		s.Cache.RollbackSig = rollback
	}
	if v, ok := m[tagRandSeed]; ok {
		s.Cache.RandSeed = v
	}

	logrus.WithFields(logrus.Fields{
		"function": "decodeLoginSuccess",
		"uin":      s.Account.Uin,
	}).Info("Login succeeded")
	return Success{}, nil
}

func decodeLoginVerify(s *Session, phase string, m tlv.Map) (LoginResponse, error) {
	t104, ok := m[tagSig104]
	if !ok {
		return nil, missingTag(phase, tagSig104)
	}

	var resp LoginResponse = UnknownError{}
	if url, ok := m[tagSliderURL]; ok {
		resp = NeedSlider{VerifyURL: string(url)}
	} else if m.Has(tagCaptchaFlag) {
		t105, ok := m[tagCaptchaImage]
		if !ok {
			return nil, missingTag(phase, tagCaptchaImage)
		}
		captcha, err := readCaptcha(t105)
		if err != nil {
			return nil, malformed(phase, "tag 0x105", err)
		}
		resp = captcha
	}

	s.Cache.T104 = t104
	return resp, nil
}

// readCaptcha parses [len u16][pad u16][len bytes sign][image...].
func readCaptcha(v []byte) (NeedCaptcha, error) {
	r := tlv.NewReader(v)
	n, err := r.ReadUint16()
	if err != nil {
		return NeedCaptcha{}, err
	}
	if err := r.Skip(2); err != nil {
		return NeedCaptcha{}, err
	}
	sign, err := r.ReadBytes(int(n))
	if err != nil {
		return NeedCaptcha{}, err
	}
	return NeedCaptcha{Sign: sign, Image: r.ReadAvailable()}, nil
}

// decodeLoginSMS returns a nil response and nil error when none of its tags
// match, so the caller can try the error fallback.
func decodeLoginSMS(s *Session, phase string, m tlv.Map) (LoginResponse, error) {
	if t174, ok := m[tagSMSContext]; ok {
		for _, tag := range []uint16{tagSig104, tagRandSeed, tagSMSPhone, tagSMSMessage} {
			if !m.Has(tag) {
				return nil, missingTag(phase, tag)
			}
		}
		phone, err := tlv.NewReader(m[tagSMSPhone]).ReadStringInt32()
		if err != nil {
			return nil, malformed(phase, "tag 0x178", err)
		}
		message := string(m[tagSMSMessage])

		s.Cache.T174 = t174
		s.Cache.T104 = m[tagSig104]
		s.Cache.RandSeed = m[tagRandSeed]

		if url, ok := m[tagVerifyURL]; ok {
			return SMSOrVerifyNeeded{VerifyURL: string(url), Phone: phone, Message: message}, nil
		}
		return SMSNeeded{Phone: phone, Message: message}, nil
	}

	if m.Has(tagAltSMS) {
		t104, ok := m[tagSig104]
		if !ok {
			return nil, missingTag(phase, tagSig104)
		}
		s.Cache.T104 = t104
		return SMSNeeded{}, nil
	}

	if url, ok := m[tagVerifyURL]; ok {
		return UnsafeDevice{VerifyURL: string(url)}, nil
	}
	return nil, nil
}

func decodeDeviceLock(s *Session, builder interfaces.IPacketBuilder, phase string, m tlv.Map) (LoginResponse, error) {
	t104, ok := m[tagSig104]
	if !ok {
		return nil, missingTag(phase, tagSig104)
	}
	seed, ok := m[tagRandSeed]
	if !ok {
		return nil, missingTag(phase, tagRandSeed)
	}
	if builder == nil {
		return nil, &DecodeError{Phase: phase, Field: "packet builder", Err: ErrNoPacketBuilder}
	}

	state := interfaces.DeviceLockState{
		Uin:      s.Account.Uin,
		GUID:     bytes.Clone(s.Device.GUID),
		T104:     bytes.Clone(t104),
		RandSeed: bytes.Clone(seed),
		T402:     bytes.Clone(s.Cache.T402),
		G:        bytes.Clone(s.Cache.G),
	}
	if err := state.Validate(); err != nil {
		return nil, &DecodeError{Phase: phase, Field: "device lock state", Err: err}
	}

	s.Cache.T104 = t104
	s.Cache.RandSeed = seed

	seq, packet, err := builder.BuildDeviceLockLoginPacket(state)
	if err != nil {
		return nil, fmt.Errorf("build device lock follow-up: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "decodeDeviceLock",
		"seq":      seq,
	}).Debug("Device lock follow-up built")
	return NeedDeviceLock{Seq: seq, Packet: packet}, nil
}

func decodeLoginFallback(phase string, code int, m tlv.Map) (LoginResponse, error) {
	if v, ok := m[tagErrorA]; ok {
		return readOtherError(phase, tagErrorA, v, 2)
	}
	if v, ok := m[tagErrorB]; ok {
		return readOtherError(phase, tagErrorB, v, 4)
	}
	logrus.WithFields(logrus.Fields{
		"function": "decodeLoginFallback",
		"code":     code,
		"tags":     m.Tags(),
	}).Warn("Unrecognized login response")
	return nil, &ProtocolError{Phase: "login", Code: code}
}

func readOtherError(phase string, tag uint16, v []byte, skip int) (LoginResponse, error) {
	field := fmt.Sprintf("tag 0x%x", tag)
	r := tlv.NewReader(v)
	if err := r.Skip(skip); err != nil {
		return nil, malformed(phase, field, err)
	}
	title, err := r.ReadStringShort()
	if err != nil {
		return nil, malformed(phase, field, err)
	}
	message, err := r.ReadStringShort()
	if err != nil {
		return nil, malformed(phase, field, err)
	}
	return OtherError{Title: title, Message: message}, nil
}
