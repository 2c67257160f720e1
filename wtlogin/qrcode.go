package wtlogin

import (
	"github.com/opd-ai/oicq/limits"
	"github.com/opd-ai/oicq/tlv"
	"github.com/sirupsen/logrus"
)

// qrUinMarker flags a variable-length region that embeds an 8-byte uin.
const qrUinMarker = 2

// qrFrame is the fixed 48-byte preamble of a QR-family frame.
type qrFrame struct {
	cmd  uint16
	body []byte
}

func readQRFrame(payload []byte) (qrFrame, error) {
	const phase = "qrcode"
	if err := limits.ValidateFrame(payload); err != nil {
		return qrFrame{}, malformed(phase, "frame", err)
	}
	if len(payload) < limits.MinQRFrame {
		return qrFrame{}, malformed(phase, "frame", tlv.ErrTruncated)
	}
	r := tlv.NewReader(payload)
	// skip 5, u8, u16, cmd u16, skip 21, u8, u16, u16, i32, i64
	_ = r.Skip(5 + 1 + 2)
	cmd, _ := r.ReadUint16()
	_ = r.Skip(21 + 1 + 2 + 2 + 4 + 8)
	rest := r.ReadAvailable()
	if len(rest) == 0 {
		return qrFrame{}, malformed(phase, "body", tlv.ErrTruncated)
	}
	return qrFrame{cmd: cmd, body: rest[:len(rest)-1]}, nil
}

// DecodeQRCodeResponse decodes one QR-family frame. On confirmation the
// device root secret and the session uin are replaced.
func DecodeQRCodeResponse(s *Session, payload []byte) (QRCodeState, error) {
	if err := s.checkDevice("qrcode"); err != nil {
		return nil, err
	}
	f, err := readQRFrame(payload)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "DecodeQRCodeResponse",
		"cmd":      f.cmd,
		"body":     len(f.body),
	}).Debug("Decoding QR code response")

	switch f.cmd {
	case qrCmdImageFetch:
		return decodeQRImage(f.body)
	case qrCmdPoll:
		return decodeQRPoll(s, f.body)
	}
	return nil, &ProtocolError{Phase: "qrcode", Code: int(f.cmd)}
}

func decodeQRImage(body []byte) (QRCodeState, error) {
	const phase = "qrcode image"
	r := tlv.NewReader(body)
	if err := r.Skip(6); err != nil {
		return nil, malformed(phase, "header", err)
	}
	status, err := r.ReadUint8()
	if err != nil {
		return nil, malformed(phase, "status", err)
	}
	if status != 0 {
		return nil, &ProtocolError{Phase: phase, Code: int(status)}
	}
	sig, err := r.ReadBytesShort()
	if err != nil {
		return nil, malformed(phase, "signature", err)
	}
	if err := r.Skip(2); err != nil {
		return nil, malformed(phase, "reserved", err)
	}
	m, err := r.ReadTlvMap(1)
	if err != nil {
		return nil, malformed(phase, "tlv records", err)
	}
	image, ok := m[tagQRImage]
	if !ok {
		return nil, missingTag(phase, tagQRImage)
	}
	return QRImageFetch{Image: image, Sig: sig}, nil
}

func decodeQRPoll(s *Session, body []byte) (QRCodeState, error) {
	const phase = "qrcode poll"
	r := tlv.NewReader(body)
	varLen, err := r.ReadUint16()
	if err != nil {
		return nil, malformed(phase, "length", err)
	}
	if varLen != 0 {
		varLen--
		marker, err := r.ReadUint8()
		if err != nil {
			return nil, malformed(phase, "marker", err)
		}
		if marker == qrUinMarker {
			if varLen < 8 {
				return nil, malformed(phase, "length", tlv.ErrTruncated)
			}
			if _, err := r.ReadInt64(); err != nil {
				return nil, malformed(phase, "uin", err)
			}
			varLen -= 8
		}
	}
	if err := r.Skip(int(varLen) + 4); err != nil {
		return nil, malformed(phase, "header", err)
	}
	status, err := r.ReadUint8()
	if err != nil {
		return nil, malformed(phase, "status", err)
	}

	switch status {
	case qrStatusConfirmed:
	case qrStatusWaitingForScan:
		return QRWaitingForScan{}, nil
	case qrStatusWaitingConfirm:
		return QRWaitingForConfirm{}, nil
	case qrStatusCanceled:
		return QRCanceled{}, nil
	case qrStatusTimeout:
		return QRTimeout{}, nil
	default:
		return nil, &ProtocolError{Phase: phase, Code: int(status)}
	}

	const confirm = "qrcode confirm"
	uin, err := r.ReadInt64()
	if err != nil {
		return nil, malformed(confirm, "uin", err)
	}
	if err := r.Skip(4 + 2); err != nil {
		return nil, malformed(confirm, "header", err)
	}
	m, err := r.ReadTlvMap(2)
	if err != nil {
		return nil, malformed(confirm, "tlv records", err)
	}
	for _, tag := range []uint16{tagQRTmpPwd, tagQRRootSecret, tagQRTmpNoPicSig, tagQRTgt} {
		if !m.Has(tag) {
			return nil, missingTag(confirm, tag)
		}
	}
	if err := s.Device.SetRootSecret(m[tagQRRootSecret]); err != nil {
		return nil, malformed(confirm, "tag 0x1e", err)
	}
	s.Account.Uin = uin

	logrus.WithFields(logrus.Fields{
		"function": "decodeQRPoll",
		"uin":      uin,
	}).Info("QR code login confirmed")
	return QRConfirmed{
		TmpPwd:      m[tagQRTmpPwd],
		TmpNoPicSig: m[tagQRTmpNoPicSig],
		TgtQR:       m[tagQRTgt],
	}, nil
}
