package wtlogin

import (
	"testing"
	"time"

	"github.com/opd-ai/oicq/crypto"
	"github.com/opd-ai/oicq/device"
	"github.com/opd-ai/oicq/tlv"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type rec struct {
	tag uint16
	val []byte
}

func newTestSession(t testing.TB) *Session {
	t.Helper()
	id, err := device.Random()
	require.NoError(t, err)
	s := NewSession(id)
	s.Clock = fixedClock{testNow}
	return s
}

func writeRecords(t testing.TB, w *tlv.Writer, width int, recs []rec) {
	t.Helper()
	for _, r := range recs {
		require.NoError(t, w.WriteTlv(width, r.tag, r.val))
	}
}

// loginFrame builds [5 header][t][2 reserved][tlv...].
func loginFrame(t testing.TB, code uint8, recs ...rec) []byte {
	t.Helper()
	w := tlv.NewWriter()
	w.WriteBytes(make([]byte, loginSubHeaderLen))
	w.WriteUint8(code)
	w.WriteUint16(0)
	writeRecords(t, w, 2, recs)
	return w.Bytes()
}

// exchangeFrame builds [cmd][t][2 reserved][tlv...].
func exchangeFrame(t testing.TB, cmd uint16, code uint8, recs ...rec) []byte {
	t.Helper()
	w := tlv.NewWriter()
	w.WriteUint16(cmd)
	w.WriteUint8(code)
	w.WriteUint16(0)
	writeRecords(t, w, 2, recs)
	return w.Bytes()
}

// sealAccountInfo builds an encrypted 0x119 payload.
func sealAccountInfo(t testing.TB, key []byte, recs ...rec) []byte {
	t.Helper()
	w := tlv.NewWriter()
	w.WriteUint16(uint16(len(recs)))
	writeRecords(t, w, 2, recs)
	c, err := crypto.NewTEA(key)
	require.NoError(t, err)
	sealed, err := c.Encrypt(w.Bytes())
	require.NoError(t, err)
	return sealed
}

// qrFrameBytes wraps body in the 48-byte preamble plus one trailing byte.
func qrFrameBytes(cmd uint16, body []byte) []byte {
	w := tlv.NewWriter()
	w.WriteBytes(make([]byte, 5))
	w.WriteUint8(0)
	w.WriteUint16(0)
	w.WriteUint16(cmd)
	w.WriteBytes(make([]byte, 21))
	w.WriteUint8(0)
	w.WriteUint16(0)
	w.WriteUint16(0)
	w.WriteUint32(0)
	w.WriteUint64(0)
	w.WriteBytes(body)
	w.WriteUint8(0x03)
	return w.Bytes()
}

func qrPollBody(status uint8, tail []byte) []byte {
	w := tlv.NewWriter()
	w.WriteUint16(0)
	w.WriteUint32(0)
	w.WriteUint8(status)
	w.WriteBytes(tail)
	return w.Bytes()
}

func u16(v uint16) []byte {
	w := tlv.NewWriter()
	w.WriteUint16(v)
	return w.Bytes()
}

func u32(v uint32) []byte {
	w := tlv.NewWriter()
	w.WriteUint32(v)
	return w.Bytes()
}

func shortStrings(t testing.TB, skip int, parts ...string) []byte {
	t.Helper()
	w := tlv.NewWriter()
	w.WriteBytes(make([]byte, skip))
	for _, p := range parts {
		require.NoError(t, w.WriteStringShort(p))
	}
	return w.Bytes()
}

func profileBytes(t testing.TB, face uint16, age, gender uint8, nick string) []byte {
	t.Helper()
	w := tlv.NewWriter()
	w.WriteUint16(face)
	w.WriteUint8(age)
	w.WriteUint8(gender)
	require.NoError(t, w.WriteBytesTiny([]byte(nick)))
	return w.Bytes()
}

func key16(b byte) []byte {
	k := make([]byte, 16)
	for i := range k {
		k[i] = b + byte(i)
	}
	return k
}
