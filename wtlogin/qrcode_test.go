package wtlogin

import (
	"testing"

	"github.com/opd-ai/oicq/device"
	"github.com/opd-ai/oicq/tlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmTail(t *testing.T, uin uint64, recs ...rec) []byte {
	w := tlv.NewWriter()
	w.WriteUint64(uin)
	w.WriteBytes(make([]byte, 6))
	writeRecords(t, w, 2, recs)
	return w.Bytes()
}

func TestDecodeQRImageFetch(t *testing.T) {
	s := newTestSession(t)

	w := tlv.NewWriter()
	w.WriteBytes(make([]byte, 6))
	w.WriteUint8(0)
	require.NoError(t, w.WriteBytesShort([]byte("qr-sig")))
	w.WriteUint16(0)
	require.NoError(t, w.WriteTlv(1, tagQRImage, []byte("PNG")))

	state, err := DecodeQRCodeResponse(s, qrFrameBytes(qrCmdImageFetch, w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, QRImageFetch{Image: []byte("PNG"), Sig: []byte("qr-sig")}, state)
}

func TestDecodeQRImageFetchFailures(t *testing.T) {
	s := newTestSession(t)

	body := append(make([]byte, 6), 1)
	_, err := DecodeQRCodeResponse(s, qrFrameBytes(qrCmdImageFetch, body))
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Code)

	w := tlv.NewWriter()
	w.WriteBytes(make([]byte, 7))
	w.WriteUint16(0)
	w.WriteUint16(0)
	_, err = DecodeQRCodeResponse(s, qrFrameBytes(qrCmdImageFetch, w.Bytes()))
	assert.ErrorIs(t, err, ErrMissingTag)
}

func TestDecodeQRPollStatuses(t *testing.T) {
	tests := []struct {
		status uint8
		want   QRCodeState
	}{
		{qrStatusWaitingForScan, QRWaitingForScan{}},
		{qrStatusWaitingConfirm, QRWaitingForConfirm{}},
		{qrStatusCanceled, QRCanceled{}},
		{qrStatusTimeout, QRTimeout{}},
	}
	for _, tt := range tests {
		s := newTestSession(t)
		state, err := DecodeQRCodeResponse(s, qrFrameBytes(qrCmdPoll, qrPollBody(tt.status, nil)))
		require.NoError(t, err, "status 0x%x", tt.status)
		assert.Equal(t, tt.want, state)
	}

	s := newTestSession(t)
	_, err := DecodeQRCodeResponse(s, qrFrameBytes(qrCmdPoll, qrPollBody(0x99, nil)))
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0x99, pe.Code)
}

func TestDecodeQRPollMarker(t *testing.T) {
	s := newTestSession(t)

	// var length 11: one marker byte, an 8-byte uin, two spare bytes.
	w := tlv.NewWriter()
	w.WriteUint16(11)
	w.WriteUint8(qrUinMarker)
	w.WriteUint64(777)
	w.WriteUint16(0xffff)
	w.WriteUint32(0)
	w.WriteUint8(qrStatusWaitingConfirm)

	state, err := DecodeQRCodeResponse(s, qrFrameBytes(qrCmdPoll, w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, QRWaitingForConfirm{}, state)

	// Without the marker the same bytes are skipped as opaque data.
	w = tlv.NewWriter()
	w.WriteUint16(3)
	w.WriteUint8(9)
	w.WriteUint16(0)
	w.WriteUint32(0)
	w.WriteUint8(qrStatusTimeout)
	state, err = DecodeQRCodeResponse(s, qrFrameBytes(qrCmdPoll, w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, QRTimeout{}, state)

	// A marker with no room for the uin is malformed.
	w = tlv.NewWriter()
	w.WriteUint16(4)
	w.WriteUint8(qrUinMarker)
	w.WriteBytes(make([]byte, 16))
	_, err = DecodeQRCodeResponse(s, qrFrameBytes(qrCmdPoll, w.Bytes()))
	assert.ErrorIs(t, err, tlv.ErrTruncated)
}

func TestDecodeQRConfirmed(t *testing.T) {
	s := newTestSession(t)
	secret := key16(0x40)

	tail := confirmTail(t, 10001,
		rec{tagQRTmpPwd, []byte("tmp-pwd")},
		rec{tagQRRootSecret, secret},
		rec{tagQRTmpNoPicSig, []byte("no-pic")},
		rec{tagQRTgt, []byte("tgt-qr")},
	)
	state, err := DecodeQRCodeResponse(s, qrFrameBytes(qrCmdPoll, qrPollBody(qrStatusConfirmed, tail)))
	require.NoError(t, err)
	assert.Equal(t, QRConfirmed{
		TmpPwd:      []byte("tmp-pwd"),
		TmpNoPicSig: []byte("no-pic"),
		TgtQR:       []byte("tgt-qr"),
	}, state)
	assert.Equal(t, secret, s.Device.TGTGTKey)
	assert.Equal(t, int64(10001), s.Account.Uin)
}

func TestDecodeQRConfirmedFailuresLeaveDevice(t *testing.T) {
	tests := []struct {
		name string
		recs []rec
	}{
		{"missing tgt", []rec{
			{tagQRTmpPwd, []byte("p")}, {tagQRRootSecret, key16(1)}, {tagQRTmpNoPicSig, []byte("n")},
		}},
		{"missing root secret", []rec{
			{tagQRTmpPwd, []byte("p")}, {tagQRTmpNoPicSig, []byte("n")}, {tagQRTgt, []byte("t")},
		}},
		{"short root secret", []rec{
			{tagQRTmpPwd, []byte("p")}, {tagQRRootSecret, []byte("short")},
			{tagQRTmpNoPicSig, []byte("n")}, {tagQRTgt, []byte("t")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			before := append([]byte(nil), s.Device.TGTGTKey...)

			frame := qrFrameBytes(qrCmdPoll, qrPollBody(qrStatusConfirmed, confirmTail(t, 5, tt.recs...)))
			_, err := DecodeQRCodeResponse(s, frame)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, before, s.Device.TGTGTKey)
			assert.Zero(t, s.Account.Uin)
		})
	}

	s := newTestSession(t)
	frame := qrFrameBytes(qrCmdPoll, qrPollBody(qrStatusConfirmed, confirmTail(t, 5,
		rec{tagQRTmpPwd, []byte("p")}, rec{tagQRRootSecret, []byte("short")},
		rec{tagQRTmpNoPicSig, []byte("n")}, rec{tagQRTgt, []byte("t")})))
	_, err := DecodeQRCodeResponse(s, frame)
	assert.ErrorIs(t, err, device.ErrRootSecretSize)
}

func TestDecodeQRFrameErrors(t *testing.T) {
	s := newTestSession(t)

	_, err := DecodeQRCodeResponse(s, make([]byte, 47))
	assert.ErrorIs(t, err, tlv.ErrTruncated)

	_, err = DecodeQRCodeResponse(s, make([]byte, 48))
	assert.ErrorIs(t, err, tlv.ErrTruncated)

	_, err = DecodeQRCodeResponse(s, qrFrameBytes(0x99, []byte{1, 2}))
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0x99, pe.Code)
}

func FuzzDecodeQRCodeResponse(f *testing.F) {
	f.Add(qrFrameBytes(qrCmdPoll, qrPollBody(qrStatusConfirmed, nil)))
	f.Add(qrFrameBytes(qrCmdPoll, []byte{0, 20, 2}))
	f.Add(qrFrameBytes(qrCmdImageFetch, make([]byte, 12)))
	f.Fuzz(func(t *testing.T, data []byte) {
		s := newTestSession(t)
		_, _ = DecodeQRCodeResponse(s, data)
	})
}
