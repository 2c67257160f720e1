package wtlogin

import (
	"errors"
	"testing"

	"github.com/opd-ai/oicq/crypto"
	"github.com/opd-ai/oicq/interfaces"
	"github.com/opd-ai/oicq/limits"
	"github.com/opd-ai/oicq/tlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successT119(t *testing.T, key []byte) []byte {
	return sealAccountInfo(t, key,
		rec{tagUin, u32(12345)},
		rec{tagProfile, profileBytes(t, 3, 20, 1, "nick")},
		rec{tagTGT, []byte("tgt")},
		rec{tagTGTKey, key16(0x10)},
		rec{tagD2, []byte("d2-ticket")},
		rec{tagD2Key, key16(0x20)},
		rec{tagSKey, []byte("skey")},
		rec{tagKsid, []byte("ksid")},
	)
}

func TestDecodeLoginSuccess(t *testing.T) {
	s := newTestSession(t)
	frame := loginFrame(t, codeSuccess,
		rec{tagAccountInfo, successT119(t, s.Device.TGTGTKey)},
		rec{tagT150, []byte("t150")},
		rec{tagRandSeed, []byte("seed")},
	)

	resp, err := DecodeLoginResponse(s, nil, frame)
	require.NoError(t, err)
	assert.Equal(t, Success{}, resp)

	assert.Equal(t, int64(12345), s.Account.Uin)
	assert.Equal(t, "nick", s.Account.Nickname)
	assert.Equal(t, uint8(20), s.Account.Age)
	assert.Equal(t, []byte("d2-ticket"), s.Cache.Sig.D2)
	assert.Equal(t, key16(0x20), s.Cache.Sig.D2Key)
	assert.Equal(t, []byte("skey"), s.Cache.Sig.SKey)
	assert.Equal(t, testNow.Add(SKeyLifetime).Unix(), s.Cache.Sig.SKeyExpiredTime)
	assert.Equal(t, []byte("ksid"), s.Cache.Ksid)
	assert.Equal(t, []byte("t150"), s.Cache.T150)
	assert.Equal(t, []byte("seed"), s.Cache.RandSeed)
	assert.True(t, s.Established())
}

func TestDecodeLoginSuccessMissingAccountInfo(t *testing.T) {
	s := newTestSession(t)
	_, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSuccess, rec{tagT150, []byte("x")}))

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "tag 0x119", de.Field)
	assert.ErrorIs(t, err, ErrMissingTag)
	assert.Nil(t, s.Cache.T150, "no mutation on failure")
}

func TestDecodeLoginSuccessWrongKey(t *testing.T) {
	s := newTestSession(t)
	frame := loginFrame(t, codeSuccess, rec{tagAccountInfo, successT119(t, key16(0x7f))})

	_, err := DecodeLoginResponse(s, nil, frame)
	assert.ErrorIs(t, err, crypto.ErrTEACiphertext)
	assert.Zero(t, s.Account.Uin)
	assert.False(t, s.Established())
}

func TestDecodeLoginRollbackSig(t *testing.T) {
	s := newTestSession(t)
	w := tlv.NewWriter()
	w.WriteUint16(0)
	require.NoError(t, w.WriteTlv(2, tagRollbackSig, []byte("rollback")))

	frame := loginFrame(t, codeSuccess,
		rec{tagAccountInfo, successT119(t, s.Device.TGTGTKey)},
		rec{tagT161, w.Bytes()},
	)
	_, err := DecodeLoginResponse(s, nil, frame)
	require.NoError(t, err)
	assert.Equal(t, []byte("rollback"), s.Cache.RollbackSig)
}

func TestDisplayTokenDerivation(t *testing.T) {
	s := newTestSession(t)
	frame := loginFrame(t, codeVerify,
		rec{tagDisplayToken, []byte("display-token")},
		rec{tagSig104, []byte("sig")},
		rec{tagSliderURL, []byte("http://x")},
	)

	_, err := DecodeLoginResponse(s, nil, frame)
	require.NoError(t, err)
	assert.Len(t, s.Cache.DPWD, displayTokenLen)
	assert.Equal(t, []byte("display-token"), s.Cache.T402)
	assert.Equal(t, crypto.MD5(s.Device.GUID, s.Cache.DPWD, s.Cache.T402), s.Cache.G)

	// A later frame without 0x402 leaves G alone.
	g := s.Cache.G
	_, err = DecodeLoginResponse(s, nil, loginFrame(t, codeFrozen))
	require.NoError(t, err)
	assert.Equal(t, g, s.Cache.G)
}

func TestDecodeLoginVerify(t *testing.T) {
	captcha := append([]byte{0x00, 0x04, 0x00, 0x00}, []byte("SIGNIMG...")...)

	tests := []struct {
		name string
		recs []rec
		want LoginResponse
	}{
		{
			name: "slider",
			recs: []rec{{tagSig104, []byte("sig")}, {tagSliderURL, []byte("http://x")}},
			want: NeedSlider{VerifyURL: "http://x"},
		},
		{
			name: "captcha",
			recs: []rec{{tagSig104, []byte("sig")}, {tagCaptchaFlag, nil}, {tagCaptchaImage, captcha}},
			want: NeedCaptcha{Sign: []byte("SIGN"), Image: []byte("IMG...")},
		},
		{
			name: "unknown",
			recs: []rec{{tagSig104, []byte("sig")}},
			want: UnknownError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeVerify, tt.recs...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp)
			assert.Equal(t, []byte("sig"), s.Cache.T104)
		})
	}
}

func TestDecodeLoginVerifyFailures(t *testing.T) {
	tests := []struct {
		name  string
		recs  []rec
		field string
	}{
		{"missing 0x104", []rec{{tagSliderURL, []byte("u")}}, "tag 0x104"},
		{"missing 0x105", []rec{{tagSig104, []byte("s")}, {tagCaptchaFlag, nil}}, "tag 0x105"},
		{"short 0x105", []rec{{tagSig104, []byte("s")}, {tagCaptchaFlag, nil}, {tagCaptchaImage, []byte{0, 9, 0, 0, 'a'}}}, "tag 0x105"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			_, err := DecodeLoginResponse(s, nil, loginFrame(t, codeVerify, tt.recs...))
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.Nil(t, s.Cache.T104)
		})
	}
}

func TestDecodeLoginFixedOutcomes(t *testing.T) {
	s := newTestSession(t)

	resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeFrozen))
	require.NoError(t, err)
	assert.Equal(t, AccountFrozen{Message: AccountFrozenMessage}, resp)

	resp, err = DecodeLoginResponse(s, nil, loginFrame(t, codeTooManySMS))
	require.NoError(t, err)
	assert.Equal(t, TooManySMSRequests{}, resp)
}

func TestDecodeLoginSMS(t *testing.T) {
	phone := append([]byte{0, 0, 0, 5}, []byte("12345")...)
	smsTags := []rec{
		{tagSMSContext, []byte("t174")},
		{tagSig104, []byte("t104")},
		{tagRandSeed, []byte("seed")},
		{tagSMSPhone, phone},
		{tagSMSMessage, []byte("msg")},
	}

	t.Run("sms needed", func(t *testing.T) {
		s := newTestSession(t)
		resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMS, smsTags...))
		require.NoError(t, err)
		assert.Equal(t, SMSNeeded{Phone: "12345", Message: "msg"}, resp)
		assert.Equal(t, []byte("t174"), s.Cache.T174)
		assert.Equal(t, []byte("t104"), s.Cache.T104)
		assert.Equal(t, []byte("seed"), s.Cache.RandSeed)
	})

	t.Run("sms or verify", func(t *testing.T) {
		s := newTestSession(t)
		recs := append(append([]rec{}, smsTags...), rec{tagVerifyURL, []byte("http://v")})
		resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMSAlt, recs...))
		require.NoError(t, err)
		assert.Equal(t, SMSOrVerifyNeeded{VerifyURL: "http://v", Phone: "12345", Message: "msg"}, resp)
	})

	t.Run("alternate sms", func(t *testing.T) {
		s := newTestSession(t)
		resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMS,
			rec{tagAltSMS, []byte{1}}, rec{tagSig104, []byte("t104")}))
		require.NoError(t, err)
		assert.Equal(t, SMSNeeded{}, resp)
		assert.Equal(t, []byte("t104"), s.Cache.T104)
	})

	t.Run("unsafe device", func(t *testing.T) {
		s := newTestSession(t)
		resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMS, rec{tagVerifyURL, []byte("http://u")}))
		require.NoError(t, err)
		assert.Equal(t, UnsafeDevice{VerifyURL: "http://u"}, resp)
	})

	t.Run("missing companion", func(t *testing.T) {
		s := newTestSession(t)
		_, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMS, smsTags[:4]...))
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "tag 0x17e", de.Field)
		assert.Nil(t, s.Cache.T174)
	})

	t.Run("negative phone length", func(t *testing.T) {
		s := newTestSession(t)
		recs := append([]rec{}, smsTags...)
		recs[3] = rec{tagSMSPhone, []byte{0xff, 0xff, 0xff, 0xff}}
		_, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMS, recs...))
		assert.ErrorIs(t, err, tlv.ErrNegativeLength)
	})

	t.Run("no matching tags falls through", func(t *testing.T) {
		s := newTestSession(t)
		_, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMS))
		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, codeSMS, pe.Code)

		resp, err := DecodeLoginResponse(s, nil, loginFrame(t, codeSMSAlt,
			rec{tagErrorA, shortStrings(t, 2, "Title", "Try later")}))
		require.NoError(t, err)
		assert.Equal(t, OtherError{Title: "Title", Message: "Try later"}, resp)
	})
}

func TestDecodeLoginDeviceLock(t *testing.T) {
	s := newTestSession(t)
	s.Account.Uin = 42

	var got interfaces.DeviceLockState
	calls := 0
	builder := interfaces.PacketBuilderFunc(func(state interfaces.DeviceLockState) (uint16, []byte, error) {
		calls++
		got = state
		return 7, []byte("packet"), nil
	})

	frame := loginFrame(t, codeDeviceLock,
		rec{tagDisplayToken, []byte("t402")},
		rec{tagSig104, []byte("t104")},
		rec{tagRandSeed, []byte("seed")},
	)
	resp, err := DecodeLoginResponse(s, builder, frame)
	require.NoError(t, err)
	assert.Equal(t, NeedDeviceLock{Seq: 7, Packet: []byte("packet")}, resp)
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(42), got.Uin)
	assert.Equal(t, []byte("t104"), got.T104)
	assert.Equal(t, []byte("seed"), got.RandSeed)
	assert.Equal(t, s.Cache.G, got.G)
	assert.NoError(t, got.Validate())
}

func TestDecodeLoginDeviceLockFailures(t *testing.T) {
	frame := func(t *testing.T) []byte {
		return loginFrame(t, codeDeviceLock, rec{tagSig104, []byte("a")}, rec{tagRandSeed, []byte("b")})
	}

	t.Run("no builder", func(t *testing.T) {
		s := newTestSession(t)
		_, err := DecodeLoginResponse(s, nil, frame(t))
		assert.ErrorIs(t, err, ErrNoPacketBuilder)
		assert.Nil(t, s.Cache.T104)
	})

	t.Run("builder error", func(t *testing.T) {
		s := newTestSession(t)
		boom := errors.New("boom")
		builder := interfaces.PacketBuilderFunc(func(interfaces.DeviceLockState) (uint16, []byte, error) {
			return 0, nil, boom
		})
		_, err := DecodeLoginResponse(s, builder, frame(t))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("incomplete state", func(t *testing.T) {
		calls := 0
		builder := interfaces.PacketBuilderFunc(func(interfaces.DeviceLockState) (uint16, []byte, error) {
			calls++
			return 1, nil, nil
		})

		s := newTestSession(t)
		s.Device.GUID = nil
		_, err := DecodeLoginResponse(s, builder, frame(t))
		assert.ErrorIs(t, err, interfaces.ErrIncompleteDeviceLockState)
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
		assert.Nil(t, s.Cache.T104)
		assert.Nil(t, s.Cache.RandSeed)

		s = newTestSession(t)
		_, err = DecodeLoginResponse(s, builder,
			loginFrame(t, codeDeviceLock, rec{tagSig104, nil}, rec{tagRandSeed, []byte("b")}))
		assert.ErrorIs(t, err, interfaces.ErrIncompleteDeviceLockState)
		assert.Zero(t, calls)
	})

	t.Run("missing seed", func(t *testing.T) {
		s := newTestSession(t)
		_, err := DecodeLoginResponse(s, nil, loginFrame(t, codeDeviceLock, rec{tagSig104, []byte("a")}))
		assert.ErrorIs(t, err, ErrMissingTag)
	})
}

func TestDecodeLoginFallback(t *testing.T) {
	s := newTestSession(t)

	resp, err := DecodeLoginResponse(s, nil, loginFrame(t, 1, rec{tagErrorA, shortStrings(t, 2, "A", "first")}))
	require.NoError(t, err)
	assert.Equal(t, OtherError{Title: "A", Message: "first"}, resp)

	resp, err = DecodeLoginResponse(s, nil, loginFrame(t, 1, rec{tagErrorB, shortStrings(t, 4, "B", "second")}))
	require.NoError(t, err)
	assert.Equal(t, OtherError{Title: "B", Message: "second"}, resp)

	_, err = DecodeLoginResponse(s, nil, loginFrame(t, 1, rec{tagErrorA, []byte{0, 0, 0, 9}}))
	assert.ErrorIs(t, err, tlv.ErrTruncated)

	_, err = DecodeLoginResponse(s, nil, loginFrame(t, 99))
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 99, pe.Code)
}

func TestDecodeLoginMalformedFrames(t *testing.T) {
	s := newTestSession(t)

	_, err := DecodeLoginResponse(s, nil, nil)
	assert.ErrorIs(t, err, limits.ErrFrameEmpty)

	_, err = DecodeLoginResponse(s, nil, []byte{1, 2, 3})
	assert.ErrorIs(t, err, tlv.ErrTruncated)

	frame := loginFrame(t, codeSuccess, rec{tagAccountInfo, []byte("abc")})
	_, err = DecodeLoginResponse(s, nil, frame[:len(frame)-1])
	assert.ErrorIs(t, err, tlv.ErrTruncated)

	_, err = DecodeLoginResponse(&Session{}, nil, frame)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func FuzzDecodeLoginResponse(f *testing.F) {
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{0, 0, 0, 0, 0, 2, 0, 0, 0x01, 0x04, 0x00, 0x01, 0x00})
	f.Add([]byte{0, 0, 0, 0, 0, 0xcc, 0, 0, 0x01, 0x04, 0x00, 0x00, 0x04, 0x03, 0x00, 0x00})
	builder := interfaces.PacketBuilderFunc(func(interfaces.DeviceLockState) (uint16, []byte, error) {
		return 1, []byte{1}, nil
	})
	f.Fuzz(func(t *testing.T, data []byte) {
		s := newTestSession(t)
		_, _ = DecodeLoginResponse(s, builder, data)
	})
}
