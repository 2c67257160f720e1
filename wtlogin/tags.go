package wtlogin

// Login frame tags.
const (
	tagSig104        uint16 = 0x104
	tagCaptchaImage  uint16 = 0x105
	tagAccountInfo   uint16 = 0x119
	tagErrorB        uint16 = 0x146
	tagErrorA        uint16 = 0x149
	tagT150          uint16 = 0x150
	tagT161          uint16 = 0x161
	tagCaptchaFlag   uint16 = 0x165
	tagSMSContext    uint16 = 0x174
	tagSMSPhone      uint16 = 0x178
	tagAltSMS        uint16 = 0x17b
	tagSMSMessage    uint16 = 0x17e
	tagSliderURL     uint16 = 0x192
	tagVerifyURL     uint16 = 0x204
	tagDisplayToken  uint16 = 0x402
	tagRandSeed      uint16 = 0x403
	tagRollbackSig   uint16 = 0x172
	tagQRImage       uint16 = 0x17
	tagQRTmpPwd      uint16 = 0x18
	tagQRTmpNoPicSig uint16 = 0x19
	tagQRRootSecret  uint16 = 0x1e
	tagQRTgt         uint16 = 0x65
)

// Account-info (0x119 plaintext) tags.
const (
	tagWebSig       uint16 = 0x103
	tagEncryptedA1  uint16 = 0x106
	tagKsid         uint16 = 0x108
	tagTGT          uint16 = 0x10a
	tagA1Suffix     uint16 = 0x10c
	tagTGTKey       uint16 = 0x10d
	tagUserStKey    uint16 = 0x10e
	tagUin          uint16 = 0x113
	tagProfile      uint16 = 0x11a
	tagSKey         uint16 = 0x120
	tagLoginIP      uint16 = 0x130
	tagT133         uint16 = 0x133
	tagTicketKey    uint16 = 0x134
	tagD2           uint16 = 0x143
	tagSrmToken     uint16 = 0x16a
	tagD2Key        uint16 = 0x305
	tagDeviceToken  uint16 = 0x322
	tagDomainTokens uint16 = 0x512
	tagT528         uint16 = 0x528
	tagT530         uint16 = 0x530
	tagA1Bundle     uint16 = 0x531
)

// Login outcome codes.
const (
	codeSuccess    = 0
	codeVerify     = 2
	codeFrozen     = 40
	codeSMS        = 160
	codeTooManySMS = 162
	codeDeviceLock = 204
	codeSMSAlt     = 239
)

// QR poll status codes.
const (
	qrStatusConfirmed      = 0x00
	qrStatusTimeout        = 0x11
	qrStatusWaitingForScan = 0x30
	qrStatusWaitingConfirm = 0x35
	qrStatusCanceled       = 0x36
)

// QR inner command ids.
const (
	qrCmdImageFetch = 0x31
	qrCmdPoll       = 0x12
)
