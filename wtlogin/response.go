package wtlogin

// LoginResponse is the outcome of one login frame. The concrete type tells the
// caller what to do next.
type LoginResponse interface {
	loginResponse()
}

// Success means the account-info blob was opened and the session is live.
type Success struct{}

// NeedSlider asks the user to solve a slider challenge at VerifyURL.
type NeedSlider struct {
	VerifyURL string
}

// NeedCaptcha carries an image captcha and the signature to echo back.
type NeedCaptcha struct {
	Sign  []byte
	Image []byte
}

// UnknownError is a verification request with no recognizable challenge.
type UnknownError struct{}

// AccountFrozen reports a frozen account.
type AccountFrozen struct {
	Message string
}

// SMSOrVerifyNeeded offers either an SMS code to Phone or a web check.
type SMSOrVerifyNeeded struct {
	VerifyURL string
	Phone     string
	Message   string
}

// SMSNeeded asks for an SMS code. Phone and Message may be empty when the
// server uses the short variant.
type SMSNeeded struct {
	Phone   string
	Message string
}

// UnsafeDevice asks the user to verify the device at VerifyURL.
type UnsafeDevice struct {
	VerifyURL string
}

// TooManySMSRequests reports SMS rate limiting.
type TooManySMSRequests struct{}

// NeedDeviceLock carries the follow-up login packet built for the device
// lock step.
type NeedDeviceLock struct {
	Seq    uint16
	Packet []byte
}

// OtherError is a server-supplied error with a title and message.
type OtherError struct {
	Title   string
	Message string
}

func (Success) loginResponse()            {}
func (NeedSlider) loginResponse()         {}
func (NeedCaptcha) loginResponse()        {}
func (UnknownError) loginResponse()       {}
func (AccountFrozen) loginResponse()      {}
func (SMSOrVerifyNeeded) loginResponse()  {}
func (SMSNeeded) loginResponse()          {}
func (UnsafeDevice) loginResponse()       {}
func (TooManySMSRequests) loginResponse() {}
func (NeedDeviceLock) loginResponse()     {}
func (OtherError) loginResponse()         {}

// QRCodeState is the outcome of one QR-code frame.
type QRCodeState interface {
	qrCodeState()
}

// QRImageFetch carries the QR image and the signature used to poll it.
type QRImageFetch struct {
	Image []byte
	Sig   []byte
}

// QRWaitingForScan means nobody has scanned the code yet.
type QRWaitingForScan struct{}

// QRWaitingForConfirm means the code was scanned and awaits confirmation.
type QRWaitingForConfirm struct{}

// QRTimeout means the code expired.
type QRTimeout struct{}

// QRCanceled means the user declined on the phone.
type QRCanceled struct{}

// QRConfirmed carries the temporary credentials for the follow-up password
// login. The device root secret and session uin are already updated.
type QRConfirmed struct {
	TmpPwd      []byte
	TmpNoPicSig []byte
	TgtQR       []byte
}

func (QRImageFetch) qrCodeState()        {}
func (QRWaitingForScan) qrCodeState()    {}
func (QRWaitingForConfirm) qrCodeState() {}
func (QRTimeout) qrCodeState()           {}
func (QRCanceled) qrCodeState()          {}
func (QRConfirmed) qrCodeState()         {}
