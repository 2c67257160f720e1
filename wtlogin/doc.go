// Package wtlogin decodes the server side of the login handshake: password
// login responses, QR-code login polling and credential exchange. Each
// decoder consumes one frame, returns a typed outcome and updates the
// [Session] it was given.
//
// # Login
//
//	s := wtlogin.NewSession(dev)
//	resp, err := wtlogin.DecodeLoginResponse(s, builder, payload)
//	switch r := resp.(type) {
//	case wtlogin.Success:
//	    // s.Cache.Sig holds the session keys
//	case wtlogin.NeedSlider:
//	    // open r.VerifyURL, then resubmit the ticket
//	case wtlogin.NeedDeviceLock:
//	    // send r.Packet and decode the next frame
//	}
//
// # QR Code Login
//
// [DecodeQRCodeResponse] returns [QRImageFetch] for the image request and one
// of the waiting states while polling. [QRConfirmed] replaces the device root
// secret, so the caller should persist the device afterwards.
//
// # Credential Exchange
//
// [DecodeExchangeResponse] refreshes tickets with either the device root
// secret (sub-command 15) or MD5 of the current D2 key (sub-command 11).
//
// # Errors
//
// Structurally invalid frames return [*DecodeError], which names the phase and
// the missing or malformed field. Outcome codes outside the modeled set return
// [*ProtocolError]. Session state is only written once a branch has found all
// of its required tags.
//
// # Thread Safety
//
// A Session is not safe for concurrent use. Serialize every decode against
// the same Session.
package wtlogin
