// Package oicq is the authentication and message-codec core of a QQ
// protocol client. It decodes login, QR-code login, credential exchange and
// group system message frames, and converts rich message segments to and
// from a small element model.
//
// The transport is not part of this module: callers hand each decoded
// command payload to the matching Client method.
//
// # Getting Started
//
//	options := oicq.NewOptions()
//	options.Builder = myPacketBuilder
//
//	client, err := oicq.New(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.DecodeLogin(payload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch r := resp.(type) {
//	case wtlogin.Success:
//	    fmt.Println("logged in as", client.Account().Nickname)
//	case wtlogin.NeedSlider:
//	    fmt.Println("solve the slider at", r.VerifyURL)
//	}
//
// # Core Types
//
//   - [Client]: owns one login session and serializes decodes against it
//   - [Options]: configuration, device store and packet builder
//
// # Packages
//
//   - tlv: bounds-checked TLV reader and writer
//   - crypto: QQ-TEA, MD5 helpers, secure memory
//   - device: device identity and its TOML store
//   - wtlogin: login, QR-code and exchange decoders
//   - msg, msg/pb: message element codec and wire structs
//   - profile: group system message decoder
//   - config: TOML configuration and logger setup
//
// # Thread Safety
//
// Client methods are safe for concurrent use; each decode holds the client
// lock. The wtlogin decoders themselves do no locking.
package oicq
