// Package crypto implements the cryptographic primitives used by the login
// flow.
//
// # Core Types
//
//   - [TEA]: the protocol's chained 16-cycle TEA mode, built on
//     golang.org/x/crypto/tea. Every encrypted TLV the server returns
//     (the 0x119 account-info blob, the encrypted A1) is sealed with it.
//
// # Encryption and Decryption
//
//	c, err := crypto.NewTEA(rootSecret)
//	if err != nil {
//	    return err
//	}
//	plain, err := c.Decrypt(t119)
//
// Decrypt validates the ciphertext length, the padding header and the zero
// tail, so a wrong key surfaces as [ErrTEACiphertext] instead of garbage.
//
// # Hashing and Randomness
//
// [MD5] hashes concatenated parts; the wire protocol uses it for the
// display-token digest, device GUIDs and the credential-renewal key.
// [RandomString] generates the 16-character display password sent back with
// tag 0x402.
//
// # Secure Memory Handling
//
// Session keys are wiped with [ZeroBytes] / [ZeroAll] when a session is
// reset. Key material is never logged: [KeyFields] and [CredentialFields]
// record a key's size and a 4-byte prefix of its MD5 digest.
//
// # Thread Safety
//
// All functions are pure. A [TEA] value holds no mutable state and may be
// shared between goroutines.
package crypto
