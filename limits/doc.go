// Package limits provides the size limits every frame decoder enforces
// before touching remote-controlled bytes.
//
// # Frame Limits
//
//   - MaxFrame (1MB): the absolute maximum for one command payload.
//   - MinQRFrame (48 bytes): QR-family frames shorter than the fixed
//     preamble carry no state.
//   - MaxElemDepth: nesting bound for quoted messages inside replies.
//
// # Validation Functions
//
//	if err := limits.ValidateFrame(payload); err != nil {
//	    // ErrFrameEmpty or ErrFrameTooLarge
//	}
//
// Callers that configure a smaller cap use ValidateFrameSize directly.
package limits
