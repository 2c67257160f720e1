package crypto

import (
	"crypto/subtle"
	"runtime"
)

// ZeroBytes overwrites data with zeros. It is used to drop session keys
// when a session is reset or replaced.
func ZeroBytes(data []byte) {
	if data == nil {
		return
	}
	zeros := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, zeros)
	copy(data, zeros)
	runtime.KeepAlive(data)
}

// ZeroAll wipes every buffer in bufs.
func ZeroAll(bufs ...[]byte) {
	for _, b := range bufs {
		ZeroBytes(b)
	}
}
