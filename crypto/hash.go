package crypto

import "crypto/md5"

// MD5 hashes the concatenation of parts. The protocol fixes MD5 for the
// display-token digest, device GUIDs and the renewal key.
func MD5(parts ...[]byte) []byte {
	h := md5.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
