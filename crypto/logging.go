package crypto

import (
	"encoding/hex"

	"github.com/sirupsen/logrus"
)

// keyDigestLen is the number of MD5 bytes shown for a logged key.
const keyDigestLen = 4

// KeyFields describes key material for a log entry without exposing it:
// the key's size and a short prefix of its MD5 digest, enough to tell two
// keys apart across log lines. A nil or empty key logs as "none".
func KeyFields(name string, key []byte) logrus.Fields {
	digest := "none"
	if len(key) > 0 {
		digest = hex.EncodeToString(MD5(key)[:keyDigestLen])
	}
	return logrus.Fields{
		name + "_md5":  digest,
		name + "_size": len(key),
	}
}

// CredentialFields merges the key descriptions of several credentials into
// base. Keys are named by the map keys of creds.
func CredentialFields(base logrus.Fields, creds map[string][]byte) logrus.Fields {
	fields := make(logrus.Fields, len(base)+2*len(creds))
	for k, v := range base {
		fields[k] = v
	}
	for name, key := range creds {
		for k, v := range KeyFields(name, key) {
			fields[k] = v
		}
	}
	return fields
}
