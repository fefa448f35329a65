package kvstore

import (
	"encoding/base64"
	"strings"
)

// encodedKeyPrefix marks keys a backend could not take verbatim. The rest of
// the key is the base64url (unpadded) form of the original.
const encodedKeyPrefix = "b64_"

// escapeKey returns key unchanged when the backend accepts it, otherwise its
// encoded form. Keys that already carry the marker are always encoded so the
// mapping stays one-to-one.
func escapeKey(key string, accepted func(string) bool) string {
	if accepted(key) && !strings.HasPrefix(key, encodedKeyPrefix) {
		return key
	}
	return encodedKeyPrefix + base64.RawURLEncoding.EncodeToString([]byte(key))
}
