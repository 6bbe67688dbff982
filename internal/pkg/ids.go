package pkg

import (
	"encoding/base64"

	"lukechampine.com/frand"
)

const sessionIDBytes = 16

// GenerateSessionID - generates a new random url-safe session id.
func GenerateSessionID() string {
	return base64.RawURLEncoding.EncodeToString(frand.Bytes(sessionIDBytes))
}
