package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256 returns the hex digest of a string.
func SHA256(input string) string {
	return SHA256Bytes([]byte(input))
}

// SHA256Bytes returns the hex digest of a byte slice.
func SHA256Bytes(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}

// ShortID returns the first eight characters of the content digest, used to
// name inline sources in logs and source URLs.
func ShortID(content string) string {
	return SHA256(content)[:8]
}
