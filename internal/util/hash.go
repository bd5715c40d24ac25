package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SHA256Reader hex-encodes the sha256 digest of everything r yields.
func SHA256Reader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256Bytes hex-encodes the sha256 digest of data.
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
