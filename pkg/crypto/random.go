package crypto

import (
	"crypto/rand"
	"crypto/sha256"
)

func SHA256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// RandomBytes returns n bytes from the operating system entropy source. It
// panics if the source fails, since no caller can proceed without entropy.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return b
}
