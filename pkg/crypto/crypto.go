package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// GenerateRandomBytes returns n bytes read from a cryptographically secure
// source.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// SHA3 returns the hex encoded SHA3-256 digest of b.
func SHA3(b []byte) string {
	hashed := sha3.Sum256(b)
	return hex.EncodeToString(hashed[:])
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
