/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"crypto/rand"
	"math/big"
)

// Random is the source of every random choice a room makes: room codes,
// categories, secret words and impostors. Tests swap in a queued fake.
type Random interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int

	// String returns a random string of the given length drawn from alphabet.
	String(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand.
type CryptoRandom struct{}

func NewCryptoRandom() *CryptoRandom {
	return &CryptoRandom{}
}

func (CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}

	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	return int(v.Int64())
}

func (r CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}

	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}

	return string(out)
}
