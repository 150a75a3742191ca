package pkg

import (
	"crypto/rand"
	"math/big"
)

// codeRunes excludes 0/O, 1/I and L so coupon codes survive being read
// over the phone.
const codeRunes = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RandomCode returns an n-character code from crypto/rand. Draw and
// coupon randomness must not come from a seedable generator.
func RandomCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeRunes)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b[i] = codeRunes[idx.Int64()]
	}
	return string(b)
}

// RandomIntn returns a uniform int in [0, n) from crypto/rand.
func RandomIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(v.Int64())
}
