package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Random generates the unguessable tokens that key wizard drafts
type Random interface {
	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) (string, error)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String draws each character with crypto/rand.Int, so there is no modulo bias
func (r *CryptoRandom) String(length int, alphabet string) (string, error) {
	if length <= 0 || len(alphabet) == 0 {
		return "", errors.New("random: empty length or alphabet")
	}
	n := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("random: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
