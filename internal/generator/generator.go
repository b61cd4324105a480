package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// alphabet is the character set short codes are drawn from. Codes are
	// case-sensitive: "Abc12X" and "abc12x" are distinct.
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CodeLength is the fixed length of every short code.
	CodeLength = 6
)

// Generator produces random short-code candidates. Candidates are drawn
// uniformly from a ~62^6 space, so collisions are rare but possible; the
// caller is expected to retry on a duplicate.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

// Generate returns a random 6-character alphanumeric code.
func (g *Generator) Generate() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("generate short code: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
