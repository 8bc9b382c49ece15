// Package secret generates one-time secrets and hashes them for storage.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// TokenBytes is the entropy of magic-link and session tokens.
const TokenBytes = 32

var familyWords = []string{"FAITH", "HOPE", "LOVE", "GRACE", "PEACE"}

// ErrEmptyPepper is returned when the hashing key is missing.
var ErrEmptyPepper = errors.New("secret pepper is empty")

// Hasher computes keyed BLAKE2b-256 digests of secrets.
type Hasher struct {
	key []byte
}

// NewHasher creates a hasher keyed with pepper. Peppers longer than 64 bytes
// are compressed with an unkeyed BLAKE2b-512 first.
func NewHasher(pepper string) (*Hasher, error) {
	if pepper == "" {
		return nil, ErrEmptyPepper
	}
	key := []byte(pepper)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &Hasher{key: key}, nil
}

// Hash returns the keyed digest of value.
func (h *Hasher) Hash(value string) []byte {
	m, err := blake2b.New256(h.key)
	if err != nil {
		// key length is checked in NewHasher
		panic(err)
	}
	m.Write([]byte(value))
	return m.Sum(nil)
}

// HashParts hashes parts joined by ':'.
func (h *Hasher) HashParts(parts ...string) []byte {
	return h.Hash(strings.Join(parts, ":"))
}

// Generator produces random secrets.
type Generator interface {
	Token() (string, error)
	PIN(digits int) (string, error)
	FamilyCode() (string, error)
}

// Random draws secrets from crypto/rand.
type Random struct{}

var _ Generator = Random{}

// Token returns TokenBytes random bytes encoded as unpadded base64url.
func (Random) Token() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// PIN returns a decimal string with each digit drawn uniformly.
func (Random) PIN(digits int) (string, error) {
	return randomDigits(digits)
}

// FamilyCode returns a code of the form WORD-NNNN.
func (Random) FamilyCode() (string, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(familyWords))))
	if err != nil {
		return "", fmt.Errorf("failed to pick family word: %w", err)
	}
	n, err := randomDigits(4)
	if err != nil {
		return "", err
	}
	return familyWords[i.Int64()] + "-" + n, nil
}

func randomDigits(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("invalid digit count %d", digits)
	}
	var sb strings.Builder
	sb.Grow(digits)
	ten := big.NewInt(10)
	for range digits {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to draw digit: %w", err)
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}

// IsFamilyCode reports whether code has the WORD-NNNN shape.
func IsFamilyCode(code string) bool {
	word, num, ok := strings.Cut(code, "-")
	if !ok || len(num) != 4 {
		return false
	}
	for _, c := range num {
		if c < '0' || c > '9' {
			return false
		}
	}
	for _, w := range familyWords {
		if w == word {
			return true
		}
	}
	return false
}

var _ Generator = (*Fixed)(nil)

// Fixed returns predetermined secrets. Tokens and family codes are taken
// from the slices in order, wrapping around.
type Fixed struct {
	Tokens      []string
	Pin         string
	FamilyCodes []string

	tokenIdx  int
	familyIdx int
}

// Token returns the next fixed token.
func (f *Fixed) Token() (string, error) {
	if len(f.Tokens) == 0 {
		return Random{}.Token()
	}
	t := f.Tokens[f.tokenIdx%len(f.Tokens)]
	f.tokenIdx++
	return t, nil
}

// PIN returns the fixed PIN.
func (f *Fixed) PIN(digits int) (string, error) {
	if f.Pin == "" {
		return Random{}.PIN(digits)
	}
	return f.Pin, nil
}

// FamilyCode returns the next fixed family code.
func (f *Fixed) FamilyCode() (string, error) {
	if len(f.FamilyCodes) == 0 {
		return Random{}.FamilyCode()
	}
	c := f.FamilyCodes[f.familyIdx%len(f.FamilyCodes)]
	f.familyIdx++
	return c, nil
}
