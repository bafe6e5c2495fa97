package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns plaintext into a fixed-length digest and checks
// candidates against it. Callers never inspect the digest format.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest string) bool
}

// maxPasswordBytes is the most input bcrypt reads.
const maxPasswordBytes = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify rejects candidates longer than bcrypt's input limit: bcrypt would
// compare only their first 72 bytes, and Hash never accepts them.
func (h *BcryptHasher) Verify(plaintext string, digest string) bool {
	if len(plaintext) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
