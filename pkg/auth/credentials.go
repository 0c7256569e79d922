package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords exceeding bcrypt's 72 bytes input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// Hasher turns plaintext passwords into salted bcrypt hashes and verifies attempts against them.
// The salt and cost are embedded in every hash, so verification needs no additional state.
type Hasher struct {
	cost int
}

// NewHasher returns a hasher working at the given bcrypt cost; out of range costs fall back to the default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

func (h Hasher) Cost() int {
	return h.cost
}

func (h Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the password matches the hash. Malformed hashes never match.
func (h Hasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsTooLong tells whether a hashing failure stems from the password length.
func IsTooLong(err error) bool {
	return errors.Is(err, ErrPasswordTooLong)
}
