package login

import (
	"fmt"
	"strings"
)

const (
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

// PasswordHasher defines the interface for password hashing implementations
type PasswordHasher interface {
	// Hash hashes a password
	Hash(password string) (string, error)

	// Verify checks if the provided password matches the stored hash
	Verify(password, hashedPassword string) (bool, error)
}

// NewPasswordHasher returns a hasher that writes new hashes with the named
// algorithm and still verifies hashes written by the other one.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	bcryptHasher := NewBcryptHasher(0)
	argon2Hasher := NewArgon2Hasher()

	switch strings.ToLower(strings.TrimSpace(name)) {
	case HasherBcrypt, "":
		return &VersionedHasher{primary: bcryptHasher, bcrypt: bcryptHasher, argon2: argon2Hasher}, nil
	case HasherArgon2, "argon2id":
		return &VersionedHasher{primary: argon2Hasher, bcrypt: bcryptHasher, argon2: argon2Hasher}, nil
	default:
		return nil, fmt.Errorf("unsupported password hasher: %s (supported: bcrypt, argon2)", name)
	}
}

// VersionedHasher hashes with a primary algorithm and verifies by looking at the
// stored hash prefix, so switching algorithms keeps existing passwords valid.
type VersionedHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (h *VersionedHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *VersionedHasher) Verify(password, hashedPassword string) (bool, error) {
	if strings.HasPrefix(hashedPassword, argon2Prefix) {
		return h.argon2.Verify(password, hashedPassword)
	}
	return h.bcrypt.Verify(password, hashedPassword)
}
