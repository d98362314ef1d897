// Package auth holds the credential-hashing primitives shared by the
// identity services and test fixtures.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for new hashes; bumping it only affects
// newly hashed passwords.
const bcryptCost = 10

// HashPassword returns the salted bcrypt hash of a plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches hash. Malformed hashes and
// mismatches both report false; this never errors.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// UnusablePassword returns a bcrypt hash of 32 random bytes. It is stored on
// OAuth-created users so the password column is populated but can never
// validate against any input a client could know.
func UnusablePassword() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate placeholder password: %w", err)
	}
	return HashPassword(hex.EncodeToString(buf))
}
