package helpers

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/user-auth-service/pkg/apperror"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

// PasswordCost is the bcrypt work factor used for stored passwords.
const PasswordCost = bcrypt.DefaultCost

// HashPassword validates and hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	if err := validation.ValidatePassword(plain); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(plain)), PasswordCost)
	if err != nil {
		return "", apperror.Hashing(err)
	}
	return string(b), nil
}

// ComparePassword compares a plain password with a bcrypt hash.
// A mismatch is reported as false, not as an error.
func ComparePassword(plain, hash string) (bool, error) {
	if err := validation.ValidateComparePasswordInput(plain, hash); err != nil {
		return false, err
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(plain)))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	// malformed hash in storage
	return false, apperror.Hashing(err)
}
