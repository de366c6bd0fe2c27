package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrAuth = errors.New("authentication failed")

var ErrEmptyPassword = errors.New("refusing to set empty password")

// HashPassword returns a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword returns ErrAuth if the password does not match the hash.
// An empty hash never matches, so users without a password can't log in.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return ErrAuth
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrAuth
	}
	return nil
}
