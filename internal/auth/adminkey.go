package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashAdminKey returns the bcrypt hash stored in admin.api_key_hash.
func HashAdminKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("admin key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin key: %w", err)
	}
	return string(hash), nil
}

// CheckAdminKey reports whether key matches hash.
func CheckAdminKey(hash, key string) bool {
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
