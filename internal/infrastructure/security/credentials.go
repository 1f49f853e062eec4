package security

import (
	"golang.org/x/crypto/bcrypt"
)

// VerifyAdminPassword compares a plaintext password against the configured
// bcrypt hash. An empty hash disables the admin surface entirely.
func VerifyAdminPassword(password, storedHash string) bool {
	if storedHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

// HashPassword produces a bcrypt hash for bootstrap tooling.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
