// Package security holds the password hashing primitive and the login
// challenge verifier.
package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost of 12 is deliberately expensive; login latency is the price
// paid for offline-cracking resistance.
const bcryptCost = 12

// HashPassword hashes a plaintext password with a fresh random salt.
// The salt is embedded in the returned hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. A malformed
// stored hash fails verification rather than raising a fault.
func CheckPassword(plain, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}
