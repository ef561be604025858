package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordCost is the lowest bcrypt work factor the application accepts.
	MinPasswordCost = 10
	// DefaultPasswordCost is used when no explicit cost is configured.
	DefaultPasswordCost = 12
)

// HashPassword returns a bcrypt hash of the supplied password using the default cost.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultPasswordCost)
}

// HashPasswordWithCost hashes the password with the given work factor.
// Costs below MinPasswordCost are raised to the minimum.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if cost < MinPasswordCost {
		cost = MinPasswordCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
// bcrypt performs the comparison in constant time.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// IsHashed reports whether the value already looks like a bcrypt hash.
// Services use this to avoid re-hashing an already-hashed credential on
// unrelated field updates.
func IsHashed(value string) bool {
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
