// Package passpkg provides password hashing functionality.
package passpkg

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of the password using the default cost.
func Hash(password string) (string, error) {
	return HashWithCost(password, bcrypt.DefaultCost)
}

// HashWithCost returns the bcrypt hash of the password.
//
// Costs outside of the bcrypt range fall back to the default cost.
func HashWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedPassword), nil
}

// Check checks if the provided password is correct or not.
func Check(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Cost returns the cost a bcrypt hash was created with.
func Cost(hashedPassword string) (int, error) {
	return bcrypt.Cost([]byte(hashedPassword))
}
