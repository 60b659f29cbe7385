package test

import (
	"github.com/shopspring/decimal"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/randompkg"
)

// Known users of the seeded data set.
const (
	Sarah         = "sarah1"
	SarahPassword = "abc123"
	Kumar         = "kumar2"
	KumarPassword = "xyz789"
	Hank          = "hank-owns-no-cards"
	HankPassword  = "qrs456"
)

// RandomCashCard returns random cash card owned by the given owner.
func RandomCashCard(owner string) domain.CashCard {
	return domain.CashCard{
		ID:     randompkg.ID(),
		Amount: randompkg.AmountBetween(-1_000, 10_000),
		Owner:  owner,
	}
}

// SeedCashCards returns the reference data set: three cards of sarah1 and one of kumar2.
func SeedCashCards() []domain.CashCard {
	return []domain.CashCard{
		{ID: 99, Amount: decimal.RequireFromString("123.45"), Owner: Sarah},
		{ID: 100, Amount: decimal.RequireFromString("1.00"), Owner: Sarah},
		{ID: 101, Amount: decimal.RequireFromString("150.00"), Owner: Sarah},
		{ID: 102, Amount: decimal.RequireFromString("200.00"), Owner: Kumar},
	}
}

// User is a reference user with its plaintext password.
type User struct {
	Username string
	Password string
	Role     domain.Role
}

// SeedUsers returns the reference users: two card owners and one non owner.
func SeedUsers() []User {
	return []User{
		{Username: Sarah, Password: SarahPassword, Role: domain.RoleCardOwner},
		{Username: Kumar, Password: KumarPassword, Role: domain.RoleCardOwner},
		{Username: Hank, Password: HankPassword, Role: domain.RoleNonOwner},
	}
}
