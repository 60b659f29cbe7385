// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/dbpkg"
	"github.com/go-petr/cash-card/pkg/passpkg"
)

const insertCashCardQuery = `
INSERT INTO cash_cards (id, amount, owner) VALUES ($1, $2, $3)
`

const syncCashCardSequenceQuery = `
SELECT setval(pg_get_serial_sequence('cash_cards', 'id'), (SELECT MAX(id) FROM cash_cards))
`

// SeedCashCardsDB inserts the reference cash cards keeping their ids.
func SeedCashCardsDB(t *testing.T, db dbpkg.SQLInterface) []domain.CashCard {
	t.Helper()

	ctx := context.Background()
	cards := SeedCashCards()

	for _, c := range cards {
		if _, err := db.ExecContext(ctx, insertCashCardQuery, c.ID, c.Amount, c.Owner); err != nil {
			t.Fatalf("inserting cash card %+v returned error: %v", c, err)
		}
	}

	if _, err := db.ExecContext(ctx, syncCashCardSequenceQuery); err != nil {
		t.Fatalf("syncing cash card id sequence returned error: %v", err)
	}

	return cards
}

const insertUserQuery = `
INSERT INTO users (username, hashed_password, role) VALUES ($1, $2, $3)
`

// SeedUser inserts a user with the given password and role.
func SeedUser(t *testing.T, db dbpkg.SQLInterface, username, password string, role domain.Role) domain.Credential {
	t.Helper()

	hashedPassword, err := passpkg.HashWithCost(password, 4)
	if err != nil {
		t.Fatalf("passpkg.HashWithCost(%v) returned error: %v", password, err)
	}

	if _, err := db.ExecContext(context.Background(), insertUserQuery, username, hashedPassword, role); err != nil {
		t.Fatalf("inserting user %v returned error: %v", username, err)
	}

	return domain.Credential{
		Username:       username,
		HashedPassword: hashedPassword,
		Role:           role,
	}
}
