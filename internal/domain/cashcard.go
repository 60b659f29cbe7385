// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrCashCardNotFound indicates that the cash card does not exist or is owned by someone else.
//
// Both cases share one error so that responses never reveal who owns what.
var ErrCashCardNotFound = errors.New("cash card not found")

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CashCard holds a balance owned by exactly one user.
type CashCard struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Owner  string          `json:"owner"`
}
