// Package cashcardrepo manages repository layer of cash cards.
package cashcardrepo

import (
	"strings"

	"github.com/lib/pq"

	"github.com/go-petr/cash-card/internal/domain"
)

// sortColumns maps sortable field names to table columns.
var sortColumns = map[string]string{
	"id":     "id",
	"amount": "amount",
	"owner":  "owner",
}

// checkOrders returns domain.ErrUnsupportedSortField if any order uses an unknown field.
func checkOrders(orders []domain.Order) error {
	for _, o := range orders {
		if _, ok := sortColumns[o.Field]; !ok {
			return domain.ErrUnsupportedSortField
		}
	}

	return nil
}

// withTiebreaker appends id ascending unless the orders already sort by id,
// so that pages never overlap or skip records with equal sort keys.
func withTiebreaker(orders []domain.Order) []domain.Order {
	for _, o := range orders {
		if o.Field == "id" {
			return orders
		}
	}

	out := make([]domain.Order, 0, len(orders)+1)
	out = append(out, orders...)

	return append(out, domain.Order{Field: "id", Direction: domain.Asc})
}

// orderByClause builds the ORDER BY expression for the given orders.
func orderByClause(orders []domain.Order) (string, error) {
	if err := checkOrders(orders); err != nil {
		return "", err
	}

	orders = withTiebreaker(orders)
	terms := make([]string, len(orders))

	for i, o := range orders {
		dir := "ASC"
		if o.Direction == domain.Desc {
			dir = "DESC"
		}

		terms[i] = pq.QuoteIdentifier(sortColumns[o.Field]) + " " + dir
	}

	return strings.Join(terms, ", "), nil
}

// compare orders two cash cards by a single field.
func compare(a, b domain.CashCard, field string) int {
	switch field {
	case "amount":
		return a.Amount.Cmp(b.Amount)
	case "owner":
		return strings.Compare(a.Owner, b.Owner)
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}

		return 0
	}
}

// less reports whether a sorts before b under the given orders.
func less(a, b domain.CashCard, orders []domain.Order) bool {
	for _, o := range orders {
		c := compare(a, b, o.Field)
		if c == 0 {
			continue
		}

		if o.Direction == domain.Desc {
			return c > 0
		}

		return c < 0
	}

	return false
}
