package cashcardrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/dbpkg"
	"github.com/go-petr/cash-card/pkg/errorspkg"
)

// RepoPGS facilitates cash card repository layer logic on Postgres.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns cash card RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCashCard(row scanner) (domain.CashCard, error) {
	var c domain.CashCard

	err := row.Scan(
		&c.ID,
		&c.Amount,
		&c.Owner,
	)

	return c, err
}

// queryOne runs a single row query and maps no rows to domain.ErrCashCardNotFound.
func (r *RepoPGS) queryOne(ctx context.Context, query string, args ...any) (domain.CashCard, error) {
	l := zerolog.Ctx(ctx)

	c, err := scanCashCard(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CashCard{}, domain.ErrCashCardNotFound
		}

		l.Error().Err(err).Send()

		return domain.CashCard{}, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT
	id, amount, owner
FROM cash_cards
WHERE id = $1
`

// Get returns the cash card with the given id regardless of its owner.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.CashCard, error) {
	return r.queryOne(ctx, getQuery, id)
}

const getByOwnerQuery = `
SELECT
	id, amount, owner
FROM cash_cards
WHERE id = $1 AND owner = $2
`

// GetByOwner returns the cash card with the given id if it belongs to owner.
func (r *RepoPGS) GetByOwner(ctx context.Context, id int64, owner string) (domain.CashCard, error) {
	return r.queryOne(ctx, getByOwnerQuery, id, owner)
}

const createQuery = `
INSERT INTO
	cash_cards (amount, owner)
VALUES
	($1, $2)
RETURNING id, amount, owner
`

const updateQuery = `
UPDATE cash_cards
SET amount = $1
WHERE id = $2 AND owner = $3
RETURNING id, amount, owner
`

// Save inserts a cash card without id and returns it with the assigned id.
// A cash card with id gets its amount replaced, matched by both id and owner.
func (r *RepoPGS) Save(ctx context.Context, c domain.CashCard) (domain.CashCard, error) {
	if c.ID == 0 {
		return r.queryOne(ctx, createQuery, c.Amount, c.Owner)
	}

	return r.queryOne(ctx, updateQuery, c.Amount, c.ID, c.Owner)
}

const deleteByOwnerQuery = `
DELETE FROM cash_cards
WHERE id = $1 AND owner = $2
`

// DeleteByOwner removes the cash card with the given id if it belongs to owner.
func (r *RepoPGS) DeleteByOwner(ctx context.Context, id int64, owner string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteByOwnerQuery, id, owner)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrCashCardNotFound
	}

	return nil
}

const listByOwnerQuery = `
SELECT
	id, amount, owner
FROM cash_cards
WHERE owner = $1
ORDER BY %s
LIMIT $2 OFFSET $3
`

// ListByOwner returns one page of the cash cards that belong to owner.
func (r *RepoPGS) ListByOwner(ctx context.Context, owner string, page domain.PageRequest) ([]domain.CashCard, error) {
	orderBy, err := orderByClause(page.Sort)
	if err != nil {
		return nil, err
	}

	return r.list(ctx, fmt.Sprintf(listByOwnerQuery, orderBy), owner, page.Size, page.Offset())
}

const listQuery = `
SELECT
	id, amount, owner
FROM cash_cards
ORDER BY %s
LIMIT $1 OFFSET $2
`

// List returns one page of all cash cards.
func (r *RepoPGS) List(ctx context.Context, page domain.PageRequest) ([]domain.CashCard, error) {
	orderBy, err := orderByClause(page.Sort)
	if err != nil {
		return nil, err
	}

	return r.list(ctx, fmt.Sprintf(listQuery, orderBy), page.Size, page.Offset())
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.CashCard, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.CashCard{}

	for rows.Next() {
		c, err := scanCashCard(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
