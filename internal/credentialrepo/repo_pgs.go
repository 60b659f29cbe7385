package credentialrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/dbpkg"
	"github.com/go-petr/cash-card/pkg/errorspkg"
)

// RepoPGS is a credential store backed by the users table.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns credential RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const lookupQuery = `
SELECT
	username,
	hashed_password,
	role
FROM users
WHERE username = $1
`

// Lookup returns the credential of the given username.
func (r *RepoPGS) Lookup(ctx context.Context, username string) (domain.Credential, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, lookupQuery, username)

	var c domain.Credential

	err := row.Scan(
		&c.Username,
		&c.HashedPassword,
		&c.Role,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, domain.ErrCredentialNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}
