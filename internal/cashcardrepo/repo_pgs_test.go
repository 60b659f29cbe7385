//go:build integration

package cashcardrepo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/cash-card/internal/cashcardrepo"
	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/internal/integrationtest"
	"github.com/go-petr/cash-card/internal/test"
)

func setupRepo(t *testing.T) *cashcardrepo.RepoPGS {
	t.Helper()

	db, _ := integrationtest.SetupDB(t)
	test.SeedCashCardsDB(t, db)

	return cashcardrepo.NewRepoPGS(db)
}

func TestRepoPGSGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	got, err := repo.Get(ctx, 102)
	require.NoError(t, err)
	require.Equal(t, test.Kumar, got.Owner)

	_, err = repo.Get(ctx, 1000)
	require.ErrorIs(t, err, domain.ErrCashCardNotFound)
}

func TestRepoPGSGetByOwner(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	got, err := repo.GetByOwner(ctx, 99, test.Sarah)
	require.NoError(t, err)
	require.Equal(t, int64(99), got.ID)
	require.True(t, decimal.RequireFromString("123.45").Equal(got.Amount))

	_, err = repo.GetByOwner(ctx, 102, test.Sarah)
	require.ErrorIs(t, err, domain.ErrCashCardNotFound)

	_, err = repo.GetByOwner(ctx, 1000, test.Sarah)
	require.ErrorIs(t, err, domain.ErrCashCardNotFound)
}

func TestRepoPGSSave(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, domain.CashCard{Amount: decimal.RequireFromString("250.00"), Owner: test.Sarah})
	require.NoError(t, err)
	require.Greater(t, created.ID, int64(102))
	require.Equal(t, test.Sarah, created.Owner)

	updated, err := repo.Save(ctx, domain.CashCard{ID: 99, Amount: decimal.RequireFromString("-19.99"), Owner: test.Sarah})
	require.NoError(t, err)
	require.Equal(t, int64(99), updated.ID)
	require.True(t, decimal.RequireFromString("-19.99").Equal(updated.Amount))

	_, err = repo.Save(ctx, domain.CashCard{ID: 102, Amount: decimal.NewFromInt(1), Owner: test.Sarah})
	require.ErrorIs(t, err, domain.ErrCashCardNotFound)

	kumars, err := repo.Get(ctx, 102)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("200.00").Equal(kumars.Amount))
}

func TestRepoPGSDeleteByOwner(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.ErrorIs(t, repo.DeleteByOwner(ctx, 102, test.Sarah), domain.ErrCashCardNotFound)
	require.NoError(t, repo.DeleteByOwner(ctx, 99, test.Sarah))
	require.ErrorIs(t, repo.DeleteByOwner(ctx, 99, test.Sarah), domain.ErrCashCardNotFound)

	_, err := repo.Get(ctx, 102)
	require.NoError(t, err)
}

func TestRepoPGSListByOwner(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	asc := []domain.Order{{Field: "amount", Direction: domain.Asc}}
	desc := []domain.Order{{Field: "amount", Direction: domain.Desc}}

	all, err := repo.ListByOwner(ctx, test.Sarah, domain.PageRequest{Number: 0, Size: 20, Sort: asc})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []int64{100, 99, 101}, ids(all))

	top, err := repo.ListByOwner(ctx, test.Sarah, domain.PageRequest{Number: 0, Size: 1, Sort: desc})
	require.NoError(t, err)
	require.Equal(t, []int64{101}, ids(top))

	second, err := repo.ListByOwner(ctx, test.Sarah, domain.PageRequest{Number: 1, Size: 1, Sort: desc})
	require.NoError(t, err)
	require.Equal(t, []int64{99}, ids(second))

	_, err = repo.ListByOwner(ctx, test.Sarah, domain.PageRequest{
		Number: 0,
		Size:   20,
		Sort:   []domain.Order{{Field: "balance", Direction: domain.Asc}},
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedSortField)

	none, err := repo.ListByOwner(ctx, test.Hank, domain.PageRequest{Number: 0, Size: 20, Sort: asc})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestRepoPGSList(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.List(context.Background(), domain.PageRequest{
		Number: 0,
		Size:   10,
		Sort:   []domain.Order{{Field: "owner", Direction: domain.Asc}},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{102, 99, 100, 101}, ids(got))
}

func ids(cards []domain.CashCard) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}

	return out
}
