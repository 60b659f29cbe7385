// Package cashcardservice manages business logic layer of cash cards.
//
// Every operation is scoped to the owner passed in by the caller. A card that
// belongs to someone else is reported exactly like a card that does not exist.
package cashcardservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/go-petr/cash-card/internal/domain"
)

// Repo provides data access layer interface needed by cash card service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package cashcardservice
type Repo interface {
	GetByOwner(ctx context.Context, id int64, owner string) (domain.CashCard, error)
	ListByOwner(ctx context.Context, owner string, page domain.PageRequest) ([]domain.CashCard, error)
	Save(ctx context.Context, c domain.CashCard) (domain.CashCard, error)
	DeleteByOwner(ctx context.Context, id int64, owner string) error
}

// Service facilitates cash card service layer logic.
type Service struct {
	repo Repo
}

// New returns cash card service struct to manage cash card bussines logic.
func New(r Repo) *Service {
	return &Service{repo: r}
}

// Create stores a new cash card owned by owner and returns it with the assigned id.
func (s *Service) Create(ctx context.Context, owner string, amount decimal.Decimal) (domain.CashCard, error) {
	return s.repo.Save(ctx, domain.CashCard{
		Amount: amount,
		Owner:  owner,
	})
}

// Get returns the cash card with the given id owned by owner.
func (s *Service) Get(ctx context.Context, owner string, id int64) (domain.CashCard, error) {
	return s.repo.GetByOwner(ctx, id, owner)
}

// List returns one page of the cash cards owned by owner.
func (s *Service) List(ctx context.Context, owner string, page domain.PageRequest) ([]domain.CashCard, error) {
	cards, err := s.repo.ListByOwner(ctx, owner, page)
	if err != nil {
		return nil, err
	}

	return cards, nil
}

// Update replaces the amount of the cash card with the given id owned by owner.
// The id and owner of the card never change.
func (s *Service) Update(ctx context.Context, owner string, id int64, amount decimal.Decimal) error {
	c, err := s.repo.GetByOwner(ctx, id, owner)
	if err != nil {
		return err
	}

	_, err = s.repo.Save(ctx, domain.CashCard{
		ID:     c.ID,
		Amount: amount,
		Owner:  c.Owner,
	})

	return err
}

// Delete removes the cash card with the given id owned by owner.
func (s *Service) Delete(ctx context.Context, owner string, id int64) error {
	return s.repo.DeleteByOwner(ctx, id, owner)
}
