package cashcardrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/go-petr/cash-card/internal/domain"
)

// RepoMem keeps cash cards in process memory. Records are lost on restart.
type RepoMem struct {
	mu     sync.RWMutex
	cards  map[int64]domain.CashCard
	nextID int64
}

// NewRepoMem returns RepoMem holding the given cash cards with their ids as is.
func NewRepoMem(seed ...domain.CashCard) *RepoMem {
	r := &RepoMem{
		cards:  make(map[int64]domain.CashCard, len(seed)),
		nextID: 1,
	}

	for _, c := range seed {
		r.cards[c.ID] = c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}

	return r
}

// Get returns the cash card with the given id regardless of its owner.
func (r *RepoMem) Get(_ context.Context, id int64) (domain.CashCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cards[id]
	if !ok {
		return domain.CashCard{}, domain.ErrCashCardNotFound
	}

	return c, nil
}

// GetByOwner returns the cash card with the given id if it belongs to owner.
func (r *RepoMem) GetByOwner(_ context.Context, id int64, owner string) (domain.CashCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cards[id]
	if !ok || c.Owner != owner {
		return domain.CashCard{}, domain.ErrCashCardNotFound
	}

	return c, nil
}

// Save inserts a cash card without id and returns it with the assigned id.
// A cash card with id gets its amount replaced, matched by both id and owner.
func (r *RepoMem) Save(_ context.Context, c domain.CashCard) (domain.CashCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
		r.cards[c.ID] = c

		return c, nil
	}

	stored, ok := r.cards[c.ID]
	if !ok || stored.Owner != c.Owner {
		return domain.CashCard{}, domain.ErrCashCardNotFound
	}

	stored.Amount = c.Amount
	r.cards[c.ID] = stored

	return stored, nil
}

// DeleteByOwner removes the cash card with the given id if it belongs to owner.
func (r *RepoMem) DeleteByOwner(_ context.Context, id int64, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok || c.Owner != owner {
		return domain.ErrCashCardNotFound
	}

	delete(r.cards, id)

	return nil
}

// ListByOwner returns one page of the cash cards that belong to owner.
func (r *RepoMem) ListByOwner(_ context.Context, owner string, page domain.PageRequest) ([]domain.CashCard, error) {
	return r.list(page, func(c domain.CashCard) bool { return c.Owner == owner })
}

// List returns one page of all cash cards.
func (r *RepoMem) List(_ context.Context, page domain.PageRequest) ([]domain.CashCard, error) {
	return r.list(page, func(domain.CashCard) bool { return true })
}

func (r *RepoMem) list(page domain.PageRequest, keep func(domain.CashCard) bool) ([]domain.CashCard, error) {
	if err := checkOrders(page.Sort); err != nil {
		return nil, err
	}

	orders := withTiebreaker(page.Sort)

	r.mu.RLock()

	matched := make([]domain.CashCard, 0, len(r.cards))
	for _, c := range r.cards {
		if keep(c) {
			matched = append(matched, c)
		}
	}

	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return less(matched[i], matched[j], orders)
	})

	items := []domain.CashCard{}

	offset := page.Offset()
	if offset >= int64(len(matched)) {
		return items, nil
	}

	end := offset + int64(page.Size)
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}

	return append(items, matched[offset:end]...), nil
}
