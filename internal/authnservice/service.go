// Package authnservice verifies caller credentials against a credential store.
package authnservice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/passpkg"
)

// Store provides credential lookup needed by the authenticator.
//
//go:generate mockgen -source service.go -destination service_mock.go -package authnservice
type Store interface {
	Lookup(ctx context.Context, username string) (domain.Credential, error)
}

// Service authenticates callers. It is safe for concurrent use.
type Service struct {
	store  Store
	secret string

	mu          sync.Mutex
	dummyCost   int
	dummyHashes map[int]string
}

// New returns authentication service over the given credential store.
func New(store Store, bcryptCost int) (*Service, error) {
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}

	s := &Service{
		store:       store,
		secret:      hex.EncodeToString(secret),
		dummyHashes: make(map[int]string),
	}

	dummyHash, err := passpkg.HashWithCost(s.secret, bcryptCost)
	if err != nil {
		return nil, err
	}

	cost, err := passpkg.Cost(dummyHash)
	if err != nil {
		return nil, err
	}

	s.dummyCost = cost
	s.dummyHashes[cost] = dummyHash

	return s, nil
}

// dummyHash returns the hash unknown usernames are checked against.
func (s *Service) dummyHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dummyHashes[s.dummyCost]
}

// followCost makes the dummy hash use the cost of the given stored hash,
// so rejecting an unknown username costs as much as rejecting a wrong password.
func (s *Service) followCost(ctx context.Context, hashedPassword string) {
	cost, err := passpkg.Cost(hashedPassword)
	if err != nil {
		return
	}

	s.mu.Lock()
	_, ok := s.dummyHashes[cost]
	if ok {
		s.dummyCost = cost
	}
	s.mu.Unlock()

	if ok {
		return
	}

	dummyHash, err := passpkg.HashWithCost(s.secret, cost)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("cost", cost).Msg("cannot hash dummy password")
		return
	}

	s.mu.Lock()
	s.dummyHashes[cost] = dummyHash
	s.dummyCost = cost
	s.mu.Unlock()
}

// Authenticate returns the identity for a matching username and password.
//
// Unknown username and wrong password both yield domain.ErrUnauthenticated.
// An unknown username is still checked against a dummy hash with the cost of
// the last stored hash seen, so both cases take comparable time.
// Store failures are returned as is.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	l := zerolog.Ctx(ctx)

	c, err := s.store.Lookup(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			return domain.Identity{}, err
		}

		_ = passpkg.Check(password, s.dummyHash())

		l.Warn().Str("username", username).Msg("authentication failed")

		return domain.Identity{}, domain.ErrUnauthenticated
	}

	s.followCost(ctx, c.HashedPassword)

	if err := passpkg.Check(password, c.HashedPassword); err != nil {
		l.Warn().Str("username", username).Msg("authentication failed")
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return domain.Identity{
		Username: c.Username,
		Role:     c.Role,
	}, nil
}
