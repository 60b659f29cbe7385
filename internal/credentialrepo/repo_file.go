// Package credentialrepo manages repository layer of user credentials.
package credentialrepo

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/pkg/passpkg"
)

// Entry is a single user of a credentials file.
//
// Exactly one of Password and PasswordHash is expected. A plaintext password
// is hashed when the store is built and never kept.
type Entry struct {
	Username     string      `yaml:"username"`
	Password     string      `yaml:"password,omitempty"`
	PasswordHash string      `yaml:"password_hash,omitempty"`
	Role         domain.Role `yaml:"role"`
}

type fileDocument struct {
	Users []Entry `yaml:"users"`
}

// RepoFile is a read only credential store built from static entries.
type RepoFile struct {
	credentials map[string]domain.Credential
}

// NewRepoFile returns RepoFile holding the given entries.
func NewRepoFile(entries []Entry, bcryptCost int) (*RepoFile, error) {
	r := &RepoFile{
		credentials: make(map[string]domain.Credential, len(entries)),
	}

	for i, e := range entries {
		if e.Username == "" || e.Role == "" {
			return nil, fmt.Errorf("entry %d: %w", i, domain.ErrInvalidCredentialEntry)
		}

		if (e.Password == "") == (e.PasswordHash == "") {
			return nil, fmt.Errorf("entry %q: set either password or password_hash: %w",
				e.Username, domain.ErrInvalidCredentialEntry)
		}

		if _, ok := r.credentials[e.Username]; ok {
			return nil, fmt.Errorf("entry %q: duplicate username: %w", e.Username, domain.ErrInvalidCredentialEntry)
		}

		hashed := e.PasswordHash
		if e.Password != "" {
			var err error

			hashed, err = passpkg.HashWithCost(e.Password, bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", e.Username, err)
			}
		}

		r.credentials[e.Username] = domain.Credential{
			Username:       e.Username,
			HashedPassword: hashed,
			Role:           e.Role,
		}
	}

	return r, nil
}

// LoadRepoFile reads a YAML credentials file and returns RepoFile built from it.
func LoadRepoFile(path string, bcryptCost int) (*RepoFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	return NewRepoFile(doc.Users, bcryptCost)
}

// Lookup returns the credential of the given username.
func (r *RepoFile) Lookup(_ context.Context, username string) (domain.Credential, error) {
	c, ok := r.credentials[username]
	if !ok {
		return domain.Credential{}, domain.ErrCredentialNotFound
	}

	return c, nil
}
