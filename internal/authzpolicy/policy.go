// Package authzpolicy decides whether an identity role may use a route.
//
// A policy is an ordered list of rules. The first rule whose prefix and
// method match the route decides; a rule without roles lets any
// authenticated identity through. Routes matched by no rule are allowed.
// The decision only depends on the route, never on which record is touched.
package authzpolicy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-petr/cash-card/internal/domain"
)

// Rule attaches a role requirement to every route under Prefix.
type Rule struct {
	Prefix  string        `yaml:"prefix"`
	Methods []string      `yaml:"methods,omitempty"`
	Roles   []domain.Role `yaml:"roles,omitempty"`
}

func (r Rule) matches(method, route string) bool {
	prefix := strings.TrimSuffix(r.Prefix, "/")
	if route != prefix && !strings.HasPrefix(route, prefix+"/") {
		return false
	}

	if len(r.Methods) == 0 {
		return true
	}

	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}

	return false
}

func (r Rule) allows(role domain.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}

	for _, want := range r.Roles {
		if want == role {
			return true
		}
	}

	return false
}

// Policy is an immutable ordered rule set.
type Policy struct {
	rules []Rule
}

// New returns policy evaluating rules in the given order.
func New(rules ...Rule) (*Policy, error) {
	for i, r := range rules {
		if !strings.HasPrefix(r.Prefix, "/") {
			return nil, fmt.Errorf("rule %d: prefix %q must start with /", i, r.Prefix)
		}
	}

	return &Policy{rules: append([]Rule(nil), rules...)}, nil
}

// RoleRestricted returns policy that lets only the given roles use routes under prefix.
func RoleRestricted(prefix string, roles ...domain.Role) *Policy {
	return &Policy{rules: []Rule{{Prefix: prefix, Roles: roles}}}
}

type document struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads a YAML policy file.
func Load(path string) (*Policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing policy file: %w", err)
	}

	return New(doc.Rules...)
}

// Rules returns a copy of the policy rules.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Authorize returns domain.ErrForbidden if the identity role may not use the route.
func (p *Policy) Authorize(id domain.Identity, method, route string) error {
	for _, r := range p.rules {
		if !r.matches(method, route) {
			continue
		}

		if r.allows(id.Role) {
			return nil
		}

		return domain.ErrForbidden
	}

	return nil
}
