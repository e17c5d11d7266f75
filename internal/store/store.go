// Package store defines the repository of clients and their rule sets.
//
// Backends live in the memory, sqlite and redis subpackages and share the
// behavior checked by storetest.Run: clients are listed in creation order,
// rules in the order they were added, deleting a client deletes its rules,
// and every returned value is a copy the caller may modify.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docmapper/internal/mapping"
)

var (
	// ErrNotFound is returned when a client or rule does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a client name is already taken.
	ErrDuplicateName = errors.New("duplicate client name")
	// ErrDuplicateRule is returned when a rule ID is already used by the client.
	ErrDuplicateRule = errors.New("duplicate rule id")
	// ErrInvalidClient is returned when a client fails validation.
	ErrInvalidClient = errors.New("invalid client")
	// ErrInvalidRule is returned when a rule fails validation.
	ErrInvalidRule = errors.New("invalid rule")
)

// Store persists clients and their ordered rules.
type Store interface {
	CreateClient(ctx context.Context, name string) (*mapping.Client, error)
	GetClient(ctx context.Context, id string) (*mapping.Client, error)
	ListClients(ctx context.Context) ([]mapping.Client, error)
	// DeleteClient removes the client and all of its rules.
	DeleteClient(ctx context.Context, id string) error

	// CreateRules appends rules to the client's rule set, in order. Empty IDs
	// are assigned; ClientID and CreatedAt are always set by the store.
	CreateRules(ctx context.Context, clientID string, rules []mapping.MappingRule) ([]mapping.MappingRule, error)
	// ListRules returns a snapshot of the client's rules in evaluation order.
	ListRules(ctx context.Context, clientID string) ([]mapping.MappingRule, error)
	DeleteRule(ctx context.Context, clientID, ruleID string) error

	Close() error
}

// NewClient validates name and builds a client with a fresh ID.
func NewClient(name string, now time.Time) (*mapping.Client, error) {
	c := &mapping.Client{ID: uuid.NewString(), Name: name, CreatedAt: now.UTC()}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClient, err)
	}

	return c, nil
}

// PrepareRules validates rules and returns copies owned by clientID, with IDs
// and creation times assigned. IDs must be unique within the batch; the
// caller checks them against the rules it already holds.
func PrepareRules(clientID string, rules []mapping.MappingRule, now time.Time) ([]mapping.MappingRule, error) {
	if err := mapping.ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}

	seen := make(map[string]struct{}, len(rules))
	out := make([]mapping.MappingRule, len(rules))

	for i, r := range rules {
		r = CloneRule(r)
		if r.ID == "" {
			r.ID = uuid.NewString()
		}

		if _, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.ID)
		}

		seen[r.ID] = struct{}{}

		r.ClientID = clientID
		r.CreatedAt = now.UTC()
		out[i] = r
	}

	return out, nil
}

// CloneRule returns a copy of r that shares no memory with it.
func CloneRule(r mapping.MappingRule) mapping.MappingRule {
	r.SourcePath = append(mapping.Path(nil), r.SourcePath...)
	r.DestinationPath = append(mapping.Path(nil), r.DestinationPath...)

	if r.DefaultValue != nil {
		r.DefaultValue = mapping.Default(*r.DefaultValue)
	}

	return r
}

// CloneRules copies every rule with CloneRule.
func CloneRules(rules []mapping.MappingRule) []mapping.MappingRule {
	out := make([]mapping.MappingRule, len(rules))
	for i, r := range rules {
		out[i] = CloneRule(r)
	}

	return out
}
