// Package memory provides an in-process implementation of store.Store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"docmapper/internal/mapping"
	"docmapper/internal/store"
)

// Store keeps clients and rules in maps guarded by a read-write mutex.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	clients map[string]mapping.Client
	order   []string
	rules   map[string][]mapping.MappingRule
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		now:     time.Now,
		clients: make(map[string]mapping.Client),
		rules:   make(map[string][]mapping.MappingRule),
	}
}

func (s *Store) CreateClient(_ context.Context, name string) (*mapping.Client, error) {
	c, err := store.NewClient(name, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clients {
		if existing.Name == name {
			return nil, fmt.Errorf("%w: %q", store.ErrDuplicateName, name)
		}
	}

	s.clients[c.ID] = *c
	s.order = append(s.order, c.ID)

	return c, nil
}

func (s *Store) GetClient(_ context.Context, id string) (*mapping.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	return &c, nil
}

func (s *Store) ListClients(_ context.Context) ([]mapping.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]mapping.Client, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.clients[id])
	}

	return out, nil
}

func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	delete(s.clients, id)
	delete(s.rules, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	return nil
}

func (s *Store) CreateRules(_ context.Context, clientID string, rules []mapping.MappingRule) ([]mapping.MappingRule, error) {
	prepared, err := store.PrepareRules(clientID, rules, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[clientID]; !ok {
		return nil, fmt.Errorf("client %q: %w", clientID, store.ErrNotFound)
	}

	existing := s.rules[clientID]
	for _, r := range prepared {
		if slices.ContainsFunc(existing, func(e mapping.MappingRule) bool { return e.ID == r.ID }) {
			return nil, fmt.Errorf("%w: %q", store.ErrDuplicateRule, r.ID)
		}
	}

	s.rules[clientID] = append(existing, prepared...)

	return store.CloneRules(prepared), nil
}

func (s *Store) ListRules(_ context.Context, clientID string) ([]mapping.MappingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.clients[clientID]; !ok {
		return nil, fmt.Errorf("client %q: %w", clientID, store.ErrNotFound)
	}

	return store.CloneRules(s.rules[clientID]), nil
}

func (s *Store) DeleteRule(_ context.Context, clientID, ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[clientID]; !ok {
		return fmt.Errorf("client %q: %w", clientID, store.ErrNotFound)
	}

	rules := s.rules[clientID]

	idx := slices.IndexFunc(rules, func(r mapping.MappingRule) bool { return r.ID == ruleID })
	if idx < 0 {
		return fmt.Errorf("rule %q: %w", ruleID, store.ErrNotFound)
	}

	s.rules[clientID] = slices.Delete(rules, idx, idx+1)

	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
