// Package redis provides a store.Store backed by Redis.
//
// Keys, under a configurable prefix:
//
//	clients               list of client IDs in creation order
//	client:<id>           hash with name and created_at
//	client-name:<name>    client ID, reserves the name
//	rules:<client>        list of rule IDs in evaluation order
//	rule:<client>:<id>    JSON-encoded rule
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"docmapper/internal/mapping"
	"docmapper/internal/store"
)

// Config contains configuration options for the Redis store.
type Config struct {
	// Client is the Redis client instance.
	Client *redis.Client

	// KeyPrefix is the prefix for all Redis keys.
	// Default: "docmapper:"
	KeyPrefix string
}

// Store implements store.Store using Redis.
type Store struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates a Redis-backed store.
func New(config Config) (*Store, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	if config.KeyPrefix == "" {
		config.KeyPrefix = "docmapper:"
	}

	return &Store{client: config.Client, keyPrefix: config.KeyPrefix, now: time.Now}, nil
}

func (s *Store) clientsKey() string              { return s.keyPrefix + "clients" }
func (s *Store) clientKey(id string) string      { return s.keyPrefix + "client:" + id }
func (s *Store) nameKey(name string) string      { return s.keyPrefix + "client-name:" + name }
func (s *Store) rulesKey(clientID string) string { return s.keyPrefix + "rules:" + clientID }
func (s *Store) ruleKey(clientID, ruleID string) string {
	return s.keyPrefix + "rule:" + clientID + ":" + ruleID
}

func (s *Store) CreateClient(ctx context.Context, name string) (*mapping.Client, error) {
	c, err := store.NewClient(name, s.now())
	if err != nil {
		return nil, err
	}

	ok, err := s.client.SetNX(ctx, s.nameKey(name), c.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve client name: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrDuplicateName, name)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.clientKey(c.ID), "name", c.Name, "created_at", c.CreatedAt.Format(time.RFC3339Nano))
		pipe.RPush(ctx, s.clientsKey(), c.ID)

		return nil
	})
	if err != nil {
		s.client.Del(ctx, s.nameKey(name))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return c, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*mapping.Client, error) {
	fields, err := s.client.HGetAll(ctx, s.clientKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get client %s: %w", id, err)
	}

	return decodeClient(id, fields)
}

func (s *Store) ListClients(ctx context.Context) ([]mapping.Client, error) {
	ids, err := s.client.LRange(ctx, s.clientsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.clientKey(id))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	out := make([]mapping.Client, 0, len(ids))

	for i, id := range ids {
		c, err := decodeClient(id, cmds[i].Val())
		if errors.Is(err, store.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		out = append(out, *c)
	}

	return out, nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	c, err := s.GetClient(ctx, id)
	if err != nil {
		return err
	}

	ruleIDs, err := s.client.LRange(ctx, s.rulesKey(id), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	keys := []string{s.clientKey(id), s.nameKey(c.Name), s.rulesKey(id)}
	for _, ruleID := range ruleIDs {
		keys = append(keys, s.ruleKey(id, ruleID))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.LRem(ctx, s.clientsKey(), 0, id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}

func (s *Store) CreateRules(ctx context.Context, clientID string, rules []mapping.MappingRule) ([]mapping.MappingRule, error) {
	prepared, err := store.PrepareRules(clientID, rules, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	payloads := make([][]byte, len(prepared))

	for i, r := range prepared {
		if payloads[i], err = json.Marshal(r); err != nil {
			return nil, fmt.Errorf("failed to marshal rule %s: %w", r.ID, err)
		}
	}

	// Rule keys are reserved one by one; an ID only becomes visible once it is
	// pushed onto the client's list.
	reserved := make([]string, 0, len(prepared))
	release := func() {
		if len(reserved) > 0 {
			s.client.Del(context.WithoutCancel(ctx), reserved...)
		}
	}

	for i, r := range prepared {
		key := s.ruleKey(clientID, r.ID)

		ok, err := s.client.SetNX(ctx, key, payloads[i], 0).Result()
		if err != nil {
			release()
			return nil, fmt.Errorf("failed to reserve rule %s: %w", r.ID, err)
		}

		if !ok {
			release()
			return nil, fmt.Errorf("%w: %q", store.ErrDuplicateRule, r.ID)
		}

		reserved = append(reserved, key)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, r := range prepared {
			pipe.RPush(ctx, s.rulesKey(clientID), r.ID)
		}

		return nil
	})
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to store rules: %w", err)
	}

	return prepared, nil
}

func (s *Store) ListRules(ctx context.Context, clientID string) ([]mapping.MappingRule, error) {
	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	ids, err := s.client.LRange(ctx, s.rulesKey(clientID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	out := []mapping.MappingRule{}
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.ruleKey(clientID, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var r mapping.MappingRule
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rule %s: %w", ids[i], err)
		}

		out = append(out, r)
	}

	return out, nil
}

func (s *Store) DeleteRule(ctx context.Context, clientID, ruleID string) error {
	if err := s.requireClient(ctx, clientID); err != nil {
		return err
	}

	removed, err := s.client.LRem(ctx, s.rulesKey(clientID), 0, ruleID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	if removed == 0 {
		return fmt.Errorf("rule %q: %w", ruleID, store.ErrNotFound)
	}

	if err := s.client.Del(ctx, s.ruleKey(clientID, ruleID)).Err(); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) requireClient(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, s.clientKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	return nil
}

func decodeClient(id string, fields map[string]string) (*mapping.Client, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	created, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("client %q: invalid created_at: %w", id, err)
	}

	return &mapping.Client{ID: id, Name: fields["name"], CreatedAt: created}, nil
}
