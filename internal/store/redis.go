// =============================================================================
// Buyer Ledger - Redis Store
// =============================================================================
//
// Primary document store. Each buyer record is one JSON document at
// "buyer:<name>", with a set index at "buyers" for listing. Buyer identity
// is the trimmed, case-sensitive name, matching the engine's key.
//
// =============================================================================

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/skdtraders/buyer-ledger/internal/types"
)

const (
	buyerKeyPrefix = "buyer:"
	buyerIndexKey  = "buyers"
)

// RedisStore implements Store against Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed buyer store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies connectivity; callers fail fast at startup instead of
// hanging requests later.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func buyerKey(buyer string) string { return buyerKeyPrefix + buyer }

// =============================================================================
// STORE IMPLEMENTATION
// =============================================================================

func (s *RedisStore) List(ctx context.Context) ([]types.BuyerSummary, error) {
	names, err := s.client.SMembers(ctx, buyerIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	sort.Strings(names)

	out := make([]types.BuyerSummary, 0, len(names))
	for _, name := range names {
		summary, err := s.Get(ctx, name)
		if err == ErrNotFound {
			// Index entry without a document; skip rather than fail the list.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *summary)
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, buyer string) (*types.BuyerSummary, error) {
	data, err := s.client.Get(ctx, buyerKey(buyer)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get buyer %q: %w", buyer, err)
	}

	var summary types.BuyerSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode buyer %q: %w", buyer, err)
	}
	return &summary, nil
}

func (s *RedisStore) UpsertSummaries(ctx context.Context, summaries []types.BuyerSummary) error {
	for _, fresh := range summaries {
		existing, err := s.Get(ctx, fresh.Buyer)
		if err != nil && err != ErrNotFound {
			return err
		}

		merged := mergeSummary(fresh, existing)
		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode buyer %q: %w", fresh.Buyer, err)
		}

		pipe := s.client.TxPipeline()
		pipe.Set(ctx, buyerKey(fresh.Buyer), data, 0)
		pipe.SAdd(ctx, buyerIndexKey, fresh.Buyer)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("upsert buyer %q: %w", fresh.Buyer, err)
		}
	}
	return nil
}

func (s *RedisStore) UpdatePayment(ctx context.Context, buyer string, update types.PaymentUpdate) error {
	existing, err := s.Get(ctx, buyer)
	if err != nil {
		return err
	}

	existing.ReceivedAmount = update.ReceivedAmount
	existing.PaymentMode = update.PaymentMode

	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode buyer %q: %w", buyer, err)
	}
	if err := s.client.Set(ctx, buyerKey(buyer), data, 0).Err(); err != nil {
		return fmt.Errorf("update buyer %q: %w", buyer, err)
	}
	return nil
}

func (s *RedisStore) DeleteAll(ctx context.Context) error {
	names, err := s.client.SMembers(ctx, buyerIndexKey).Result()
	if err != nil {
		return fmt.Errorf("delete buyers: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, name := range names {
		pipe.Del(ctx, buyerKey(name))
	}
	pipe.Del(ctx, buyerIndexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete buyers: %w", err)
	}
	return nil
}
