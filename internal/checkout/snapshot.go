package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

var ErrSnapshotNotFound = errors.New("purchase snapshot not found")

// SnapshotStore keeps the best-effort purchase snapshot written right
// before redirecting to the payment gateway. One key per session,
// overwritten on every checkout; absence is an expected condition.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap *domain.PurchaseSnapshot) error
	Load(ctx context.Context, sessionID string) (*domain.PurchaseSnapshot, error)
}

type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisSnapshotStore) Save(ctx context.Context, sessionID string, snap *domain.PurchaseSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSnapshotStore) Load(ctx context.Context, sessionID string) (*domain.PurchaseSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap domain.PurchaseSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot failed: %w", err)
	}

	return &snap, nil
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("checkout:last:%s", sessionID)
}
