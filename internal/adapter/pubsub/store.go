package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports"
)

// Store decorates an EntityRepository with a Redis change feed so it
// satisfies the full EntityStore contract. Every successful write publishes
// a change notification for its (tenant, kind) collection; each subscriber
// independently re-reads the full snapshot on every notification. There is
// no shared cache and no delta stream: the feed is the event bus, the
// repository is the truth.
type Store struct {
	repo   ports.EntityRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewStore(repo ports.EntityRepository, rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{repo: repo, rdb: rdb, logger: logger}
}

func channelFor(tenantID string, kind domain.Kind) string {
	return fmt.Sprintf("changes:%s:%s", tenantID, kind)
}

func (s *Store) Create(ctx context.Context, tenantID string, kind domain.Kind, status domain.Status, payload map[string]any) (string, error) {
	id, err := s.repo.Create(ctx, tenantID, kind, status, payload)
	if err != nil {
		return "", err
	}
	s.publish(ctx, tenantID, kind)
	return id, nil
}

func (s *Store) Update(ctx context.Context, tenantID string, kind domain.Kind, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, tenantID, kind, id, fields); err != nil {
		return err
	}
	s.publish(ctx, tenantID, kind)
	return nil
}

func (s *Store) Remove(ctx context.Context, tenantID string, kind domain.Kind, id string) error {
	if err := s.repo.Remove(ctx, tenantID, kind, id); err != nil {
		return err
	}
	s.publish(ctx, tenantID, kind)
	return nil
}

func (s *Store) Get(ctx context.Context, tenantID string, kind domain.Kind, id string) (*domain.Entity, error) {
	return s.repo.Get(ctx, tenantID, kind, id)
}

func (s *Store) List(ctx context.Context, filter ports.Filter) ([]domain.Entity, error) {
	return s.repo.List(ctx, filter)
}

func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	return s.repo.Tenants(ctx)
}

// Publish satisfies ports.ChangePublisher for callers that mutate the
// repository directly.
func (s *Store) Publish(ctx context.Context, tenantID string, kind domain.Kind) error {
	return s.rdb.Publish(ctx, channelFor(tenantID, kind), "changed").Err()
}

// publish is best-effort: a dropped notification only delays subscribers
// until the next change, it never loses data.
func (s *Store) publish(ctx context.Context, tenantID string, kind domain.Kind) {
	if err := s.Publish(ctx, tenantID, kind); err != nil {
		s.logger.Warn("change publish failed",
			zap.String("tenant", tenantID), zap.String("kind", string(kind)), zap.Error(err))
	}
}

// Subscribe registers a live listener on the filter's collection. The
// callback receives the full current matching set immediately and again
// after every published change. A transient read failure during a refresh
// surfaces as a nil snapshot; no retry happens here. The returned function
// releases the listener and is safe to call more than once.
func (s *Store) Subscribe(ctx context.Context, filter ports.Filter, fn ports.SnapshotFunc) (func(), error) {
	snapshot, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}

	sub := s.rdb.Subscribe(ctx, channelFor(filter.TenantID, filter.Kind))
	done := make(chan struct{})

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				snap, err := s.repo.List(ctx, filter)
				if err != nil {
					s.logger.Warn("snapshot refresh failed",
						zap.String("tenant", filter.TenantID),
						zap.String("kind", string(filter.Kind)),
						zap.Error(err))
					fn(nil)
					continue
				}
				fn(snap)
			}
		}
	}()

	fn(snapshot)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				s.logger.Warn("pubsub close failed", zap.Error(err))
			}
		})
	}
	return unsubscribe, nil
}
