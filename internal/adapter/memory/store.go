package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports"
)

type collectionKey struct {
	tenantID string
	kind     domain.Kind
}

type subscriber struct {
	filter ports.Filter
	fn     ports.SnapshotFunc
}

// Store is an in-process EntityStore with the same contract as the
// postgres+redis pair: merge-style updates, full snapshots on every change.
// Snapshots are delivered synchronously from the mutating call, which makes
// ordering deterministic for tests.
type Store struct {
	mu   sync.Mutex
	docs map[collectionKey]map[string]domain.Entity
	subs map[int]*subscriber
	next int
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		docs: make(map[collectionKey]map[string]domain.Entity),
		subs: make(map[int]*subscriber),
		now:  time.Now,
	}
}

// SetClock overrides the store's clock. Test helper.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Create(ctx context.Context, tenantID string, kind domain.Kind, status domain.Status, payload map[string]any) (string, error) {
	s.mu.Lock()
	key := collectionKey{tenantID, kind}
	if s.docs[key] == nil {
		s.docs[key] = make(map[string]domain.Entity)
	}
	id := uuid.NewString()
	now := s.now().UTC()
	s.docs[key][id] = domain.Entity{
		ID:        id,
		TenantID:  tenantID,
		Kind:      kind,
		Status:    status,
		Payload:   copyPayload(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	fanout := s.matchingSubscribers(key)
	s.mu.Unlock()

	s.deliver(fanout)
	return id, nil
}

func (s *Store) Update(ctx context.Context, tenantID string, kind domain.Kind, id string, fields map[string]any) error {
	s.mu.Lock()
	key := collectionKey{tenantID, kind}
	e, ok := s.docs[key][id]
	if !ok {
		s.mu.Unlock()
		return ports.ErrNotFound
	}
	for k, v := range fields {
		if k == "status" {
			if st, ok := v.(domain.Status); ok {
				e.Status = st
			} else if st, ok := v.(string); ok {
				e.Status = domain.Status(st)
			}
			continue
		}
		e.Payload[k] = v
	}
	e.UpdatedAt = s.now().UTC()
	s.docs[key][id] = e
	fanout := s.matchingSubscribers(key)
	s.mu.Unlock()

	s.deliver(fanout)
	return nil
}

func (s *Store) Remove(ctx context.Context, tenantID string, kind domain.Kind, id string) error {
	s.mu.Lock()
	key := collectionKey{tenantID, kind}
	if _, ok := s.docs[key][id]; !ok {
		s.mu.Unlock()
		return ports.ErrNotFound
	}
	delete(s.docs[key], id)
	fanout := s.matchingSubscribers(key)
	s.mu.Unlock()

	s.deliver(fanout)
	return nil
}

func (s *Store) Get(ctx context.Context, tenantID string, kind domain.Kind, id string) (*domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.docs[collectionKey{tenantID, kind}][id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	e.Payload = copyPayload(e.Payload)
	return &e, nil
}

func (s *Store) List(ctx context.Context, filter ports.Filter) ([]domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(filter), nil
}

func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for key := range s.docs {
		if !seen[key.tenantID] {
			seen[key.tenantID] = true
			out = append(out, key.tenantID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Subscribe(ctx context.Context, filter ports.Filter, fn ports.SnapshotFunc) (func(), error) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = &subscriber{filter: filter, fn: fn}
	initial := s.listLocked(filter)
	s.mu.Unlock()

	fn(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}, nil
}

type delivery struct {
	fn       ports.SnapshotFunc
	snapshot []domain.Entity
}

func (s *Store) matchingSubscribers(key collectionKey) []delivery {
	var out []delivery
	for _, sub := range s.subs {
		if sub.filter.TenantID != key.tenantID || sub.filter.Kind != key.kind {
			continue
		}
		out = append(out, delivery{fn: sub.fn, snapshot: s.listLocked(sub.filter)})
	}
	return out
}

func (s *Store) deliver(deliveries []delivery) {
	for _, d := range deliveries {
		d.fn(d.snapshot)
	}
}

// copyPayload detaches an entity from the stored map so that snapshots and
// Get results stay point-in-time after later updates.
func copyPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}

func (s *Store) listLocked(filter ports.Filter) []domain.Entity {
	bucket := s.docs[collectionKey{filter.TenantID, filter.Kind}]
	var out []domain.Entity
	for _, e := range bucket {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		e.Payload = copyPayload(e.Payload)
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
