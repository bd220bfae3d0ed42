package ports

import (
	"context"
	"errors"

	"github.com/okrahel/venue_flow/internal/core/domain"
)

// ErrNotFound is returned by store implementations when no document matches
// the given tenant/kind/id.
var ErrNotFound = errors.New("entity not found")

// Filter selects documents within one tenant-scoped collection. Status, when
// set, is an equality filter; no other predicates are supported by the store
// contract. Richer views are derived from full snapshots by the projections.
type Filter struct {
	TenantID string
	Kind     domain.Kind
	Status   *domain.Status
}

// SnapshotFunc receives the full current matching set on every change, never
// deltas. Implementations must be cheap to re-run from scratch.
type SnapshotFunc func(snapshot []domain.Entity)

// EntityRepository is the persistence half of the store: plain document CRUD
// plus snapshot listing. Updates merge the given fields into the document,
// they never replace it wholesale.
type EntityRepository interface {
	Create(ctx context.Context, tenantID string, kind domain.Kind, status domain.Status, payload map[string]any) (string, error)
	Update(ctx context.Context, tenantID string, kind domain.Kind, id string, fields map[string]any) error
	Remove(ctx context.Context, tenantID string, kind domain.Kind, id string) error
	Get(ctx context.Context, tenantID string, kind domain.Kind, id string) (*domain.Entity, error)
	List(ctx context.Context, filter Filter) ([]domain.Entity, error)
	Tenants(ctx context.Context) ([]string, error)
}

// EntityStore is the full store adapter contract: CRUD plus live
// subscriptions. Subscribe delivers an initial snapshot immediately and a
// fresh one after every change; the returned function releases the listener
// and must be called on every teardown path.
type EntityStore interface {
	EntityRepository
	Subscribe(ctx context.Context, filter Filter, fn SnapshotFunc) (func(), error)
}

// ChangePublisher notifies subscribers that a tenant-scoped collection
// changed. Notifications carry no payload: subscribers re-read the full
// snapshot on every notification.
type ChangePublisher interface {
	Publish(ctx context.Context, tenantID string, kind domain.Kind) error
}
