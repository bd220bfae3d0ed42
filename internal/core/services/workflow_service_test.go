package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports"
	"github.com/okrahel/venue_flow/internal/core/ports/mocks"
	"github.com/okrahel/venue_flow/internal/core/services"
)

const tenant = "blue-note"

var staff = services.Actor{ID: "staff-1", Role: domain.RoleStaff}

func newService(store ports.EntityStore) *services.WorkflowService {
	return services.NewWorkflowService(store, zap.NewNop())
}

func queueFilter() ports.Filter {
	return ports.Filter{TenantID: tenant, Kind: domain.KindQueueItem}
}

func statusWrite(status domain.Status) map[string]interface{} {
	return map[string]interface{}{"status": status}
}

func TestCreateQueueItem_StartsQueued(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	store.On("Create", ctx, tenant, domain.KindQueueItem, domain.QueueQueued, map[string]interface{}{
		domain.FieldTitle:       "Bohemian Rhapsody",
		domain.FieldArtist:      "Queen",
		domain.FieldRequestedBy: "table-4",
	}).Return("item-1", nil)

	resp, err := svc.CreateQueueItem(ctx, tenant, services.CreateQueueItemRequest{
		Title:       "Bohemian Rhapsody",
		Artist:      "Queen",
		RequestedBy: "table-4",
	})

	require.NoError(t, err)
	assert.Equal(t, "item-1", resp.ID)
	assert.Equal(t, string(domain.QueueQueued), resp.Status)
}

func TestCreateQueueItem_RejectsMissingTitle(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)

	_, err := svc.CreateQueueItem(context.Background(), tenant, services.CreateQueueItemRequest{RequestedBy: "x"})

	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

// Scenario: empty stage, two queued songs. Play-next promotes the first
// created item and touches nothing else.
func TestStartPlaying_PromotesFIFOHeadWhenNothingPlays(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	snapshot := []domain.Entity{
		{ID: "bohemian", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued, CreatedAt: base},
		{ID: "imagine", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued, CreatedAt: base.Add(time.Minute)},
	}
	store.On("List", ctx, queueFilter()).Return(snapshot, nil)
	store.On("Update", ctx, tenant, domain.KindQueueItem, "bohemian", statusWrite(domain.QueuePlaying)).Return(nil)

	err := svc.StartPlaying(ctx, tenant, staff, "")

	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "Update", 1)
}

func TestStartPlaying_DemotesCurrentBeforePromoting(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	snapshot := []domain.Entity{
		{ID: "current", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying, CreatedAt: base},
		{ID: "next", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued, CreatedAt: base.Add(time.Minute)},
	}
	store.On("List", ctx, queueFilter()).Return(snapshot, nil)

	var order []string
	store.On("Update", ctx, tenant, domain.KindQueueItem, "current", statusWrite(domain.QueuePlayed)).
		Run(func(mock.Arguments) { order = append(order, "demote") }).Return(nil)
	store.On("Update", ctx, tenant, domain.KindQueueItem, "next", statusWrite(domain.QueuePlaying)).
		Run(func(mock.Arguments) { order = append(order, "promote") }).Return(nil)

	err := svc.StartPlaying(ctx, tenant, staff, "next")

	require.NoError(t, err)
	assert.Equal(t, []string{"demote", "promote"}, order)
}

// Invoking start-playing twice on the same target must demote the previous
// item exactly once and leave the target playing.
func TestStartPlaying_Idempotent(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	before := []domain.Entity{
		{ID: "prev", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying, CreatedAt: base},
		{ID: "target", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued, CreatedAt: base.Add(time.Minute)},
	}
	after := []domain.Entity{
		{ID: "prev", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlayed, CreatedAt: base},
		{ID: "target", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying, CreatedAt: base.Add(time.Minute)},
	}
	store.On("List", ctx, queueFilter()).Return(before, nil).Once()
	store.On("List", ctx, queueFilter()).Return(after, nil).Once()
	store.On("Update", ctx, tenant, domain.KindQueueItem, "prev", statusWrite(domain.QueuePlayed)).Return(nil).Once()
	store.On("Update", ctx, tenant, domain.KindQueueItem, "target", statusWrite(domain.QueuePlaying)).Return(nil).Once()

	require.NoError(t, svc.StartPlaying(ctx, tenant, staff, "target"))
	require.NoError(t, svc.StartPlaying(ctx, tenant, staff, "target"))

	store.AssertNumberOfCalls(t, "Update", 2)
}

// Scenario: A playing, B queued. Skip marks A skipped and promotes B.
func TestSkip_PromotesNextQueued(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	snapshot := []domain.Entity{
		{ID: "a", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying, CreatedAt: base},
		{ID: "b", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued, CreatedAt: base.Add(time.Minute)},
	}
	store.On("List", ctx, queueFilter()).Return(snapshot, nil)
	store.On("Update", ctx, tenant, domain.KindQueueItem, "a", statusWrite(domain.QueueSkipped)).Return(nil)
	store.On("Update", ctx, tenant, domain.KindQueueItem, "b", statusWrite(domain.QueuePlaying)).Return(nil)

	require.NoError(t, svc.Skip(ctx, tenant, staff))
}

// No next queued item: the current item still transitions, no promotion
// occurs.
func TestSkip_PartiallyAppliesWithoutNextItem(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	snapshot := []domain.Entity{
		{ID: "a", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying},
	}
	store.On("List", ctx, queueFilter()).Return(snapshot, nil)
	store.On("Update", ctx, tenant, domain.KindQueueItem, "a", statusWrite(domain.QueueSkipped)).Return(nil)

	require.NoError(t, svc.Skip(ctx, tenant, staff))
	store.AssertNumberOfCalls(t, "Update", 1)
}

func TestSkip_NoPlayingItem(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	store.On("List", ctx, queueFilter()).Return([]domain.Entity{
		{ID: "b", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued},
	}, nil)

	err := svc.Skip(ctx, tenant, staff)

	assert.ErrorIs(t, err, ports.ErrNotFound)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSkip_CustomerForbidden(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	store.On("List", ctx, queueFilter()).Return([]domain.Entity{
		{ID: "a", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying},
	}, nil)

	err := svc.Skip(ctx, tenant, services.Actor{ID: "table-4", Role: domain.RoleCustomer})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A failed demote aborts the sequence: the promote write is never issued and
// nothing is rolled back.
func TestSkip_AbortsRemainingWritesOnFailure(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	snapshot := []domain.Entity{
		{ID: "a", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueuePlaying, CreatedAt: base},
		{ID: "b", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued, CreatedAt: base.Add(time.Minute)},
	}
	store.On("List", ctx, queueFilter()).Return(snapshot, nil)
	store.On("Update", ctx, tenant, domain.KindQueueItem, "a", statusWrite(domain.QueueSkipped)).
		Return(errors.New("connection reset"))

	err := svc.Skip(ctx, tenant, staff)

	require.Error(t, err)
	store.AssertNumberOfCalls(t, "Update", 1)
	store.AssertNotCalled(t, "Update", ctx, tenant, domain.KindQueueItem, "b", mock.Anything)
}

func TestTransitionBooking_CustomerCancelsOwnOnly(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := &domain.Entity{
		ID: "bk1", TenantID: tenant, Kind: domain.KindBooking, Status: domain.BookingPending,
		Payload: map[string]any{domain.FieldPhone: "555-0101"},
	}
	store.On("Get", ctx, tenant, domain.KindBooking, "bk1").Return(e, nil)

	err := svc.TransitionBooking(ctx, tenant, services.Actor{ID: "555-9999", Role: domain.RoleCustomer}, "bk1", domain.TransitionCancel)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	store.On("Update", ctx, tenant, domain.KindBooking, "bk1", statusWrite(domain.BookingCancelled)).Return(nil)
	err = svc.TransitionBooking(ctx, tenant, services.Actor{ID: "555-0101", Role: domain.RoleCustomer}, "bk1", domain.TransitionCancel)
	assert.NoError(t, err)
}

// Scenario: approving a pending courier application flips isActive on in the
// same write as the status.
func TestDecideCourier_ApproveSetsIsActive(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := &domain.Entity{
		ID: "cr1", TenantID: tenant, Kind: domain.KindCourierApplication, Status: domain.CourierPending,
		Payload: map[string]any{domain.FieldName: "Sam", domain.FieldIsActive: false},
	}
	store.On("Get", ctx, tenant, domain.KindCourierApplication, "cr1").Return(e, nil)
	store.On("Update", ctx, tenant, domain.KindCourierApplication, "cr1", map[string]interface{}{
		"status":             domain.CourierApproved,
		domain.FieldIsActive: true,
	}).Return(nil)

	err := svc.DecideCourier(ctx, tenant, services.Actor{ID: "owner-1", Role: domain.RoleOwner}, "cr1", true)

	require.NoError(t, err)
}

func TestReviewStaffApplication_StampsResponder(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := &domain.Entity{
		ID: "app1", TenantID: tenant, Kind: domain.KindStaffApplication, Status: domain.ApplicationNew,
		Payload: map[string]any{domain.FieldName: "Rae"},
	}
	store.On("Get", ctx, tenant, domain.KindStaffApplication, "app1").Return(e, nil)
	store.On("Update", ctx, tenant, domain.KindStaffApplication, "app1", mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["status"] == domain.ApplicationApproved &&
			fields[domain.FieldReviewedBy] == "owner-1" &&
			fields[domain.FieldReviewedAt] != ""
	})).Return(nil)

	err := svc.ReviewStaffApplication(ctx, tenant, services.Actor{ID: "owner-1", Role: domain.RoleOwner}, "app1", domain.TransitionApprove)

	require.NoError(t, err)
}

func TestPlaceBid_MustExceedCurrentHigh(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := &domain.Entity{
		ID: "au1", TenantID: tenant, Kind: domain.KindAuctionItem, Status: domain.AuctionActive,
		Payload: map[string]any{
			domain.FieldStartPrice: 50.0,
			domain.FieldCurrentBid: 70.0,
			domain.FieldBidCount:   2.0,
		},
	}
	store.On("Get", ctx, tenant, domain.KindAuctionItem, "au1").Return(e, nil)

	err := svc.PlaceBid(ctx, tenant, "au1", 60)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	store.On("Update", ctx, tenant, domain.KindAuctionItem, "au1", map[string]interface{}{
		domain.FieldBidCount:   3.0,
		domain.FieldCurrentBid: 85.0,
	}).Return(nil)
	err = svc.PlaceBid(ctx, tenant, "au1", 85)
	assert.NoError(t, err)
}

func TestPlaceBid_InactiveAuctionRejected(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := &domain.Entity{
		ID: "au1", TenantID: tenant, Kind: domain.KindAuctionItem, Status: domain.AuctionUpcoming,
		Payload: map[string]any{domain.FieldStartPrice: 50.0},
	}
	store.On("Get", ctx, tenant, domain.KindAuctionItem, "au1").Return(e, nil)

	err := svc.PlaceBid(ctx, tenant, "au1", 60)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func auctionEntity(id string, status domain.Status, endsAt time.Time, bidCount, currentBid, reserve float64) domain.Entity {
	return domain.Entity{
		ID: id, TenantID: tenant, Kind: domain.KindAuctionItem, Status: status,
		Payload: map[string]any{
			domain.FieldEndsAt:       endsAt.UTC().Format(time.RFC3339),
			domain.FieldStartsAt:     endsAt.Add(-time.Hour).UTC().Format(time.RFC3339),
			domain.FieldBidCount:     bidCount,
			domain.FieldCurrentBid:   currentBid,
			domain.FieldReservePrice: reserve,
		},
	}
}

// Scenario: an auction with zero bids reaching its end time resolves to
// ended, never sold.
func TestResolveDueAuctions_NoBidsEndsUnsold(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)

	store.On("List", ctx, ports.Filter{TenantID: tenant, Kind: domain.KindAuctionItem}).
		Return([]domain.Entity{auctionEntity("au1", domain.AuctionActive, past, 0, 0, 100)}, nil)
	store.On("Update", ctx, tenant, domain.KindAuctionItem, "au1", statusWrite(domain.AuctionEnded)).Return(nil)

	n, err := svc.ResolveDueAuctions(ctx, tenant)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolveDueAuctions_ReserveMetSells(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)

	store.On("List", ctx, ports.Filter{TenantID: tenant, Kind: domain.KindAuctionItem}).
		Return([]domain.Entity{
			auctionEntity("sold", domain.AuctionActive, past, 3, 120, 100),
			auctionEntity("below-reserve", domain.AuctionActive, past, 3, 80, 100),
			auctionEntity("still-running", domain.AuctionActive, time.Now().Add(time.Hour), 1, 200, 100),
		}, nil)
	store.On("Update", ctx, tenant, domain.KindAuctionItem, "sold", statusWrite(domain.AuctionSold)).Return(nil)
	store.On("Update", ctx, tenant, domain.KindAuctionItem, "below-reserve", statusWrite(domain.AuctionEnded)).Return(nil)

	n, err := svc.ResolveDueAuctions(ctx, tenant)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	store.AssertNotCalled(t, "Update", ctx, tenant, domain.KindAuctionItem, "still-running", mock.Anything)
}

func TestResolveDueAuctions_ActivatesUpcoming(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := auctionEntity("au1", domain.AuctionUpcoming, time.Now().Add(time.Hour), 0, 0, 100)
	e.Payload[domain.FieldStartsAt] = time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)

	store.On("List", ctx, ports.Filter{TenantID: tenant, Kind: domain.KindAuctionItem}).
		Return([]domain.Entity{e}, nil)
	store.On("Update", ctx, tenant, domain.KindAuctionItem, "au1", statusWrite(domain.AuctionActive)).Return(nil)

	n, err := svc.ResolveDueAuctions(ctx, tenant)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRemoveQueueItem_CustomerOwnership(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)
	ctx := context.Background()

	e := &domain.Entity{
		ID: "q1", TenantID: tenant, Kind: domain.KindQueueItem, Status: domain.QueueQueued,
		Payload: map[string]any{domain.FieldRequestedBy: "table-4"},
	}
	store.On("Get", ctx, tenant, domain.KindQueueItem, "q1").Return(e, nil)

	err := svc.RemoveQueueItem(ctx, tenant, services.Actor{ID: "table-9", Role: domain.RoleCustomer}, "q1")
	assert.ErrorIs(t, err, services.ErrNotOwner)

	store.On("Remove", ctx, tenant, domain.KindQueueItem, "q1").Return(nil)
	err = svc.RemoveQueueItem(ctx, tenant, services.Actor{ID: "table-4", Role: domain.RoleCustomer}, "q1")
	assert.NoError(t, err)
}

func TestClearQueue_RequiresStaff(t *testing.T) {
	store := mocks.NewEntityStore(t)
	svc := newService(store)

	err := svc.ClearQueue(context.Background(), tenant, services.Actor{ID: "table-4", Role: domain.RoleCustomer})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
