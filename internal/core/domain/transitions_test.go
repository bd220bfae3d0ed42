package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okrahel/venue_flow/internal/core/domain"
)

func entity(kind domain.Kind, status domain.Status) domain.Entity {
	return domain.Entity{ID: "e1", TenantID: "t1", Kind: kind, Status: status, Payload: map[string]any{}}
}

func TestPlan_QueueTransitions(t *testing.T) {
	w, err := domain.Plan(entity(domain.KindQueueItem, domain.QueueQueued), domain.TransitionStartPlaying, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.QueuePlaying, w.Fields["status"])

	w, err = domain.Plan(entity(domain.KindQueueItem, domain.QueuePlaying), domain.TransitionMarkPlayed, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.QueuePlayed, w.Fields["status"])

	w, err = domain.Plan(entity(domain.KindQueueItem, domain.QueuePlaying), domain.TransitionSkip, domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueSkipped, w.Fields["status"])
}

func TestPlan_RejectsIllegalSourceStatus(t *testing.T) {
	_, err := domain.Plan(entity(domain.KindQueueItem, domain.QueuePlayed), domain.TransitionStartPlaying, domain.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = domain.Plan(entity(domain.KindQueueItem, domain.QueueQueued), domain.TransitionSkip, domain.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPlan_RejectsUnpermittedRole(t *testing.T) {
	_, err := domain.Plan(entity(domain.KindQueueItem, domain.QueueQueued), domain.TransitionStartPlaying, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = domain.Plan(entity(domain.KindBooking, domain.BookingPending), domain.TransitionConfirm, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = domain.Plan(entity(domain.KindBooking, domain.BookingCancelled), domain.TransitionReset, domain.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestPlan_RejectsUnknownTransition(t *testing.T) {
	_, err := domain.Plan(entity(domain.KindBooking, domain.BookingPending), domain.TransitionSkip, domain.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrUnknownTransition)
}

func TestPlan_BookingNeverSkipsIntermediateStates(t *testing.T) {
	// confirmed -> completed has no direct edge; the only path to completed
	// runs through seated.
	_, err := domain.Plan(entity(domain.KindBooking, domain.BookingConfirmed), domain.TransitionComplete, domain.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = domain.Plan(entity(domain.KindBooking, domain.BookingPending), domain.TransitionSeat, domain.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	w, err := domain.Plan(entity(domain.KindBooking, domain.BookingConfirmed), domain.TransitionSeat, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingSeated, w.Fields["status"])

	w, err = domain.Plan(entity(domain.KindBooking, domain.BookingSeated), domain.TransitionComplete, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, w.Fields["status"])
}

func TestPlan_BookingResetFromEveryTerminalState(t *testing.T) {
	for _, status := range []domain.Status{domain.BookingCompleted, domain.BookingCancelled, domain.BookingNoShow} {
		w, err := domain.Plan(entity(domain.KindBooking, status), domain.TransitionReset, domain.RoleAdmin)
		require.NoError(t, err, "reset from %s", status)
		assert.Equal(t, domain.BookingPending, w.Fields["status"])
	}

	_, err := domain.Plan(entity(domain.KindBooking, domain.BookingSeated), domain.TransitionReset, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPlan_CourierDecisionCarriesIsActive(t *testing.T) {
	w, err := domain.Plan(entity(domain.KindCourierApplication, domain.CourierPending), domain.TransitionApprove, domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.CourierApproved, w.Fields["status"])
	assert.Equal(t, true, w.Fields[domain.FieldIsActive])

	// Re-decision: approved -> rejected flips the flag back off.
	w, err = domain.Plan(entity(domain.KindCourierApplication, domain.CourierApproved), domain.TransitionReject, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.CourierRejected, w.Fields["status"])
	assert.Equal(t, false, w.Fields[domain.FieldIsActive])

	w, err = domain.Plan(entity(domain.KindCourierApplication, domain.CourierRejected), domain.TransitionApprove, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.CourierApproved, w.Fields["status"])
}

func TestPlan_StaffApplicationDecisionsMoveFreely(t *testing.T) {
	cases := []struct {
		from domain.Status
		tr   domain.Transition
		to   domain.Status
	}{
		{domain.ApplicationNew, domain.TransitionBeginReview, domain.ApplicationUnderReview},
		{domain.ApplicationUnderReview, domain.TransitionApprove, domain.ApplicationApproved},
		{domain.ApplicationApproved, domain.TransitionWaitlist, domain.ApplicationWaitlist},
		{domain.ApplicationRejected, domain.TransitionApprove, domain.ApplicationApproved},
		{domain.ApplicationWaitlist, domain.TransitionReject, domain.ApplicationRejected},
	}
	for _, tc := range cases {
		w, err := domain.Plan(entity(domain.KindStaffApplication, tc.from), tc.tr, domain.RoleOwner)
		require.NoError(t, err, "%s via %s", tc.from, tc.tr)
		assert.Equal(t, tc.to, w.Fields["status"])
	}
}

func TestPlan_AuctionLifecycle(t *testing.T) {
	w, err := domain.Plan(entity(domain.KindAuctionItem, domain.AuctionUpcoming), domain.TransitionActivate, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.AuctionActive, w.Fields["status"])

	_, err = domain.Plan(entity(domain.KindAuctionItem, domain.AuctionUpcoming), domain.TransitionSell, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = domain.Plan(entity(domain.KindAuctionItem, domain.AuctionEnded), domain.TransitionActivate, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, entity(domain.KindQueueItem, domain.QueuePlayed).IsTerminal())
	assert.True(t, entity(domain.KindBooking, domain.BookingNoShow).IsTerminal())
	assert.False(t, entity(domain.KindBooking, domain.BookingSeated).IsTerminal())
	// Courier decisions are re-decidable, never terminal.
	assert.False(t, entity(domain.KindCourierApplication, domain.CourierRejected).IsTerminal())
}

func TestStartStatus(t *testing.T) {
	assert.Equal(t, domain.QueueQueued, domain.StartStatus(domain.KindQueueItem))
	assert.Equal(t, domain.BookingPending, domain.StartStatus(domain.KindBooking))
	assert.Equal(t, domain.AuctionUpcoming, domain.StartStatus(domain.KindAuctionItem))
	assert.Equal(t, domain.ApplicationNew, domain.StartStatus(domain.KindStaffApplication))
}
