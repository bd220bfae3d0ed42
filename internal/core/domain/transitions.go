package domain

import "errors"

type Transition string

const (
	// Queue item transitions.
	TransitionStartPlaying Transition = "start_playing"
	TransitionMarkPlayed   Transition = "mark_played"
	TransitionSkip         Transition = "skip"

	// Booking transitions.
	TransitionConfirm  Transition = "confirm"
	TransitionSeat     Transition = "seat"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
	TransitionNoShow   Transition = "no_show"
	TransitionReset    Transition = "reset"

	// Courier application transitions.
	TransitionApprove Transition = "approve"
	TransitionReject  Transition = "reject"

	// Auction item transitions.
	TransitionActivate Transition = "activate"
	TransitionEnd      Transition = "end"
	TransitionSell     Transition = "sell"

	// Staff application transitions.
	TransitionBeginReview Transition = "begin_review"
	TransitionWaitlist    Transition = "waitlist"
)

var (
	ErrUnknownTransition = errors.New("unknown transition for entity kind")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrPermissionDenied  = errors.New("role not permitted for transition")
)

// Rule describes one legal transition: the statuses it may start from, the
// absolute status it lands on, the roles allowed to request it, and any
// companion payload fields written alongside the status.
type Rule struct {
	From   []Status
	To     Status
	Roles  []Role
	Fields map[string]any
}

var (
	staffUp    = []Role{RoleStaff, RoleOwner, RoleAdmin}
	ownerUp    = []Role{RoleOwner, RoleAdmin}
	adminOnly  = []Role{RoleAdmin}
	anyDecider = []Role{RoleOwner, RoleAdmin}

	allApplicationStatuses = []Status{
		ApplicationNew, ApplicationUnderReview,
		ApplicationApproved, ApplicationRejected, ApplicationWaitlist,
	}
)

var transitionTables = map[Kind]map[Transition]Rule{
	KindQueueItem: {
		TransitionStartPlaying: {From: []Status{QueueQueued}, To: QueuePlaying, Roles: staffUp},
		TransitionMarkPlayed:   {From: []Status{QueuePlaying}, To: QueuePlayed, Roles: staffUp},
		TransitionSkip:         {From: []Status{QueuePlaying}, To: QueueSkipped, Roles: staffUp},
	},
	KindBooking: {
		TransitionConfirm:  {From: []Status{BookingPending}, To: BookingConfirmed, Roles: staffUp},
		TransitionSeat:     {From: []Status{BookingConfirmed}, To: BookingSeated, Roles: staffUp},
		TransitionComplete: {From: []Status{BookingSeated}, To: BookingCompleted, Roles: staffUp},
		TransitionCancel: {
			From:  []Status{BookingPending, BookingConfirmed},
			To:    BookingCancelled,
			Roles: []Role{RoleCustomer, RoleStaff, RoleOwner, RoleAdmin},
		},
		TransitionNoShow: {From: []Status{BookingConfirmed}, To: BookingNoShow, Roles: staffUp},
		TransitionReset: {
			From:  []Status{BookingCompleted, BookingCancelled, BookingNoShow},
			To:    BookingPending,
			Roles: adminOnly,
		},
	},
	KindCourierApplication: {
		TransitionApprove: {
			From:   []Status{CourierPending, CourierRejected},
			To:     CourierApproved,
			Roles:  anyDecider,
			Fields: map[string]any{FieldIsActive: true},
		},
		TransitionReject: {
			From:   []Status{CourierPending, CourierApproved},
			To:     CourierRejected,
			Roles:  anyDecider,
			Fields: map[string]any{FieldIsActive: false},
		},
	},
	KindAuctionItem: {
		TransitionActivate: {From: []Status{AuctionUpcoming}, To: AuctionActive, Roles: ownerUp},
		TransitionEnd:      {From: []Status{AuctionActive}, To: AuctionEnded, Roles: ownerUp},
		TransitionSell:     {From: []Status{AuctionActive}, To: AuctionSold, Roles: ownerUp},
	},
	KindStaffApplication: {
		TransitionBeginReview: {From: allApplicationStatuses, To: ApplicationUnderReview, Roles: anyDecider},
		TransitionApprove:     {From: allApplicationStatuses, To: ApplicationApproved, Roles: anyDecider},
		TransitionReject:      {From: allApplicationStatuses, To: ApplicationRejected, Roles: anyDecider},
		TransitionWaitlist:    {From: allApplicationStatuses, To: ApplicationWaitlist, Roles: anyDecider},
	},
}

// Write is one absolute-target document write produced by planning a
// transition. Fields always contains "status"; re-applying a Write is
// idempotent because nothing in it is relative to the previous value.
type Write struct {
	ID     string
	Fields map[string]any
}

// Plan validates a requested transition against the entity's current status
// and the actor's role, and returns the write to apply. It never touches the
// store; multi-entity side effects (demoting the previous playing item,
// promoting the next) are composed by the coordinator from individual plans.
func Plan(e Entity, tr Transition, role Role) (Write, error) {
	table, ok := transitionTables[e.Kind]
	if !ok {
		return Write{}, ErrUnknownTransition
	}
	rule, ok := table[tr]
	if !ok {
		return Write{}, ErrUnknownTransition
	}

	permitted := false
	for _, r := range rule.Roles {
		if r == role {
			permitted = true
			break
		}
	}
	if !permitted {
		return Write{}, ErrPermissionDenied
	}

	legal := false
	for _, s := range rule.From {
		if e.Status == s {
			legal = true
			break
		}
	}
	if !legal {
		return Write{}, ErrInvalidTransition
	}

	fields := map[string]any{"status": rule.To}
	for k, v := range rule.Fields {
		fields[k] = v
	}
	return Write{ID: e.ID, Fields: fields}, nil
}

// CanTransition reports whether the transition is legal from the entity's
// current status for the given role.
func CanTransition(e Entity, tr Transition, role Role) bool {
	_, err := Plan(e, tr, role)
	return err == nil
}
