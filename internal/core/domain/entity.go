package domain

import "time"

type Kind string

const (
	KindQueueItem          Kind = "queue_item"
	KindBooking            Kind = "booking"
	KindCourierApplication Kind = "courier_application"
	KindAuctionItem        Kind = "auction_item"
	KindStaffApplication   Kind = "staff_application"
)

type Status string

// Queue item statuses.
const (
	QueueQueued  Status = "queued"
	QueuePlaying Status = "playing"
	QueuePlayed  Status = "played"
	QueueSkipped Status = "skipped"
)

// Booking statuses.
const (
	BookingPending   Status = "pending"
	BookingConfirmed Status = "confirmed"
	BookingSeated    Status = "seated"
	BookingCompleted Status = "completed"
	BookingCancelled Status = "cancelled"
	BookingNoShow    Status = "no_show"
)

// Courier application statuses.
const (
	CourierPending  Status = "pending"
	CourierApproved Status = "approved"
	CourierRejected Status = "rejected"
)

// Auction item statuses.
const (
	AuctionUpcoming Status = "upcoming"
	AuctionActive   Status = "active"
	AuctionEnded    Status = "ended"
	AuctionSold     Status = "sold"
)

// Staff application statuses.
const (
	ApplicationNew         Status = "new"
	ApplicationUnderReview Status = "under_review"
	ApplicationApproved    Status = "approved"
	ApplicationRejected    Status = "rejected"
	ApplicationWaitlist    Status = "waitlist"
)

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleApplicant Role = "applicant"
	RoleStaff     Role = "staff"
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
)

// Entity is a tenant-scoped workflow document. Payload holds the
// kind-specific fields; Status is always drawn from the kind's state set.
type Entity struct {
	ID        string
	TenantID  string
	Kind      Kind
	Status    Status
	Payload   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payload field names shared between the coordinator and the projections.
const (
	FieldTitle           = "title"
	FieldArtist          = "artist"
	FieldRequestedBy     = "requestedBy"
	FieldPartySize       = "partySize"
	FieldDate            = "date"
	FieldTime            = "time"
	FieldCustomerName    = "customerName"
	FieldPhone           = "phone"
	FieldName            = "name"
	FieldVehicleType     = "vehicleType"
	FieldLicenseNumber   = "licenseNumber"
	FieldBackgroundCheck = "backgroundCheck"
	FieldIsActive        = "isActive"
	FieldStartPrice      = "startPrice"
	FieldReservePrice    = "reservePrice"
	FieldBidCount        = "bidCount"
	FieldCurrentBid      = "currentBid"
	FieldStartsAt        = "startsAt"
	FieldEndsAt          = "endsAt"
	FieldPosition        = "position"
	FieldResumeURL       = "resumeURL"
	FieldReviewedBy      = "reviewedBy"
	FieldReviewedAt      = "reviewedAt"
)

var startStatuses = map[Kind]Status{
	KindQueueItem:          QueueQueued,
	KindBooking:            BookingPending,
	KindCourierApplication: CourierPending,
	KindAuctionItem:        AuctionUpcoming,
	KindStaffApplication:   ApplicationNew,
}

// StartStatus returns the status newly created entities of the kind begin in.
func StartStatus(kind Kind) Status {
	return startStatuses[kind]
}

var terminalStatuses = map[Kind][]Status{
	KindQueueItem:        {QueuePlayed, QueueSkipped},
	KindBooking:          {BookingCompleted, BookingCancelled, BookingNoShow},
	KindAuctionItem:      {AuctionEnded, AuctionSold},
	KindStaffApplication: {},
}

// IsTerminal reports whether no transition other than an explicit reset is
// defined from the status. Courier and staff decisions stay re-decidable.
func (e Entity) IsTerminal() bool {
	for _, s := range terminalStatuses[e.Kind] {
		if e.Status == s {
			return true
		}
	}
	return false
}

func (e Entity) IsPlaying() bool { return e.Kind == KindQueueItem && e.Status == QueuePlaying }
func (e Entity) IsQueued() bool  { return e.Kind == KindQueueItem && e.Status == QueueQueued }

// PayloadString returns the named payload field as a string, or "" when the
// field is absent or of another type.
func (e Entity) PayloadString(field string) string {
	v, _ := e.Payload[field].(string)
	return v
}

// PayloadFloat returns the named payload field as a float64. JSON numbers
// decode to float64, so this covers counts and prices alike.
func (e Entity) PayloadFloat(field string) float64 {
	switch v := e.Payload[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
