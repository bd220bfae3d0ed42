package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotOwner     = errors.New("actor does not own this entity")
)

// Actor identifies who requested an operation. ID is the caller-supplied
// identity (customer name, reviewer id); Role gates transitions.
type Actor struct {
	ID   string
	Role domain.Role
}

type CreateQueueItemRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	RequestedBy string `json:"requested_by"`
}

type CreateBookingRequest struct {
	PartySize    int    `json:"party_size"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
}

type CreateCourierApplicationRequest struct {
	Name            string `json:"name"`
	VehicleType     string `json:"vehicle_type"`
	LicenseNumber   string `json:"license_number"`
	BackgroundCheck bool   `json:"background_check"`
}

type CreateAuctionRequest struct {
	Title        string    `json:"title"`
	StartPrice   float64   `json:"start_price"`
	ReservePrice float64   `json:"reserve_price"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

type CreateStaffApplicationRequest struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	ResumeURL string `json:"resume_url"`
}

type CreateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// WorkflowService is the mutation coordinator: it turns one logical
// transition into the ordered set of document writes it implies, reading the
// current snapshot first when a companion entity is involved. Writes apply
// sequentially and best-effort; the first failure aborts the remainder and
// nothing is rolled back. Every write is an absolute target state, so
// re-issuing an operation after a partial apply self-heals the visible state.
type WorkflowService struct {
	store  ports.EntityStore
	logger *zap.Logger
	now    func() time.Time
}

func NewWorkflowService(store ports.EntityStore, logger *zap.Logger) *WorkflowService {
	return &WorkflowService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *WorkflowService) CreateQueueItem(ctx context.Context, tenantID string, req CreateQueueItemRequest) (*CreateResponse, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.RequestedBy == "" {
		return nil, fmt.Errorf("%w: requested_by is required", ErrInvalidInput)
	}

	payload := map[string]any{
		domain.FieldTitle:       req.Title,
		domain.FieldArtist:      req.Artist,
		domain.FieldRequestedBy: req.RequestedBy,
	}
	return s.create(ctx, tenantID, domain.KindQueueItem, payload)
}

func (s *WorkflowService) CreateBooking(ctx context.Context, tenantID string, req CreateBookingRequest) (*CreateResponse, error) {
	if req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
	}
	if req.PartySize <= 0 {
		return nil, fmt.Errorf("%w: party_size must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	payload := map[string]any{
		domain.FieldPartySize:    req.PartySize,
		domain.FieldDate:         req.Date,
		domain.FieldTime:         req.Time,
		domain.FieldCustomerName: req.CustomerName,
		domain.FieldPhone:        req.Phone,
	}
	return s.create(ctx, tenantID, domain.KindBooking, payload)
}

func (s *WorkflowService) CreateCourierApplication(ctx context.Context, tenantID string, req CreateCourierApplicationRequest) (*CreateResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.VehicleType == "" {
		return nil, fmt.Errorf("%w: vehicle_type is required", ErrInvalidInput)
	}

	payload := map[string]any{
		domain.FieldName:            req.Name,
		domain.FieldVehicleType:     req.VehicleType,
		domain.FieldLicenseNumber:   req.LicenseNumber,
		domain.FieldBackgroundCheck: req.BackgroundCheck,
		domain.FieldIsActive:        false,
	}
	return s.create(ctx, tenantID, domain.KindCourierApplication, payload)
}

func (s *WorkflowService) CreateAuction(ctx context.Context, tenantID string, actor Actor, req CreateAuctionRequest) (*CreateResponse, error) {
	if actor.Role != domain.RoleOwner && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrPermissionDenied
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at must be after starts_at", ErrInvalidInput)
	}

	payload := map[string]any{
		domain.FieldTitle:        req.Title,
		domain.FieldStartPrice:   req.StartPrice,
		domain.FieldReservePrice: req.ReservePrice,
		domain.FieldBidCount:     0,
		domain.FieldCurrentBid:   0.0,
		domain.FieldStartsAt:     req.StartsAt.UTC().Format(time.RFC3339),
		domain.FieldEndsAt:       req.EndsAt.UTC().Format(time.RFC3339),
	}
	return s.create(ctx, tenantID, domain.KindAuctionItem, payload)
}

func (s *WorkflowService) CreateStaffApplication(ctx context.Context, tenantID string, req CreateStaffApplicationRequest) (*CreateResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Position == "" {
		return nil, fmt.Errorf("%w: position is required", ErrInvalidInput)
	}

	payload := map[string]any{
		domain.FieldName:      req.Name,
		domain.FieldPosition:  req.Position,
		domain.FieldResumeURL: req.ResumeURL,
	}
	return s.create(ctx, tenantID, domain.KindStaffApplication, payload)
}

func (s *WorkflowService) create(ctx context.Context, tenantID string, kind domain.Kind, payload map[string]any) (*CreateResponse, error) {
	status := domain.StartStatus(kind)
	id, err := s.store.Create(ctx, tenantID, kind, status, payload)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return &CreateResponse{ID: id, Status: string(status)}, nil
}

// StartPlaying promotes a queue item to playing and demotes whatever was
// playing to played, in one logical operation. With an empty targetID the
// FIFO head of the queued items is promoted. The operation is idempotent:
// if the target already plays, only stray playing items are demoted.
func (s *WorkflowService) StartPlaying(ctx context.Context, tenantID string, actor Actor, targetID string) error {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindQueueItem})
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}

	target, err := pickTarget(snapshot, targetID)
	if err != nil {
		return err
	}

	var writes []domain.Write
	for _, e := range snapshot {
		if e.IsPlaying() && e.ID != target.ID {
			w, err := domain.Plan(e, domain.TransitionMarkPlayed, actor.Role)
			if err != nil {
				return err
			}
			writes = append(writes, w)
		}
	}
	if target.Status != domain.QueuePlaying {
		w, err := domain.Plan(*target, domain.TransitionStartPlaying, actor.Role)
		if err != nil {
			return err
		}
		writes = append(writes, w)
	}

	return s.apply(ctx, tenantID, domain.KindQueueItem, writes)
}

// Skip marks the playing item skipped and promotes the next queued item. A
// missing next item partially applies: the current item still transitions
// and no promotion occurs.
func (s *WorkflowService) Skip(ctx context.Context, tenantID string, actor Actor) error {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindQueueItem})
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}

	var writes []domain.Write
	skipped := false
	for _, e := range snapshot {
		if e.IsPlaying() {
			w, err := domain.Plan(e, domain.TransitionSkip, actor.Role)
			if err != nil {
				return err
			}
			writes = append(writes, w)
			skipped = true
		}
	}
	if !skipped {
		return fmt.Errorf("no playing item: %w", ports.ErrNotFound)
	}

	if next := firstQueued(snapshot); next != nil {
		w, err := domain.Plan(*next, domain.TransitionStartPlaying, actor.Role)
		if err != nil {
			return err
		}
		writes = append(writes, w)
	}

	return s.apply(ctx, tenantID, domain.KindQueueItem, writes)
}

// RemoveQueueItem hard-deletes a queue item. Staff and above may remove any
// item; customers may only remove their own requests.
func (s *WorkflowService) RemoveQueueItem(ctx context.Context, tenantID string, actor Actor, id string) error {
	e, err := s.store.Get(ctx, tenantID, domain.KindQueueItem, id)
	if err != nil {
		return err
	}
	if err := s.authorizeDelete(actor, *e, domain.FieldRequestedBy); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, tenantID, domain.KindQueueItem, id); err != nil {
		return fmt.Errorf("remove queue item: %w", err)
	}
	return nil
}

// ClearQueue deletes every queue item for the tenant. Deletes apply
// sequentially; the first failure aborts the remainder.
func (s *WorkflowService) ClearQueue(ctx context.Context, tenantID string, actor Actor) error {
	if !isStaff(actor.Role) {
		return domain.ErrPermissionDenied
	}
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindQueueItem})
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}
	for _, e := range snapshot {
		if err := s.store.Remove(ctx, tenantID, domain.KindQueueItem, e.ID); err != nil {
			return fmt.Errorf("clear queue at %s: %w", e.ID, err)
		}
	}
	return nil
}

// TransitionBooking applies one named booking transition as a single status
// write. Customers may only cancel bookings carrying their own phone number.
func (s *WorkflowService) TransitionBooking(ctx context.Context, tenantID string, actor Actor, id string, tr domain.Transition) error {
	e, err := s.store.Get(ctx, tenantID, domain.KindBooking, id)
	if err != nil {
		return err
	}
	if actor.Role == domain.RoleCustomer && e.PayloadString(domain.FieldPhone) != actor.ID {
		return ErrNotOwner
	}
	w, err := domain.Plan(*e, tr, actor.Role)
	if err != nil {
		return err
	}
	return s.apply(ctx, tenantID, domain.KindBooking, []domain.Write{w})
}

// DecideCourier approves or rejects a courier application. The isActive flag
// always tracks the decision; it is written in the same update as the status.
func (s *WorkflowService) DecideCourier(ctx context.Context, tenantID string, actor Actor, id string, approve bool) error {
	e, err := s.store.Get(ctx, tenantID, domain.KindCourierApplication, id)
	if err != nil {
		return err
	}
	tr := domain.TransitionReject
	if approve {
		tr = domain.TransitionApprove
	}
	w, err := domain.Plan(*e, tr, actor.Role)
	if err != nil {
		return err
	}
	return s.apply(ctx, tenantID, domain.KindCourierApplication, []domain.Write{w})
}

// ReviewStaffApplication records a hiring decision. Decisions may move
// between each other freely; every change stamps the responder and time.
func (s *WorkflowService) ReviewStaffApplication(ctx context.Context, tenantID string, actor Actor, id string, tr domain.Transition) error {
	e, err := s.store.Get(ctx, tenantID, domain.KindStaffApplication, id)
	if err != nil {
		return err
	}
	w, err := domain.Plan(*e, tr, actor.Role)
	if err != nil {
		return err
	}
	w.Fields[domain.FieldReviewedBy] = actor.ID
	w.Fields[domain.FieldReviewedAt] = s.now().UTC().Format(time.RFC3339)
	return s.apply(ctx, tenantID, domain.KindStaffApplication, []domain.Write{w})
}

// PlaceBid records a bid on an active auction. The new count and high bid
// are computed from the read snapshot and written as absolute values;
// concurrent bidders race under last-write-wins, same as every other write.
func (s *WorkflowService) PlaceBid(ctx context.Context, tenantID string, id string, amount float64) error {
	e, err := s.store.Get(ctx, tenantID, domain.KindAuctionItem, id)
	if err != nil {
		return err
	}
	if e.Status != domain.AuctionActive {
		return fmt.Errorf("auction is not active: %w", domain.ErrInvalidTransition)
	}
	high := e.PayloadFloat(domain.FieldCurrentBid)
	if high < e.PayloadFloat(domain.FieldStartPrice) {
		high = e.PayloadFloat(domain.FieldStartPrice)
	}
	if amount <= high {
		return fmt.Errorf("%w: bid must exceed %.2f", ErrInvalidInput, high)
	}
	fields := map[string]any{
		domain.FieldBidCount:   e.PayloadFloat(domain.FieldBidCount) + 1,
		domain.FieldCurrentBid: amount,
	}
	if err := s.store.Update(ctx, tenantID, domain.KindAuctionItem, id, fields); err != nil {
		return fmt.Errorf("place bid: %w", err)
	}
	return nil
}

// RemoveAuction hard-deletes an auction item. Admin only.
func (s *WorkflowService) RemoveAuction(ctx context.Context, tenantID string, actor Actor, id string) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrPermissionDenied
	}
	if _, err := s.store.Get(ctx, tenantID, domain.KindAuctionItem, id); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, tenantID, domain.KindAuctionItem, id); err != nil {
		return fmt.Errorf("remove auction: %w", err)
	}
	return nil
}

// ResolveDueAuctions activates upcoming auctions whose start time passed and
// closes active ones whose end time passed: sold when the reserve is met and
// at least one bid exists, ended otherwise. Individual failures are logged
// and skipped so one bad document cannot wedge the sweep.
func (s *WorkflowService) ResolveDueAuctions(ctx context.Context, tenantID string) (int, error) {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindAuctionItem})
	if err != nil {
		return 0, fmt.Errorf("list auctions: %w", err)
	}
	now := s.now().UTC()

	resolved := 0
	for _, e := range snapshot {
		var tr domain.Transition
		switch e.Status {
		case domain.AuctionUpcoming:
			if at, ok := payloadTime(e, domain.FieldStartsAt); !ok || at.After(now) {
				continue
			}
			tr = domain.TransitionActivate
		case domain.AuctionActive:
			at, ok := payloadTime(e, domain.FieldEndsAt)
			if !ok || at.After(now) {
				continue
			}
			tr = domain.TransitionEnd
			if e.PayloadFloat(domain.FieldBidCount) > 0 &&
				e.PayloadFloat(domain.FieldCurrentBid) >= e.PayloadFloat(domain.FieldReservePrice) {
				tr = domain.TransitionSell
			}
		default:
			continue
		}

		w, err := domain.Plan(e, tr, domain.RoleAdmin)
		if err != nil {
			s.logger.Warn("skipping auction resolution",
				zap.String("tenant", tenantID), zap.String("id", e.ID), zap.Error(err))
			continue
		}
		if err := s.store.Update(ctx, tenantID, domain.KindAuctionItem, w.ID, w.Fields); err != nil {
			s.logger.Error("auction resolution write failed",
				zap.String("tenant", tenantID), zap.String("id", e.ID), zap.Error(err))
			continue
		}
		resolved++
	}
	return resolved, nil
}

// Queue returns the ordered up-next view for the tenant.
func (s *WorkflowService) Queue(ctx context.Context, tenantID string) ([]domain.Entity, error) {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindQueueItem})
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return UpNext(snapshot), nil
}

// History returns played and skipped queue items, most recent first.
func (s *WorkflowService) History(ctx context.Context, tenantID string) ([]domain.Entity, error) {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindQueueItem})
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return QueueHistory(snapshot), nil
}

// Bookings returns the named tab's view of the tenant's bookings.
func (s *WorkflowService) Bookings(ctx context.Context, tenantID string, tab BookingTab, date string) ([]domain.Entity, error) {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindBooking})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return BookingsForTab(snapshot, tab, date), nil
}

// List returns the raw snapshot of one tenant collection, optionally
// filtered by status.
func (s *WorkflowService) List(ctx context.Context, tenantID string, kind domain.Kind, status *domain.Status) ([]domain.Entity, error) {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: kind, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return snapshot, nil
}

// SubscribeQueue registers a live listener on the tenant's queue collection.
// The returned function releases the listener and must run on every exit
// path of the consuming surface.
func (s *WorkflowService) SubscribeQueue(ctx context.Context, tenantID string, fn ports.SnapshotFunc) (func(), error) {
	return s.store.Subscribe(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindQueueItem}, fn)
}

// Auctions returns the storefront ordering of the tenant's auctions.
func (s *WorkflowService) Auctions(ctx context.Context, tenantID string) ([]domain.Entity, error) {
	snapshot, err := s.store.List(ctx, ports.Filter{TenantID: tenantID, Kind: domain.KindAuctionItem})
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return ActiveAuctionsFirst(snapshot), nil
}

func (s *WorkflowService) apply(ctx context.Context, tenantID string, kind domain.Kind, writes []domain.Write) error {
	for i, w := range writes {
		if err := s.store.Update(ctx, tenantID, kind, w.ID, w.Fields); err != nil {
			s.logger.Error("transition write failed, aborting remainder",
				zap.String("tenant", tenantID),
				zap.String("kind", string(kind)),
				zap.String("id", w.ID),
				zap.Int("applied", i),
				zap.Int("planned", len(writes)),
				zap.Error(err))
			return fmt.Errorf("apply write %d of %d: %w", i+1, len(writes), err)
		}
	}
	return nil
}

func (s *WorkflowService) authorizeDelete(actor Actor, e domain.Entity, ownerField string) error {
	if isStaff(actor.Role) {
		return nil
	}
	if actor.Role == domain.RoleCustomer {
		if e.PayloadString(ownerField) != actor.ID {
			return ErrNotOwner
		}
		return nil
	}
	return domain.ErrPermissionDenied
}

func isStaff(role domain.Role) bool {
	return role == domain.RoleStaff || role == domain.RoleOwner || role == domain.RoleAdmin
}

func pickTarget(snapshot []domain.Entity, targetID string) (*domain.Entity, error) {
	if targetID != "" {
		for i := range snapshot {
			if snapshot[i].ID == targetID {
				return &snapshot[i], nil
			}
		}
		return nil, ports.ErrNotFound
	}
	if next := firstQueued(snapshot); next != nil {
		return next, nil
	}
	return nil, fmt.Errorf("no queued items: %w", ports.ErrNotFound)
}

func firstQueued(snapshot []domain.Entity) *domain.Entity {
	var next *domain.Entity
	for i := range snapshot {
		e := &snapshot[i]
		if !e.IsQueued() {
			continue
		}
		if next == nil || e.CreatedAt.Before(next.CreatedAt) {
			next = e
		}
	}
	return next
}

func payloadTime(e domain.Entity, field string) (time.Time, bool) {
	raw := e.PayloadString(field)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
