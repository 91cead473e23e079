package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shareloop/shareloop-backend/internal/clock"
)

// CreateRequest carries a validated booking intent from the transport layer.
type CreateRequest struct {
	RequesterID string
	ItemID      string
	Start       time.Time
	End         time.Time
}

// Service owns the booking lifecycle and the temporal query engine.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Decide(ctx context.Context, deciderID, bookingID string, approve bool) (*Booking, error)
	GetForViewer(ctx context.Context, viewerID, bookingID string) (*Booking, error)
	ListForBooker(ctx context.Context, bookerID, state string, from, size int) ([]*Booking, error)
	ListForOwner(ctx context.Context, ownerID, state string, from, size int) ([]*Booking, error)
}

type service struct {
	repo  Repository
	items ItemSource
	users UserSource
	clk   clock.Clock
	sink  EventSink // may be nil
}

// NewService wires the lifecycle. sink may be nil to disable event publishing.
func NewService(repo Repository, items ItemSource, users UserSource, clk clock.Clock, sink EventSink) Service {
	return &service{
		repo:  repo,
		items: items,
		users: users,
		clk:   clk,
		sink:  sink,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	item, err := s.items.Snapshot(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, ErrItemUnavailable
	}
	if !CanCreate(req.RequesterID, item) {
		return nil, ErrOwnItem
	}

	now := s.clk.Now()
	if !req.End.After(req.Start) {
		return nil, ErrInvalidTimeRange
	}
	if req.Start.Before(now) {
		return nil, ErrStartTimePast
	}

	booker, err := s.users.Ref(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		Item:   item,
		Booker: booker,
		Start:  req.Start,
		End:    req.End,
		Status: StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, b)
	return b, nil
}

func (s *service) Decide(ctx context.Context, deciderID, bookingID string, approve bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !CanDecide(deciderID, b) {
		return nil, ErrNotItemOwner
	}
	if b.Status.Terminal() {
		return nil, ErrAlreadyDecided
	}

	status := StatusRejected
	eventType := EventRejected
	if approve {
		status = StatusApproved
		eventType = EventApproved
	}

	// The repository re-checks status on write; losing a decide race surfaces
	// as already-decided rather than overriding the committed outcome.
	applied, err := s.repo.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrAlreadyDecided
	}

	b.Status = status
	s.publish(ctx, eventType, b)
	return b, nil
}

func (s *service) GetForViewer(ctx context.Context, viewerID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !CanView(viewerID, b) {
		return nil, ErrViewForbidden
	}
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, bookerID, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, bookerID, RoleBooker, state, from, size)
}

func (s *service) ListForOwner(ctx context.Context, ownerID, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, ownerID, RoleOwner, state, from, size)
}

func (s *service) list(ctx context.Context, actorID string, role Role, stateStr string, from, size int) ([]*Booking, error) {
	if from < 0 || size <= 0 {
		return nil, ErrInvalidPaging
	}

	state, err := ParseState(stateStr)
	if err != nil {
		return nil, err
	}

	// The actor must be a known user before any listing happens.
	if _, err := s.users.Ref(ctx, actorID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, ListQuery{
		ActorID: actorID,
		Role:    role,
		Filter:  FilterFor(state),
		Now:     s.clk.Now(),
		From:    from,
		Size:    size,
	})
}

func (s *service) publish(ctx context.Context, eventType string, b *Booking) {
	if s.sink == nil {
		return
	}

	ev := Event{
		Type:      eventType,
		BookingID: b.ID,
		ItemID:    b.Item.ID,
		BookerID:  b.Booker.ID,
		OwnerID:   b.Item.OwnerID,
		Status:    b.Status,
		At:        s.clk.Now(),
	}

	if err := s.sink.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithField("booking_id", b.ID).Warn("failed to publish booking event")
	}
}
