package item

import (
	"context"
	"strings"

	"github.com/shareloop/shareloop-backend/internal/booking"
	"github.com/shareloop/shareloop-backend/internal/clock"
)

// CreateRequest carries a new item listing.
type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

// UpdateRequest carries a partial item edit. Nil fields are left alone.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// Service defines business logic related to items and their comments.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	Update(ctx context.Context, actorID, itemID string, req UpdateRequest) (*Item, error)
	Delete(ctx context.Context, actorID, itemID string) error

	// Get returns the item with its comments. When the viewer owns the item
	// the closest bookings around now are attached as well.
	Get(ctx context.Context, viewerID, itemID string) (*Details, error)

	// ListByOwner returns the owner's items, each decorated with comments and
	// neighboring bookings, ordered by id ascending.
	ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Details, error)

	// AddComment posts feedback. Only a user with a finished approved booking
	// of the item may comment.
	AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error)

	// Snapshot resolves the slice of an item the booking lifecycle needs.
	Snapshot(ctx context.Context, itemID string) (booking.ItemSnapshot, error)
}

type service struct {
	repo     Repository
	bookings booking.Repository
	cache    Cache
	clk      clock.Clock
}

func NewService(repo Repository, bookings booking.Repository, cache Cache, clk clock.Clock) Service {
	return &service{repo: repo, bookings: bookings, cache: cache, clk: clk}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	it := &Item{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Available:   req.Available,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, it)
	return it, nil
}

func (s *service) Update(ctx context.Context, actorID, itemID string, req UpdateRequest) (*Item, error) {
	it, err := s.getCached(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, it.ID)
	return it, nil
}

func (s *service) Delete(ctx context.Context, actorID, itemID string) error {
	it, err := s.getCached(ctx, itemID)
	if err != nil {
		return err
	}
	if it.OwnerID != actorID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, itemID)
	return nil
}

func (s *service) Get(ctx context.Context, viewerID, itemID string) (*Details, error) {
	it, err := s.getCached(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, it, viewerID == it.OwnerID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Details, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID, from, size)
	if err != nil {
		return nil, err
	}

	details := make([]*Details, 0, len(items))
	for _, it := range items {
		d, err := s.decorate(ctx, it, true)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *service) AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentEmpty
	}

	if _, err := s.getCached(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.bookings.HasFinishedApproved(ctx, itemID, authorID, s.clk.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{ItemID: itemID, AuthorID: authorID, Text: text}
	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *service) Snapshot(ctx context.Context, itemID string) (booking.ItemSnapshot, error) {
	it, err := s.getCached(ctx, itemID)
	if err != nil {
		return booking.ItemSnapshot{}, err
	}
	return booking.ItemSnapshot{
		ID:        it.ID,
		Name:      it.Name,
		OwnerID:   it.OwnerID,
		Available: it.Available,
	}, nil
}

func (s *service) getCached(ctx context.Context, itemID string) (*Item, error) {
	if it, ok := s.cache.Get(ctx, itemID); ok {
		return it, nil
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, it)
	return it, nil
}

func (s *service) decorate(ctx context.Context, it *Item, includeBookings bool) (*Details, error) {
	comments, err := s.repo.ListComments(ctx, it.ID)
	if err != nil {
		return nil, err
	}

	d := &Details{Item: it, Comments: comments}
	if !includeBookings {
		return d, nil
	}

	now := s.clk.Now()
	last, err := s.bookings.LastForItem(ctx, it.ID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.bookings.NextForItem(ctx, it.ID, now)
	if err != nil {
		return nil, err
	}
	d.LastBooking = newBookingTag(last)
	d.NextBooking = newBookingTag(next)
	return d, nil
}

func newBookingTag(b *booking.Booking) *BookingTag {
	if b == nil {
		return nil
	}
	return &BookingTag{
		ID:       b.ID,
		BookerID: b.Booker.ID,
		Start:    b.Start,
		End:      b.End,
	}
}
