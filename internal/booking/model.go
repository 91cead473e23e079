package booking

import (
	"context"
	"time"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "booking not found")
	ErrItemUnavailable  = apperror.New(apperror.KindValidation, "item is not available for booking")
	ErrInvalidTimeRange = apperror.New(apperror.KindValidation, "booking must end after it starts")
	ErrStartTimePast    = apperror.New(apperror.KindValidation, "cannot create a booking in the past")
	ErrAlreadyDecided   = apperror.New(apperror.KindValidation, "booking has already been decided")
	ErrNotItemOwner     = apperror.New(apperror.KindForbidden, "only the item owner can decide a booking")
	ErrViewForbidden    = apperror.New(apperror.KindForbidden, "only the booker or the item owner can view a booking")
	ErrInvalidPaging    = apperror.New(apperror.KindValidation, "from must be non-negative and size positive")

	// Booking your own item is reported as a missing item so the requester
	// cannot probe who owns what.
	ErrOwnItem = apperror.New(apperror.KindNotFound, "item not found")
)

// Status is the lifecycle state of a booking. WAITING is the only initial
// value; APPROVED and REJECTED are terminal.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ItemSnapshot is the slice of an item a booking needs: who owns it and
// whether it can be booked. The item module owns the full record.
type ItemSnapshot struct {
	ID        string
	Name      string
	OwnerID   string
	Available bool
}

// UserRef identifies the booker.
type UserRef struct {
	ID   string
	Name string
}

// Booking is a reservation of one item for one time window.
type Booking struct {
	ID        string
	Item      ItemSnapshot
	Booker    UserRef
	Start     time.Time
	End       time.Time
	Status    Status
	CreatedAt time.Time
}

// ItemSource resolves item snapshots. A missing item yields a not-found error.
type ItemSource interface {
	Snapshot(ctx context.Context, itemID string) (ItemSnapshot, error)
}

// UserSource resolves user references. A missing user yields a not-found error.
type UserSource interface {
	Ref(ctx context.Context, userID string) (UserRef, error)
}

// Event describes a lifecycle transition for downstream consumers.
type Event struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	ItemID    string    `json:"item_id"`
	BookerID  string    `json:"booker_id"`
	OwnerID   string    `json:"owner_id"`
	Status    Status    `json:"status"`
	At        time.Time `json:"at"`
}

const (
	EventCreated  = "booking.created"
	EventApproved = "booking.approved"
	EventRejected = "booking.rejected"
)

// EventSink publishes lifecycle events. Publishing is best-effort: the
// lifecycle never fails because the sink does.
type EventSink interface {
	Publish(ctx context.Context, ev Event) error
}
