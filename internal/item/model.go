package item

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(apperror.KindNotFound, "item not found")
	ErrNotOwner     = apperror.New(apperror.KindForbidden, "only the item owner can modify it")
	ErrNameRequired = apperror.New(apperror.KindValidation, "item name is required")
	ErrCommentEmpty = apperror.New(apperror.KindValidation, "comment text is required")

	// Comments are reserved for people who actually borrowed the item.
	ErrCommentNotAllowed = apperror.New(apperror.KindValidation, "commenting requires a finished approved booking of the item")
)

// Item is something a user offers for lending.
type Item struct {
	ID          string // UUID
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string // set when the item was posted in reply to a request
	CreatedAt   time.Time
}

// Comment is feedback left by a past borrower.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// BookingTag is the compact view of a neighboring booking shown to owners.
type BookingTag struct {
	ID       string
	BookerID string
	Start    time.Time
	End      time.Time
}

// Details is an item plus its comments, and for the owner also the closest
// bookings around now.
type Details struct {
	Item        *Item
	Comments    []*Comment
	LastBooking *BookingTag
	NextBooking *BookingTag
}
