package http

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/booking"
)

// CreateBookingBody is the payload for POST /v1/bookings.
type CreateBookingBody struct {
	ItemID string    `json:"item_id" binding:"required,uuid"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// ListBookingsQuery are the query parameters shared by both list endpoints.
// from/size address ranked result items, not pages.
type ListBookingsQuery struct {
	State string `form:"state,default=ALL"`
	From  int    `form:"from,default=0"`
	Size  int    `form:"size,default=20"`
}

// ItemTag is the item projection embedded in booking responses.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserTag is the booker projection embedded in booking responses.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingResponse is the externally-visible projection of a booking.
type BookingResponse struct {
	ID        string    `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	Booker    UserTag   `json:"booker"`
	Item      ItemTag   `json:"item"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Start:     b.Start,
		End:       b.End,
		Status:    string(b.Status),
		Booker:    UserTag{ID: b.Booker.ID, Name: b.Booker.Name},
		Item:      ItemTag{ID: b.Item.ID, Name: b.Item.Name},
		CreatedAt: b.CreatedAt,
	}
}

func NewBookingResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
