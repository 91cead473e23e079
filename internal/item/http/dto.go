package http

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/item"
)

type CreateItemBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	RequestID   *string `json:"request_id"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}

type ListItemsQuery struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=20"`
}

type BookingTag struct {
	ID       string    `json:"id"`
	BookerID string    `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type ItemResponse struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *string           `json:"request_id,omitempty"`
	Comments    []CommentResponse `json:"comments,omitempty"`
	LastBooking *BookingTag       `json:"last_booking,omitempty"`
	NextBooking *BookingTag       `json:"next_booking,omitempty"`
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		AuthorName: cm.AuthorName,
		Text:       cm.Text,
		CreatedAt:  cm.CreatedAt,
	}
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}

func NewDetailsResponse(d *item.Details) ItemResponse {
	resp := NewItemResponse(d.Item)
	resp.Comments = make([]CommentResponse, 0, len(d.Comments))
	for _, cm := range d.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(cm))
	}
	resp.LastBooking = newBookingTag(d.LastBooking)
	resp.NextBooking = newBookingTag(d.NextBooking)
	return resp
}

func newBookingTag(t *item.BookingTag) *BookingTag {
	if t == nil {
		return nil
	}
	return &BookingTag{ID: t.ID, BookerID: t.BookerID, Start: t.Start, End: t.End}
}
