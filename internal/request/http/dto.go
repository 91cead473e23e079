package http

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/item"
	"github.com/shareloop/shareloop-backend/internal/request"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type ListRequestsQuery struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=20"`
}

type ItemReply struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type RequestResponse struct {
	ID          string      `json:"id"`
	RequesterID string      `json:"requester_id"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []ItemReply `json:"items"`
}

func NewRequestResponse(req *request.Request) RequestResponse {
	return RequestResponse{
		ID:          req.ID,
		RequesterID: req.RequesterID,
		Description: req.Description,
		CreatedAt:   req.CreatedAt,
		Items:       []ItemReply{},
	}
}

func NewWithItemsResponse(w *request.WithItems) RequestResponse {
	resp := NewRequestResponse(w.Request)
	for _, it := range w.Items {
		resp.Items = append(resp.Items, newItemReply(it))
	}
	return resp
}

func NewWithItemsResponses(ws []*request.WithItems) []RequestResponse {
	out := make([]RequestResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, NewWithItemsResponse(w))
	}
	return out
}

func newItemReply(it *item.Item) ItemReply {
	return ItemReply{
		ID:        it.ID,
		OwnerID:   it.OwnerID,
		Name:      it.Name,
		Available: it.Available,
	}
}
