package request

import (
	"context"
	"strings"

	"github.com/shareloop/shareloop-backend/internal/item"
)

// WithItems pairs a request with the items posted in reply to it.
type WithItems struct {
	Request *Request
	Items   []*item.Item
}

// Service defines business logic related to item requests.
type Service interface {
	Create(ctx context.Context, requesterID, description string) (*Request, error)
	Get(ctx context.Context, id string) (*WithItems, error)

	// ListOwn returns the caller's requests, oldest first, each with its
	// replying items.
	ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error)

	// ListOthers pages through everyone else's requests, newest first.
	ListOthers(ctx context.Context, requesterID string, from, size int) ([]*WithItems, error)
}

type service struct {
	repo  Repository
	items item.Repository
}

func NewService(repo Repository, items item.Repository) Service {
	return &service{repo: repo, items: items}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*Request, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	req := &Request{RequesterID: requesterID, Description: description}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) Get(ctx context.Context, id string) (*WithItems, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	withItems, err := s.attachItems(ctx, []*Request{req})
	if err != nil {
		return nil, err
	}
	return withItems[0], nil
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error) {
	requests, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, requesterID string, from, size int) ([]*WithItems, error) {
	if from < 0 || size < 1 {
		return nil, ErrInvalidPaging
	}

	requests, err := s.repo.ListOthers(ctx, requesterID, from, size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// attachItems resolves all replying items in one query and groups them by
// request.
func (s *service) attachItems(ctx context.Context, requests []*Request) ([]*WithItems, error) {
	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.ID)
	}

	replies, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[string][]*item.Item, len(requests))
	for _, it := range replies {
		if it.RequestID == nil {
			continue
		}
		byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
	}

	out := make([]*WithItems, 0, len(requests))
	for _, req := range requests {
		out = append(out, &WithItems{Request: req, Items: byRequest[req.ID]})
	}
	return out, nil
}
