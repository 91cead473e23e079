package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines access to item request records.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)

	// ListByRequester returns all of one user's requests, oldest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*Request, error)

	// ListOthers returns the ranked window [from, from+size) of everyone
	// else's requests, newest first.
	ListOthers(ctx context.Context, requesterID string, from, size int) ([]*Request, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const requestColumns = "id, requester_id, description, created_at"

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	if err := row.Scan(&req.ID, &req.RequesterID, &req.Description, &req.CreatedAt); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *pgxRepository) Create(ctx context.Context, req *Request) error {
	query, args, err := psql.Insert("requests").
		Columns("requester_id", "description").
		Values(req.RequesterID, req.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Request, error) {
	query, args, err := psql.Select(requestColumns).From("requests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	req, err := scanRequest(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return req, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID string) ([]*Request, error) {
	query, args, err := psql.Select(requestColumns).
		From("requests").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query failed: %w", err)
	}
	return r.queryRequests(ctx, query, args)
}

func (r *pgxRepository) ListOthers(ctx context.Context, requesterID string, from, size int) ([]*Request, error) {
	query, args, err := psql.Select(requestColumns).
		From("requests").
		Where(squirrel.NotEq{"requester_id": requesterID}).
		OrderBy("created_at DESC").
		Offset(uint64(from)).
		Limit(uint64(size)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list other requests query failed: %w", err)
	}
	return r.queryRequests(ctx, query, args)
}

func (r *pgxRepository) queryRequests(ctx context.Context, query string, args []any) ([]*Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
