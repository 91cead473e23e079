package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository owns the persisted booking records. All reads join through items
// and users so callers always receive a hydrated Booking.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)

	// UpdateStatus performs the WAITING -> terminal transition as a
	// compare-and-set. It returns false when the booking was no longer
	// WAITING, so a racing decide cannot override the first decision.
	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)

	// List returns the ranked window [q.From, q.From+q.Size) of bookings
	// matching the query, ordered by start descending.
	List(ctx context.Context, q ListQuery) ([]*Booking, error)

	// LastForItem returns the latest booking of the item that has started by
	// now, or nil when there is none.
	LastForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error)

	// NextForItem returns the earliest not-rejected booking of the item that
	// starts after now, or nil when there is none.
	NextForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error)

	// HasFinishedApproved reports whether the user has an approved booking of
	// the item that already ended. Gates comment posting.
	HasFinishedApproved(ctx context.Context, itemID, userID string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// bookingColumns are selected by every read; scanBooking matches this order.
var bookingColumns = []string{
	"b.id", "b.start_time", "b.end_time", "b.status", "b.created_at",
	"i.id", "i.name", "i.owner_id", "i.available",
	"u.id", "u.name",
}

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(bookingColumns...).
		From("bookings b").
		Join("items i ON b.item_id = i.id").
		Join("users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status, &b.CreatedAt,
		&b.Item.ID, &b.Item.Name, &b.Item.OwnerID, &b.Item.Available,
		&b.Booker.ID, &b.Booker.Name,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.Item.ID, b.Booker.ID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (bool, error) {
	query, args, err := psql.Update("bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "status": StatusWaiting}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) List(ctx context.Context, q ListQuery) ([]*Booking, error) {
	query := selectBookings()

	switch q.Role {
	case RoleOwner:
		query = query.Where(squirrel.Eq{"i.owner_id": q.ActorID})
	default:
		query = query.Where(squirrel.Eq{"b.booker_id": q.ActorID})
	}

	if len(q.Filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"b.status": q.Filter.Statuses})
	}

	switch q.Filter.Window {
	case WindowCurrent:
		query = query.
			Where(squirrel.LtOrEq{"b.start_time": q.Now}).
			Where(squirrel.GtOrEq{"b.end_time": q.Now})
	case WindowPast:
		query = query.Where(squirrel.Lt{"b.end_time": q.Now})
	}

	// Start descending is the contract; the trailing keys keep ties stable.
	query = query.
		OrderBy("b.start_time DESC", "b.created_at DESC", "b.id DESC").
		Offset(uint64(q.From)).
		Limit(uint64(q.Size))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) LastForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.LtOrEq{"b.start_time": now}).
		OrderBy("b.start_time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build last booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last booking lookup failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) NextForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Gt{"b.start_time": now}).
		Where(squirrel.NotEq{"b.status": StatusRejected}).
		OrderBy("b.start_time ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build next booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("next booking lookup failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) HasFinishedApproved(ctx context.Context, itemID, userID string, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("bookings").
		Where(squirrel.Eq{"item_id": itemID, "booker_id": userID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("finished booking lookup failed: %w", err)
	}
	return exists, nil
}
