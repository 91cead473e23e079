package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/shareloop-backend/internal/clock"
	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

// now is the pinned instant every test evaluates temporal categories against.
var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memRepo is an in-memory Repository that mirrors the SQL filter, ordering
// and paging semantics so query-engine properties can be tested end to end.
type memRepo struct {
	bookings []*Booking
	seq      int
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.seq++
	b.ID = uuid.New().String()
	b.CreatedAt = now.Add(time.Duration(r.seq) * time.Second)
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, status Status) (bool, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			if b.Status != StatusWaiting {
				return false, nil
			}
			b.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) List(_ context.Context, q ListQuery) ([]*Booking, error) {
	var matched []*Booking
	for _, b := range r.bookings {
		if q.Role == RoleOwner {
			if b.Item.OwnerID != q.ActorID {
				continue
			}
		} else if b.Booker.ID != q.ActorID {
			continue
		}

		if len(q.Filter.Statuses) > 0 {
			found := false
			for _, s := range q.Filter.Statuses {
				if b.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}

		switch q.Filter.Window {
		case WindowCurrent:
			if b.Start.After(q.Now) || b.End.Before(q.Now) {
				continue
			}
		case WindowPast:
			if !b.End.Before(q.Now) {
				continue
			}
		}

		cp := *b
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Start.Equal(matched[j].Start) {
			return matched[i].Start.After(matched[j].Start)
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if q.From >= len(matched) {
		return nil, nil
	}
	end := q.From + q.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.From:end], nil
}

func (r *memRepo) LastForItem(_ context.Context, itemID string, at time.Time) (*Booking, error) {
	var last *Booking
	for _, b := range r.bookings {
		if b.Item.ID != itemID || b.Start.After(at) {
			continue
		}
		if last == nil || b.Start.After(last.Start) {
			last = b
		}
	}
	return last, nil
}

func (r *memRepo) NextForItem(_ context.Context, itemID string, at time.Time) (*Booking, error) {
	var next *Booking
	for _, b := range r.bookings {
		if b.Item.ID != itemID || !b.Start.After(at) || b.Status == StatusRejected {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	return next, nil
}

func (r *memRepo) HasFinishedApproved(_ context.Context, itemID, userID string, at time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.Item.ID == itemID && b.Booker.ID == userID && b.Status == StatusApproved && b.End.Before(at) {
			return true, nil
		}
	}
	return false, nil
}

type memItems map[string]ItemSnapshot

func (m memItems) Snapshot(_ context.Context, id string) (ItemSnapshot, error) {
	item, ok := m[id]
	if !ok {
		return ItemSnapshot{}, apperror.New(apperror.KindNotFound, "item not found")
	}
	return item, nil
}

type memUsers map[string]UserRef

func (m memUsers) Ref(_ context.Context, id string) (UserRef, error) {
	u, ok := m[id]
	if !ok {
		return UserRef{}, apperror.New(apperror.KindNotFound, "user not found")
	}
	return u, nil
}

type captureSink struct {
	events []Event
}

func (s *captureSink) Publish(_ context.Context, ev Event) error {
	s.events = append(s.events, ev)
	return nil
}

type fixture struct {
	repo  *memRepo
	items memItems
	users memUsers
	sink  *captureSink
	svc   Service
}

// newFixture seeds two users and one available item owned by "owner".
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo: &memRepo{},
		items: memItems{
			"item-1": {ID: "item-1", Name: "Cordless Drill", OwnerID: "owner", Available: true},
			"item-2": {ID: "item-2", Name: "Broken Ladder", OwnerID: "owner", Available: false},
		},
		users: memUsers{
			"owner":  {ID: "owner", Name: "Olga"},
			"booker": {ID: "booker", Name: "Boris"},
			"other":  {ID: "other", Name: "Oleg"},
		},
		sink: &captureSink{},
	}
	f.svc = NewService(f.repo, f.items, f.users, clock.Fixed{Instant: now}, f.sink)
	return f
}

func (f *fixture) create(t *testing.T, bookerID, itemID string, start, end time.Time) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), CreateRequest{
		RequesterID: bookerID,
		ItemID:      itemID,
		Start:       start,
		End:         end,
	})
	require.NoError(t, err)
	return b
}

func TestCreateStartsWaiting(t *testing.T) {
	f := newFixture(t)

	b := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))

	assert.Equal(t, StatusWaiting, b.Status)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "booker", b.Booker.ID)
	assert.Equal(t, "owner", b.Item.OwnerID)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, EventCreated, f.sink.events[0].Type)
	assert.Equal(t, b.ID, f.sink.events[0].BookingID)
}

func TestCreateOwnItemDeniedAsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		RequesterID: "owner",
		ItemID:      "item-1",
		Start:       now.Add(time.Hour),
		End:         now.Add(2 * time.Hour),
	})

	require.ErrorIs(t, err, ErrOwnItem)
	// The denial must not leak ownership: it presents as a missing item.
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateUnavailableItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		RequesterID: "booker",
		ItemID:      "item-2",
		Start:       now.Add(time.Hour),
		End:         now.Add(2 * time.Hour),
	})

	require.ErrorIs(t, err, ErrItemUnavailable)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateWindowValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("end before start", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			RequesterID: "booker", ItemID: "item-1",
			Start: now.Add(2 * time.Hour), End: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("equal endpoints", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			RequesterID: "booker", ItemID: "item-1",
			Start: now.Add(time.Hour), End: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("start in the past", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			RequesterID: "booker", ItemID: "item-1",
			Start: now.Add(-time.Minute), End: now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrStartTimePast)
	})

	t.Run("start exactly now is allowed", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			RequesterID: "booker", ItemID: "item-1",
			Start: now, End: now.Add(time.Hour),
		})
		assert.NoError(t, err)
	})
}

func TestCreateUnknownItemOrUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateRequest{
		RequesterID: "booker", ItemID: "no-such-item",
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.svc.Create(ctx, CreateRequest{
		RequesterID: "ghost", ItemID: "item-1",
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
	})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestOverlappingBookingsBothSucceed(t *testing.T) {
	// Documents the intentional gap: only the coarse available flag is
	// checked, never the window against existing bookings.
	f := newFixture(t)

	b1 := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(3*time.Hour))
	b2 := f.create(t, "other", "item-1", now.Add(2*time.Hour), now.Add(4*time.Hour))

	assert.NotEqual(t, b1.ID, b2.ID)
	assert.Equal(t, StatusWaiting, b1.Status)
	assert.Equal(t, StatusWaiting, b2.Status)
}

func TestDecideApproveThenRedecideFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))

	decided, err := f.svc.Decide(ctx, "owner", b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)

	_, err = f.svc.Decide(ctx, "owner", b.ID, false)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// The terminal status is untouched by the failed transition.
	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)

	require.Len(t, f.sink.events, 2)
	assert.Equal(t, EventApproved, f.sink.events[1].Type)
}

func TestDecideReject(t *testing.T) {
	f := newFixture(t)

	b := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))

	decided, err := f.svc.Decide(context.Background(), "owner", b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, decided.Status)
	assert.Equal(t, EventRejected, f.sink.events[len(f.sink.events)-1].Type)
}

func TestDecideAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))

	_, err := f.svc.Decide(ctx, "booker", b.ID, true)
	assert.ErrorIs(t, err, ErrNotItemOwner)

	_, err = f.svc.Decide(ctx, "other", b.ID, true)
	assert.ErrorIs(t, err, ErrNotItemOwner)

	_, err = f.svc.Decide(ctx, "owner", uuid.New().String(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

// casLosingRepo simulates losing a decide race: the read still shows WAITING
// but the conditional write no longer applies.
type casLosingRepo struct {
	Repository
}

func (r casLosingRepo) UpdateStatus(context.Context, string, Status) (bool, error) {
	return false, nil
}

func TestDecideRaceLoserFailsValidation(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))

	racing := NewService(casLosingRepo{f.repo}, f.items, f.users, clock.Fixed{Instant: now}, nil)

	_, err := racing.Decide(context.Background(), "owner", b.ID, true)
	require.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestGetForViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))

	got, err := f.svc.GetForViewer(ctx, "booker", b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.svc.GetForViewer(ctx, "owner", b.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetForViewer(ctx, "other", b.ID)
	assert.ErrorIs(t, err, ErrViewForbidden)

	_, err = f.svc.GetForViewer(ctx, "booker", uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListForOwner(ctx, "owner", "BOGUS", 0, 10)
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnknownState, apperror.KindOf(err))
	assert.EqualError(t, err, "Unknown state: BOGUS")

	_, err = f.svc.ListForBooker(ctx, "booker", "ALL", -1, 10)
	assert.ErrorIs(t, err, ErrInvalidPaging)

	_, err = f.svc.ListForBooker(ctx, "booker", "ALL", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPaging)

	_, err = f.svc.ListForBooker(ctx, "ghost", "ALL", 0, 10)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

// seedDataset builds a mixed dataset around the pinned now:
//   - waiting:  future window, WAITING
//   - approved: future window, APPROVED
//   - rejected: future window, REJECTED
//   - current:  window spanning now, APPROVED
//   - past:     window fully before now, APPROVED
//
// Past/current rows are inserted through the repo directly since Create
// refuses windows that are already running or over.
func seedDataset(t *testing.T, f *fixture) map[string]*Booking {
	t.Helper()
	ctx := context.Background()

	ds := map[string]*Booking{}

	ds["waiting"] = f.create(t, "booker", "item-1", now.Add(5*time.Hour), now.Add(6*time.Hour))

	ds["approved"] = f.create(t, "booker", "item-1", now.Add(3*time.Hour), now.Add(4*time.Hour))
	_, err := f.svc.Decide(ctx, "owner", ds["approved"].ID, true)
	require.NoError(t, err)

	ds["rejected"] = f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))
	_, err = f.svc.Decide(ctx, "owner", ds["rejected"].ID, false)
	require.NoError(t, err)

	current := &Booking{
		Item:   f.items["item-1"],
		Booker: UserRef{ID: "booker", Name: "Boris"},
		Start:  now.Add(-time.Hour),
		End:    now.Add(time.Hour),
		Status: StatusApproved,
	}
	require.NoError(t, f.repo.Create(ctx, current))
	ds["current"] = current

	past := &Booking{
		Item:   f.items["item-1"],
		Booker: UserRef{ID: "booker", Name: "Boris"},
		Start:  now.Add(-4 * time.Hour),
		End:    now.Add(-3 * time.Hour),
		Status: StatusApproved,
	}
	require.NoError(t, f.repo.Create(ctx, past))
	ds["past"] = past

	return ds
}

func ids(bookings []*Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func TestClassification(t *testing.T) {
	f := newFixture(t)
	ds := seedDataset(t, f)
	ctx := context.Background()

	cases := []struct {
		state string
		want  []string // dataset keys, any order
	}{
		{"ALL", []string{"waiting", "approved", "rejected", "current", "past"}},
		{"WAITING", []string{"waiting"}},
		{"REJECTED", []string{"rejected"}},
		{"CURRENT", []string{"current"}},
		{"PAST", []string{"past"}},
		// FUTURE is status-based: every not-rejected booking regardless of start.
		{"FUTURE", []string{"waiting", "approved", "current", "past"}},
	}

	for _, role := range []string{"booker", "owner"} {
		list := f.svc.ListForBooker
		if role == "owner" {
			list = f.svc.ListForOwner
		}
		actor := role

		for _, tc := range cases {
			t.Run(role+"/"+tc.state, func(t *testing.T) {
				got, err := list(ctx, actor, tc.state, 0, 100)
				require.NoError(t, err)

				want := make([]string, len(tc.want))
				for i, key := range tc.want {
					want[i] = ds[key].ID
				}
				assert.ElementsMatch(t, want, ids(got))
			})
		}
	}
}

func TestClassificationPartitionCoversAll(t *testing.T) {
	f := newFixture(t)
	seedDataset(t, f)
	ctx := context.Background()

	all, err := f.svc.ListForOwner(ctx, "owner", "ALL", 0, 100)
	require.NoError(t, err)

	union := map[string]bool{}
	for _, state := range []string{"WAITING", "REJECTED", "FUTURE", "PAST"} {
		part, err := f.svc.ListForOwner(ctx, "owner", state, 0, 100)
		require.NoError(t, err)
		for _, b := range part {
			union[b.ID] = true
		}
	}

	require.Len(t, union, len(all))
	for _, b := range all {
		assert.True(t, union[b.ID], "booking %s missing from the category union", b.ID)
	}
}

func TestListOrderedByStartDescending(t *testing.T) {
	f := newFixture(t)
	seedDataset(t, f)

	got, err := f.svc.ListForBooker(context.Background(), "booker", "ALL", 0, 100)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Start.After(got[i-1].Start),
			"bookings must be ordered by start descending")
	}
}

func TestPaginationStability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		f.create(t, "booker", "item-1",
			now.Add(time.Duration(i)*time.Hour),
			now.Add(time.Duration(i)*time.Hour+30*time.Minute))
	}

	full, err := f.svc.ListForBooker(ctx, "booker", "ALL", 0, 10)
	require.NoError(t, err)
	require.Len(t, full, 4)

	first, err := f.svc.ListForBooker(ctx, "booker", "ALL", 0, 2)
	require.NoError(t, err)
	second, err := f.svc.ListForBooker(ctx, "booker", "ALL", 2, 2)
	require.NoError(t, err)

	assert.Equal(t, ids(full[:2]), ids(first))
	assert.Equal(t, ids(full[2:]), ids(second))

	beyond, err := f.svc.ListForBooker(ctx, "booker", "ALL", 4, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestOwnerScopeIsJoinThroughItem(t *testing.T) {
	f := newFixture(t)
	f.create(t, "booker", "item-1", now.Add(time.Hour), now.Add(2*time.Hour))
	ctx := context.Background()

	// The booking's owner side comes from the item, not a booking field.
	asOwner, err := f.svc.ListForOwner(ctx, "owner", "ALL", 0, 10)
	require.NoError(t, err)
	assert.Len(t, asOwner, 1)

	// The booker has no owner-scoped bookings and vice versa.
	asBooker, err := f.svc.ListForOwner(ctx, "booker", "ALL", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, asBooker)

	ownSide, err := f.svc.ListForBooker(ctx, "owner", "ALL", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, ownSide)
}
