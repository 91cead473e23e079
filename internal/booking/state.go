package booking

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

// State is the query keyword that selects a temporal/status category of
// bookings. It is not stored; CURRENT and PAST are evaluated against "now"
// at query time.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState validates a state keyword from a list request.
func ParseState(s string) (State, error) {
	state := State(s)
	if _, ok := stateFilters[state]; !ok {
		return "", apperror.Newf(apperror.KindUnknownState, "Unknown state: %s", s)
	}
	return state, nil
}

// Window restricts a filter to a time relation against "now".
type Window int

const (
	WindowAny Window = iota
	WindowCurrent
	WindowPast
)

// Filter is the store predicate a state keyword translates to. The zero
// value matches everything within the actor's scope.
type Filter struct {
	Statuses []Status
	Window   Window
}

// stateFilters is the single source of truth for keyword semantics. FUTURE is
// deliberately status-based (not yet concluded) rather than start-time-based.
var stateFilters = map[State]Filter{
	StateAll:      {},
	StateCurrent:  {Window: WindowCurrent},
	StatePast:     {Window: WindowPast},
	StateFuture:   {Statuses: []Status{StatusWaiting, StatusApproved}},
	StateWaiting:  {Statuses: []Status{StatusWaiting}},
	StateRejected: {Statuses: []Status{StatusRejected}},
}

// FilterFor returns the store predicate for a state keyword.
func FilterFor(state State) Filter {
	return stateFilters[state]
}

// Role selects whether the listing is scoped to the actor as booker or as
// owner of the booked items.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

// ListQuery is a fully-resolved list request handed to the repository.
// From/Size address ranked result items, not pages.
type ListQuery struct {
	ActorID string
	Role    Role
	Filter  Filter
	Now     time.Time
	From    int
	Size    int
}
