package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

func TestParseState(t *testing.T) {
	for _, valid := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		state, err := ParseState(valid)
		require.NoError(t, err)
		assert.Equal(t, State(valid), state)
	}

	for _, invalid := range []string{"", "all", "Future", "DONE", "APPROVED"} {
		_, err := ParseState(invalid)
		require.Error(t, err, "state %q must be rejected", invalid)
		assert.Equal(t, apperror.KindUnknownState, apperror.KindOf(err))
	}

	_, err := ParseState("BOGUS")
	assert.EqualError(t, err, "Unknown state: BOGUS")
}

func TestFilterTable(t *testing.T) {
	assert.Equal(t, Filter{}, FilterFor(StateAll))
	assert.Equal(t, Filter{Window: WindowCurrent}, FilterFor(StateCurrent))
	assert.Equal(t, Filter{Window: WindowPast}, FilterFor(StatePast))
	assert.Equal(t, Filter{Statuses: []Status{StatusWaiting}}, FilterFor(StateWaiting))
	assert.Equal(t, Filter{Statuses: []Status{StatusRejected}}, FilterFor(StateRejected))

	// FUTURE means not-yet-concluded: WAITING or APPROVED, start ignored.
	assert.Equal(t, Filter{Statuses: []Status{StatusWaiting, StatusApproved}}, FilterFor(StateFuture))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusWaiting.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
