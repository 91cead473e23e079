package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCreate(t *testing.T) {
	item := ItemSnapshot{ID: "i1", OwnerID: "owner", Available: true}

	assert.True(t, CanCreate("someone-else", item))
	assert.False(t, CanCreate("owner", item))
}

func TestCanDecide(t *testing.T) {
	b := &Booking{
		Item:   ItemSnapshot{ID: "i1", OwnerID: "owner"},
		Booker: UserRef{ID: "booker"},
	}

	assert.True(t, CanDecide("owner", b))
	assert.False(t, CanDecide("booker", b))
	assert.False(t, CanDecide("stranger", b))
}

func TestCanView(t *testing.T) {
	b := &Booking{
		Item:   ItemSnapshot{ID: "i1", OwnerID: "owner"},
		Booker: UserRef{ID: "booker"},
	}

	assert.True(t, CanView("owner", b))
	assert.True(t, CanView("booker", b))
	assert.False(t, CanView("stranger", b))
}
