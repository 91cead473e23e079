package booking

// Authorization predicates. All are pure functions over the identities
// involved, so every rule is testable with three IDs and no fixtures.

// CanCreate reports whether the requester may book the item.
// Owners cannot book their own items.
func CanCreate(requesterID string, item ItemSnapshot) bool {
	return requesterID != item.OwnerID
}

// CanDecide reports whether the decider may approve or reject the booking.
// Only the owner of the booked item decides.
func CanDecide(deciderID string, b *Booking) bool {
	return deciderID == b.Item.OwnerID
}

// CanView reports whether the viewer may read the booking.
// Visible to the booker and the item owner only.
func CanView(viewerID string, b *Booking) bool {
	return viewerID == b.Booker.ID || viewerID == b.Item.OwnerID
}
