package model

// BookingStatus is the closed set of states a booking can be in.
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
	StatusUnbound  BookingStatus = "unbound"
)

// transitions maps each status to the statuses it may move to.
// Rejected and unbound are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusUnbound},
	StatusRejected: {},
	StatusUnbound:  {},
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is a legal
// lifecycle transition.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// RequiredFrom returns the status a booking must currently hold for a
// transition into target to be legal. Each target has exactly one legal
// source state, which the guarded status update in the repository relies on.
func RequiredFrom(target BookingStatus) (BookingStatus, bool) {
	switch target {
	case StatusApproved, StatusRejected:
		return StatusPending, true
	case StatusUnbound:
		return StatusApproved, true
	default:
		return "", false
	}
}

// ActiveStatuses are the statuses that occupy a room's time window for
// admission control. Rejected and unbound bookings free their interval.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusApproved}
}
