// Package availability derives a warehouse's coarse availability flag from the
// lifecycle state of the bookings linked to it. Every writer of the flag goes
// through Compute so that no two paths can disagree.
package availability

type State string

const (
	Available   State = "available"
	Booked      State = "booked"
	Maintenance State = "maintenance"
)

func (s State) IsValid() bool {
	switch s {
	case Available, Booked, Maintenance:
		return true
	default:
		return false
	}
}

// Lifecycle is the part of a booking status Compute needs.
type Lifecycle interface {
	IsTerminal() bool
}

// Compute returns the flag implied by current and the statuses of every
// booking linked to the warehouse. Maintenance is sticky; any non-terminal
// booking makes the warehouse booked; otherwise it is available.
func Compute[S Lifecycle](current State, statuses []S) State {
	if current == Maintenance {
		return Maintenance
	}

	for _, status := range statuses {
		if !status.IsTerminal() {
			return Booked
		}
	}

	return Available
}

// HasOpenBooking reports whether any status is non-terminal.
func HasOpenBooking[S Lifecycle](statuses []S) bool {
	return Compute(Available, statuses) == Booked
}
