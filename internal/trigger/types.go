package trigger

// State is the load-trigger state.
type State int

const (
	// StateIdle: sentinel not visible, or nothing to do yet.
	StateIdle State = iota

	// StateArmed: sentinel visible, no fetch in flight, cooldown elapsed.
	StateArmed

	// StateTriggered: a fetch has been issued for this visibility crossing.
	StateTriggered

	// StateCooling: re-arming suppressed until the cooldown elapses and the
	// sentinel has left the viewport.
	StateCooling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateTriggered:
		return "triggered"
	case StateCooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// CollectionStatus is the read-only view of the paged collection the
// trigger consults before emitting a load request.
type CollectionStatus interface {
	HasNextPage() bool
	IsFetching() bool
}
