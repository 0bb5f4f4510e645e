// Package trigger converts sentinel visibility events into load-more
// requests: at most one fetch per visibility crossing, rate-limited by a
// cooldown that is independent of fetch latency.
package trigger

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/logging"
)

// DefaultMinLoadInterval is the cooldown between issued fetches. It
// absorbs duplicate intersection callbacks from a single visibility
// transition and rate-limits fast re-intersections during scrolling.
const DefaultMinLoadInterval = 500 * time.Millisecond

// Options configure a trigger service.
type Options struct {
	// MinLoadInterval overrides the default cooldown when > 0.
	MinLoadInterval time.Duration

	// Now overrides the clock (for tests).
	Now func() time.Time

	// OnLoadMore is invoked exactly once per emitted load request.
	OnLoadMore func()
}

// Service is the load-trigger state machine. It reads collection state
// and owns nothing else; all methods must be called from the UI update
// goroutine.
type Service struct {
	bus    eventbus.EventBus
	logger zerolog.Logger
	coll   CollectionStatus

	onLoadMore  func()
	minInterval time.Duration
	now         func() time.Time

	state         State
	enabled       bool
	visible       bool
	cooldownUntil time.Time
}

// NewService creates a trigger over the given collection. The trigger
// starts disabled; Enable it once the sentinel is mounted.
func NewService(bus eventbus.EventBus, coll CollectionStatus, opts Options) *Service {
	minInterval := opts.MinLoadInterval
	if minInterval <= 0 {
		minInterval = DefaultMinLoadInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		bus:         bus,
		logger:      logging.NewLogger("trigger"),
		coll:        coll,
		onLoadMore:  opts.OnLoadMore,
		minInterval: minInterval,
		now:         now,
	}
}

// Enable arms the trigger for a freshly mounted sentinel. The cooldown
// from a previous mount does not carry over.
func (s *Service) Enable() {
	if s.enabled {
		return
	}
	s.enabled = true
	s.cooldownUntil = time.Time{}
	s.setState(StateIdle)
}

// Disable unconditionally moves the trigger to Idle and stops it from
// emitting fetches. Safe to call multiple times; an in-flight fetch is
// not cancelled, its result simply cannot trigger another load.
func (s *Service) Disable() {
	s.enabled = false
	s.visible = false
	s.setState(StateIdle)
}

// Enabled reports whether the trigger may emit load requests.
func (s *Service) Enabled() bool { return s.enabled }

// State returns the current trigger state.
func (s *Service) State() State { return s.state }

// HandleVisibility feeds a sentinel intersection event into the state
// machine. A visible transition emits at most one load request; duplicate
// events for the same crossing are absorbed by the cooldown and by the
// Cooling state.
func (s *Service) HandleVisibility(visible bool) {
	s.visible = visible
	if !s.enabled {
		return
	}

	if !visible {
		// Leaving the viewport resets the decision without penalty; a
		// Cooling trigger re-arms only once the cooldown has elapsed too.
		switch s.state {
		case StateArmed:
			s.setState(StateIdle)
		case StateCooling, StateTriggered:
			if s.cooldownElapsed() {
				s.setState(StateIdle)
			}
		}
		return
	}

	if s.state != StateIdle {
		return
	}
	if !s.coll.HasNextPage() {
		// Permanent disarm until a window reset makes hasNextPage true again
		return
	}
	if s.coll.IsFetching() || !s.cooldownElapsed() {
		return
	}

	s.setState(StateArmed)
	s.fire()
}

// HandleTick re-evaluates the cooldown. The UI schedules a tick whenever
// it observes the Cooling state.
func (s *Service) HandleTick() {
	if !s.enabled {
		return
	}
	if s.state == StateCooling && s.cooldownElapsed() && !s.visible {
		s.setState(StateIdle)
	}
}

// WindowChanged must be called after the collection's metadata changes.
// When the collection runs out of pages the trigger disarms; it never
// emits a fetch just because a previous one completed.
func (s *Service) WindowChanged() {
	if !s.enabled {
		return
	}
	if !s.coll.HasNextPage() {
		switch s.state {
		case StateArmed, StateTriggered, StateCooling:
			s.setState(StateIdle)
		}
	}
}

// fire issues exactly one load request and enters the cooldown.
func (s *Service) fire() {
	s.setState(StateTriggered)

	s.logger.Debug().Msg("emitting load request")
	s.bus.Publish(eventbus.LoadRequestedEvent{})
	if s.onLoadMore != nil {
		s.onLoadMore()
	}

	// Cooldown starts when the fetch is issued, not when it completes:
	// fetch latency is unbounded and must not extend the rate limit.
	s.cooldownUntil = s.now().Add(s.minInterval)
	s.setState(StateCooling)
}

func (s *Service) cooldownElapsed() bool {
	return !s.now().Before(s.cooldownUntil)
}

func (s *Service) setState(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.bus.Publish(eventbus.TriggerChangedEvent{From: prev.String(), To: next.String()})
}
