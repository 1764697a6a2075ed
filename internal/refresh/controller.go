// Package refresh manages the fetch lifecycle of a single panel:
// loading and error states, stale-while-revalidate data retention, and
// last-request-wins ordering under concurrent refetches.
//
// The Controller is a value type in the same mold as a Bubbletea child
// model: methods return an updated copy and the owner reassigns. All
// transitions happen on the program's single event loop, so there is
// no locking; correctness under overlapping requests comes from the
// generation counter, not from synchronization.
package refresh

import (
	"time"

	"opsdash/internal/panel"
)

// DefaultInterval is the poll cadence used when a panel's
// configuration does not specify one.
const DefaultInterval = 300 * time.Second

// State is the panel's fetch lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Controller tracks one panel instance's refresh state. Created when
// the panel mounts, closed when it unmounts. The envelope it holds is
// owned exclusively by the controller until superseded by a newer one.
type Controller struct {
	state      State
	generation uint64
	inFlight   bool
	closed     bool

	env         *panel.Envelope
	err         error
	lastUpdated time.Time

	interval time.Duration
	now      func() time.Time
}

// New creates an idle controller polling at the given interval.
// Non-positive intervals fall back to DefaultInterval.
func New(interval time.Duration) Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Controller{state: StateIdle, interval: interval, now: time.Now}
}

// WithClock substitutes the time source. Intended for testing.
func (c Controller) WithClock(now func() time.Time) Controller {
	c.now = now
	return c
}

// Begin starts a new fetch and returns the generation tag the caller
// must carry to Apply. Any request still in flight is superseded: its
// eventual result will fail the generation check and be discarded.
// The last successful envelope stays exposed while loading so the view
// never blanks during a refetch.
func (c Controller) Begin() (Controller, uint64) {
	if c.closed {
		return c, c.generation
	}
	c.generation++
	c.inFlight = true
	c.state = StateLoading
	return c, c.generation
}

// Apply delivers a fetch result tagged with the generation returned by
// Begin. It reports whether the result was accepted: results for a
// superseded generation or a closed controller are discarded without
// any state transition, which is what makes resolution order
// irrelevant — only initiation order counts.
func (c Controller) Apply(gen uint64, env *panel.Envelope, err error) (Controller, bool) {
	if c.closed || gen != c.generation {
		return c, false
	}

	c.inFlight = false

	if err != nil {
		// Keep the last good envelope: a failed background refetch is
		// informational, not a reason to clear the screen. Only the
		// very first fetch has nothing to fall back on.
		c.err = err
		c.state = StateError
		return c, true
	}

	c.env = env
	c.err = nil
	c.state = StateSuccess
	c.lastUpdated = c.now()
	return c, true
}

// Close tears the controller down. Outstanding requests may still
// resolve but their results will be discarded.
func (c Controller) Close() Controller {
	c.closed = true
	c.inFlight = false
	return c
}

// State returns the lifecycle state.
func (c Controller) State() State { return c.state }

// Envelope returns the most recent successful envelope, which remains
// available through refetches and background errors.
func (c Controller) Envelope() *panel.Envelope { return c.env }

// HasData reports whether any successful envelope has been received.
func (c Controller) HasData() bool { return c.env != nil }

// Err returns the most recent fetch error, cleared on the next
// successful resolution.
func (c Controller) Err() error { return c.err }

// InFlight reports whether a fetch is outstanding.
func (c Controller) InFlight() bool { return c.inFlight }

// Closed reports whether the panel instance was torn down.
func (c Controller) Closed() bool { return c.closed }

// LastUpdated returns the instant of the last successful resolution.
// It never advances on errors or discarded results.
func (c Controller) LastUpdated() time.Time { return c.lastUpdated }

// Interval returns the poll cadence for this panel.
func (c Controller) Interval() time.Duration { return c.interval }

// Generation returns the current request generation. Exposed for
// status display and tests.
func (c Controller) Generation() uint64 { return c.generation }
