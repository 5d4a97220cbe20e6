package watch

import (
	"slices"
	"strings"
	"time"
)

// debouncer coalesces events per path until no new event has arrived for
// the delay. It is owned by the Run loop and needs no locking.
type debouncer struct {
	delay   time.Duration
	pending map[string]Event
	timer   *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]Event),
	}
}

// add records an event and restarts the quiet period.
func (d *debouncer) add(event Event) {
	if p, exists := d.pending[event.Path]; exists {
		event.Op |= p.Op
	}
	d.pending[event.Path] = event

	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
		return
	}
	d.timer.Reset(d.delay)
}

// ready fires once the quiet period has passed. It returns nil, which
// blocks forever in a select, while nothing is pending.
func (d *debouncer) ready() <-chan time.Time {
	if d.timer == nil || len(d.pending) == 0 {
		return nil
	}
	return d.timer.C
}

// flush returns the pending events sorted by path and clears them.
func (d *debouncer) flush() []Event {
	events := make([]Event, 0, len(d.pending))
	for _, e := range d.pending {
		events = append(events, e)
	}
	slices.SortFunc(events, func(a, b Event) int {
		return strings.Compare(a.Path, b.Path)
	})
	clear(d.pending)
	return events
}

func (d *debouncer) size() int {
	return len(d.pending)
}

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}
