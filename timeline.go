package splash

import "sort"

// Timeline is an ordered script of events for one Animation. Event
// timestamps are milliseconds relative to the animation's clock origin.
type Timeline struct {
	ID string

	owner  *Animation
	events []*Event
	index  int // next event to run
}

func newTimeline(owner *Animation, id string) *Timeline {
	return &Timeline{ID: id, owner: owner}
}

// Events returns the events in timestamp order. The returned slice MUST NOT
// be mutated.
func (t *Timeline) Events() []*Event { return t.events }

// NextIndex returns the index of the next event to run.
func (t *Timeline) NextIndex() int { return t.index }

// Add inserts a new event of the given kind at local time ts, after any
// event with the same timestamp, and returns it for the caller to fill.
func (t *Timeline) Add(ts int, kind EventKind) *Event {
	e := &Event{Timestamp: ts, Kind: kind, Name: kind.String(), timeline: t}
	if t.owner != nil && t.owner.obj.lib != nil {
		e.ID = t.owner.obj.lib.autoEventID()
	}
	i := sort.Search(len(t.events), func(i int) bool { return t.events[i].Timestamp > ts })
	t.events = append(t.events, nil)
	copy(t.events[i+1:], t.events[i:])
	t.events[i] = e
	if i < t.index {
		t.index++
	}
	return e
}

// Update runs every pending event whose timestamp has been reached at
// global time ts. An event that moves the clock or switches timelines ends
// the run for this tick.
func (t *Timeline) Update(ts int) {
	local := max(ts-t.owner.obj.initialTimestamp, 0)
	for t.index < len(t.events) && t.events[t.index].Timestamp <= local {
		e := t.events[t.index]
		t.index++
		if !e.run(ts) {
			return
		}
	}
}

// Seek repositions the timeline at global time ts so that the owner's local
// clock reads target. Events before target are considered played. When
// moving backward every event is reset so it plays again.
func (t *Timeline) Seek(ts, target int) {
	obj := t.owner.obj
	current := ts - obj.initialTimestamp
	t.index = sort.Search(len(t.events), func(i int) bool { return t.events[i].Timestamp >= target })
	if target < current {
		for _, e := range t.events {
			e.clear()
		}
	}
	obj.SetInitialTimestamp(ts - target)
	obj.cfg().logf("Timeline.Seek (id: %s) (from: %d) (to: %d)", t.ID, current, target)
}

// Clear rewinds the timeline to its first event and resets every event.
func (t *Timeline) Clear() {
	t.index = 0
	for _, e := range t.events {
		e.clear()
	}
}
