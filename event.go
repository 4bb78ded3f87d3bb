package splash

import "slices"

// EventKind is the action of a timeline event.
type EventKind uint8

const (
	EventUnknown  EventKind = iota // no-op
	EventCreate                    // insert a library object defined by the event
	EventCopy                      // insert a copy of another object
	EventClose                     // remove objects from the crowd
	EventGoto                      // seek the timeline
	EventTimeline                  // switch the active timeline
	EventClear                     // clear a tag, or the whole crowd
	EventFashion                   // switch the current fashion
	EventState                     // assign the free-form state value
)

var eventKindNames = [...]string{"", "create", "copy", "close", "goto", "timeline", "clear", "fashion", "state"}

// String returns the scene-document name of the kind.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return ""
}

// ParseEventKind maps a scene-document event name to its kind. Unknown
// names map to EventUnknown.
func ParseEventKind(name string) EventKind {
	if name == "" {
		return EventUnknown
	}
	if i := slices.Index(eventKindNames[:], name); i > 0 {
		return EventKind(i)
	}
	return EventUnknown
}

// Event is one scripted action of a Timeline.
type Event struct {
	ID        string
	Timestamp int
	Kind      EventKind
	// Name is the kind as written in the scene document, kept for unknown
	// kinds.
	Name string

	// Object is the object inserted by create and copy events.
	Object *Object
	// Targets are the object ids the event applies to. When empty, timeline,
	// fashion and state events apply to the owning animation.
	Targets []string

	Value    int
	ValueStr string
	// Option is the reset flag of timeline events.
	Option bool

	timeline *Timeline
}

// run executes the event at global time ts. It returns false when the event
// repositioned or replaced the running timeline.
func (e *Event) run(ts int) bool {
	t := e.timeline
	a := t.owner
	lib := a.obj.lib
	ok := true

	switch e.Kind {
	case EventCreate, EventCopy:
		if e.Object != nil {
			a.crowd.Insert(ts, e.Object)
		}
	case EventClose:
		for _, id := range e.Targets {
			a.crowd.RemoveID(id)
		}
	case EventGoto:
		pos := t.index - 1
		t.Seek(ts, e.Value)
		// A jump onto this event's own timestamp must not replay it.
		if e.Value >= e.Timestamp && t.index <= pos {
			t.index = pos + 1
		}
		ok = false
	case EventTimeline:
		if len(e.Targets) > 0 {
			if other := lib.Animation(e.Targets[0]); other != nil {
				other.ChangeTimeline(e.ValueStr, e.Option)
			}
		} else {
			a.ChangeTimeline(e.ValueStr, e.Option)
			ok = false
		}
	case EventClear:
		a.crowd.Clear(e.ValueStr)
	case EventFashion:
		for _, o := range e.targets(lib) {
			o.ChangeFashion(e.ValueStr, false)
		}
	case EventState:
		for _, o := range e.targets(lib) {
			o.SetState(e.Value)
		}
	}

	a.obj.cfg().logf("Event.run (id: %s) (timestamp: %d) (type: %s)", e.ID, ts, e.Name)
	return ok
}

// targets resolves Targets, defaulting to the owning animation.
func (e *Event) targets(lib *Library) []*Object {
	if len(e.Targets) == 0 {
		return []*Object{e.timeline.owner.obj}
	}
	if lib == nil {
		return nil
	}
	out := make([]*Object, 0, len(e.Targets))
	for _, id := range e.Targets {
		if o := lib.Object(id); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// clear resets the event's one-shot state so it plays again.
func (e *Event) clear() {
	if e.Object != nil {
		e.Object.fashion.Clear(nil)
	}
}
