package splash

// Animation is the composition payload of a KindAnimation object. It owns a
// Crowd, a set of named timelines with one active, and the dirty rectangles
// reported by its members.
//
// A static animation has no surface of its own: rectangles reported to it
// are offset by its position and forwarded to the parent. A dynamic
// animation merges them into a bounded list and also forwards them, unless
// its whole area was already reported this frame.
type Animation struct {
	// Static defaults to true.
	Static bool

	obj        *Object
	crowd      *Crowd
	timelines  map[string]*Timeline
	timelineID string
	timeline   *Timeline

	rects      []Rect
	pixels     int
	overflow   bool
	hasChanged bool
}

func newAnimation(o *Object) *Animation {
	a := &Animation{Static: true, obj: o, timelines: make(map[string]*Timeline)}
	a.crowd = newCrowd(a)
	a.timeline = a.AddTimeline(DefaultTimeline)
	a.timelineID = DefaultTimeline
	return a
}

// Object returns the object carrying the animation.
func (a *Animation) Object() *Object { return a.obj }

// Crowd returns the members of the animation.
func (a *Animation) Crowd() *Crowd { return a.crowd }

// Parent returns the animation whose crowd holds this one, or nil.
func (a *Animation) Parent() *Animation { return a.obj.Parent() }

// Timeline returns the active timeline.
func (a *Animation) Timeline() *Timeline { return a.timeline }

// TimelineID returns the id of the active timeline.
func (a *Animation) TimelineID() string { return a.timelineID }

// TimelineByID returns a named timeline, or nil.
func (a *Animation) TimelineByID(id string) *Timeline { return a.timelines[id] }

// AddTimeline returns the named timeline, creating an empty one if needed.
func (a *Animation) AddTimeline(id string) *Timeline {
	if t, ok := a.timelines[id]; ok {
		return t
	}
	t := newTimeline(a, id)
	a.timelines[id] = t
	return t
}

// ChangeTimeline makes the named timeline active and rewinds it. With reset
// the animation's clock restarts on the next update; without it the new
// events are matched against the running clock. It returns false if the
// timeline does not exist.
func (a *Animation) ChangeTimeline(id string, reset bool) bool {
	t, ok := a.timelines[id]
	if !ok {
		a.obj.cfg().logf("Animation.ChangeTimeline (id: %s) (timeline: %s) (ret: KO)", a.obj.ID, id)
		return false
	}
	a.timeline = t
	a.timelineID = id
	t.Clear()
	if reset {
		a.obj.rebase = true
	}
	a.obj.cfg().logf("Animation.ChangeTimeline (id: %s) (timeline: %s) (reset: %t) (ret: OK)", a.obj.ID, id, reset)
	return true
}

// update runs after the object's own style has been recomputed.
func (a *Animation) update(ts int, changed bool) {
	a.hasChanged = changed
	if changed && !a.Static {
		if p := a.Parent(); p != nil {
			p.AddUpdateRect(a.obj.updateArea)
		}
	}
	a.timeline.Update(ts)
	a.crowd.Update(ts)
}

// AddUpdateRect records r, given in this animation's coordinates, as needing
// a redraw.
func (a *Animation) AddUpdateRect(r Rect) {
	if r.Empty() {
		return
	}
	parent := a.Parent()
	if a.Static && parent != nil {
		parent.AddUpdateRect(r.Offset(a.obj.position))
		return
	}

	first := -1
	for i := range a.rects {
		if a.rects[i].Empty() {
			continue
		}
		if first < 0 {
			if a.rects[i].Intersects(r) {
				a.rects[i] = a.rects[i].Union(r)
				first = i
			}
			continue
		}
		if a.rects[first].Intersects(a.rects[i]) {
			a.rects[first] = a.rects[first].Union(a.rects[i])
			a.rects[i] = Rect{}
		}
	}

	if first < 0 {
		switch slot := a.freeSlot(); {
		case slot >= 0:
			a.rects[slot] = r
		case len(a.rects) < a.maxRects():
			a.rects = append(a.rects, r)
		default:
			a.overflow = true
		}
	}
	a.pixels = 0
	for _, q := range a.rects {
		a.pixels += q.Area()
	}

	if parent != nil && !a.hasChanged {
		parent.AddUpdateRect(r.Offset(a.obj.position))
	}
}

func (a *Animation) freeSlot() int {
	for i := range a.rects {
		if a.rects[i].Empty() {
			return i
		}
	}
	return -1
}

func (a *Animation) maxRects() int {
	if cfg := a.obj.cfg(); cfg != nil && cfg.MaxDirtyRects > 0 {
		return cfg.MaxDirtyRects
	}
	return defaultMaxDirtyRects
}

// DirtyRects returns the merged rectangles accumulated since the last
// ResetDirty.
func (a *Animation) DirtyRects() []Rect {
	out := make([]Rect, 0, len(a.rects))
	for _, r := range a.rects {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// Pixels returns the total area of the merged rectangles.
func (a *Animation) Pixels() int { return a.pixels }

// Overflowed reports whether a rectangle was dropped because the list was
// full.
func (a *Animation) Overflowed() bool { return a.overflow }

// RedrawPlan tells the renderer how to refresh a w×h surface: clear all of
// it when full is true, otherwise only the returned rectangles. Nothing to
// do is reported as (false, nil).
func (a *Animation) RedrawPlan(w, h int) (full bool, rects []Rect) {
	if a.overflow {
		return true, nil
	}
	rects = a.DirtyRects()
	if len(rects) == 0 {
		return false, nil
	}
	if a.pixels > w*h {
		return true, nil
	}
	return false, rects
}

// ResetDirty forgets the accumulated rectangles of this animation and of
// every nested animation.
func (a *Animation) ResetDirty() {
	a.rects = a.rects[:0]
	a.pixels = 0
	a.overflow = false
	a.crowd.walk(func(o *Object) bool {
		if o.anim != nil {
			o.anim.ResetDirty()
		}
		return true
	}, "", true)
}
