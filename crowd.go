package splash

import (
	"slices"
	"sort"
)

// Crowd is the set of objects currently alive inside an Animation.
//
// Objects are indexed by identity and grouped in tag buckets, each bucket
// kept sorted by z-order. Objects with equal z-order keep their insertion
// order. ForEach over all tags merges the buckets into one global z-order.
//
// Insertions, removals and z-order changes requested while the crowd is
// being traversed are deferred until the outermost traversal ends. During
// ForEach such a request is a programming error and panics in debug mode.
type Crowd struct {
	owner   *Animation
	byID    map[string]*Object
	buckets map[string][]*Object
	tags    []string // sorted bucket names

	visiting int // user traversals
	updating int // Update traversals
	pending  []crowdOp
}

type crowdOpKind uint8

const (
	opInsert crowdOpKind = iota
	opRemove
	opClear
	opZOrder
)

type crowdOp struct {
	kind crowdOpKind
	obj  *Object
	ts   int
	tag  string
	z    int
}

func newCrowd(owner *Animation) *Crowd {
	return &Crowd{
		owner:   owner,
		byID:    make(map[string]*Object),
		buckets: make(map[string][]*Object),
	}
}

func (c *Crowd) cfg() *Config {
	if c.owner == nil {
		return nil
	}
	return c.owner.obj.cfg()
}

// Len returns the number of objects in the crowd.
func (c *Crowd) Len() int { return len(c.byID) }

// Object returns the member with the given id, or nil.
func (c *Crowd) Object(id string) *Object { return c.byID[id] }

// Tags returns the bucket names in sorted order. The returned slice MUST
// NOT be mutated.
func (c *Crowd) Tags() []string { return c.tags }

// Bucket returns the members of one tag in z-order. The returned slice MUST
// NOT be mutated.
func (c *Crowd) Bucket(tag string) []*Object { return c.buckets[tag] }

// Insert adds o at time ts. If o is already a member only its entry time is
// refreshed and Insert returns false.
//
// On entry the object's fashion restarts from zero, an animation's active
// timeline is rewound and OnShow runs. Chunk sounds are announced but not
// retained.
func (c *Crowd) Insert(ts int, o *Object) bool {
	if o == nil {
		return false
	}
	if c.stage("Insert", crowdOp{kind: opInsert, obj: o, ts: ts}) {
		return true
	}
	return c.insert(ts, o)
}

func (c *Crowd) insert(ts int, o *Object) bool {
	if cur, ok := c.byID[o.ID]; ok {
		cur.initialTimestamp = ts
		cur.rebase = false
		cur.fashion.Style().Touch()
		c.cfg().logf("Crowd.Insert (id: %s) (timestamp: %d) (return: KO)", o.ID, ts)
		return false
	}
	if o.crowd != nil {
		o.crowd.Remove(o)
	}

	o.initialTimestamp = ts
	o.rebase = false
	o.fashion.Clear(nil)
	o.hovered, o.pressed = false, false

	chunk := o.sound != nil && o.sound.Chunk
	if !chunk {
		c.splice(o)
		c.byID[o.ID] = o
		o.crowd = c
		if o.anim != nil {
			o.anim.timeline.Clear()
		}
	}

	if o.OnShow != nil {
		o.OnShow(ts, o)
	}
	if o.lib != nil {
		o.lib.emit(Notification{Type: NotifyShow, ObjectID: o.ID, Kind: o.Kind, Timestamp: ts, Chunk: chunk})
	}
	c.cfg().logf("Crowd.Insert (id: %s) (timestamp: %d) (return: OK)", o.ID, ts)
	return true
}

// Remove takes o out of the crowd, runs OnHide and reports its last
// rectangle to the owning animation. It returns false if o is not a member.
// A member that has since moved to another crowd is dropped silently.
func (c *Crowd) Remove(o *Object) bool {
	if o == nil {
		return false
	}
	if c.stage("Remove", crowdOp{kind: opRemove, obj: o}) {
		return true
	}
	return c.remove(o)
}

// RemoveID is Remove by identity.
func (c *Crowd) RemoveID(id string) bool {
	o := c.byID[id]
	if o == nil {
		return false
	}
	return c.Remove(o)
}

func (c *Crowd) remove(o *Object) bool {
	if cur, ok := c.byID[o.ID]; !ok || cur != o {
		return false
	}
	delete(c.byID, o.ID)
	c.unsplice(o)
	if o.crowd != c {
		// Moved to another crowd while this one was busy; the new crowd
		// already announced it.
		c.cfg().logf("Crowd.Remove (id: %s) (moved)", o.ID)
		return true
	}
	o.crowd = nil
	o.hovered, o.pressed = false, false

	if o.OnHide != nil {
		o.OnHide(o)
	}
	if o.lib != nil {
		o.lib.emit(Notification{Type: NotifyHide, ObjectID: o.ID, Kind: o.Kind})
	}
	if c.owner != nil {
		c.owner.AddUpdateRect(o.position)
	}
	c.cfg().logf("Crowd.Remove (id: %s)", o.ID)
	return true
}

// Clear removes every member of tag, or every member when tag is empty.
func (c *Crowd) Clear(tag string) {
	if c.stage("Clear", crowdOp{kind: opClear, tag: tag}) {
		return
	}
	c.clear(tag)
}

func (c *Crowd) clear(tag string) {
	var victims []*Object
	if tag != "" {
		victims = slices.Clone(c.buckets[tag])
	} else {
		c.walk(func(o *Object) bool {
			victims = append(victims, o)
			return true
		}, "", true)
	}
	for _, o := range victims {
		c.remove(o)
	}
}

// SetZOrder moves o to z-order z, after any member already at z. It returns
// false if o is not a member, in which case only its z-order is updated.
func (c *Crowd) SetZOrder(o *Object, z int) bool {
	if cur, ok := c.byID[o.ID]; !ok || cur != o {
		o.zIndex = z
		return false
	}
	if c.stage("SetZOrder", crowdOp{kind: opZOrder, obj: o, z: z}) {
		return true
	}
	c.unsplice(o)
	o.zIndex = z
	c.splice(o)
	return true
}

// ForEach calls visit for members in z-order until it returns false.
//
// With a tag only that bucket is walked. Without one the buckets are merged
// so that the walk is globally ordered by z-order; among equal z-orders a
// bucket's run is visited before the next bucket's.
func (c *Crowd) ForEach(visit func(o *Object) bool, tag string, ascending bool) {
	c.visiting++
	defer c.done(&c.visiting)
	c.walk(visit, tag, ascending)
}

// Update updates every member at time ts and reports the rectangle of each
// member that changed to the owning animation.
func (c *Crowd) Update(ts int) {
	c.updating++
	defer c.done(&c.updating)
	c.walk(func(o *Object) bool {
		if o.crowd != c {
			return true
		}
		if o.Update(ts) && c.owner != nil {
			c.owner.AddUpdateRect(o.updateArea)
		}
		return true
	}, "", true)
}

// --- bucket maintenance ---

// splice inserts o into its bucket after every entry with z-order <= its own.
func (c *Crowd) splice(o *Object) {
	b, ok := c.buckets[o.tag]
	if !ok {
		i, _ := slices.BinarySearch(c.tags, o.tag)
		c.tags = slices.Insert(c.tags, i, o.tag)
	}
	i := sort.Search(len(b), func(i int) bool { return b[i].zIndex > o.zIndex })
	c.buckets[o.tag] = slices.Insert(b, i, o)
}

func (c *Crowd) unsplice(o *Object) {
	b := c.buckets[o.tag]
	i := slices.Index(b, o)
	if i < 0 {
		return
	}
	b = slices.Delete(b, i, i+1)
	if len(b) == 0 {
		delete(c.buckets, o.tag)
		if j, ok := slices.BinarySearch(c.tags, o.tag); ok {
			c.tags = slices.Delete(c.tags, j, j+1)
		}
		return
	}
	c.buckets[o.tag] = b
}

// --- traversal ---

type crowdCursor struct {
	bucket []*Object
	pos    int
	step   int
}

func (cur *crowdCursor) done() bool { return cur.pos < 0 || cur.pos >= len(cur.bucket) }

func (cur *crowdCursor) front() int { return cur.bucket[cur.pos].zIndex }

func (c *Crowd) walk(visit func(o *Object) bool, tag string, ascending bool) {
	if tag != "" {
		b := c.buckets[tag]
		if ascending {
			for _, o := range b {
				if !visit(o) {
					return
				}
			}
			return
		}
		for i := len(b) - 1; i >= 0; i-- {
			if !visit(b[i]) {
				return
			}
		}
		return
	}

	// before reports whether z1 is painted no later than z2 in the walk order.
	before := func(z1, z2 int) bool {
		if ascending {
			return z1 <= z2
		}
		return z1 >= z2
	}

	cursors := make([]*crowdCursor, 0, len(c.tags))
	for _, t := range c.tags {
		b := c.buckets[t]
		if len(b) == 0 {
			continue
		}
		cur := &crowdCursor{bucket: b, step: 1}
		if !ascending {
			cur.pos, cur.step = len(b)-1, -1
		}
		cursors = append(cursors, cur)
	}
	slices.SortStableFunc(cursors, func(a, b *crowdCursor) int {
		if a.front() == b.front() {
			return 0
		}
		if before(a.front(), b.front()) {
			return -1
		}
		return 1
	})

	for len(cursors) > 0 {
		cur := cursors[0]
		rest := cursors[1:]

		// Drain the leading bucket while it stays at or before the next
		// bucket's front.
		for !cur.done() && (len(rest) == 0 || before(cur.front(), rest[0].front())) {
			if !visit(cur.bucket[cur.pos]) {
				return
			}
			cur.pos += cur.step
		}
		if cur.done() {
			cursors = rest
			continue
		}

		// Re-splice by the new front, after cursors with an equal front.
		i := 0
		for i < len(rest) && before(rest[i].front(), cur.front()) {
			i++
		}
		copy(cursors, rest[:i])
		cursors[i] = cur
	}
}

// --- deferred mutation ---

// stage queues op when a traversal is running. It reports whether the
// operation was queued.
func (c *Crowd) stage(op string, o crowdOp) bool {
	if c.visiting == 0 && c.updating == 0 {
		return false
	}
	if c.visiting > 0 {
		c.cfg().invariantf("Crowd.%s during ForEach", op)
	}
	c.pending = append(c.pending, o)
	return true
}

func (c *Crowd) done(counter *int) {
	*counter--
	if c.visiting > 0 || c.updating > 0 || len(c.pending) == 0 {
		return
	}
	pending := c.pending
	c.pending = nil
	for _, op := range pending {
		switch op.kind {
		case opInsert:
			c.insert(op.ts, op.obj)
		case opRemove:
			c.remove(op.obj)
		case opClear:
			c.clear(op.tag)
		case opZOrder:
			c.SetZOrder(op.obj, op.z)
		}
	}
}
