package splash

// ImageData is the payload of a KindImage object.
type ImageData struct {
	Filename string
	// Tile selects a tile from a tileset laid out by the object's width and
	// height. A negative value uses the whole bitmap.
	Tile int

	handle Handle
}

// SoundData is the payload of a KindSound object.
type SoundData struct {
	Filename string
	// Chunk sounds are one-shot: entering a crowd announces them but they are
	// not retained.
	Chunk bool

	handle Handle
}

// Object is a single element of a scene. All kinds share this struct; the
// Kind field selects which payload pointer is set (Animation, Image or
// Sound). Solids carry no payload.
type Object struct {
	ID   string
	Kind Kind

	// State is a free-form integer set by timeline events.
	State int
	// UserData is not used by the engine.
	UserData any

	// Crowd notifications. They run synchronously during crowd mutation and
	// must not mutate a crowd that is being traversed.
	OnShow func(ts int, o *Object)
	OnHide func(o *Object)

	// Pointer callbacks. Over and Click return true to let the event reach
	// the objects below.
	OnPointerOver  func(PointerContext) bool
	OnPointerClick func(PointerContext) bool
	OnPointerOut   func(PointerContext)

	tag    string
	zIndex int

	lib       *Library
	fashions  map[string]*Fashion
	fashionID string
	fashion   *Fashion

	initialTimestamp int
	rebase           bool // restart the clock on the next Update
	position         Rect
	source           Rect
	updateArea       Rect

	hovered bool
	pressed bool

	crowd *Crowd // crowd holding the object, nil when out

	anim  *Animation
	image *ImageData
	sound *SoundData
}

func newObject(lib *Library, kind Kind, id string) *Object {
	o := &Object{
		ID:        id,
		Kind:      kind,
		tag:       DefaultTag,
		lib:       lib,
		fashions:  make(map[string]*Fashion),
		fashionID: DefaultFashion,
	}
	o.fashion = o.AddFashion(DefaultFashion)
	switch kind {
	case KindAnimation:
		o.anim = newAnimation(o)
	case KindImage:
		o.image = &ImageData{Tile: -1}
	case KindSound:
		o.sound = &SoundData{}
	}
	return o
}

// Tag returns the crowd bucket the object belongs to.
func (o *Object) Tag() string { return o.tag }

// SetTag changes the crowd bucket. It has no effect while the object is in a
// crowd (and panics in debug mode).
func (o *Object) SetTag(tag string) {
	if tag == "" {
		tag = DefaultTag
	}
	if o.crowd != nil {
		o.cfg().invariantf("Object.SetTag: %q is in a crowd", o.ID)
		return
	}
	o.tag = tag
}

// ZIndex returns the paint order key. Higher values are painted later.
func (o *Object) ZIndex() int { return o.zIndex }

// SetZIndex changes the paint order, re-sorting the object inside its crowd
// bucket if it is in one.
func (o *Object) SetZIndex(z int) {
	if o.crowd != nil {
		o.crowd.SetZOrder(o, z)
		return
	}
	o.zIndex = z
}

// SetState assigns the free-form state value.
func (o *Object) SetState(v int) { o.State = v }

// Library returns the library that created the object.
func (o *Object) Library() *Library { return o.lib }

// Animation returns the composition payload, or nil for other kinds.
func (o *Object) Animation() *Animation { return o.anim }

// Image returns the image payload, or nil for other kinds.
func (o *Object) Image() *ImageData { return o.image }

// Sound returns the sound payload, or nil for other kinds.
func (o *Object) Sound() *SoundData { return o.sound }

// Parent returns the animation whose crowd holds the object.
func (o *Object) Parent() *Animation {
	if o.crowd == nil {
		return nil
	}
	return o.crowd.owner
}

// InCrowd reports whether the object is currently held by a crowd.
func (o *Object) InCrowd() bool { return o.crowd != nil }

// Style returns the last computed style.
func (o *Object) Style() *Style { return o.fashion.Current() }

// Fashion returns the current fashion.
func (o *Object) Fashion() *Fashion { return o.fashion }

// FashionID returns the id of the current fashion.
func (o *Object) FashionID() string { return o.fashionID }

// FashionByID returns a named fashion, or nil.
func (o *Object) FashionByID(id string) *Fashion { return o.fashions[id] }

// AddFashion returns the named fashion, creating it if needed.
func (o *Object) AddFashion(id string) *Fashion {
	if f, ok := o.fashions[id]; ok {
		return f
	}
	f := NewFashion(id)
	f.cfg = o.cfg()
	o.fashions[id] = f
	return f
}

// ChangeFashion switches to the named fashion. The new fashion is seeded
// with the baseline of the old one and the object's clock restarts on the
// next update. Switching to the current fashion needs force. It returns
// false if the fashion does not exist or nothing changed.
func (o *Object) ChangeFashion(id string, force bool) bool {
	f, ok := o.fashions[id]
	if !ok || (!force && f == o.fashion) {
		return false
	}
	old := o.fashion.Style()
	o.rebase = true
	o.fashionID = id
	o.fashion = f
	f.Clear(old)
	o.cfg().logf("Object.ChangeFashion (id: %s) (fashion: %s)", o.ID, id)
	return true
}

// InitialTimestamp returns the clock origin of the object, in global time.
// It may be negative after a forward seek.
func (o *Object) InitialTimestamp() int { return o.initialTimestamp }

// SetInitialTimestamp moves the clock origin.
func (o *Object) SetInitialTimestamp(ts int) {
	o.initialTimestamp = ts
	o.rebase = false
}

// Position returns the pixel rectangle in the parent's coordinates.
func (o *Object) Position() Rect { return o.position }

// Source returns the rectangle read from the object's own content
// (tile, bitmap or nested animation surface).
func (o *Object) Source() Rect { return o.source }

// UpdateArea returns the union of the previous and current positions
// computed by the last changing Update.
func (o *Object) UpdateArea() Rect { return o.updateArea }

// Update recomputes the style at ts and refreshes the rectangles when it
// changed. Animations then run their timeline and crowd. It reports whether
// the object's own style changed.
func (o *Object) Update(ts int) bool {
	if o.rebase {
		o.initialTimestamp = ts
		o.rebase = false
	}
	local := max(ts-o.initialTimestamp, 0)

	style := o.fashion.GetStyle(local)
	changed := style.HasChangedSinceLastTime() != 0
	if changed {
		old := o.position
		w, h := int(style.Width()), int(style.Height())
		o.position = Rect{
			X: int(style.Left() + style.RelativeLeft()),
			Y: int(style.Top() + style.RelativeTop()),
			W: w,
			H: h,
		}
		px, py := style.Position()
		o.source = Rect{X: int(px), Y: int(py), W: w, H: h}
		o.updateArea = old.Union(o.position)
	}

	if o.anim != nil {
		o.anim.update(ts, changed)
	}
	return changed
}

// copyFrom makes o an independent duplicate of parent's definition. The
// kinds must match.
func (o *Object) copyFrom(parent *Object) {
	o.tag = parent.tag
	o.zIndex = parent.zIndex
	o.State = parent.State
	o.cloneFashions(parent)
	switch o.Kind {
	case KindImage:
		o.image.Filename = parent.image.Filename
		o.image.Tile = parent.image.Tile
		o.image.handle = o.lib.Images.Retain(parent.image.handle)
	case KindSound:
		o.sound.Filename = parent.sound.Filename
		o.sound.Chunk = parent.sound.Chunk
		o.sound.handle = o.lib.Sounds.Retain(parent.sound.handle)
	case KindAnimation:
		o.anim.Static = parent.anim.Static
	}
}

func (o *Object) cloneFashions(from *Object) {
	o.fashions = make(map[string]*Fashion, len(from.fashions))
	for id, f := range from.fashions {
		c := f.Clone()
		c.cfg = o.cfg()
		o.fashions[id] = c
		if f == from.fashion {
			o.fashion = c
			o.fashionID = id
		}
	}
}

// release drops the content handles held by the object.
func (o *Object) release() {
	switch {
	case o.image != nil:
		o.lib.Images.Release(o.image.handle)
		o.image.handle = Handle{}
	case o.sound != nil:
		o.lib.Sounds.Release(o.sound.handle)
		o.sound.handle = Handle{}
	}
}

func (o *Object) cfg() *Config {
	if o.lib == nil {
		return nil
	}
	return &o.lib.cfg
}
