package splash

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NotificationSink is the interface for optional ECS integration.
// When set on a Library, crowd and pointer notifications are forwarded to it.
type NotificationSink interface {
	Notify(n Notification)
}

// NotificationType identifies what happened to an object.
type NotificationType uint8

const (
	NotifyCreate       NotificationType = iota // object added to the library
	NotifyDelete                               // object removed from the library
	NotifyShow                                 // object entered a crowd
	NotifyHide                                 // object left a crowd
	NotifyPointerOver                          // pointer entered the object
	NotifyPointerClick                         // button pressed or released over the object
	NotifyPointerOut                           // pointer left the object
)

var notificationNames = [...]string{"create", "delete", "show", "hide", "over", "click", "out"}

func (t NotificationType) String() string {
	if int(t) < len(notificationNames) {
		return notificationNames[t]
	}
	return "unknown"
}

// Notification carries one object event to a NotificationSink.
type Notification struct {
	Type      NotificationType
	ObjectID  string
	Kind      Kind
	Timestamp int
	// Pointer fields, in the coordinates of the object's parent.
	X, Y    int
	Pressed bool
	Release bool
	// Chunk is set on show notifications of one-shot sounds.
	Chunk bool
}

// Library owns every Object by identity. Crowds only hold references into it.
type Library struct {
	cfg     Config
	objects map[string]*Object
	order   []*Object
	sink    NotificationSink

	nextObject int
	nextEvent  int

	cursor       *Object
	cursorAnchor [2]int // tenths of the cursor's width and height

	// Images and Sounds share decoded assets between objects naming the
	// same file.
	Images *ContentStore[*ebiten.Image]
	Sounds *ContentStore[[]byte]

	OnCreate func(o *Object)
	OnDelete func(o *Object)
}

// NewLibrary creates an empty library. Images are decoded from files with
// ebitenutil and sounds are read as raw bytes; replace the loaders with
// SetLoader to read from elsewhere.
func NewLibrary(cfg Config) *Library {
	return &Library{
		cfg:     cfg.withDefaults(),
		objects: make(map[string]*Object),
		Images:  NewContentStore(loadImageFile, disposeImage),
		Sounds:  NewContentStore(os.ReadFile, nil),
	}
}

func loadImageFile(name string) (*ebiten.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(name)
	return img, err
}

func disposeImage(img *ebiten.Image) {
	if img != nil {
		img.Deallocate()
	}
}

// Config returns the effective configuration.
func (l *Library) Config() Config { return l.cfg }

// SetNotificationSink sets the optional ECS bridge.
func (l *Library) SetNotificationSink(s NotificationSink) { l.sink = s }

// Create adds a new object of the given kind. An empty id picks a unique
// generated one. It returns nil if id is already taken.
func (l *Library) Create(kind Kind, id string) *Object {
	if id == "" {
		id = l.autoID()
	}
	if _, ok := l.objects[id]; ok {
		l.cfg.logf("Library.Create (type: %s) (id: %s) (return: KO)", kind, id)
		return nil
	}
	o := newObject(l, kind, id)
	l.register(o)
	l.cfg.logf("Library.Create (type: %s) (id: %s) (return: OK)", kind, id)
	return o
}

// Copy creates id as an independent duplicate of parentID: same kind, tag,
// z-order and state, with deep copies of every fashion. Nested timelines
// of animations are not copied. If id already exists it is returned as is;
// a missing parent returns nil.
func (l *Library) Copy(parentID, id string) *Object {
	if o, ok := l.objects[id]; ok && id != "" {
		return o
	}
	parent := l.objects[parentID]
	if parent == nil {
		l.cfg.logf("Library.Copy (parent: %s) (id: %s) (return: KO)", parentID, id)
		return nil
	}
	if id == "" {
		id = l.autoID()
	}
	o := newObject(l, parent.Kind, id)
	o.copyFrom(parent)
	l.register(o)
	l.cfg.logf("Library.Copy (parent: %s) (id: %s) (return: OK)", parentID, id)
	return o
}

// Delete removes the object, taking it out of its crowd first. It returns
// false if id is unknown.
func (l *Library) Delete(id string) bool {
	o, ok := l.objects[id]
	if !ok {
		return false
	}
	if o.crowd != nil {
		o.crowd.Remove(o)
	}
	if l.cursor == o {
		l.cursor = nil
	}
	o.release()
	delete(l.objects, id)
	for i, p := range l.order {
		if p == o {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	if l.OnDelete != nil {
		l.OnDelete(o)
	}
	l.emit(Notification{Type: NotifyDelete, ObjectID: o.ID, Kind: o.Kind})
	l.cfg.logf("Library.Delete (id: %s)", id)
	return true
}

// Clear deletes every object, newest first, and unloads any content that
// was preloaded but never used.
func (l *Library) Clear() {
	for len(l.order) > 0 {
		l.Delete(l.order[len(l.order)-1].ID)
	}
	n := l.Images.Purge() + l.Sounds.Purge()
	l.cfg.logf("Library.Clear (purged: %d)", n)
}

// Object returns the object with the given id, or nil.
func (l *Library) Object(id string) *Object { return l.objects[id] }

// ObjectOfKind returns the object only if it has the given kind.
func (l *Library) ObjectOfKind(id string, kind Kind) *Object {
	if l == nil {
		return nil
	}
	if o := l.objects[id]; o != nil && o.Kind == kind {
		return o
	}
	return nil
}

// Animation returns the composition payload of an animation object.
func (l *Library) Animation(id string) *Animation {
	if l == nil {
		return nil
	}
	if o := l.ObjectOfKind(id, KindAnimation); o != nil {
		return o.anim
	}
	return nil
}

// Cursor returns the object that follows the pointer and its anchor in
// tenths of its size: (0, 0) is the top-left corner, (5, 5) the center.
func (l *Library) Cursor() (o *Object, ax, ay int) {
	return l.cursor, l.cursorAnchor[0], l.cursorAnchor[1]
}

// SetCursor makes o follow the pointer. A nil o removes the cursor.
func (l *Library) SetCursor(o *Object, ax, ay int) {
	l.cursor = o
	l.cursorAnchor = [2]int{ax, ay}
}

// Len returns the number of objects.
func (l *Library) Len() int { return len(l.objects) }

// Objects returns every object in creation order. The returned slice MUST
// NOT be mutated.
func (l *Library) Objects() []*Object { return l.order }

func (l *Library) register(o *Object) {
	l.objects[o.ID] = o
	l.order = append(l.order, o)
	if l.OnCreate != nil {
		l.OnCreate(o)
	}
	l.emit(Notification{Type: NotifyCreate, ObjectID: o.ID, Kind: o.Kind})
}

func (l *Library) autoID() string {
	for {
		id := fmt.Sprintf("__object%05d", l.nextObject)
		l.nextObject++
		if _, ok := l.objects[id]; !ok {
			return id
		}
	}
}

func (l *Library) autoEventID() string {
	id := fmt.Sprintf("event%05d", l.nextEvent)
	l.nextEvent++
	return id
}

func (l *Library) emit(n Notification) {
	if l.sink != nil {
		l.sink.Notify(n)
	}
}
