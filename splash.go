package splash

// Rect is an integer pixel rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. A rectangle with a zero width or
// height is empty.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the number of pixels covered by r.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W &&
		r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H &&
		r.Y+r.H >= other.Y
}

// Union returns the bounding box of r and other. An empty operand is ignored.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x1 := max(r.X+r.W, other.X+other.W)
	y1 := max(r.Y+r.H, other.Y+other.H)
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Offset translates r into the coordinate space of the frame, clipping it to
// the frame's size first. An empty frame leaves r untouched.
func (r Rect) Offset(frame Rect) Rect {
	if frame.Empty() {
		return r
	}
	out := r
	if r.X+r.W >= frame.W {
		out.W = 0
		if frame.W > r.X {
			out.W = frame.W - r.X
		}
	}
	if r.Y+r.H >= frame.H {
		out.H = 0
		if frame.H > r.Y {
			out.H = frame.H - r.Y
		}
	}
	out.X += frame.X
	out.Y += frame.Y
	return out
}

// Kind distinguishes the behaviour of an Object.
type Kind uint8

const (
	KindSolid     Kind = iota // plain colored rectangle
	KindImage                 // bitmap or tile from a tileset
	KindAnimation             // composition node owning a crowd and timelines
	KindSound                 // audible object; no pixels
)

var kindNames = [...]string{"solid", "image", "animation", "sound"}

// String returns the scene-document name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// parseKind maps a scene-document type name to a Kind.
func parseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

const (
	// DefaultTag is the crowd bucket used by objects without an explicit tag.
	DefaultTag = "default"
	// DefaultFashion is the id of the fashion every object starts with.
	DefaultFashion = "default"
	// DefaultTimeline is the id of the timeline every animation starts with.
	DefaultTimeline = "default"
	// RootID is the identity of the engine's root animation.
	RootID = "root"
)
