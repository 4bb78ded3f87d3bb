package splash

import "strings"

// Fashion ids driven by the pointer. Objects whose current fashion id starts
// with "mouse" switch between them automatically.
const (
	FashionMouseOver  = "mouseover"
	FashionMouseClick = "mouseclick"
	FashionMouseOut   = "mouseout"
)

// PointerContext carries pointer event data.
type PointerContext struct {
	Object    *Object
	ObjectID  string
	UserData  any
	Timestamp int
	// X and Y are in the coordinates of the object's parent.
	X, Y int
	// Pressed is the button state. Release is set on the click that ends a
	// press.
	Pressed bool
	Release bool
}

// pointerEvent is one pointer sample routed through the crowd tree.
type pointerEvent struct {
	ts      int
	pressed bool
	cursor  *Object // never hit-tested
}

// dispatchPointer walks the crowd from top to bottom. Once an object keeps
// the event, the objects below it are treated as uncovered by the pointer
// and receive an out notification if they were hovered. It reports whether
// the event reached the bottom of the crowd.
func (a *Animation) dispatchPointer(p pointerEvent, x, y int, covered bool) bool {
	// Hooks may close objects; such requests are staged like during Update.
	c := a.crowd
	c.updating++
	defer c.done(&c.updating)

	c.walk(func(o *Object) bool {
		if o == p.cursor || o.Kind == KindSound || o.crowd != c {
			return true
		}
		if !o.handlePointer(p, x, y, covered) {
			covered = true
		}
		return true
	}, "", false)
	return !covered
}

// handlePointer updates the hover state of o for a pointer at (x, y) in the
// parent's coordinates. It reports whether the event passes through.
func (o *Object) handlePointer(p pointerEvent, x, y int, covered bool) bool {
	inside := !covered && o.Style().Display() && o.position.Contains(x, y)

	pass := true
	if o.anim != nil {
		pass = o.anim.dispatchPointer(p, x-o.position.X, y-o.position.Y, !inside)
	}

	if !inside {
		if o.hovered {
			o.hovered, o.pressed = false, false
			if isMouseFashion(o.fashionID) {
				o.ChangeFashion(FashionMouseOut, false)
			}
			o.firePointerOut(o.pointerContext(p, x, y))
		}
		return pass
	}

	wasHovered, wasPressed := o.hovered, o.pressed
	o.hovered, o.pressed = true, p.pressed
	if isMouseFashion(o.fashionID) {
		want := FashionMouseOver
		if p.pressed {
			want = FashionMouseClick
		}
		if want != o.fashionID {
			o.ChangeFashion(want, false)
		}
	}

	// Animations never keep the event themselves; their members decide.
	through := false
	ctx := o.pointerContext(p, x, y)
	switch {
	case p.pressed != wasPressed:
		ctx.Release = wasPressed
		through = o.firePointerClick(ctx)
	case !wasHovered:
		through = o.firePointerOver(ctx)
	}
	if o.anim != nil {
		return pass
	}
	if o.Style().Opacity() != 255 {
		through = true
	}
	return through
}

func isMouseFashion(id string) bool {
	return strings.HasPrefix(id, "mouse")
}

func (o *Object) pointerContext(p pointerEvent, x, y int) PointerContext {
	return PointerContext{
		Object: o, ObjectID: o.ID, UserData: o.UserData,
		Timestamp: p.ts, X: x, Y: y, Pressed: p.pressed,
	}
}

func (o *Object) firePointerOver(ctx PointerContext) bool {
	pass := false
	if o.OnPointerOver != nil {
		pass = o.OnPointerOver(ctx)
	}
	o.emitPointer(NotifyPointerOver, ctx)
	return pass
}

func (o *Object) firePointerClick(ctx PointerContext) bool {
	pass := false
	if o.OnPointerClick != nil {
		pass = o.OnPointerClick(ctx)
	}
	o.emitPointer(NotifyPointerClick, ctx)
	return pass
}

func (o *Object) firePointerOut(ctx PointerContext) {
	if o.OnPointerOut != nil {
		o.OnPointerOut(ctx)
	}
	o.emitPointer(NotifyPointerOut, ctx)
}

// --- ECS bridge ---

func (o *Object) emitPointer(t NotificationType, ctx PointerContext) {
	if o.lib == nil {
		return
	}
	o.lib.emit(Notification{
		Type:      t,
		ObjectID:  o.ID,
		Kind:      o.Kind,
		Timestamp: ctx.Timestamp,
		X:         ctx.X,
		Y:         ctx.Y,
		Pressed:   ctx.Pressed,
		Release:   ctx.Release,
	})
}
