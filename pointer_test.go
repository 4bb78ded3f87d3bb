package splash

import (
	"io"
	"slices"
	"testing"
)

type pointerScene struct {
	lib   *Library
	scene *Animation
	sink  *recordingSink
}

func newPointerScene(t *testing.T) *pointerScene {
	t.Helper()
	lib := NewLibrary(Config{})
	sink := &recordingSink{}
	lib.SetNotificationSink(sink)
	return &pointerScene{lib: lib, scene: lib.Create(KindAnimation, "scene").Animation(), sink: sink}
}

func (ps *pointerScene) box(id string, z int, x, y, w, h float64) *Object {
	o := ps.lib.Create(KindSolid, id)
	o.SetZIndex(z)
	placeBox(o, x, y, w, h)
	ps.scene.Crowd().Insert(0, o)
	return o
}

func (ps *pointerScene) update(ts int) { ps.scene.Object().Update(ts) }

func (ps *pointerScene) point(x, y int, pressed bool) {
	ps.scene.dispatchPointer(pointerEvent{pressed: pressed}, x, y, false)
}

func (ps *pointerScene) pointerNotifications() []string {
	var out []string
	for _, n := range ps.sink.got {
		switch n.Type {
		case NotifyPointerOver, NotifyPointerClick, NotifyPointerOut:
			out = append(out, n.ObjectID+":"+n.Type.String())
		}
	}
	return out
}

func countOver(o *Object, pass bool) *int {
	n := new(int)
	o.OnPointerOver = func(PointerContext) bool {
		*n++
		return pass
	}
	return n
}

func TestPointerTopObjectCovers(t *testing.T) {
	ps := newPointerScene(t)
	bottom := ps.box("bottom", 0, 0, 0, 100, 100)
	top := ps.box("top", 1, 0, 0, 100, 100)
	ps.update(0)

	topOver := countOver(top, false)
	bottomOver := countOver(bottom, false)
	ps.point(50, 50, false)
	if *topOver != 1 || *bottomOver != 0 {
		t.Errorf("over counts top=%d bottom=%d, want 1 0", *topOver, *bottomOver)
	}

	ps.point(60, 60, false)
	if *topOver != 1 {
		t.Error("over must fire only on entry")
	}
}

func TestPointerHookCanPassThrough(t *testing.T) {
	ps := newPointerScene(t)
	bottom := ps.box("bottom", 0, 0, 0, 100, 100)
	top := ps.box("top", 1, 0, 0, 100, 100)
	ps.update(0)

	countOver(top, true)
	bottomOver := countOver(bottom, false)
	ps.point(10, 10, false)
	if *bottomOver != 1 {
		t.Error("returning true should let the event reach the object below")
	}
}

func TestPointerTranslucentPassesThrough(t *testing.T) {
	ps := newPointerScene(t)
	bottom := ps.box("bottom", 0, 0, 0, 100, 100)
	top := ps.box("top", 1, 0, 0, 100, 100)
	top.Fashion().Style().SetOpacity(100)
	ps.update(0)

	bottomOver := countOver(bottom, false)
	ps.point(10, 10, false)
	if *bottomOver != 1 {
		t.Error("translucent object should not cover")
	}
}

func TestPointerOutWhenLeavingOrCovered(t *testing.T) {
	ps := newPointerScene(t)
	bottom := ps.box("bottom", 0, 0, 0, 100, 100)
	top := ps.box("top", 1, 0, 0, 100, 100)
	top.Fashion().Style().SetDisplay(false)
	ps.update(0)

	var outs []string
	for _, o := range []*Object{top, bottom} {
		o.OnPointerOut = func(ctx PointerContext) { outs = append(outs, ctx.ObjectID) }
	}

	ps.point(10, 10, false) // top hidden, bottom hovered
	top.Fashion().Style().SetDisplay(true)
	ps.update(10)
	ps.point(10, 10, false) // top now covers bottom
	if !slices.Equal(outs, []string{"bottom"}) {
		t.Fatalf("outs = %v, want [bottom]", outs)
	}

	ps.point(500, 500, false)
	if !slices.Equal(outs, []string{"bottom", "top"}) {
		t.Errorf("outs = %v, want [bottom top]", outs)
	}
	want := []string{"bottom:over", "top:over", "bottom:out", "top:out"}
	if got := ps.pointerNotifications(); !slices.Equal(got, want) {
		t.Errorf("notifications = %v, want %v", got, want)
	}
}

func TestPointerClickAndRelease(t *testing.T) {
	ps := newPointerScene(t)
	btn := ps.box("btn", 0, 10, 10, 30, 30)
	ps.update(0)

	var clicks []PointerContext
	btn.OnPointerClick = func(ctx PointerContext) bool {
		clicks = append(clicks, ctx)
		return false
	}
	ps.point(20, 20, false)
	ps.point(20, 20, true)
	ps.point(21, 21, true)
	ps.point(22, 22, false)

	if len(clicks) != 2 {
		t.Fatalf("clicks = %d, want 2", len(clicks))
	}
	if !clicks[0].Pressed || clicks[0].Release {
		t.Errorf("press = %+v", clicks[0])
	}
	if clicks[1].Pressed || !clicks[1].Release || clicks[1].X != 22 {
		t.Errorf("release = %+v", clicks[1])
	}
}

func TestPointerMouseFashions(t *testing.T) {
	ps := newPointerScene(t)
	btn := ps.box("btn", 0, 0, 0, 40, 20)
	for _, id := range []string{FashionMouseOut, FashionMouseOver, FashionMouseClick} {
		btn.AddFashion(id)
	}
	btn.ChangeFashion(FashionMouseOut, false)
	ps.update(0)

	steps := []struct {
		x, y    int
		pressed bool
		want    string
	}{
		{10, 10, false, FashionMouseOver},
		{10, 10, true, FashionMouseClick},
		{11, 10, false, FashionMouseOver},
		{100, 100, false, FashionMouseOut},
	}
	for i, s := range steps {
		ps.point(s.x, s.y, s.pressed)
		if btn.FashionID() != s.want {
			t.Fatalf("step %d: fashion = %q, want %q", i, btn.FashionID(), s.want)
		}
		ps.update(10 * (i + 1))
	}
	if w := btn.Fashion().Style().Width(); w != 40 {
		t.Errorf("baseline width lost across switches: %f", w)
	}
}

func TestPointerPlainFashionIsKept(t *testing.T) {
	ps := newPointerScene(t)
	btn := ps.box("btn", 0, 0, 0, 40, 20)
	btn.AddFashion(FashionMouseOver)
	ps.update(0)

	ps.point(5, 5, false)
	if btn.FashionID() != DefaultFashion {
		t.Errorf("fashion = %q, non-mouse fashions must not switch", btn.FashionID())
	}
}

func TestPointerNestedAnimationUsesLocalCoordinates(t *testing.T) {
	ps := newPointerScene(t)
	panel := ps.lib.Create(KindAnimation, "panel")
	placeBox(panel, 100, 100, 200, 200)
	ps.scene.Crowd().Insert(0, panel)

	child := ps.lib.Create(KindSolid, "child")
	placeBox(child, 10, 10, 20, 20)
	panel.Animation().Crowd().Insert(0, child)

	under := ps.box("under", -1, 0, 0, 500, 500)
	ps.update(0)

	var got PointerContext
	child.OnPointerOver = func(ctx PointerContext) bool {
		got = ctx
		return false
	}
	underOver := countOver(under, false)

	ps.point(115, 115, false)
	if got.ObjectID != "child" || got.X != 15 || got.Y != 15 {
		t.Errorf("child context = %+v", got)
	}
	if *underOver != 0 {
		t.Error("child should cover the object below the panel")
	}

	// Inside the panel but outside the child: the panel keeps nothing.
	ps.point(250, 250, false)
	if *underOver != 1 {
		t.Error("empty panel area should pass the event through")
	}
}

func TestPointerSkipsSoundsAndCursor(t *testing.T) {
	ps := newPointerScene(t)
	under := ps.box("under", 0, 0, 0, 100, 100)
	cursor := ps.box("cursor", 10, 0, 0, 100, 100)
	snd := ps.lib.Create(KindSound, "snd")
	ps.scene.Crowd().Insert(0, snd)
	ps.update(0)

	cursorOver := countOver(cursor, false)
	underOver := countOver(under, false)
	ps.scene.dispatchPointer(pointerEvent{cursor: cursor}, 50, 50, false)
	if *cursorOver != 0 || *underOver != 1 {
		t.Errorf("cursor=%d under=%d, want 0 1", *cursorOver, *underOver)
	}
}

func TestPointerHookMayCloseObjects(t *testing.T) {
	ps := newPointerScene(t)
	ps.lib.cfg.Debug = true
	ps.lib.cfg.Log = io.Discard
	victim := ps.box("victim", 0, 0, 0, 10, 10)
	btn := ps.box("btn", 1, 0, 0, 100, 100)
	ps.update(0)

	btn.OnPointerOver = func(PointerContext) bool {
		ps.scene.Crowd().Remove(victim)
		return false
	}
	ps.point(5, 5, false)
	if victim.InCrowd() {
		t.Error("staged removal should apply after dispatch")
	}
}
