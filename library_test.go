package splash

import (
	"slices"
	"testing"
)

type recordingSink struct {
	got []Notification
}

func (r *recordingSink) Notify(n Notification) { r.got = append(r.got, n) }

func (r *recordingSink) types() []NotificationType {
	out := make([]NotificationType, len(r.got))
	for i, n := range r.got {
		out[i] = n.Type
	}
	return out
}

func TestLibraryCreate(t *testing.T) {
	lib := NewLibrary(Config{})
	a := lib.Create(KindSolid, "")
	b := lib.Create(KindSolid, "")
	if a == nil || b == nil || a.ID == b.ID {
		t.Fatalf("generated ids collide: %v %v", a, b)
	}
	if a.ID != "__object00000" {
		t.Errorf("first generated id = %q", a.ID)
	}
	if lib.Create(KindImage, a.ID) != nil {
		t.Error("duplicate id should return nil")
	}
	if lib.Len() != 2 || !slices.Equal(lib.Objects(), []*Object{a, b}) {
		t.Errorf("objects = %v", lib.Objects())
	}

	// Generated ids skip names taken explicitly.
	lib2 := NewLibrary(Config{})
	lib2.Create(KindSolid, "__object00000")
	if o := lib2.Create(KindSolid, ""); o.ID != "__object00001" {
		t.Errorf("generated id = %q", o.ID)
	}
}

func TestLibraryKindPayloads(t *testing.T) {
	lib := NewLibrary(Config{})
	tests := []struct {
		kind               Kind
		anim, image, sound bool
	}{
		{KindSolid, false, false, false},
		{KindImage, false, true, false},
		{KindAnimation, true, false, false},
		{KindSound, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			o := lib.Create(tt.kind, "")
			if (o.Animation() != nil) != tt.anim || (o.Image() != nil) != tt.image || (o.Sound() != nil) != tt.sound {
				t.Errorf("payloads: anim=%v image=%v sound=%v", o.Animation() != nil, o.Image() != nil, o.Sound() != nil)
			}
			if o.Tag() != DefaultTag || o.FashionID() != DefaultFashion {
				t.Errorf("tag = %q fashion = %q", o.Tag(), o.FashionID())
			}
		})
	}
	if img := lib.Create(KindImage, "img").Image(); img.Tile != -1 {
		t.Errorf("default tile = %d, want -1", img.Tile)
	}
}

func TestLibraryLookups(t *testing.T) {
	lib := NewLibrary(Config{})
	lib.Create(KindAnimation, "scene")
	lib.Create(KindSolid, "box")

	if lib.Animation("scene") == nil || lib.Animation("box") != nil || lib.Animation("none") != nil {
		t.Error("Animation lookup by kind")
	}
	if lib.ObjectOfKind("box", KindSolid) == nil || lib.ObjectOfKind("box", KindImage) != nil {
		t.Error("ObjectOfKind lookup")
	}
	var nilLib *Library
	if nilLib.Animation("scene") != nil || nilLib.ObjectOfKind("box", KindSolid) != nil {
		t.Error("nil library lookups should return nil")
	}
}

func TestLibraryCopyIsDeep(t *testing.T) {
	lib := NewLibrary(Config{})
	src := lib.Create(KindSolid, "src")
	src.SetTag("fx")
	src.SetZIndex(4)
	src.State = 2
	src.Fashion().Style().SetLeft(10)
	src.Fashion().AddTransition(0, 100, 1, 1, 0).SetLeft(20)
	src.AddFashion("hot").Style().SetOpacity(9)
	src.ChangeFashion("hot", false)

	cp := lib.Copy("src", "cp")
	if cp == nil || cp.Kind != KindSolid {
		t.Fatalf("copy = %v", cp)
	}
	if cp.Tag() != "fx" || cp.ZIndex() != 4 || cp.State != 2 || cp.FashionID() != "hot" {
		t.Errorf("copy fields: tag=%q z=%d state=%d fashion=%q", cp.Tag(), cp.ZIndex(), cp.State, cp.FashionID())
	}

	cp.FashionByID(DefaultFashion).Transitions()[0].Target().SetLeft(99)
	if got := src.FashionByID(DefaultFashion).Transitions()[0].Target().Left(); got != 20 {
		t.Errorf("source target changed to %f", got)
	}

	if lib.Copy("src", "cp") != cp {
		t.Error("copying onto an existing id should return it")
	}
	if lib.Copy("missing", "x") != nil {
		t.Error("missing parent should return nil")
	}
	if auto := lib.Copy("src", ""); auto == nil || auto.ID == "" {
		t.Error("empty id should be generated")
	}
}

func TestLibraryCopySharesContent(t *testing.T) {
	lib := NewLibrary(Config{})
	lib.Sounds.SetLoader(func(string) ([]byte, error) { return []byte("pcm"), nil })
	src := lib.Create(KindSound, "beep")
	if err := lib.setSoundFile(src, "beep.wav"); err != nil {
		t.Fatal(err)
	}
	src.Sound().Chunk = true

	cp := lib.Copy("beep", "beep2")
	if !cp.Sound().Chunk || cp.Sound().Filename != "beep.wav" {
		t.Errorf("sound = %+v", *cp.Sound())
	}
	if lib.Sounds.Refs("beep.wav") != 2 {
		t.Errorf("refs = %d, want 2", lib.Sounds.Refs("beep.wav"))
	}
	lib.Delete("beep")
	lib.Delete("beep2")
	if lib.Sounds.Len() != 0 {
		t.Error("deleting both objects should unload the sound")
	}
}

func TestLibraryDelete(t *testing.T) {
	lib := NewLibrary(Config{})
	sink := &recordingSink{}
	lib.SetNotificationSink(sink)
	var deleted []string
	lib.OnDelete = func(o *Object) { deleted = append(deleted, o.ID) }

	scene := lib.Create(KindAnimation, "scene").Animation()
	box := lib.Create(KindSolid, "box")
	scene.Crowd().Insert(0, box)
	lib.SetCursor(box, 5, 5)

	if !lib.Delete("box") {
		t.Fatal("Delete returned false")
	}
	if box.InCrowd() || lib.Object("box") != nil {
		t.Error("box still reachable")
	}
	if c, _, _ := lib.Cursor(); c != nil {
		t.Error("deleting the cursor object should clear the cursor")
	}
	if !slices.Equal(deleted, []string{"box"}) {
		t.Errorf("OnDelete saw %v", deleted)
	}
	want := []NotificationType{NotifyCreate, NotifyCreate, NotifyShow, NotifyHide, NotifyDelete}
	if got := sink.types(); !slices.Equal(got, want) {
		t.Errorf("notifications = %v, want %v", got, want)
	}
	if lib.Delete("box") {
		t.Error("second Delete should report false")
	}
}

func TestNotificationTypeString(t *testing.T) {
	if NotifyPointerClick.String() != "click" || NotificationType(99).String() != "unknown" {
		t.Error("notification names")
	}
}
