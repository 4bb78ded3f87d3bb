package splash

import (
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const importDoc = `
- id: ball
  type: solid
  z-index: 3
  tag: balls
  style: {left: 10, width: 20, height: 20, background-color: [255, 0, 0]}
  fashion:
    - {timeStampInMilliSeconds: [0, 1000], top: 400, speedIn: 0, period: 2000}
    - {ts: 500, opacity: 0, ease: outQuad}
- id: pointer
  type: image
  mouse: center
  tile: A
  filename: {fr: curseur.png, en: cursor.png}
- id: tiles
  type: image
  tile: 300
  filename: tiles.png
- id: button
  type: solid
  style: {width: 50, height: 20}
  fashions:
    - id: idle
      fashion: [{ts: 0, opacity: 200}]
    - id: mouseover
    - id: mouseclick
- id: ghost
  type: hologram
`

func stubLoaders(lib *Library) *[]string {
	var loaded []string
	lib.Images.SetLoader(func(name string) (*ebiten.Image, error) {
		loaded = append(loaded, name)
		return nil, nil
	})
	lib.Sounds.SetLoader(func(name string) ([]byte, error) {
		loaded = append(loaded, name)
		return []byte(name), nil
	})
	return &loaded
}

func importTestLibrary(t *testing.T, cfg Config, doc string) (*Library, *[]string) {
	t.Helper()
	lib := NewLibrary(cfg)
	loaded := stubLoaders(lib)
	rec, err := ParseYAML([]byte("objects:\n" + indent(doc)))
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.Import(rec.List("objects")); err != nil {
		t.Fatal(err)
	}
	return lib, loaded
}

// indent nests a top-level YAML sequence under a mapping key.
func indent(doc string) string {
	out := make([]byte, 0, len(doc)*2)
	lineStart := true
	for i := 0; i < len(doc); i++ {
		if lineStart && doc[i] != '\n' {
			out = append(out, ' ', ' ')
		}
		out = append(out, doc[i])
		lineStart = doc[i] == '\n'
	}
	return string(out)
}

func TestImportObjects(t *testing.T) {
	lib, loaded := importTestLibrary(t, Config{}, importDoc)

	if lib.Object("ghost") != nil {
		t.Error("unknown type should be skipped")
	}

	ball := lib.Object("ball")
	if ball == nil || ball.Kind != KindSolid || ball.ZIndex() != 3 || ball.Tag() != "balls" {
		t.Fatalf("ball = %+v", ball)
	}
	base := ball.Fashion().Style()
	if base.Left() != 10 || base.Width() != 20 {
		t.Errorf("baseline left = %f width = %f", base.Left(), base.Width())
	}
	if r, g, b := base.BackgroundColor(); r != 255 || g != 0 || b != 0 {
		t.Errorf("color = %d %d %d", r, g, b)
	}
	trs := ball.Fashion().Transitions()
	if len(trs) != 2 {
		t.Fatalf("transitions = %d, want 2", len(trs))
	}
	if trs[0].In != 0 || trs[0].Out != 1000 || trs[0].SpeedIn != 0 || trs[0].SpeedOut != 1 || trs[0].Period != 2000 {
		t.Errorf("first transition = %+v", *trs[0])
	}
	if trs[0].Target().Top() != 400 {
		t.Errorf("target top = %f", trs[0].Target().Top())
	}
	if trs[1].In != 500 || trs[1].Out != 500 || trs[1].EaseName != "outQuad" || trs[1].Ease == nil {
		t.Errorf("second transition = %+v", *trs[1])
	}

	pointer := lib.Object("pointer")
	if pointer.Image().Tile != 'A' || pointer.Image().Filename != "curseur.png" {
		t.Errorf("pointer image = %+v", *pointer.Image())
	}
	if c, ax, ay := lib.Cursor(); c != pointer || ax != 5 || ay != 5 {
		t.Errorf("cursor = %v (%d, %d)", c, ax, ay)
	}
	if tile := lib.Object("tiles").Image().Tile; tile != 44 {
		t.Errorf("tile = %d, want 44", tile)
	}
	if !slices.Equal(*loaded, []string{"curseur.png", "tiles.png"}) {
		t.Errorf("loaded = %v", *loaded)
	}
}

func TestImportLocale(t *testing.T) {
	lib, _ := importTestLibrary(t, Config{Locale: "en"}, importDoc)
	if got := lib.Object("pointer").Image().Filename; got != "cursor.png" {
		t.Errorf("filename = %q", got)
	}
}

func TestImportFashionsOrder(t *testing.T) {
	lib, _ := importTestLibrary(t, Config{}, importDoc)
	button := lib.Object("button")
	if button.FashionID() != "idle" {
		t.Errorf("current fashion = %q, want idle", button.FashionID())
	}
	for _, id := range []string{"idle", FashionMouseOver, FashionMouseClick} {
		if button.FashionByID(id) == nil {
			t.Errorf("fashion %q missing", id)
		}
	}
	if button.FashionByID(DefaultFashion) != nil {
		t.Error("the default fashion should be replaced")
	}
	if w := button.Fashion().Style().Width(); w != 50 {
		t.Errorf("idle baseline width = %f, want 50", w)
	}
	if got := button.Fashion().GetStyle(0).Opacity(); got != 200 {
		t.Errorf("opacity = %d, want 200", got)
	}
}

func TestImportExistingIDIsUntouched(t *testing.T) {
	lib := NewLibrary(Config{})
	orig := lib.Create(KindSolid, "box")
	o, err := lib.ImportObject(Record{"id": "box", "type": "image", "z-index": 9})
	if err != nil || o != orig || o.ZIndex() != 0 {
		t.Errorf("ImportObject = %v %v", o, err)
	}
}

func TestImportMissingAsset(t *testing.T) {
	lib := NewLibrary(Config{})
	lib.Sounds.SetLoader(os.ReadFile)
	_, err := lib.ImportObject(Record{"id": "boom", "type": "sound", "filename": "does/not/exist.wav"})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestImportTimeline(t *testing.T) {
	lib, _ := importTestLibrary(t, Config{}, `
- id: s
  type: solid
- id: scene
  type: animation
  static: false
  timelines:
    - id: main
      timeline:
        - {ts: 0, event: create, id: dot, type: solid, style: {width: 2, height: 2}}
        - {ts: 10, event: copy, parent: dot, id: dot2, z-index: 4}
        - {ts: 20, event: copy, parent: dot}
        - {ts: 30, event: close, id: [dot, dot2]}
        - {ts: 40, event: fashion, id: s, value: hot}
        - {ts: 50, event: state, id: s, value: 3}
        - {ts: 60, event: timeline, value: outro}
        - {ts: 70, event: timeline, value: outro, option: false, id: other}
        - {ts: 80, event: clear, value: fx}
        - {ts: 90, event: goto, value: 0, eventId: loop}
        - {ts: 95, event: dance}
    - id: outro
      timeline: []
`)
	scene := lib.Animation("scene")
	if scene == nil {
		t.Fatal("scene missing")
	}
	if scene.Static {
		t.Error("static: false ignored")
	}
	if scene.TimelineID() != "main" || scene.TimelineByID("outro") == nil || scene.TimelineByID(DefaultTimeline) != nil {
		t.Fatalf("timelines: active %q", scene.TimelineID())
	}

	events := scene.Timeline().Events()
	if len(events) != 11 {
		t.Fatalf("events = %d, want 11", len(events))
	}
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	want := []EventKind{EventCreate, EventCopy, EventCopy, EventClose, EventFashion, EventState,
		EventTimeline, EventTimeline, EventClear, EventGoto, EventUnknown}
	if !slices.Equal(kinds, want) {
		t.Errorf("kinds = %v", kinds)
	}

	if e := events[0]; e.Object == nil || e.Object.ID != "dot" || e.Object.Fashion().Style().Width() != 2 {
		t.Errorf("create event = %+v", *e)
	}
	if e := events[1]; e.Object == nil || e.Object.ZIndex() != 4 || e.Object.Fashion().Style().Width() != 2 {
		t.Errorf("copy event = %+v", *e)
	}
	if e := events[2]; e.Object == nil || len(e.Targets) != 1 || e.Targets[0] != e.Object.ID {
		t.Errorf("anonymous copy = %+v", *e)
	} else if e.Object.ID[:7] != "__event" {
		t.Errorf("anonymous copy id = %q", e.Object.ID)
	}
	if e := events[3]; !slices.Equal(e.Targets, []string{"dot", "dot2"}) {
		t.Errorf("close targets = %v", e.Targets)
	}
	if e := events[4]; e.ValueStr != "hot" || !slices.Equal(e.Targets, []string{"s"}) {
		t.Errorf("fashion event = %+v", *e)
	}
	if e := events[5]; e.Value != 3 || !slices.Equal(e.Targets, []string{"s"}) {
		t.Errorf("state event = %+v", *e)
	}
	if e := events[6]; e.ValueStr != "outro" || !e.Option || len(e.Targets) != 0 {
		t.Errorf("timeline event = %+v", *e)
	}
	if e := events[7]; e.Option || !slices.Equal(e.Targets, []string{"other"}) {
		t.Errorf("targeted timeline event = %+v", *e)
	}
	if e := events[8]; e.ValueStr != "fx" {
		t.Errorf("clear event = %+v", *e)
	}
	if e := events[9]; e.Value != 0 || e.ID != "loop" {
		t.Errorf("goto event = %+v", *e)
	}
	if e := events[10]; e.Name != "dance" {
		t.Errorf("unknown event name = %q", e.Name)
	}
}

func TestTileIndex(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"A", 65},
		{"AB", 65},
		{"7", '7'},
		{"", 0},
		{300, 44},
		{-1, 255},
		{12.9, 12},
	}
	for _, tt := range tests {
		if got := tileIndex(tt.in); got != tt.want {
			t.Errorf("tileIndex(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAssetRefs(t *testing.T) {
	rec, err := ParseYAML([]byte(`
library:
  - {id: a, type: image, filename: a.png}
  - {id: b, type: sound, filename: {fr: b-fr.wav, en: b-en.wav}}
  - {id: c, type: solid, filename: ignored.png}
  - id: d
    type: animation
    timeline:
      - {ts: 0, event: create, id: e, type: image, filename: e.png}
`))
	if err != nil {
		t.Fatal(err)
	}
	images := map[string]struct{}{}
	sounds := map[string]struct{}{}
	assetRefs(rec, "fr", images, sounds)

	if len(images) != 2 || len(sounds) != 1 {
		t.Fatalf("images = %v sounds = %v", images, sounds)
	}
	for _, name := range []string{"a.png", "e.png"} {
		if _, ok := images[name]; !ok {
			t.Errorf("%s missing", name)
		}
	}
	if _, ok := sounds["b-fr.wav"]; !ok {
		t.Errorf("sounds = %v", sounds)
	}
}
