package splash

import (
	"fmt"
	"slices"
)

// Scene document keys.
const (
	keyID        = "id"
	keyType      = "type"
	keyStyle     = "style"
	keyFashion   = "fashion"
	keyFashions  = "fashions"
	keyTimeline  = "timeline"
	keyTimelines = "timelines"
	keyMouse     = "mouse"
	keyZIndex    = "z-index"
	keyTag       = "tag"
	keyState     = "state"
	keyTile      = "tile"
	keyFilename  = "filename"
	keyChunk     = "chunk"
	keyStatic    = "static"

	keyTimestamp      = "timeStampInMilliSeconds"
	keyTimestampShort = "ts"
	keySpeedIn        = "speedIn"
	keySpeedOut       = "speedOut"
	keyPeriod         = "period"
	keyEase           = "ease"

	keyEvent   = "event"
	keyEventID = "eventId"
	keyParent  = "parent"
	keyValue   = "value"
	keyOption  = "option"
)

// tileSetSize bounds image tile indices.
const tileSetSize = 256

// cursorAnchors maps the mouse key values to anchors in tenths of the
// cursor's size.
var cursorAnchors = map[string][2]int{
	"topleft":     {0, 0},
	"top":         {5, 0},
	"topright":    {10, 0},
	"left":        {0, 5},
	"center":      {5, 5},
	"right":       {10, 5},
	"bottomleft":  {0, 10},
	"bottom":      {5, 10},
	"bottomright": {10, 10},
}

// Import creates every object definition of list, in order. It stops at
// the first asset that cannot be loaded.
func (l *Library) Import(list List) error {
	for _, v := range list {
		rec, ok := v.(Record)
		if !ok {
			l.cfg.logf("Library.Import (skip: %T)", v)
			continue
		}
		if _, err := l.ImportObject(rec); err != nil {
			return err
		}
	}
	l.cfg.logf("Library.Import (size: %d)", len(l.objects))
	return nil
}

// ImportObject creates an object from its definition. If the id is already
// taken the existing object is returned untouched. A missing or unknown type
// yields a nil object and no error.
func (l *Library) ImportObject(rec Record) (*Object, error) {
	id := rec.String(keyID, "")
	if id == "" {
		id = l.autoID()
	}
	if o := l.objects[id]; o != nil {
		return o, nil
	}
	kind, ok := parseKind(rec.String(keyType, ""))
	if !ok {
		l.cfg.logf("Library.ImportObject (type: %s) (id: %s) (return: KO)", rec.String(keyType, ""), id)
		return nil, nil
	}
	o := l.Create(kind, id)
	if err := l.Apply(o, rec); err != nil {
		return o, err
	}
	return o, nil
}

// Apply overlays a definition onto an existing object: fashions, style,
// ordering keys and the kind payload. Keys absent from rec are left as they
// are.
func (l *Library) Apply(o *Object, rec Record) error {
	if o == nil || rec == nil {
		return nil
	}

	switch {
	case rec.Has(keyFashions):
		l.importFashions(o, rec.Records(keyFashions))
	case rec.Has(keyFashion):
		l.importFashion(o.fashion, rec.List(keyFashion))
	}
	if style := rec.Record(keyStyle); style != nil {
		importStyle(o.fashion.Style(), style)
	}

	if rec.Has(keyMouse) {
		name := rec.String(keyMouse, "")
		anchor, ok := cursorAnchors[name]
		if !ok {
			l.cfg.logf("Library.Apply (id: %s) (mouse: %s) (anchor: topleft)", o.ID, name)
		}
		l.SetCursor(o, anchor[0], anchor[1])
	}
	if rec.Has(keyZIndex) {
		o.SetZIndex(rec.Int(keyZIndex, o.zIndex))
	}
	if rec.Has(keyTag) {
		o.SetTag(rec.String(keyTag, DefaultTag))
	}
	if rec.Has(keyState) {
		o.SetState(rec.Int(keyState, o.State))
	}

	switch o.Kind {
	case KindImage:
		if rec.Has(keyTile) {
			o.image.Tile = tileIndex(rec[keyTile])
		}
		if name := l.localized(rec, keyFilename); name != "" {
			if err := l.setImageFile(o, name); err != nil {
				return fmt.Errorf("splash: import %s: %w", o.ID, err)
			}
		}
	case KindSound:
		if rec.Has(keyChunk) {
			o.sound.Chunk = rec.Bool(keyChunk, false)
		}
		if name := l.localized(rec, keyFilename); name != "" {
			if err := l.setSoundFile(o, name); err != nil {
				return fmt.Errorf("splash: import %s: %w", o.ID, err)
			}
		}
	case KindAnimation:
		if rec.Has(keyStatic) {
			o.anim.Static = rec.Bool(keyStatic, true)
		}
		switch {
		case rec.Has(keyTimelines):
			if err := l.importTimelines(o.anim, rec.Records(keyTimelines)); err != nil {
				return err
			}
		case rec.Has(keyTimeline):
			if err := l.importTimeline(o.anim.timeline, rec.List(keyTimeline)); err != nil {
				return err
			}
		}
	}
	return nil
}

// importFashions replaces the fashions of o. The first listed becomes the
// current one and inherits the old current baseline.
func (l *Library) importFashions(o *Object, list []Record) {
	if len(list) == 0 {
		return
	}
	old := o.fashion.Style()
	o.fashions = make(map[string]*Fashion, len(list))
	for _, rec := range slices.Backward(list) {
		id := rec.String(keyID, DefaultFashion)
		f := NewFashion(id)
		f.cfg = o.cfg()
		l.importFashion(f, rec.List(keyFashion))
		o.fashions[id] = f
		o.fashion, o.fashionID = f, id
	}
	o.fashion.Style().Copy(old)
}

// importFashion adds one transition per item. Items without a timestamp are
// skipped.
func (l *Library) importFashion(f *Fashion, list List) {
	for _, v := range list {
		rec, ok := v.(Record)
		if !ok {
			continue
		}
		in, out, ok := timestamps(rec)
		if !ok {
			l.cfg.logf("Fashion.Import (id: %s) (skip: no timestamp)", f.ID)
			continue
		}
		t := f.addTransition(in, out,
			rec.Float(keySpeedIn, 1), rec.Float(keySpeedOut, 1), rec.Int(keyPeriod, 0))
		if name := rec.String(keyEase, ""); name != "" {
			if fn, ok := EaseByName(name); ok {
				t.Ease, t.EaseName = fn, name
			} else {
				l.cfg.logf("Fashion.Import (id: %s) (ease: %s) (unknown)", f.ID, name)
			}
		}
		importStyle(t.Target(), rec)
	}
}

// timestamps reads [in, out] or a single instant.
func timestamps(rec Record) (in, out int, ok bool) {
	key := keyTimestamp
	if !rec.Has(key) {
		key = keyTimestampShort
	}
	ts := rec.Ints(key)
	switch len(ts) {
	case 0:
		return 0, 0, false
	case 1:
		return ts[0], ts[0], true
	default:
		return ts[0], ts[1], true
	}
}

// importStyle sets the fields present in rec.
func importStyle(s *Style, rec Record) {
	if v, ok := toFloat(rec["left"]); ok {
		s.SetLeft(v)
	}
	if v, ok := toFloat(rec["top"]); ok {
		s.SetTop(v)
	}
	if v, ok := toFloat(rec["relative-left"]); ok {
		s.SetRelativeLeft(v)
	}
	if v, ok := toFloat(rec["relative-top"]); ok {
		s.SetRelativeTop(v)
	}
	if v, ok := toFloat(rec["width"]); ok {
		s.SetWidth(v)
	}
	if v, ok := toFloat(rec["height"]); ok {
		s.SetHeight(v)
	}
	if v, ok := toInt(rec["opacity"]); ok {
		s.SetOpacity(v)
	}
	if v, ok := toFloat(rec["user"]); ok {
		s.SetUser(v)
	}
	if rec.Has("display") {
		s.SetDisplay(rec.Bool("display", true))
	}
	if c := rec.Ints("background-color"); len(c) >= 3 {
		s.SetBackgroundColor(c[0], c[1], c[2])
	}
	if p := rec.Ints("position"); len(p) >= 2 {
		s.SetPosition(float64(p[0]), float64(p[1]))
	} else {
		if v, ok := toFloat(rec["position-x"]); ok {
			s.SetPositionX(v)
		}
		if v, ok := toFloat(rec["position-y"]); ok {
			s.SetPositionY(v)
		}
	}
}

// importTimelines replaces the timelines of a. The first listed becomes
// active.
func (l *Library) importTimelines(a *Animation, list []Record) error {
	if len(list) == 0 {
		return nil
	}
	a.timelines = make(map[string]*Timeline, len(list))
	for _, rec := range slices.Backward(list) {
		id := rec.String(keyID, DefaultTimeline)
		t := newTimeline(a, id)
		if err := l.importTimeline(t, rec.List(keyTimeline)); err != nil {
			return err
		}
		a.timelines[id] = t
		a.timeline, a.timelineID = t, id
	}
	return nil
}

func (l *Library) importTimeline(t *Timeline, list List) error {
	for _, v := range list {
		rec, ok := v.(Record)
		if !ok {
			continue
		}
		if err := l.importEvent(t, rec); err != nil {
			return err
		}
	}
	l.cfg.logf("Timeline.Import (id: %s) (size: %d)", t.ID, len(t.events))
	return nil
}

func (l *Library) importEvent(t *Timeline, rec Record) error {
	key := keyTimestamp
	if !rec.Has(key) {
		key = keyTimestampShort
	}
	name := rec.String(keyEvent, "")
	kind := ParseEventKind(name)

	e := t.Add(rec.Int(key, 0), kind)
	e.Name = name
	if id := rec.String(keyEventID, ""); id != "" {
		e.ID = id
	}

	switch kind {
	case EventCreate:
		o, err := l.ImportObject(rec)
		if err != nil {
			return err
		}
		if o != nil {
			e.Object = o
			e.Targets = []string{o.ID}
		}
	case EventCopy:
		id := rec.String(keyID, fmt.Sprintf("__event%05d", l.nextEvent-1))
		e.Targets = []string{id}
		o := l.Copy(rec.String(keyParent, ""), id)
		if o == nil {
			l.cfg.logf("Event.Import (id: %s) (copy: %s) (parent: missing)", e.ID, id)
			break
		}
		e.Object = o
		if err := l.Apply(o, rec); err != nil {
			return err
		}
	case EventClose, EventFashion:
		e.Targets = rec.Strings(keyID)
		e.ValueStr = rec.String(keyValue, "")
	case EventGoto:
		e.Value = rec.Int(keyValue, 0)
	case EventTimeline:
		e.ValueStr = rec.String(keyValue, "")
		e.Option = rec.Bool(keyOption, true)
		if id := rec.String(keyID, ""); id != "" {
			e.Targets = []string{id}
		}
	case EventClear:
		e.ValueStr = rec.String(keyValue, "")
	case EventState:
		e.Value = rec.Int(keyValue, 0)
		if id := rec.String(keyID, ""); id != "" {
			e.Targets = []string{id}
		}
	default:
		l.cfg.logf("Event.Import (id: %s) (event: %s) (unknown)", e.ID, name)
	}
	return nil
}

// localized reads a file name that is either a string or a map keyed by
// locale.
func (l *Library) localized(rec Record, key string) string {
	if byLocale := rec.Record(key); byLocale != nil {
		return byLocale.String(l.cfg.Locale, "")
	}
	return rec.String(key, "")
}

func (l *Library) setImageFile(o *Object, name string) error {
	if o.image.Filename == name && o.image.handle.Valid() {
		return nil
	}
	h, err := l.Images.Acquire(name)
	if err != nil {
		return err
	}
	l.Images.Release(o.image.handle)
	o.image.Filename, o.image.handle = name, h
	return nil
}

func (l *Library) setSoundFile(o *Object, name string) error {
	if o.sound.Filename == name && o.sound.handle.Valid() {
		return nil
	}
	h, err := l.Sounds.Acquire(name)
	if err != nil {
		return err
	}
	l.Sounds.Release(o.sound.handle)
	o.sound.Filename, o.sound.handle = name, h
	return nil
}

// tileIndex accepts a number or a one-character string.
func tileIndex(v any) int {
	var n int
	switch v := v.(type) {
	case string:
		if v == "" {
			return 0
		}
		n = int(v[0])
	default:
		n, _ = toInt(v)
	}
	return ((n % tileSetSize) + tileSetSize) % tileSetSize
}

// assetRefs lists the image and sound files named by typed object
// definitions anywhere under v.
func assetRefs(v any, locale string, images, sounds map[string]struct{}) {
	switch v := v.(type) {
	case Record:
		if kind, ok := parseKind(v.String(keyType, "")); ok && (kind == KindImage || kind == KindSound) {
			name := v.String(keyFilename, "")
			if byLocale := v.Record(keyFilename); byLocale != nil {
				name = byLocale.String(locale, "")
			}
			if name != "" {
				if kind == KindImage {
					images[name] = struct{}{}
				} else {
					sounds[name] = struct{}{}
				}
			}
		}
		for _, e := range v {
			assetRefs(e, locale, images, sounds)
		}
	case List:
		for _, e := range v {
			assetRefs(e, locale, images, sounds)
		}
	}
}
