package splash

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// PointerMode selects when pointer samples are dispatched to the scene.
type PointerMode uint8

const (
	// PointerInactive ignores the pointer.
	PointerInactive PointerMode = iota
	// PointerActive dispatches every tick.
	PointerActive
	// PointerObject dispatches only while the cursor object is displayed and
	// its user value is not negative.
	PointerObject
)

// preloadLimit bounds concurrent asset loads during an import.
const preloadLimit = 4

// Engine drives a scene: it owns the Library and the root animation, turns
// wall-clock ticks into scene time and runs the frame listeners.
//
// Tick, Start, Stop, Pause and the pointer setters must be called from one
// goroutine. Progress may be read from any goroutine.
type Engine struct {
	lib  *Library
	root *Object

	listeners listenerRegistry
	mode      PointerMode

	pointerX, pointerY int
	pressed            bool

	running  bool
	paused   bool
	begin    int
	pausedAt int
	lastTick int
	ticked   bool
	delay    int

	frame      int
	frameSec   int
	lastSecond int

	progress atomic.Int32
}

// NewEngine creates an engine with an empty library and a static root
// animation registered as "root".
func NewEngine(cfg Config) *Engine {
	lib := NewLibrary(cfg)
	root := lib.Create(KindAnimation, RootID)
	root.anim.Static = true
	e := &Engine{lib: lib, root: root, delay: 1}
	if fps := lib.cfg.FPS; fps > 0 {
		e.delay = max(1000/fps, 1)
	}
	return e
}

// Library returns the object library.
func (e *Engine) Library() *Library { return e.lib }

// Root returns the root animation.
func (e *Engine) Root() *Animation { return e.root.anim }

// SetViewport sizes the root animation to the drawing surface.
func (e *Engine) SetViewport(w, h int) {
	s := e.root.fashion.Style()
	s.SetLeft(0)
	s.SetTop(0)
	s.SetWidth(float64(w))
	s.SetHeight(float64(h))
	e.root.position = Rect{W: w, H: h}
}

// SetPointerMode selects when the pointer is dispatched.
func (e *Engine) SetPointerMode(m PointerMode) { e.mode = m }

// SetPointer records the latest pointer sample. The cursor object, if any,
// follows it immediately; dispatch happens on the next tick.
func (e *Engine) SetPointer(x, y int, pressed bool) {
	if e.mode == PointerInactive {
		return
	}
	e.pointerX, e.pointerY, e.pressed = x, y, pressed
	if cur, ax, ay := e.lib.Cursor(); cur != nil {
		s := cur.fashion.Style()
		s.SetLeft(float64(x) - float64(ax)*s.Width()/10)
		s.SetTop(float64(y) - float64(ay)*s.Height()/10)
	}
}

// Start begins running at wall-clock time nowMs (milliseconds).
func (e *Engine) Start(nowMs int) {
	e.running = true
	e.paused = false
	e.begin = nowMs
	e.ticked = false
	e.frame, e.frameSec, e.lastSecond = 0, 0, 0
	e.lib.cfg.logf("Engine.Start (fps: %d)", e.lib.cfg.FPS)
}

// Stop ends the run; the next Tick returns false. Stop listeners run in
// priority order until one reports it handled the stop.
func (e *Engine) Stop() {
	e.running = false
	for _, l := range slices.Clone(e.listeners.stop) {
		if l.fn() {
			break
		}
	}
	e.lib.cfg.logf("Engine.Stop (frame: %d)", e.frame)
}

// Close stops the engine if it is running and deletes every library
// object, releasing the content they hold. The engine must not be used
// afterwards.
func (e *Engine) Close() {
	if e.running {
		e.Stop()
	}
	e.lib.Clear()
}

// Pause toggles the pause state at wall-clock time nowMs. Scene time is
// frozen while paused and resumes where it stopped. It returns the new
// state.
func (e *Engine) Pause(nowMs int) bool {
	if e.paused {
		e.begin += nowMs - e.pausedAt
		e.paused = false
	} else {
		e.pausedAt = nowMs
		e.paused = true
	}
	return e.paused
}

// Running reports whether the engine has been started and not stopped.
func (e *Engine) Running() bool { return e.running }

// Paused reports whether scene time is frozen.
func (e *Engine) Paused() bool { return e.paused }

// Frame returns the number of frames run so far.
func (e *Engine) Frame() int { return e.frame }

// Tick advances the scene to wall-clock time nowMs. A frame runs when the
// engine is neither paused nor throttled by the frame rate cap: the pointer
// is dispatched, frame listeners run, the scene is updated, then second
// listeners run when the second changed. Tick returns false once the engine
// is stopped.
func (e *Engine) Tick(nowMs int) bool {
	if !e.running {
		return false
	}
	if e.paused || (e.ticked && nowMs < e.lastTick+e.delay) {
		return true
	}
	e.ticked = true
	e.lastTick = nowMs
	ts := nowMs - e.begin

	if e.dispatchable() {
		cur, _, _ := e.lib.Cursor()
		e.root.anim.dispatchPointer(pointerEvent{ts: ts, pressed: e.pressed, cursor: cur}, e.pointerX, e.pointerY, false)
	}

	for _, l := range slices.Clone(e.listeners.frame) {
		l.fn(e.frame, ts)
	}

	e.root.Update(ts)

	if sec := ts / 1000; sec != e.lastSecond {
		e.lastSecond = sec
		for _, l := range slices.Clone(e.listeners.second) {
			l.fn(e.frame, e.frameSec, sec)
		}
		e.lib.cfg.logf("Engine.onSecond (second: %d) (fps: %d)", sec, e.frameSec)
		e.frameSec = 0
	}

	e.frame++
	e.frameSec++
	return true
}

func (e *Engine) dispatchable() bool {
	switch e.mode {
	case PointerActive:
		return true
	case PointerObject:
		cur, _, _ := e.lib.Cursor()
		if cur == nil {
			return false
		}
		s := cur.Style()
		return s.Display() && s.User() >= 0
	}
	return false
}

// --- import ---

// Progress returns the import progress from 0 to 100.
func (e *Engine) Progress() int { return int(e.progress.Load()) }

// Import builds the scene from a document: the object definitions under
// scene.library, then the root animation under scene.animation. A document
// without a scene key is read as the scene itself.
func (e *Engine) Import(ctx context.Context, doc Record) error {
	e.progress.Store(0)
	defer e.progress.Store(100)

	scene := doc.Record("scene")
	if scene == nil {
		scene = doc
	}

	if err := e.preload(ctx, scene); err != nil {
		return err
	}
	e.progress.Store(50)

	defs := scene.List("library")
	for i, v := range defs {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, ok := v.(Record)
		if !ok {
			continue
		}
		if _, err := e.lib.ImportObject(rec); err != nil {
			return err
		}
		e.progress.Store(int32(50 + 40*(i+1)/len(defs)))
	}

	if anim := scene.Record("animation"); anim != nil {
		if err := e.lib.Apply(e.root, anim); err != nil {
			return err
		}
	}
	e.lib.cfg.logf("Engine.Import (objects: %d)", e.lib.Len())
	return nil
}

// ImportAsync runs Import on a new goroutine and delivers its result on the
// returned channel. The engine must not be used, apart from Progress, until
// the result is received.
func (e *Engine) ImportAsync(ctx context.Context, doc Record) <-chan error {
	done := make(chan error, 1)
	e.progress.Store(0)
	go func() {
		done <- e.Import(ctx, doc)
	}()
	return done
}

// preload loads every asset named by a typed definition concurrently so
// that the sequential build only takes references.
func (e *Engine) preload(ctx context.Context, scene Record) error {
	images := make(map[string]struct{})
	sounds := make(map[string]struct{})
	assetRefs(scene, e.lib.cfg.Locale, images, sounds)
	total := len(images) + len(sounds)
	if total == 0 {
		return nil
	}

	var loaded atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)
	spawn := func(load func(string) error, name string) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := load(name); err != nil {
				return fmt.Errorf("splash: preload: %w", err)
			}
			n := loaded.Add(1)
			e.progress.Store(50 * n / int32(total))
			return nil
		})
	}
	for name := range images {
		spawn(e.lib.Images.Preload, name)
	}
	for name := range sounds {
		spawn(e.lib.Sounds.Preload, name)
	}
	return g.Wait()
}

// Dump writes the library and the root crowd as YAML.
func (e *Engine) Dump(w io.Writer) error { return e.lib.Dump(w, e.root.anim) }

// --- listeners ---

type listenerKind uint8

const (
	listenFrame listenerKind = iota
	listenSecond
	listenStop
)

type listener[F any] struct {
	id       uint32
	priority int
	fn       F
}

type listenerRegistry struct {
	frame  []listener[func(frame, ts int)]
	second []listener[func(frame, frameSec, second int)]
	stop   []listener[func() bool]
	nextID uint32
}

// CallbackHandle allows removing a registered engine listener.
type CallbackHandle struct {
	id   uint32
	reg  *listenerRegistry
	kind listenerKind
}

// Remove unregisters the listener so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case listenFrame:
		h.reg.frame = removeListener(h.reg.frame, h.id)
	case listenSecond:
		h.reg.second = removeListener(h.reg.second, h.id)
	case listenStop:
		h.reg.stop = removeListener(h.reg.stop, h.id)
	}
}

// insertListener keeps s ordered by ascending priority; l goes after the
// listeners already registered with the same priority.
func insertListener[F any](s []listener[F], l listener[F]) []listener[F] {
	i := 0
	for i < len(s) && s[i].priority <= l.priority {
		i++
	}
	return slices.Insert(s, i, l)
}

func removeListener[F any](s []listener[F], id uint32) []listener[F] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listener[F]{}
			return s[:len(s)-1]
		}
	}
	return s
}

// OnFrame registers fn to run before every scene update. Lower priorities
// run first.
func (e *Engine) OnFrame(priority int, fn func(frame, ts int)) CallbackHandle {
	e.listeners.nextID++
	id := e.listeners.nextID
	e.listeners.frame = insertListener(e.listeners.frame, listener[func(int, int)]{id: id, priority: priority, fn: fn})
	return CallbackHandle{id: id, reg: &e.listeners, kind: listenFrame}
}

// OnSecond registers fn to run after the update of the first frame of each
// new second, with the number of frames run during the previous second.
func (e *Engine) OnSecond(priority int, fn func(frame, frameSec, second int)) CallbackHandle {
	e.listeners.nextID++
	id := e.listeners.nextID
	e.listeners.second = insertListener(e.listeners.second, listener[func(int, int, int)]{id: id, priority: priority, fn: fn})
	return CallbackHandle{id: id, reg: &e.listeners, kind: listenSecond}
}

// OnStop registers fn to run when the engine is stopped. Returning true
// stops the propagation to lower-priority listeners.
func (e *Engine) OnStop(priority int, fn func() bool) CallbackHandle {
	e.listeners.nextID++
	id := e.listeners.nextID
	e.listeners.stop = insertListener(e.listeners.stop, listener[func() bool]{id: id, priority: priority, fn: fn})
	return CallbackHandle{id: id, reg: &e.listeners, kind: listenStop}
}
