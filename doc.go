// Package splash is a temporal animation and scene composition core for
// [Ebitengine].
//
// A scene is a tree of objects. Each object carries a set of named
// fashions: a baseline [Style] plus timed transitions that interpolate
// between styles. Objects live in a [Library] by identity and become visible
// when inserted into the [Crowd] of an animation. Animations run a
// [Timeline] of scripted events (create, close, goto, fashion changes, ...)
// and collect the rectangles that need a redraw.
//
// # Quick start
//
// Build the scene from a YAML document and drive it from an [ebiten.Game]:
//
//	engine := splash.NewEngine(splash.Config{FPS: 60})
//	doc, err := splash.LoadYAML("scene.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := engine.Import(ctx, doc); err != nil {
//		log.Fatal(err)
//	}
//	engine.SetViewport(640, 480)
//	engine.Start(0)
//
//	func (g *Game) Update() error {
//		g.now += 1000 / ebiten.TPS()
//		g.engine.Tick(g.now)
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.painter.Draw(screen, g.engine.Root())
//	}
//
// # Fashions and transitions
//
// A transition has an [in, out] window in milliseconds of the object's local
// clock, two speeds shaping a cubic easing curve (or a named [gween] curve)
// and an optional period. Once a transition ends its target is folded into
// the baseline, so the last value sticks. Periodic transitions restart every
// period.
//
// # Dirty rectangles
//
// Every changed object reports the union of its old and new positions to its
// animation. Static animations forward rectangles to their parent; dynamic
// ones merge intersecting rectangles into a bounded list. [Animation.RedrawPlan]
// tells a renderer whether to clear everything or only the merged areas;
// [Painter] is such a renderer.
//
// # Debugging
//
// Set [Config.Debug] to log every scene operation and to turn misuse, such as
// mutating a crowd from inside [Crowd.ForEach], into a panic.
// [Engine.Dump] lists the library and the live crowds as YAML.
//
// [LoadScript] replays pointer input from a YAML script, one sample per
// frame, and [Painter.Screenshot] saves the painted frame as a PNG, so
// interactive scenes can be checked without a mouse.
//
// # ECS integration
//
// Library notifications (create, delete, show, hide, pointer over, click and
// out) can be forwarded to an entity component system through a
// [NotificationSink]. The splash/ecs sub-module provides one for [Donburi].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package splash
