package splash

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Painter renders a scene onto an ebiten image, redrawing only the dirty
// rectangles reported by the root animation. The target must keep its
// content between frames (see ebiten.SetScreenClearedEveryFrame).
type Painter struct {
	// Background, if set, is copied under every redrawn area. Otherwise the
	// area is filled with ClearColor.
	Background *ebiten.Image
	ClearColor color.Color
	// ScreenshotDir receives the captures queued with Screenshot.
	ScreenshotDir string
	// OnScreenshot, if set, is called after each capture with its path and
	// the write error, if any.
	OnScreenshot func(path string, err error)

	lib   *Library
	op    ebiten.DrawImageOptions
	shots []string
	frame int
}

// NewPainter creates a painter resolving image content through lib.
func NewPainter(lib *Library) *Painter {
	return &Painter{lib: lib, ClearColor: color.Black}
}

// Draw refreshes dst from root and forgets the dirty rectangles. It reports
// whether the whole target was redrawn and how many areas were painted.
func (p *Painter) Draw(dst *ebiten.Image, root *Animation) (full bool, areas int) {
	b := dst.Bounds()
	full, rects := root.RedrawPlan(b.Dx(), b.Dy())
	switch {
	case full:
		p.paint(dst, root, Rect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()})
		areas = 1
	default:
		for _, r := range rects {
			sub := dst.SubImage(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)).(*ebiten.Image)
			p.paint(sub, root, r)
		}
		areas = len(rects)
	}
	root.ResetDirty()
	p.capture(dst)
	return full, areas
}

// Redraw paints the whole scene regardless of the dirty state.
func (p *Painter) Redraw(dst *ebiten.Image, root *Animation) {
	b := dst.Bounds()
	p.paint(dst, root, Rect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()})
	root.ResetDirty()
	p.capture(dst)
}

func (p *Painter) config() *Config {
	if p.lib == nil {
		return nil
	}
	return &p.lib.cfg
}

func (p *Painter) paint(dst *ebiten.Image, root *Animation, clip Rect) {
	if p.Background != nil {
		p.op.GeoM.Reset()
		p.op.ColorScale.Reset()
		dst.DrawImage(p.Background, &p.op)
	} else {
		dst.Fill(p.ClearColor)
	}
	p.drawCrowd(dst, root, 0, 0, clip)
}

func (p *Painter) drawCrowd(dst *ebiten.Image, a *Animation, ox, oy int, clip Rect) {
	a.crowd.ForEach(func(o *Object) bool {
		s := o.Style()
		if !s.Display() || o.Kind == KindSound {
			return true
		}
		r := o.position
		r.X += ox
		r.Y += oy
		if !r.Intersects(clip) {
			return true
		}
		alpha := float32(s.Opacity()) / 255

		switch o.Kind {
		case KindSolid:
			cr, cg, cb := s.BackgroundColor()
			vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H),
				color.NRGBA{R: uint8(cr), G: uint8(cg), B: uint8(cb), A: uint8(s.Opacity())}, false)
		case KindImage:
			p.drawImage(dst, o, r, alpha)
		case KindAnimation:
			p.drawCrowd(dst, o.anim, r.X, r.Y, clip)
		}
		return true
	}, "", true)
}

func (p *Painter) drawImage(dst *ebiten.Image, o *Object, r Rect, alpha float32) {
	if p.lib == nil {
		return
	}
	img, ok := p.lib.Images.Get(o.image.handle)
	if !ok || img == nil {
		return
	}
	src := tileRect(img.Bounds(), o.image.Tile, o.source)
	if src.Empty() {
		return
	}
	p.op.GeoM.Reset()
	p.op.GeoM.Translate(float64(r.X), float64(r.Y))
	p.op.ColorScale.Reset()
	p.op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(img.SubImage(src).(*ebiten.Image), &p.op)
}

// tileRect returns the part of a bitmap an image object shows. Tiles are
// laid out row by row with the size of the source rectangle; a negative tile
// shows the source rectangle itself.
func tileRect(bounds image.Rectangle, tile int, source Rect) image.Rectangle {
	if source.W <= 0 || source.H <= 0 {
		return image.Rectangle{}
	}
	x, y := source.X, source.Y
	if tile >= 0 {
		cols := max(bounds.Dx()/source.W, 1)
		x = bounds.Min.X + tile%cols*source.W
		y = bounds.Min.Y + tile/cols*source.H
	}
	return image.Rect(x, y, x+source.W, y+source.H).Intersect(bounds)
}
