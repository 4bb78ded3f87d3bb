package splash

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next painted frame. Captures
// are written to ScreenshotDir (default "screenshots") as
// "<label>-<frame>.png", where frame counts the painter's draws, so a
// scripted run produces the same names every time.
func (p *Painter) Screenshot(label string) {
	p.shots = append(p.shots, label)
}

// Frame returns the number of frames painted so far.
func (p *Painter) Frame() int { return p.frame }

// capture counts the painted frame and saves the queued screenshots of dst.
func (p *Painter) capture(dst *ebiten.Image) {
	p.frame++
	if len(p.shots) == 0 {
		return
	}
	b := dst.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	// Both ebiten and image.RGBA store premultiplied alpha.
	dst.ReadPixels(img.Pix)
	p.saveScreenshots(img)
}

// saveScreenshots writes img once per queued label and empties the queue.
func (p *Painter) saveScreenshots(img image.Image) {
	labels := p.shots
	p.shots = nil

	dir := p.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		p.screenshotDone(dir, fmt.Errorf("splash: screenshot: %w", err))
		return
	}
	for _, label := range labels {
		path := filepath.Join(dir, screenshotName(label, p.frame))
		p.screenshotDone(path, writePNG(path, img))
	}
}

func (p *Painter) screenshotDone(path string, err error) {
	if err != nil {
		p.config().logf("Painter.Screenshot (path: %s) (error: %v)", path, err)
	} else {
		p.config().logf("Painter.Screenshot (path: %s)", path)
	}
	if p.OnScreenshot != nil {
		p.OnScreenshot(path, err)
	}
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("splash: screenshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("splash: screenshot: %w", cerr)
		}
	}()
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		return fmt.Errorf("splash: screenshot %s: %w", path, err)
	}
	return nil
}

// screenshotName joins the letter and digit runs of label with '-' and
// appends the frame number.
func screenshotName(label string, frame int) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	name := strings.Join(words, "-")
	if name == "" {
		name = "frame"
	}
	return fmt.Sprintf("%s-%06d.png", name, frame)
}
