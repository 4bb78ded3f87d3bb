package splash

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by a Library and everything it creates.
// Zero values are replaced by defaults.
type Config struct {
	// Debug turns invariant violations into panics and enables the
	// "[splash] ..." trace written to Log.
	Debug bool
	// Log receives the debug trace. Defaults to os.Stderr.
	Log io.Writer
	// MaxDirtyRects caps the merged rectangles kept per dynamic animation.
	// Past the cap the animation asks for a full redraw. Defaults to 256.
	MaxDirtyRects int
	// Locale selects the per-locale variant of file names. Defaults to "fr".
	Locale string
	// FPS caps the engine tick rate. Zero means uncapped.
	FPS int
}

const (
	defaultMaxDirtyRects = 256
	defaultLocale        = "fr"
)

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = os.Stderr
	}
	if c.MaxDirtyRects <= 0 {
		c.MaxDirtyRects = defaultMaxDirtyRects
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	if c.FPS < 0 {
		c.FPS = 0
	}
	return c
}

// logf writes one trace line when debug mode is on. A nil config is silent.
func (c *Config) logf(format string, args ...any) {
	if c == nil || !c.Debug || c.Log == nil {
		return
	}
	_, _ = fmt.Fprintf(c.Log, "[splash] "+format+"\n", args...)
}

// invariantf reports a programming error. Debug mode panics; release mode
// returns and the caller applies its deterministic fallback.
func (c *Config) invariantf(format string, args ...any) {
	if c == nil || !c.Debug {
		return
	}
	panic(fmt.Sprintf("splash debug: "+format, args...))
}

// --- Dump ---

type dumpObject struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	Tag      string `yaml:"tag"`
	ZIndex   int    `yaml:"z-index"`
	State    int    `yaml:"state,omitempty"`
	Fashion  string `yaml:"fashion"`
	Position [4]int `yaml:"position,flow"`
	InCrowd  bool   `yaml:"in-crowd,omitempty"`
}

type dumpEvent struct {
	TS    int      `yaml:"ts"`
	Event string   `yaml:"event"`
	IDs   []string `yaml:"id,omitempty,flow"`
}

type dumpAnimation struct {
	ID         string              `yaml:"id"`
	Static     bool                `yaml:"static"`
	Timeline   string              `yaml:"timeline"`
	NextEvent  int                 `yaml:"next-event"`
	Events     []dumpEvent         `yaml:"events,omitempty"`
	Crowd      map[string][]string `yaml:"crowd,omitempty"`
	DirtyRects [][4]int            `yaml:"dirty-rects,omitempty,flow"`
	Pixels     int                 `yaml:"pixels,omitempty"`
	Children   []*dumpAnimation    `yaml:"children,omitempty"`
}

type dumpDoc struct {
	Library []dumpObject   `yaml:"library"`
	Root    *dumpAnimation `yaml:"root,omitempty"`
}

// Dump writes a YAML listing of the library and, when root is not nil, of
// the crowd and timeline state below it.
func (l *Library) Dump(w io.Writer, root *Animation) error {
	doc := dumpDoc{}
	for _, o := range l.order {
		p := o.position
		doc.Library = append(doc.Library, dumpObject{
			ID:       o.ID,
			Type:     o.Kind.String(),
			Tag:      o.tag,
			ZIndex:   o.zIndex,
			State:    o.State,
			Fashion:  o.fashionID,
			Position: [4]int{p.X, p.Y, p.W, p.H},
			InCrowd:  o.crowd != nil,
		})
	}
	if root != nil {
		doc.Root = dumpAnim(root)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("splash: dump: %w", err)
	}
	return enc.Close()
}

func dumpAnim(a *Animation) *dumpAnimation {
	d := &dumpAnimation{
		ID:        a.obj.ID,
		Static:    a.Static,
		Timeline:  a.timelineID,
		NextEvent: a.timeline.index,
		Pixels:    a.pixels,
	}
	for _, e := range a.timeline.events {
		d.Events = append(d.Events, dumpEvent{TS: e.Timestamp, Event: e.Name, IDs: e.Targets})
	}
	for _, r := range a.DirtyRects() {
		d.DirtyRects = append(d.DirtyRects, [4]int{r.X, r.Y, r.W, r.H})
	}
	for _, tag := range a.crowd.tags {
		if d.Crowd == nil {
			d.Crowd = make(map[string][]string)
		}
		for _, o := range a.crowd.buckets[tag] {
			d.Crowd[tag] = append(d.Crowd[tag], o.ID)
			if o.anim != nil {
				d.Children = append(d.Children, dumpAnim(o.anim))
			}
		}
	}
	return d
}
