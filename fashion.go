package splash

import (
	"cmp"
	"slices"
)

// Fashion is a named transition engine: a baseline Style plus an ordered list
// of transitions. GetStyle derives the effective style at a local timestamp.
//
// Transitions are evaluated in registration order. When two active
// transitions touch the same field the later one is mixed last and wins.
type Fashion struct {
	ID string

	cfg         *Config
	style       *Style // baseline
	origin      *Style // baseline before any fold, restored by Clear(nil)
	current     *Style
	last        *Style
	transitions []*Transition
	due         []*Transition // scratch for GetStyle
	memo        int
}

// NewFashion creates an empty fashion with a default baseline.
func NewFashion(id string) *Fashion {
	return &Fashion{
		ID:      id,
		style:   NewStyle(),
		current: NewStyle(),
		last:    NewStyle(),
		memo:    -1,
	}
}

// Style returns the baseline style. Mutating it takes effect on the next
// GetStyle call.
func (f *Fashion) Style() *Style { return f.style }

// Current returns the last computed style without recomputing it.
func (f *Fashion) Current() *Style { return f.current }

// Transitions returns the transitions in registration order.
func (f *Fashion) Transitions() []*Transition { return f.transitions }

// AddTransition appends a transition over [in, out] and returns its target
// style for the caller to fill. An inverted window panics in debug mode and
// is clamped to out = in otherwise.
func (f *Fashion) AddTransition(in, out int, speedIn, speedOut float64, period int) *Style {
	return f.addTransition(in, out, speedIn, speedOut, period).target
}

func (f *Fashion) addTransition(in, out int, speedIn, speedOut float64, period int) *Transition {
	if in > out {
		f.cfg.invariantf("Fashion.AddTransition: inverted window [%d, %d] in fashion %q", in, out, f.ID)
		out = in
	}
	tr := newTransition(in, out, speedIn, speedOut, period)
	f.transitions = append(f.transitions, tr)
	f.memo = -1
	return tr
}

// GetStyle returns the effective style at local time ts.
//
// Elapsed transitions are folded into the baseline first, in the order their
// windows ended, so skipped frames give the same baseline. If the baseline
// changed or any window is open, the scratch style is rebuilt from the
// baseline, each open transition is mixed in at its eased ratio, and the
// result is added onto the current style.
func (f *Fashion) GetStyle(ts int) *Style {
	if ts == f.memo && f.style.HasChanged() == 0 {
		return f.current
	}
	f.memo = ts
	if f.origin == nil {
		f.origin = f.style.Clone()
	}

	for _, tr := range f.transitions {
		if tr.expired(ts) {
			f.due = append(f.due, tr)
		}
	}
	slices.SortStableFunc(f.due, func(a, b *Transition) int {
		return cmp.Compare(a.lastEnd(ts), b.lastEnd(ts))
	})
	for i, tr := range f.due {
		tr.fold(f.style, ts)
		f.due[i] = nil
	}
	f.due = f.due[:0]

	anyActive := false
	for _, tr := range f.transitions {
		if tr.active(ts) {
			anyActive = true
			break
		}
	}

	if f.style.HasChangedSinceLastTime() != 0 || anyActive {
		f.last.Copy(f.style)
		for _, tr := range f.transitions {
			if tr.active(ts) {
				f.last.Mix(tr.target, tr.Ratio(ts))
			}
		}
		f.current.Add(f.last)
	}
	return f.current
}

// Clear rewinds every transition to its first revolution. With a baseline,
// the fashion adopts it. Without one, the baseline returns to its state
// before any transition was folded and the current style is reset.
func (f *Fashion) Clear(baseline *Style) {
	for _, tr := range f.transitions {
		tr.reset()
	}
	f.memo = -1
	if baseline != nil {
		f.style.Copy(baseline)
		f.current.Copy(baseline)
		f.origin = nil
		return
	}
	if f.origin != nil {
		f.style.Copy(f.origin)
	}
	f.style.Touch()
	f.current.Reset()
}

// Clone returns a deep copy. Baseline and every transition target are new
// instances, so the copy animates independently.
func (f *Fashion) Clone() *Fashion {
	c := &Fashion{
		ID:      f.ID,
		cfg:     f.cfg,
		style:   f.style.Clone(),
		current: f.current.Clone(),
		last:    f.last.Clone(),
		memo:    -1,
	}
	if f.origin != nil {
		c.origin = f.origin.Clone()
	}
	c.transitions = make([]*Transition, len(f.transitions))
	for i, tr := range f.transitions {
		c.transitions[i] = tr.clone()
	}
	return c
}
