package splash

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// Transition drives a Style toward its target over the time window
// [In, Out] (milliseconds, relative to the owner's entry time).
//
// Without an Ease function the ratio follows the cubic r(t) = a·t³ + b·t² + c·t
// whose end slopes are SpeedIn and SpeedOut, so speeds of 1/1 are linear.
// A positive Period replays the window every Period milliseconds.
type Transition struct {
	In, Out  int
	SpeedIn  float64
	SpeedOut float64
	Period   int

	// Ease, when set, replaces the cubic curve. EaseName is the name it was
	// resolved from, kept for dumps.
	Ease     ease.TweenFunc
	EaseName string

	target *Style
	rev    int
	done   bool
}

func newTransition(in, out int, speedIn, speedOut float64, period int) *Transition {
	return &Transition{
		In:       in,
		Out:      out,
		SpeedIn:  speedIn,
		SpeedOut: speedOut,
		Period:   max(period, 0),
		target:   NewStyle(),
	}
}

// Target returns the style the transition interpolates toward. Callers fill
// it after AddTransition.
func (t *Transition) Target() *Style { return t.target }

// Revolution returns how many periods have been folded so far.
func (t *Transition) Revolution() int { return t.rev }

// Done reports whether a one-shot transition has been folded into the
// baseline.
func (t *Transition) Done() bool { return t.done }

// Ratio returns the eased progress in [0, 1] at local time ts.
func (t *Transition) Ratio(ts int) float64 {
	ts -= t.rev * t.Period
	if ts < t.In {
		return 0
	}
	if ts >= t.Out {
		return 1
	}
	x := float64(ts-t.In) / float64(t.Out-t.In)
	if t.Ease != nil {
		return float64(t.Ease(float32(x), 0, 1, 1))
	}
	return cubicEase(x, t.SpeedIn, t.SpeedOut)
}

// active reports whether ts falls strictly inside the current revolution's
// window.
func (t *Transition) active(ts int) bool {
	shift := t.rev * t.Period
	return t.In+shift < ts && ts < t.Out+shift
}

// expired reports whether the current revolution's window has elapsed and
// has not been folded yet.
func (t *Transition) expired(ts int) bool {
	return !t.done && t.Out+t.rev*t.Period <= ts
}

// lastEnd returns the end of the latest window that closed at or before ts.
// Only meaningful when expired(ts).
func (t *Transition) lastEnd(ts int) int {
	end := t.Out + t.rev*t.Period
	if t.Period > 0 {
		end += (ts - end) / t.Period * t.Period
	}
	return end
}

// fold merges the target into baseline. One-shot transitions are then done;
// periodic ones skip ahead to the revolution containing ts.
func (t *Transition) fold(baseline *Style, ts int) {
	baseline.Add(t.target)
	if t.Period <= 0 {
		t.done = true
		return
	}
	t.rev += (ts-(t.Out+t.rev*t.Period))/t.Period + 1
}

func (t *Transition) reset() {
	t.rev = 0
	t.done = false
}

func (t *Transition) clone() *Transition {
	c := *t
	c.target = t.target.Clone()
	return &c
}

// cubicEase evaluates the cubic with r(0)=0, r(1)=1, r'(0)=speedIn and
// r'(1)=speedOut.
func cubicEase(x, speedIn, speedOut float64) float64 {
	a := speedIn + speedOut - 2
	b := 3 - 2*speedIn - speedOut
	c := speedIn
	return ((a*x+b)*x + c) * x
}

var easeByName = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"inexpo":     ease.InExpo,
	"outexpo":    ease.OutExpo,
	"inback":     ease.InBack,
	"outback":    ease.OutBack,
	"inbounce":   ease.InBounce,
	"outbounce":  ease.OutBounce,
	"inelastic":  ease.InElastic,
	"outelastic": ease.OutElastic,
}

// EaseByName resolves a curve name such as "outBounce" or "in-out-sine".
// Matching ignores case, dashes and underscores.
func EaseByName(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	fn, ok := easeByName[key]
	return fn, ok
}
