package splash

// Field is a bitmask of Style properties. It is used both as a presence mask
// (which fields a Style is authoritative for) and as a change mask.
type Field uint16

const (
	FieldDisplay Field = 1 << iota
	FieldLeft
	FieldTop
	FieldWidth
	FieldHeight
	FieldBackgroundColor
	FieldPositionX
	FieldPositionY
	FieldOpacity
	FieldRelativeLeft
	FieldRelativeTop
	FieldUser

	fieldEnd
)

// FieldAll has every property bit set.
const FieldAll = fieldEnd - 1

// FieldPosition covers both source offset axes.
const FieldPosition = FieldPositionX | FieldPositionY

// Style is a sparse, change-tracked bag of visual attributes.
//
// Every setter marks its field present and flags it changed when the value
// seen by integer rasterization (the truncated value) differs from the old
// one. Presence bits are only cleared by Reset.
type Style struct {
	present Field
	changed Field

	left, top            float64
	relativeLeft         float64
	relativeTop          float64
	width, height        float64
	backgroundColor      [3]int
	positionX, positionY float64
	display              bool
	opacity              int
	user                 float64
}

// NewStyle returns an empty style holding the default values.
func NewStyle() *Style {
	s := &Style{}
	s.Reset()
	return s
}

// Clone returns an independent copy of s, including its masks.
func (s *Style) Clone() *Style {
	c := *s
	return &c
}

// Reset restores every field to its default, clears presence and marks the
// whole style changed so the next consumer sees it as new.
func (s *Style) Reset() {
	*s = Style{display: true, opacity: 255}
	s.Touch()
}

// Touch forces every field to read as changed without altering values.
func (s *Style) Touch() {
	s.changed = FieldAll
}

// Copy overwrites s with other. The presence mask is copied and every present
// field is marked changed.
func (s *Style) Copy(other *Style) {
	if other == nil || other == s {
		return
	}
	*s = *other
	s.changed = other.present
}

// Add overwrites the fields present in other. Each overwritten field is
// marked changed only if its value differs.
func (s *Style) Add(other *Style) {
	if other == nil || other == s {
		return
	}
	p := other.present
	if p&FieldLeft != 0 {
		s.SetLeft(other.left)
	}
	if p&FieldTop != 0 {
		s.SetTop(other.top)
	}
	if p&FieldRelativeLeft != 0 {
		s.SetRelativeLeft(other.relativeLeft)
	}
	if p&FieldRelativeTop != 0 {
		s.SetRelativeTop(other.relativeTop)
	}
	if p&FieldWidth != 0 {
		s.SetWidth(other.width)
	}
	if p&FieldHeight != 0 {
		s.SetHeight(other.height)
	}
	if p&FieldDisplay != 0 {
		s.SetDisplay(other.display)
	}
	if p&FieldOpacity != 0 {
		s.SetOpacity(other.opacity)
	}
	if p&FieldUser != 0 {
		s.SetUser(other.user)
	}
	if p&FieldBackgroundColor != 0 {
		s.SetBackgroundColor(other.backgroundColor[0], other.backgroundColor[1], other.backgroundColor[2])
	}
	if p&FieldPositionX != 0 {
		s.SetPositionX(other.positionX)
	}
	if p&FieldPositionY != 0 {
		s.SetPositionY(other.positionY)
	}
}

// Mix moves the fields present in both s and other toward other's values.
// A ratio of 0 leaves s untouched and 1 copies other's values. Colors and
// opacity are interpolated as integers, the rest as floats. Display is not
// interpolated: it switches once the ratio reaches 1.
func (s *Style) Mix(other *Style, ratio float64) {
	if other == nil || other == s {
		return
	}
	ratio = clampRatio(ratio)
	both := s.present & other.present
	if both&FieldLeft != 0 {
		s.SetLeft(mixFloat(s.left, other.left, ratio))
	}
	if both&FieldTop != 0 {
		s.SetTop(mixFloat(s.top, other.top, ratio))
	}
	if both&FieldRelativeLeft != 0 {
		s.SetRelativeLeft(mixFloat(s.relativeLeft, other.relativeLeft, ratio))
	}
	if both&FieldRelativeTop != 0 {
		s.SetRelativeTop(mixFloat(s.relativeTop, other.relativeTop, ratio))
	}
	if both&FieldWidth != 0 {
		s.SetWidth(mixFloat(s.width, other.width, ratio))
	}
	if both&FieldHeight != 0 {
		s.SetHeight(mixFloat(s.height, other.height, ratio))
	}
	if both&FieldOpacity != 0 {
		s.SetOpacity(mixInt(s.opacity, other.opacity, ratio))
	}
	if both&FieldUser != 0 {
		s.SetUser(mixFloat(s.user, other.user, ratio))
	}
	if both&FieldBackgroundColor != 0 {
		s.SetBackgroundColor(
			mixInt(s.backgroundColor[0], other.backgroundColor[0], ratio),
			mixInt(s.backgroundColor[1], other.backgroundColor[1], ratio),
			mixInt(s.backgroundColor[2], other.backgroundColor[2], ratio),
		)
	}
	if both&FieldPositionX != 0 {
		s.SetPositionX(mixFloat(s.positionX, other.positionX, ratio))
	}
	if both&FieldPositionY != 0 {
		s.SetPositionY(mixFloat(s.positionY, other.positionY, ratio))
	}
	if both&FieldDisplay != 0 && ratio >= 1 {
		s.SetDisplay(other.display)
	}
}

// Compare returns the fields present in both styles whose rasterized values
// differ.
func (s *Style) Compare(other *Style) Field {
	var diff Field
	both := s.present & other.present
	check := func(f Field, differs bool) {
		if both&f != 0 && differs {
			diff |= f
		}
	}
	check(FieldLeft, truncDiffers(s.left, other.left))
	check(FieldTop, truncDiffers(s.top, other.top))
	check(FieldRelativeLeft, truncDiffers(s.relativeLeft, other.relativeLeft))
	check(FieldRelativeTop, truncDiffers(s.relativeTop, other.relativeTop))
	check(FieldWidth, truncDiffers(s.width, other.width))
	check(FieldHeight, truncDiffers(s.height, other.height))
	check(FieldOpacity, s.opacity != other.opacity)
	check(FieldUser, truncDiffers(s.user, other.user))
	check(FieldDisplay, s.display != other.display)
	check(FieldBackgroundColor, s.backgroundColor != other.backgroundColor)
	check(FieldPositionX, truncDiffers(s.positionX, other.positionX))
	check(FieldPositionY, truncDiffers(s.positionY, other.positionY))
	return diff
}

// HasChanged peeks at the change mask without consuming it.
func (s *Style) HasChanged() Field { return s.changed }

// HasChangedSinceLastTime returns the change mask and clears it.
func (s *Style) HasChangedSinceLastTime() Field {
	c := s.changed
	s.changed = 0
	return c
}

// Present returns the presence mask.
func (s *Style) Present() Field { return s.present }

// Has reports whether every field in f is present.
func (s *Style) Has(f Field) bool { return s.present&f == f }

// Left returns the x coordinate in the parent animation.
func (s *Style) Left() float64 { return s.left }

// Top returns the y coordinate in the parent animation.
func (s *Style) Top() float64 { return s.top }

// RelativeLeft returns the offset added to Left.
func (s *Style) RelativeLeft() float64 { return s.relativeLeft }

// RelativeTop returns the offset added to Top.
func (s *Style) RelativeTop() float64 { return s.relativeTop }

// Width returns the width in pixels.
func (s *Style) Width() float64 { return s.width }

// Height returns the height in pixels.
func (s *Style) Height() float64 { return s.height }

// Display reports whether the object is visible.
func (s *Style) Display() bool { return s.display }

// Opacity returns the opacity in [0, 255].
func (s *Style) Opacity() int { return s.opacity }

// User returns the free-form scalar.
func (s *Style) User() float64 { return s.user }

// BackgroundColor returns the RGB background color.
func (s *Style) BackgroundColor() (r, g, b int) {
	return s.backgroundColor[0], s.backgroundColor[1], s.backgroundColor[2]
}

// Position returns the source offset used by images and animations.
func (s *Style) Position() (x, y float64) {
	return s.positionX, s.positionY
}

// SetLeft sets the x coordinate in the parent animation.
func (s *Style) SetLeft(v float64) {
	s.setFloat(&s.left, v, FieldLeft)
}

// SetTop sets the y coordinate in the parent animation.
func (s *Style) SetTop(v float64) {
	s.setFloat(&s.top, v, FieldTop)
}

// SetRelativeLeft sets the offset added to Left.
func (s *Style) SetRelativeLeft(v float64) {
	s.setFloat(&s.relativeLeft, v, FieldRelativeLeft)
}

// SetRelativeTop sets the offset added to Top.
func (s *Style) SetRelativeTop(v float64) {
	s.setFloat(&s.relativeTop, v, FieldRelativeTop)
}

// SetWidth sets the width in pixels.
func (s *Style) SetWidth(v float64) {
	s.setFloat(&s.width, v, FieldWidth)
}

// SetHeight sets the height in pixels.
func (s *Style) SetHeight(v float64) {
	s.setFloat(&s.height, v, FieldHeight)
}

// SetUser sets the free-form scalar.
func (s *Style) SetUser(v float64) {
	s.setFloat(&s.user, v, FieldUser)
}

// SetPositionX sets the horizontal source offset.
func (s *Style) SetPositionX(v float64) {
	s.setFloat(&s.positionX, v, FieldPositionX)
}

// SetPositionY sets the vertical source offset.
func (s *Style) SetPositionY(v float64) {
	s.setFloat(&s.positionY, v, FieldPositionY)
}

// SetPosition sets both source offset axes.
func (s *Style) SetPosition(x, y float64) {
	s.SetPositionX(x)
	s.SetPositionY(y)
}

// SetBackgroundColor sets the RGB color. Channels are clamped to [0, 255].
func (s *Style) SetBackgroundColor(r, g, b int) {
	c := [3]int{clampByte(r), clampByte(g), clampByte(b)}
	if c != s.backgroundColor {
		s.changed |= FieldBackgroundColor
	}
	s.backgroundColor = c
	s.present |= FieldBackgroundColor
}

// SetOpacity sets the opacity, clamped to [0, 255].
func (s *Style) SetOpacity(v int) {
	v = clampByte(v)
	if v != s.opacity {
		s.changed |= FieldOpacity
	}
	s.opacity = v
	s.present |= FieldOpacity
}

// SetDisplay shows or hides the object.
func (s *Style) SetDisplay(v bool) {
	if v != s.display {
		s.changed |= FieldDisplay
	}
	s.display = v
	s.present |= FieldDisplay
}

func (s *Style) setFloat(dst *float64, v float64, f Field) {
	if truncDiffers(*dst, v) {
		s.changed |= f
	}
	*dst = v
	s.present |= f
}

// truncDiffers reports whether a and b land on different integer pixels.
func truncDiffers(a, b float64) bool {
	return int(a) != int(b)
}

func mixFloat(a, b, ratio float64) float64 {
	return b*ratio + a*(1-ratio)
}

func mixInt(a, b int, ratio float64) int {
	return int(mixFloat(float64(a), float64(b), ratio))
}

func clampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
