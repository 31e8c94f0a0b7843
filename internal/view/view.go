// Package view maps between screen pixels and world coordinates.
package view

import (
	"math"

	"line-editor/internal/form"
	"line-editor/pkg/geometry"
)

const (
	minScale = 1e-6
	maxScale = 1e6

	// ZoomStep is the factor applied by one zoom in/out step.
	ZoomStep = 1.25
)

// State is a comparable snapshot of the view mapping.
type State struct {
	Scale  float64          // pixels per world unit
	Offset geometry.Point2D // world point shown at the screen origin
	XRight bool             // world x grows to the right on screen
	YDown  bool             // world y grows downward on screen
	Width  float64          // viewport size in pixels
	Height float64
}

// View holds the world/screen mapping of the editor canvas.
type View struct {
	state   State
	initial geometry.Rect

	// Last rectangle passed to Fit. Re-applied on viewport resize until the
	// user pans or zooms.
	fitTarget *geometry.Rect

	toScreen geometry.AffineTransform
	toWorld  geometry.AffineTransform
}

// New creates a view with x to the right and y downward, showing initial
// once a viewport size is known.
func New(initial geometry.Rect) *View {
	v := &View{
		state:   State{Scale: 1, XRight: true, YDown: true},
		initial: initial,
	}
	v.Fit(initial)
	return v
}

// State returns a snapshot of the current mapping.
func (v *View) State() State { return v.state }

// Initial returns the default rectangle shown when there is no content.
func (v *View) Initial() geometry.Rect { return v.initial }

// Scale returns pixels per world unit.
func (v *View) Scale() float64 { return v.state.Scale }

func (v *View) axisScale() (sx, sy float64) {
	sx, sy = v.state.Scale, v.state.Scale
	if !v.state.XRight {
		sx = -sx
	}
	if !v.state.YDown {
		sy = -sy
	}
	return sx, sy
}

func (v *View) update() {
	sx, sy := v.axisScale()
	v.toScreen = geometry.Scale(sx, sy).Compose(
		geometry.Translation(-v.state.Offset.X, -v.state.Offset.Y))
	inv, ok := v.toScreen.Inverse()
	if !ok {
		panic("view: singular screen transform")
	}
	v.toWorld = inv
}

// ToScreen maps a world point to screen pixels.
func (v *View) ToScreen(p geometry.Point2D) geometry.Point2D {
	return v.toScreen.Apply(p)
}

// ToWorld maps a screen pixel position to world coordinates.
func (v *View) ToWorld(p geometry.Point2D) geometry.Point2D {
	return v.toWorld.Apply(p)
}

// ConvertLength converts a screen length in pixels to a world length.
func (v *View) ConvertLength(px float64) float64 {
	return px / v.state.Scale
}

// LengthToScreen converts a world length to pixels.
func (v *View) LengthToScreen(w float64) float64 {
	return w * v.state.Scale
}

// SetAxes sets the axis directions, keeping the viewport center fixed.
func (v *View) SetAxes(xRight, yDown bool) {
	c := v.ToWorld(v.screenCenter())
	v.state.XRight = xRight
	v.state.YDown = yDown
	v.centerOn(c)
}

// SetViewport records the viewport size in pixels.
func (v *View) SetViewport(width, height float64) {
	if width == v.state.Width && height == v.state.Height {
		return
	}
	c := v.ToWorld(v.screenCenter())
	v.state.Width = width
	v.state.Height = height
	if v.fitTarget != nil {
		v.Fit(*v.fitTarget)
		return
	}
	v.centerOn(c)
}

func (v *View) screenCenter() geometry.Point2D {
	return geometry.NewPoint2D(v.state.Width/2, v.state.Height/2)
}

// centerOn moves the offset so that world point c sits at the viewport center.
func (v *View) centerOn(c geometry.Point2D) {
	sx, sy := v.axisScale()
	v.state.Offset = geometry.Point2D{
		X: c.X - v.state.Width/2/sx,
		Y: c.Y - v.state.Height/2/sy,
	}
	v.update()
}

// Zoom multiplies the scale by factor, keeping the world point under
// anchor (screen pixels) in place.
func (v *View) Zoom(factor float64, anchor geometry.Point2D) {
	w := v.ToWorld(anchor)
	v.state.Scale = clampScale(v.state.Scale * factor)
	sx, sy := v.axisScale()
	v.state.Offset = geometry.Point2D{X: w.X - anchor.X/sx, Y: w.Y - anchor.Y/sy}
	v.fitTarget = nil
	v.update()
}

// Pan shifts the content by dx, dy pixels.
func (v *View) Pan(dx, dy float64) {
	sx, sy := v.axisScale()
	v.state.Offset.X -= dx / sx
	v.state.Offset.Y -= dy / sy
	v.fitTarget = nil
	v.update()
}

// Reset shows the initial rectangle.
func (v *View) Reset() {
	v.Fit(v.initial)
}

// Fit scales and centers the view so that r fills the viewport.
func (v *View) Fit(r geometry.Rect) {
	target := r
	v.fitTarget = &target

	if v.state.Width <= 0 || v.state.Height <= 0 {
		v.state.Scale = 1
		v.state.Offset = r.Center()
		v.update()
		return
	}

	var scale float64
	switch {
	case r.Width > 0 && r.Height > 0:
		scale = math.Min(v.state.Width/r.Width, v.state.Height/r.Height)
	case r.Width > 0:
		scale = v.state.Width / r.Width
	case r.Height > 0:
		scale = v.state.Height / r.Height
	default:
		scale = v.state.Scale
	}
	v.state.Scale = clampScale(scale)
	v.centerOn(r.Center())
}

// ContentRect pads content by a sixth of its larger side on every side.
func ContentRect(content geometry.Rect) geometry.Rect {
	return content.Inflate(math.Max(content.Width, content.Height) / 6)
}

// FitForms fits the view to the union of the forms' bounding boxes and the
// optional minimum rectangle, padded by ContentRect. Without either the
// initial rectangle is shown.
func (v *View) FitForms(forms []form.Form, minRect *geometry.Rect) {
	content, ok := form.Bounds(forms)
	if minRect != nil {
		if ok {
			content = content.Union(*minRect)
		} else {
			content, ok = *minRect, true
		}
	}
	if !ok {
		v.Fit(v.initial)
		return
	}
	padded := ContentRect(content)
	if padded.Width == 0 && padded.Height == 0 {
		c := padded.Center()
		padded = geometry.NewRect(c.X-v.initial.Width/2, c.Y-v.initial.Height/2, v.initial.Width, v.initial.Height)
	}
	v.Fit(padded)
}

// ViewRect returns the world rectangle covered by the viewport.
func (v *View) ViewRect() geometry.Rect {
	a := v.ToWorld(geometry.NewPoint2D(0, 0))
	b := v.ToWorld(geometry.NewPoint2D(v.state.Width, v.state.Height))
	return geometry.BoundingBox([]geometry.Point2D{a, b})
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) || s < minScale {
		return minScale
	}
	if s > maxScale {
		return maxScale
	}
	return s
}
