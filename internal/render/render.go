// Package render draws an editor scene into an image with gogpu/gg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"line-editor/internal/edit"
	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/logging"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

// Colors used for the scene.
var (
	Background     = gg.RGB(1, 1, 1)
	AxisColor      = gg.RGBA2(0.5, 0.5, 0.5, 0.35)
	GuideColor     = gg.RGBA2(0.5, 0.5, 0.5, 0.6)
	GuideHighlight = gg.RGB(0.56, 0.93, 0.56)
	FormColor      = gg.RGB(0, 0, 0)
	FormHighlight  = gg.RGB(0, 0, 1)
	HandleFill     = gg.RGB(1, 1, 1)
	HandleActive   = gg.RGB(0, 0.8, 0)
	HandleOutline  = gg.RGB(0, 0, 0)
	PreviewColor   = gg.RGB(0, 0.7, 0)
	LabelColor     = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

const (
	formWidth      = 1.0
	highlightWidth = 1.5
	handleRadius   = 3.0
	previewRadius  = 3.0

	// Screen length of one arc segment in pixels.
	arcStep = 4.0
	// Target length of the scale bar in pixels.
	scaleBarTarget = 100.0
	scaleBarMargin = 10.0
)

// Renderer draws scenes. It keeps its drawing context between frames and
// is not safe for concurrent use.
type Renderer struct {
	dc *gg.Context
}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{}
}

// Close releases the drawing context.
func (r *Renderer) Close() error {
	if r.dc == nil {
		return nil
	}
	err := r.dc.Close()
	r.dc = nil
	return err
}

func (r *Renderer) context(w, h int) *gg.Context {
	if r.dc != nil && r.dc.Width() == w && r.dc.Height() == h {
		return r.dc
	}
	if r.dc != nil {
		if err := r.dc.Close(); err != nil {
			logging.For("render").Warn("closing drawing context", "error", err)
		}
	}
	r.dc = gg.NewContext(w, h)
	return r.dc
}

// Render draws sc at the size of its view.
func (r *Renderer) Render(sc *editor.Scene) *image.RGBA {
	st := sc.View.State()
	w, h := int(math.Ceil(st.Width)), int(math.Ceil(st.Height))
	if w <= 0 || h <= 0 {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, Background.Color())
		return img
	}

	dc := r.context(w, h)
	dc.ClearWithColor(Background)
	d := &drawer{dc: dc, v: sc.View, w: float64(w), h: float64(h)}

	d.axes()
	for i, g := range sc.GuideLines {
		d.guide(g, sc.IsGuideHighlighted(i))
	}
	for _, f := range sc.Forms {
		d.form(f, sc.IsHighlighted(f))
	}
	if sc.Preview != nil {
		d.preview(sc)
	}
	for _, m := range visibleHandles(sc) {
		d.handle(m.Pos, m.Highlighted)
	}

	length, at, ok := d.scaleBar()

	img := toRGBA(dc.Image())
	if ok {
		drawLabel(img, ScaleBarLabel(length), at)
	}
	return img
}

func toRGBA(src image.Image) *image.RGBA {
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img
}

type drawer struct {
	dc   *gg.Context
	v    *view.View
	w, h float64
}

func (d *drawer) stroke(col gg.RGBA, width float64) {
	d.dc.SetColor(col.Color())
	d.dc.SetLineWidth(width)
	if err := d.dc.Stroke(); err != nil {
		logging.For("render").Debug("stroke failed", "error", err)
	}
}

func (d *drawer) axes() {
	o := d.v.ToScreen(geometry.Point2D{})
	d.dc.SetLineCap(gg.LineCapButt)
	if o.X >= 0 && o.X <= d.w {
		d.dc.DrawLine(o.X, 0, o.X, d.h)
	}
	if o.Y >= 0 && o.Y <= d.h {
		d.dc.DrawLine(0, o.Y, d.w, o.Y)
	}
	d.stroke(AxisColor, 1)
}

func (d *drawer) guide(g guides.GuideLine, highlighted bool) {
	col := GuideColor
	if highlighted {
		col = GuideHighlight
	}
	d.dc.SetLineCap(gg.LineCapButt)
	switch g.Type {
	case guides.Vertical:
		x := d.v.ToScreen(geometry.Point2D{X: g.Pos}).X
		d.dc.DrawLine(x, 0, x, d.h)
	case guides.Horizontal:
		y := d.v.ToScreen(geometry.Point2D{Y: g.Pos}).Y
		d.dc.DrawLine(0, y, d.w, y)
	}
	d.stroke(col, 1)
}

func (d *drawer) form(f form.Form, highlighted bool) {
	col, width := FormColor, formWidth
	if highlighted {
		col, width = FormHighlight, highlightWidth
		d.dc.SetLineCap(gg.LineCapRound)
	} else {
		d.dc.SetLineCap(gg.LineCapButt)
	}
	d.path(outline(f, d.v))
	d.stroke(col, width)
}

// path adds an open polyline in screen coordinates.
func (d *drawer) path(pts []geometry.Point2D) {
	if len(pts) == 0 {
		return
	}
	d.dc.NewSubPath()
	d.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		d.dc.LineTo(p.X, p.Y)
	}
}

// outline returns the screen polyline that draws f.
func outline(f form.Form, v *view.View) []geometry.Point2D {
	var world []geometry.Point2D
	switch f := f.(type) {
	case *form.Line:
		world = []geometry.Point2D{f.P1, f.P2}
	case *form.PolyLine:
		world = f.Points
	case *form.Arc:
		sweep := f.End - f.Start
		n := int(math.Ceil(v.LengthToScreen(f.R) * math.Abs(sweep) / arcStep))
		n = max(2, min(n, 720))
		world = geometry.GenerateArcPoints(f.Center, f.R, f.Start, f.End, n)
	default:
		panic(fmt.Sprintf("render: unknown form %T", f))
	}
	pts := make([]geometry.Point2D, len(world))
	for i, p := range world {
		pts[i] = v.ToScreen(p)
	}
	return pts
}

// visibleHandles returns the handles whose marks reach into the viewport.
func visibleHandles(sc *editor.Scene) []edit.HandleMark {
	area := sc.View.ViewRect().Inflate(sc.View.ConvertLength(handleRadius + 1))
	var out []edit.HandleMark
	for _, m := range sc.Handles {
		if area.Contains(m.Pos) {
			out = append(out, m)
		}
	}
	return out
}

func (d *drawer) handle(pos geometry.Point2D, highlighted bool) {
	p := d.v.ToScreen(pos)
	fill := HandleFill
	if highlighted {
		fill = HandleActive
	}
	d.dc.DrawCircle(p.X, p.Y, handleRadius)
	d.dc.SetColor(fill.Color())
	if err := d.dc.FillPreserve(); err != nil {
		logging.For("render").Debug("fill failed", "error", err)
	}
	d.stroke(HandleOutline, 1)
}

func (d *drawer) preview(sc *editor.Scene) {
	p := d.v.ToScreen(sc.Preview.Pos)
	from := d.v.ToScreen(sc.PreviewFrom)

	d.dc.SetLineCap(gg.LineCapButt)
	d.dc.SetDash(4, 4)
	d.dc.DrawLine(from.X, from.Y, p.X, p.Y)
	if sc.PreviewTo != nil {
		to := d.v.ToScreen(*sc.PreviewTo)
		d.dc.DrawLine(p.X, p.Y, to.X, to.Y)
	}
	d.stroke(PreviewColor, 1)
	d.dc.ClearDash()

	d.dc.DrawCircle(p.X, p.Y, previewRadius)
	d.dc.SetColor(PreviewColor.Color())
	if err := d.dc.Fill(); err != nil {
		logging.For("render").Debug("fill failed", "error", err)
	}
}

// ScaleBarLength returns the world length shown by the scale bar: the
// power of ten closest to scaleBarTarget pixels without exceeding it.
func ScaleBarLength(v *view.View) float64 {
	target := v.ConvertLength(scaleBarTarget)
	return geometry.DecadeFloor(target)
}

// ScaleBarLabel formats the scale bar length.
func ScaleBarLabel(length float64) string {
	if length == 1 {
		return "1 unit"
	}
	return fmt.Sprintf("%g units", length)
}

func (d *drawer) scaleBar() (length float64, at fixed.Point26_6, ok bool) {
	length = ScaleBarLength(d.v)
	px := d.v.LengthToScreen(length)
	x0, y := scaleBarMargin, d.h-scaleBarMargin
	if px <= 0 || y <= 0 {
		return 0, fixed.Point26_6{}, false
	}
	d.dc.SetLineCap(gg.LineCapButt)
	d.dc.DrawLine(x0, y, x0+px, y)
	d.dc.DrawLine(x0, y-3, x0, y+3)
	d.dc.DrawLine(x0+px, y-3, x0+px, y+3)
	d.stroke(gg.FromColor(LabelColor), 1)
	return length, fixed.P(int(x0), int(y)-5), true
}

func drawLabel(img *image.RGBA, text string, at fixed.Point26_6) {
	fd := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(LabelColor),
		Face: basicfont.Face7x13,
		Dot:  at,
	}
	fd.DrawString(text)
}
