// Package canvas provides the fyne widget hosting the editor session.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"line-editor/internal/edit"
	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/internal/render"
	"line-editor/pkg/geometry"
)

var minSize = fyne.NewSize(200, 150)

// EditorCanvas shows the editor scene and forwards input to the session.
type EditorCanvas struct {
	widget.BaseWidget

	session  *editor.Session
	renderer *render.Renderer
	raster   *fynecanvas.Raster

	// Modifiers from the keyboard; mouse events carry their own.
	keyMods edit.Modifiers
	// Modifiers of the last mouse down, used during drags.
	dragMods edit.Modifiers
	dragging bool
	focused  bool

	// Last rendered output
	lastOutput *image.RGBA

	// Callbacks
	onPointer func(world geometry.Point2D) // pointer position in world coordinates
	onError   func(err error)
}

// New creates a canvas for session drawing with renderer.
func New(session *editor.Session, renderer *render.Renderer) *EditorCanvas {
	c := &EditorCanvas{session: session, renderer: renderer}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	c.raster.SetMinSize(minSize)
	c.ExtendBaseWidget(c)
	return c
}

// Session returns the session driven by the canvas.
func (c *EditorCanvas) Session() *editor.Session { return c.session }

// OnPointer sets the callback for pointer motion in world coordinates.
func (c *EditorCanvas) OnPointer(callback func(world geometry.Point2D)) {
	c.onPointer = callback
}

// OnError sets the callback for errors of keyboard commands.
func (c *EditorCanvas) OnError(callback func(err error)) {
	c.onError = callback
}

// GetRenderedOutput returns the last rendered image.
func (c *EditorCanvas) GetRenderedOutput() *image.RGBA {
	return c.lastOutput
}

func (c *EditorCanvas) draw(w, h int) image.Image {
	img := c.renderer.Render(c.session.Scene())
	c.lastOutput = img
	return img
}

func (c *EditorCanvas) pointer(ev *desktop.MouseEvent) editor.PointerEvent {
	return editor.PointerEvent{
		Pos:    toPoint(ev.Position),
		Button: toButton(ev.Button),
		Mods:   toModifiers(ev.Modifier) | c.keyMods,
	}
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

func toButton(b desktop.MouseButton) editor.Button {
	switch {
	case b&desktop.MouseButtonSecondary != 0:
		return editor.ButtonSecondary
	case b&desktop.MouseButtonTertiary != 0:
		return editor.ButtonTertiary
	}
	return editor.ButtonPrimary
}

func toModifiers(m fyne.KeyModifier) edit.Modifiers {
	var mods edit.Modifiers
	if m&fyne.KeyModifierControl != 0 {
		mods |= edit.ModControl
	}
	if m&fyne.KeyModifierShift != 0 {
		mods |= edit.ModShift
	}
	if m&fyne.KeyModifierAlt != 0 {
		mods |= edit.ModAlt
	}
	return mods
}

// MouseDown implements desktop.Mouseable.
func (c *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	c.requestFocus()
	p := c.pointer(ev)
	c.dragMods = p.Mods
	c.session.Press(p)
}

// MouseUp implements desktop.Mouseable.
func (c *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	c.dragging = false
	c.session.Release(c.pointer(ev))
}

// MouseIn implements desktop.Hoverable.
func (c *EditorCanvas) MouseIn(ev *desktop.MouseEvent) {
	c.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (c *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	p := c.pointer(ev)
	c.session.Move(p)
	c.reportPointer(p.Pos)
}

// MouseOut implements desktop.Hoverable.
func (c *EditorCanvas) MouseOut() {
	c.session.Exit()
}

// Dragged implements fyne.Draggable.
func (c *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	c.dragging = true
	p := editor.PointerEvent{Pos: toPoint(ev.Position), Mods: c.dragMods | c.keyMods}
	c.session.Drag(p)
	c.reportPointer(p.Pos)
}

// DragEnd implements fyne.Draggable. The release itself arrives through
// MouseUp.
func (c *EditorCanvas) DragEnd() {
	c.dragging = false
}

// Tapped implements fyne.Tappable.
func (c *EditorCanvas) Tapped(ev *fyne.PointEvent) {
	c.session.Click(editor.PointerEvent{Pos: toPoint(ev.Position), Mods: c.dragMods | c.keyMods})
}

// TappedSecondary implements fyne.SecondaryTappable.
func (c *EditorCanvas) TappedSecondary(ev *fyne.PointEvent) {
	c.session.Click(editor.PointerEvent{Pos: toPoint(ev.Position), Button: editor.ButtonSecondary, Mods: c.keyMods})
}

// Scrolled implements fyne.Scrollable. The wheel zooms around the pointer.
func (c *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	switch {
	case ev.Scrolled.DY > 0:
		c.session.Scroll(toPoint(ev.Position), 1)
	case ev.Scrolled.DY < 0:
		c.session.Scroll(toPoint(ev.Position), -1)
	}
}

func (c *EditorCanvas) reportPointer(screen geometry.Point2D) {
	if c.onPointer != nil {
		c.onPointer(c.session.View().ToWorld(screen))
	}
}

func (c *EditorCanvas) requestFocus() {
	if c.focused || fyne.CurrentApp() == nil {
		return
	}
	if cv := fyne.CurrentApp().Driver().CanvasForObject(c); cv != nil {
		cv.Focus(c)
	}
}

// FocusGained implements fyne.Focusable.
func (c *EditorCanvas) FocusGained() { c.focused = true }

// FocusLost implements fyne.Focusable. Held modifiers are dropped.
func (c *EditorCanvas) FocusLost() {
	c.focused = false
	if c.keyMods != 0 {
		c.keyMods = 0
		c.session.KeyReleased(0)
	}
}

// TypedRune implements fyne.Focusable.
func (c *EditorCanvas) TypedRune(rune) {}

// TypedKey implements fyne.Focusable. Escape ends editing and Delete
// removes the edited form.
func (c *EditorCanvas) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		c.session.Deselect()
	case fyne.KeyDelete, fyne.KeyBackspace:
		sel := c.session.Selected()
		if sel == nil {
			return
		}
		if err := c.session.RemoveForms([]form.Form{sel}); err != nil && c.onError != nil {
			c.onError(err)
		}
	}
}

func keyModifier(name fyne.KeyName) edit.Modifiers {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return edit.ModControl
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return edit.ModShift
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return edit.ModAlt
	}
	return 0
}

// KeyDown implements desktop.Keyable.
func (c *EditorCanvas) KeyDown(ev *fyne.KeyEvent) {
	if m := keyModifier(ev.Name); m != 0 {
		c.keyMods |= m
		c.session.KeyPressed(c.keyMods)
	}
}

// KeyUp implements desktop.Keyable.
func (c *EditorCanvas) KeyUp(ev *fyne.KeyEvent) {
	if m := keyModifier(ev.Name); m != 0 {
		c.keyMods &^= m
		c.session.KeyReleased(c.keyMods)
	}
}

// Menu converts the session's context menu model into a fyne menu.
func Menu(m *editor.ContextMenu) *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(m.Items))
	for _, it := range m.Items {
		mi := fyne.NewMenuItem(it.Label, it.Action)
		mi.Checked = it.Checkable && it.Checked
		items = append(items, mi)
	}
	return fyne.NewMenu("", items...)
}

// ShowMenu pops up the context menu at the canvas position at.
func (c *EditorCanvas) ShowMenu(m *editor.ContextMenu, at geometry.Point2D) {
	cv := fyne.CurrentApp().Driver().CanvasForObject(c)
	if cv == nil {
		return
	}
	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(c)
	pos := abs.Add(fyne.NewPos(float32(at.X), float32(at.Y)))
	widget.ShowPopUpMenuAtPosition(Menu(m), cv, pos)
}

// CreateRenderer implements fyne.Widget.
func (c *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &editorCanvasRenderer{canvas: c}
}

type editorCanvasRenderer struct {
	canvas *EditorCanvas
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
	r.canvas.session.Resize(float64(size.Width), float64(size.Height))
}

func (r *editorCanvasRenderer) MinSize() fyne.Size {
	return minSize
}

func (r *editorCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *editorCanvasRenderer) Destroy() {}

var (
	_ desktop.Mouseable      = (*EditorCanvas)(nil)
	_ desktop.Hoverable      = (*EditorCanvas)(nil)
	_ desktop.Keyable        = (*EditorCanvas)(nil)
	_ fyne.Draggable         = (*EditorCanvas)(nil)
	_ fyne.Tappable          = (*EditorCanvas)(nil)
	_ fyne.SecondaryTappable = (*EditorCanvas)(nil)
	_ fyne.Scrollable        = (*EditorCanvas)(nil)
)
