// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"line-editor/internal/app"
	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/internal/logging"
	"line-editor/internal/render"
	"line-editor/internal/version"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
	"line-editor/ui/canvas"
	"line-editor/ui/dialogs"
	"line-editor/ui/panels"
	"line-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle    = "Line Editor"
	documentExt = ".json"
	guidesExt   = ".guides"
)

// initialView is the world rectangle shown for an empty document.
var initialView = geometry.NewRect(0, 0, 100, 100)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	state    *app.State
	prefs    *prefs.Prefs
	session  *editor.Session
	renderer *render.Renderer

	canvas    *canvas.EditorCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	pointer   *widget.Label

	// Menu items that need state tracking
	stickToGuidesItem *fyne.MenuItem
	stickToPointsItem *fyne.MenuItem
}

// New creates a new main window editing the document held by state.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    p,
		renderer: render.New(),
	}

	v := view.New(initialView)
	v.SetAxes(true, !p.Bool(prefs.KeyYUp, false))
	mw.session = editor.New(state, v)
	o := p.SnapOptions()
	mw.session.SetStickToGuideLines(o.StickToGuideLines)
	mw.session.SetStickToFormPoints(o.StickToFormPoints)
	mw.session.SetSnapSlack(o.Slack)

	// The session must hold a loaded document before the panels refresh
	// their lists, so this listener goes first.
	state.On(app.EventDocumentLoaded, mw.installDocument)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.installDocument(state.DocumentPath)
	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1200)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800)),
	))
	mw.SetOnClosed(mw.onClosed)

	return mw
}

// Session returns the editor session shown in the window.
func (mw *MainWindow) Session() *editor.Session { return mw.session }

// EditorCanvas returns the editor canvas.
func (mw *MainWindow) EditorCanvas() *canvas.EditorCanvas { return mw.canvas }

// SidePanel returns the side panel.
func (mw *MainWindow) SidePanel() *panels.SidePanel { return mw.sidePanel }

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.session, mw.renderer)
	mw.canvas.OnPointer(func(p geometry.Point2D) {
		mw.pointer.SetText(formatPointer(p))
	})
	mw.canvas.OnError(mw.showError)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.session, mw.prefs)

	mw.statusBar = widget.NewLabel("Ready")
	mw.pointer = widget.NewLabel("")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,   // top
		nil,       // bottom
		nil,       // left
		nil,       // right
		mw.canvas, // center
	)

	// Side panel | canvas area
	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil, // top
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.pointer, mw.statusBar)), // bottom
		nil,   // left
		nil,   // right
		split, // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.onZoomOut),
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("Fit", mw.onFitView),
		widget.NewButton("Reset", mw.onResetView),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", mw.onNewDocument),
		fyne.NewMenuItem("Open...", mw.onOpenDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSaveDocument),
		fyne.NewMenuItem("Save As...", mw.onSaveDocumentAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Guide Lines...", mw.onImportGuideLines),
		fyne.NewMenuItem("Export Guide Lines...", mw.onExportGuideLines),
		fyne.NewMenuItem("Guide Line Grid...", mw.onGuideGrid),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Copy", mw.onCopy),
		fyne.NewMenuItem("Paste", mw.onPaste),
		fyne.NewMenuItem("Delete", mw.onDelete),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Deselect", mw.session.Deselect),
	)

	mw.stickToGuidesItem = fyne.NewMenuItem(editor.MenuStickToGuideLines, func() {
		mw.session.SetStickToGuideLines(!mw.session.Options().StickToGuideLines)
		mw.optionsChanged()
	})
	mw.stickToPointsItem = fyne.NewMenuItem(editor.MenuStickToFormPoints, func() {
		mw.session.SetStickToFormPoints(!mw.session.Options().StickToFormPoints)
		mw.optionsChanged()
	})
	mw.syncOptionItems()

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Fit View", mw.onFitView),
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItemSeparator(),
		mw.stickToGuidesItem,
		mw.stickToPointsItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventRedraw, func(interface{}) {
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventContextMenu, func(data interface{}) {
		req, ok := data.(app.ContextMenuRequest)
		if !ok {
			return
		}
		for _, it := range req.Menu.Items {
			action := it.Action
			it.Action = func() {
				action()
				mw.optionsChanged()
			}
		}
		mw.canvas.ShowMenu(req.Menu, req.At)
	})

	mw.state.On(app.EventModified, func(interface{}) {
		mw.updateTitle()
	})

	mw.state.On(app.EventDocumentSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
		mw.updateTitle()
	})

	mw.state.On(app.EventFormsChanged, func(data interface{}) {
		if ev, ok := data.(editor.FormsEvent); ok && ev.Kind != editor.Changed {
			mw.updateStatus(fmt.Sprintf("%d forms", len(mw.session.Forms())))
		}
	})
}

// installDocument hands the state's forms and guide lines to the session.
func (mw *MainWindow) installDocument(data interface{}) {
	mw.session.SetForms(mw.state.Forms)
	mw.session.SetGuideLines(mw.state.GuideLines)
	mw.session.FitViewToContent(nil)
	if path, ok := data.(string); ok && path != "" {
		mw.updateStatus("Opened " + path)
	}
	mw.updateTitle()
}

// optionsChanged stores the snap toggles and syncs every control showing
// them.
func (mw *MainWindow) optionsChanged() {
	mw.prefs.SetSnapOptions(mw.session.Options())
	mw.sidePanel.GeneralPanel().Sync()
	mw.syncOptionItems()
	if mm := mw.MainMenu(); mm != nil {
		mm.Refresh()
	}
}

func (mw *MainWindow) syncOptionItems() {
	o := mw.session.Options()
	mw.stickToGuidesItem.Checked = o.StickToGuideLines
	mw.stickToPointsItem.Checked = o.StickToFormPoints
}

// documentTitle names the open document and its modified flag.
func (mw *MainWindow) documentTitle() string {
	name := "Untitled"
	if mw.state.DocumentPath != "" {
		name = filepath.Base(mw.state.DocumentPath)
	}
	title := appTitle + " - " + name
	if mw.state.Modified {
		title += " *"
	}
	return title
}

func (mw *MainWindow) updateTitle() {
	mw.SetTitle(mw.documentTitle())
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) showError(err error) {
	logging.For("ui").Warn("operation failed", "err", err)
	switch {
	case errors.Is(err, editor.ErrFormsLocked):
		mw.updateStatus("Forms are locked")
	default:
		dialog.ShowError(err, mw.Window)
	}
}

func formatPointer(p geometry.Point2D) string {
	return fmt.Sprintf("x: %.4g  y: %.4g", p.X, p.Y)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// openFile shows a file open dialog filtered to ext and passes the chosen
// path to load.
func (mw *MainWindow) openFile(ext string, load func(path string) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := load(path); err != nil {
			mw.showError(err)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveFile shows a file save dialog and passes the chosen path, with ext
// appended when missing, to save.
func (mw *MainWindow) saveFile(name, ext string, save func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}
		mw.saveLastDir(path)
		if err := save(path); err != nil {
			mw.showError(err)
		}
	}, mw.Window)
	fd.SetFileName(name + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// Menu action handlers

func (mw *MainWindow) onNewDocument() {
	mw.state.NewDocument()
	mw.updateStatus("New document")
}

func (mw *MainWindow) onOpenDocument() {
	mw.openFile(documentExt, mw.state.LoadDocument)
}

func (mw *MainWindow) onSaveDocument() {
	if mw.state.DocumentPath == "" {
		mw.onSaveDocumentAs()
		return
	}
	if err := mw.state.SaveDocument(mw.state.DocumentPath); err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) onSaveDocumentAs() {
	mw.saveFile("drawing", documentExt, mw.state.SaveDocument)
}

func (mw *MainWindow) onImportGuideLines() {
	mw.openFile(guidesExt, func(path string) error {
		if err := mw.state.ImportGuideLines(path); err != nil {
			return err
		}
		mw.updateStatus(fmt.Sprintf("Imported %d guide lines", mw.session.GuideLines().Len()))
		return nil
	})
}

func (mw *MainWindow) onExportGuideLines() {
	if mw.session.GuideLines().IsEmpty() {
		mw.updateStatus(app.ErrNoGuideLines.Error())
		return
	}
	mw.saveFile("guides", guidesExt, mw.state.ExportGuideLines)
}

func (mw *MainWindow) onGuideGrid() {
	dialogs.NewGuideGridDialog(mw.state, mw.session.View().ViewRect(), mw.Window).Show()
}

// editTargets returns the forms the Edit menu acts on: the selected form,
// or else the highlighted ones.
func (mw *MainWindow) editTargets() []form.Form {
	if f := mw.session.Selected(); f != nil {
		return []form.Form{f}
	}
	return mw.session.Highlighted()
}

func (mw *MainWindow) onCopy() {
	targets := mw.editTargets()
	if len(targets) == 0 {
		mw.updateStatus("Nothing to copy")
		return
	}
	mw.session.CopyForms(targets)
	mw.updateStatus(fmt.Sprintf("Copied %d forms", len(targets)))
}

func (mw *MainWindow) onPaste() {
	if !mw.session.CanPaste() {
		mw.updateStatus("Clipboard is empty")
		return
	}
	if _, err := mw.session.PasteForms(); err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) onDelete() {
	targets := mw.editTargets()
	if len(targets) == 0 {
		return
	}
	if err := mw.session.RemoveForms(targets); err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) viewCenter() geometry.Point2D {
	st := mw.session.View().State()
	return geometry.NewPoint2D(st.Width/2, st.Height/2)
}

func (mw *MainWindow) onZoomIn() {
	mw.session.Scroll(mw.viewCenter(), 1)
}

func (mw *MainWindow) onZoomOut() {
	mw.session.Scroll(mw.viewCenter(), -1)
}

func (mw *MainWindow) onFitView() {
	mw.session.FitViewToContent(nil)
}

func (mw *MainWindow) onResetView() {
	mw.session.View().Reset()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"An editor for lines, arcs and polylines\n"+
			"with guide line and point snapping.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// onClosed stores the window size and preferences.
func (mw *MainWindow) onClosed() {
	size := mw.Content().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		logging.For("ui").Warn("saving preferences failed", "err", err)
	}
	if err := mw.renderer.Close(); err != nil {
		logging.For("ui").Warn("closing renderer failed", "err", err)
	}
}
