// Package app provides the application state, document storage and events.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/logging"
	"line-editor/pkg/geometry"
)

// State holds the open document and the event bus connecting the editor
// session to the UI. It implements editor.Host.
type State struct {
	mu sync.RWMutex

	// Document
	DocumentPath string
	Modified     bool

	Forms      []form.Form
	GuideLines *guides.Set

	// FormsLocked forbids adding and removing forms.
	FormsLocked bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentSaved
	EventModified
	EventFormsChanged
	EventGuideLinesChanged
	EventHighlightChanged
	EventPanelRequested
	EventContextMenu
	EventRedraw
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// ContextMenuRequest is the data of EventContextMenu.
type ContextMenuRequest struct {
	Menu *editor.ContextMenu
	At   geometry.Point2D
}

var _ editor.Host = (*State)(nil)

// NewState creates an empty document state.
func NewState() *State {
	return &State{
		GuideLines: guides.NewSet(),
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// FormsChanged records a change reported by the editor session.
func (s *State) FormsChanged(ev editor.FormsEvent) {
	if ev.All != nil {
		s.mu.Lock()
		s.Forms = ev.All
		s.mu.Unlock()
	}
	if ev.Caller != "deselect" {
		s.SetModified(true)
	}
	s.Emit(EventFormsChanged, ev)
}

// GuideLinesChanged records a guide line change reported by the session.
func (s *State) GuideLinesChanged(ev editor.GuideEvent) {
	s.SetModified(true)
	s.Emit(EventGuideLinesChanged, ev)
}

// HighlightedFormsChanged forwards hover highlighting to the forms list.
func (s *State) HighlightedFormsChanged(forms []form.Form) {
	s.Emit(EventHighlightChanged, forms)
}

// ShowPanel asks the UI to show a panel in the options area.
func (s *State) ShowPanel(p editor.Panel) {
	s.Emit(EventPanelRequested, p)
}

// ShowContextMenu asks the UI to pop up the canvas context menu.
func (s *State) ShowContextMenu(menu *editor.ContextMenu, at geometry.Point2D) {
	s.Emit(EventContextMenu, ContextMenuRequest{Menu: menu, At: at})
}

// CanModifyForms reports whether forms may be added or removed.
func (s *State) CanModifyForms() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.FormsLocked
}

// Redraw asks the canvas to repaint.
func (s *State) Redraw() {
	s.Emit(EventRedraw, nil)
}

// DocumentVersion is the document format version written by WriteDocument.
const DocumentVersion = 1

// ErrDocumentVersion is returned for documents newer than DocumentVersion.
var ErrDocumentVersion = errors.New("unsupported document version")

// Document is the JSON structure of a document file.
type Document struct {
	// Version is the document format version. Zero is read as version 1.
	Version int           `json:"version"`
	Forms   []form.Record `json:"forms"`
	// GuideLines holds the guide lines in their text format.
	GuideLines string `json:"guideLines,omitempty"`
}

// NewDocument clears the forms and guide lines.
func (s *State) NewDocument() {
	s.mu.Lock()
	s.DocumentPath = ""
	s.Modified = false
	s.Forms = nil
	s.GuideLines = guides.NewSet()
	s.mu.Unlock()
	s.Emit(EventDocumentLoaded, "")
}

// ReadDocument parses a document file.
func ReadDocument(path string) ([]form.Form, *guides.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Version > DocumentVersion {
		return nil, nil, fmt.Errorf("%s: %w: version %d", path, ErrDocumentVersion, doc.Version)
	}

	forms := make([]form.Form, 0, len(doc.Forms))
	for i, rec := range doc.Forms {
		f, err := form.FromRecord(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: form %d: %w", path, i, err)
		}
		forms = append(forms, f)
	}
	set, err := guides.Parse(strings.NewReader(doc.GuideLines))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: guide lines: %w", path, err)
	}
	return forms, set, nil
}

// WriteDocument writes forms and guide lines to a document file.
func WriteDocument(path string, forms []form.Form, set *guides.Set) error {
	doc := Document{Version: DocumentVersion, Forms: make([]form.Record, len(forms))}
	for i, f := range forms {
		doc.Forms[i] = form.ToRecord(f)
	}
	if set != nil && !set.IsEmpty() {
		var sb strings.Builder
		if err := guides.Write(&sb, set); err != nil {
			return err
		}
		doc.GuideLines = sb.String()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// LoadDocument loads a document from the specified path.
func (s *State) LoadDocument(path string) error {
	forms, set, err := ReadDocument(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.Modified = false
	s.Forms = forms
	s.GuideLines = set
	s.mu.Unlock()

	logging.For("app").Info("document loaded", "path", path, "forms", len(forms), "guideLines", set.Len())
	s.Emit(EventDocumentLoaded, path)
	return nil
}

// SaveDocument saves the document to the specified path.
func (s *State) SaveDocument(path string) error {
	s.mu.RLock()
	forms, set := s.Forms, s.GuideLines
	s.mu.RUnlock()

	if err := WriteDocument(path, forms, set); err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.mu.Unlock()
	s.SetModified(false)
	s.Emit(EventDocumentSaved, path)
	return nil
}

// ErrNoGuideLines is returned when exporting an empty guide line set.
var ErrNoGuideLines = errors.New("no guide lines to export")

// ImportGuideLines replaces the guide lines with those of a text file. The
// set is replaced in place so that holders of it see the new lines.
func (s *State) ImportGuideLines(path string) error {
	loaded, err := guides.Load(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.GuideLines.Replace(loaded)
	s.mu.Unlock()

	s.GuideLinesChanged(editor.GuideEvent{Kind: editor.Changed, Caller: "importGuideLines", Index: -1})
	s.Redraw()
	return nil
}

// SetGridGuideLines replaces the guide lines with vertical lines at each x
// and horizontal lines at each y.
func (s *State) SetGridGuideLines(vertical, horizontal []float64) {
	s.mu.Lock()
	s.GuideLines.SetDefault(vertical, horizontal)
	s.mu.Unlock()

	s.GuideLinesChanged(editor.GuideEvent{Kind: editor.Changed, Caller: "gridGuideLines", Index: -1})
	s.Redraw()
}

// ExportGuideLines writes the guide lines to a text file.
func (s *State) ExportGuideLines(path string) error {
	s.mu.RLock()
	set := s.GuideLines
	s.mu.RUnlock()
	if set.IsEmpty() {
		return ErrNoGuideLines
	}
	return guides.Save(path, set)
}
