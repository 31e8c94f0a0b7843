package edit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrFixed is returned when editing a field that is locked.
	ErrFixed = errors.New("field is fixed")
	// ErrInvalid is returned when a field's text is rejected.
	ErrInvalid = errors.New("invalid value")
)

// Field is a numeric value of a form bound to a text entry. It keeps the
// text the user typed, whether that text was rejected, and whether the
// value is locked against both typing and dragging.
type Field struct {
	Name  string
	Label string

	text    string
	invalid bool
	fixed   bool

	get func() float64
	set func(float64) error

	onEdit   func(*Field)
	onUpdate []func(*Field)
}

func newField(name, label string, get func() float64, set func(float64) error) *Field {
	f := &Field{Name: name, Label: label, get: get, set: set}
	f.text = formatValue(get())
	return f
}

// Text returns the current text of the field.
func (f *Field) Text() string { return f.text }

// Invalid reports whether the last typed text was rejected.
func (f *Field) Invalid() bool { return f.invalid }

// Fixed reports whether the value is locked.
func (f *Field) Fixed() bool { return f.fixed }

// Value returns the model value.
func (f *Field) Value() float64 { return f.get() }

// SetFixed locks or unlocks the value.
func (f *Field) SetFixed(fixed bool) {
	if f.fixed == fixed {
		return
	}
	f.fixed = fixed
	f.notify()
}

// SetText parses s and applies it to the model. Unparseable, non-finite or
// rejected text marks the field invalid and leaves the model unchanged.
func (f *Field) SetText(s string) error {
	if f.fixed {
		return fmt.Errorf("%s: %w", f.Name, ErrFixed)
	}
	f.text = s
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		f.invalid = true
		f.notify()
		return fmt.Errorf("%s: %w: %q", f.Name, ErrInvalid, s)
	}
	if err := f.set(v); err != nil {
		f.invalid = true
		f.notify()
		return fmt.Errorf("%s: %w: %v", f.Name, ErrInvalid, err)
	}
	f.invalid = false
	f.notify()
	if f.onEdit != nil {
		f.onEdit(f)
	}
	return nil
}

// Refresh reloads the text from the model and clears the invalid flag.
func (f *Field) Refresh() {
	text := formatValue(f.get())
	if text == f.text && !f.invalid {
		return
	}
	f.text = text
	f.invalid = false
	f.notify()
}

// OnUpdate registers a listener called whenever text, validity or the
// fixed flag change.
func (f *Field) OnUpdate(fn func(*Field)) {
	f.onUpdate = append(f.onUpdate, fn)
}

func (f *Field) notify() {
	for _, fn := range f.onUpdate {
		fn(f)
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
