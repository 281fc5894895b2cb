// Package editor implements the line-oriented input model for terminal
// forms: per-field rune buffers with acceptance predicates, composed into
// multi-field forms. The editor knows nothing about rendering or what
// submission means; hosts feed it keystrokes and read the buffers back.
package editor

import "unicode"

// AcceptFunc reports whether a rune may be inserted into a field.
type AcceptFunc func(r rune) bool

// AcceptAny admits every printable rune.
func AcceptAny(r rune) bool {
	return unicode.IsPrint(r)
}

// AcceptDigits admits decimal digits only.
func AcceptDigits(r rune) bool {
	return unicode.IsDigit(r)
}

// AcceptLetters admits letters only.
func AcceptLetters(r rune) bool {
	return unicode.IsLetter(r)
}

// AcceptClass resolves a named acceptance class from lesson content.
// Returns false for unknown names.
func AcceptClass(name string) (AcceptFunc, bool) {
	switch name {
	case "", "any":
		return AcceptAny, true
	case "digits":
		return AcceptDigits, true
	case "letters":
		return AcceptLetters, true
	default:
		return nil, false
	}
}

// Field is a single editable line buffer.
type Field struct {
	label  string
	buf    []rune
	accept AcceptFunc
}

// NewField creates an empty field. A nil accept defaults to AcceptAny.
func NewField(label string, accept AcceptFunc) *Field {
	if accept == nil {
		accept = AcceptAny
	}
	return &Field{label: label, accept: accept}
}

// Insert appends the rune if the field's predicate admits it.
// Rejected runes are dropped silently and Insert returns false.
func (f *Field) Insert(r rune) bool {
	if !f.accept(r) {
		return false
	}
	f.buf = append(f.buf, r)
	return true
}

// Backspace removes the last rune; no-op on an empty buffer.
func (f *Field) Backspace() bool {
	if len(f.buf) == 0 {
		return false
	}
	f.buf = f.buf[:len(f.buf)-1]
	return true
}

// Text returns the current buffer contents.
func (f *Field) Text() string {
	return string(f.buf)
}

// Label returns the field's display label.
func (f *Field) Label() string {
	return f.label
}

// Reset empties the buffer.
func (f *Field) Reset() {
	f.buf = f.buf[:0]
}

// Form composes independent fields for multi-line terminal entry.
// Submit on a non-final field advances focus; submit on the last field
// completes the form.
type Form struct {
	fields []*Field
	active int
}

// NewForm creates a form over the given fields. At least one field is
// required; callers construct fields from lesson FieldDefs.
func NewForm(fields ...*Field) *Form {
	return &Form{fields: fields}
}

// Active returns the focused field, or nil for an empty form.
func (f *Form) Active() *Field {
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[f.active]
}

// ActiveIndex returns the index of the focused field.
func (f *Form) ActiveIndex() int {
	return f.active
}

// Len returns the number of fields.
func (f *Form) Len() int {
	return len(f.fields)
}

// Field returns the i-th field.
func (f *Form) Field(i int) *Field {
	return f.fields[i]
}

// Insert routes a rune to the focused field.
func (f *Form) Insert(r rune) bool {
	if fld := f.Active(); fld != nil {
		return fld.Insert(r)
	}
	return false
}

// Backspace routes a backspace to the focused field.
func (f *Form) Backspace() bool {
	if fld := f.Active(); fld != nil {
		return fld.Backspace()
	}
	return false
}

// Submit handles the enter key: on a non-final field it advances focus and
// returns false; on the last field it returns true to signal completion.
func (f *Form) Submit() bool {
	if f.active < len(f.fields)-1 {
		f.active++
		return false
	}
	return true
}

// Focus moves focus to field i if it exists.
func (f *Form) Focus(i int) {
	if i >= 0 && i < len(f.fields) {
		f.active = i
	}
}

// Values returns the text of every field in order.
func (f *Form) Values() []string {
	out := make([]string, len(f.fields))
	for i, fld := range f.fields {
		out[i] = fld.Text()
	}
	return out
}

// Reset empties all fields and refocuses the first.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.Reset()
	}
	f.active = 0
}
