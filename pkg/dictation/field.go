// Package dictation routes recognized speech into editable text fields.
// When dictation mode is on and an eligible field holds focus, utterances
// are inserted at the cursor instead of being interpreted as commands.
package dictation

import "sync"

// Field is an editable text target for dictation. Implementations are
// expected to be safe for concurrent use; the router reads and writes
// them from its caller's goroutine.
type Field interface {
	// ID uniquely identifies the field within its form.
	ID() string

	// Kind reports the input type, e.g. "text", "textarea", "number".
	Kind() string

	// Role reports the field's semantic role. Read-only displays such
	// as "transcript" and "response" are never dictation targets.
	Role() string

	// Enabled reports whether the field accepts input.
	Enabled() bool

	// ReadOnly reports whether the field rejects edits.
	ReadOnly() bool

	// Value returns the current text content.
	Value() string

	// SetValue replaces the entire content.
	SetValue(v string) error

	// Selection returns the current selection as a half-open range
	// [start, end) in bytes. A collapsed selection (start == end) is
	// the cursor position.
	Selection() (start, end int)

	// SetCursor collapses the selection to pos.
	SetCursor(pos int) error

	// Attached reports whether the field still exists in its form.
	// Dictation into a detached field is silently dropped.
	Attached() bool
}

// ineligibleKinds are input types that can never receive dictated text.
var ineligibleKinds = map[string]bool{
	"hidden":   true,
	"button":   true,
	"submit":   true,
	"reset":    true,
	"checkbox": true,
	"radio":    true,
	"file":     true,
}

// readOnlyRoles are display surfaces that echo assistant output and must
// not capture dictation.
var readOnlyRoles = map[string]bool{
	"transcript": true,
	"response":   true,
}

// Eligible reports whether f can receive dictated text.
func Eligible(f Field) bool {
	if f == nil {
		return false
	}
	if !f.Enabled() || f.ReadOnly() {
		return false
	}
	if ineligibleKinds[f.Kind()] {
		return false
	}
	if readOnlyRoles[f.Role()] {
		return false
	}
	return true
}

// TextField is an in-memory Field implementation backing form models
// and tests.
type TextField struct {
	mu       sync.Mutex
	id       string
	kind     string
	role     string
	value    string
	selStart int
	selEnd   int
	disabled bool
	readOnly bool
	detached bool
}

// NewTextField creates an attached, enabled text field with an empty
// value and the cursor at position zero.
func NewTextField(id, kind string) *TextField {
	return &TextField{id: id, kind: kind}
}

// NewDisplayField creates a field with the given read-only role.
func NewDisplayField(id, role string) *TextField {
	return &TextField{id: id, kind: "textarea", role: role, readOnly: true}
}

func (f *TextField) ID() string   { return f.id }
func (f *TextField) Kind() string { return f.kind }
func (f *TextField) Role() string { return f.role }

func (f *TextField) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.disabled
}

func (f *TextField) ReadOnly() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readOnly
}

// SetEnabled toggles whether the field accepts input.
func (f *TextField) SetEnabled(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = !on
}

// SetReadOnly toggles the read-only flag.
func (f *TextField) SetReadOnly(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readOnly = on
}

func (f *TextField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *TextField) SetValue(v string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	if f.selStart > len(v) {
		f.selStart = len(v)
	}
	if f.selEnd > len(v) {
		f.selEnd = len(v)
	}
	return nil
}

func (f *TextField) Selection() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selStart, f.selEnd
}

// Select sets the selection range [start, end).
func (f *TextField) Select(start, end int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selStart, f.selEnd = start, end
}

func (f *TextField) SetCursor(pos int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	if pos > len(f.value) {
		pos = len(f.value)
	}
	f.selStart, f.selEnd = pos, pos
	return nil
}

func (f *TextField) Attached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.detached
}

// Detach marks the field as removed from its form.
func (f *TextField) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
}

var _ Field = (*TextField)(nil)
