package dictation

import (
	"log/slog"
	"strings"
	"sync"
)

// ChangeFunc is notified after dictated text lands in a field, so that
// dependent state (totals, previews) can recompute.
type ChangeFunc func(f Field, inserted string)

// Router decides whether recognized text is dictation or a command.
// It tracks the focused field and the dictation-mode flag; text is
// routed into the field only when both line up.
type Router struct {
	logger *slog.Logger

	mu       sync.Mutex
	focused  Field
	enabled  bool
	onChange ChangeFunc
}

// NewRouter creates a router with dictation mode off and no focus.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{logger: logger.With("component", "dictation.router")}
}

// OnChange registers the change callback. Only one callback is held;
// a later call replaces the earlier one.
func (r *Router) OnChange(fn ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Focus records f as the current dictation target.
func (r *Router) Focus(f Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = f
}

// Blur clears the focused field.
func (r *Router) Blur() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = nil
}

// Focused returns the current target, or nil.
func (r *Router) Focused() Field {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}

// SetEnabled toggles dictation mode.
func (r *Router) SetEnabled(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = on
}

// Enabled reports whether dictation mode is on.
func (r *Router) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Route inserts recognized text into the focused field when dictation
// applies, returning true if the text was consumed. When it returns
// false the caller should treat the text as a command; in that case no
// field has been modified.
//
// The inserted text is the utterance with surrounding whitespace
// trimmed, followed by a single space. It replaces the field's current
// selection and the cursor lands immediately after it.
func (r *Router) Route(text string) bool {
	r.mu.Lock()
	enabled := r.enabled
	field := r.focused
	onChange := r.onChange
	r.mu.Unlock()

	if !enabled || field == nil {
		return false
	}
	if !Eligible(field) || !field.Attached() {
		return false
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	inserted := trimmed + " "

	value := field.Value()
	start, end := field.Selection()
	start, end = clampRange(start, end, len(value))

	next := value[:start] + inserted + value[end:]
	if err := field.SetValue(next); err != nil {
		r.logger.Warn("dictation write failed", "field", field.ID(), "error", err)
		return false
	}
	if err := field.SetCursor(start + len(inserted)); err != nil {
		r.logger.Warn("cursor update failed", "field", field.ID(), "error", err)
	}

	if onChange != nil {
		onChange(field, inserted)
	}
	return true
}

// clampRange normalizes a selection range against the value length.
func clampRange(start, end, max int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	if start > max {
		start = max
	}
	if end > max {
		end = max
	}
	return start, end
}
