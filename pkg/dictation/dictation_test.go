package dictation

import "testing"

func disabledField() Field {
	f := NewTextField("off", "text")
	f.SetEnabled(false)
	return f
}

func readOnlyField() Field {
	f := NewTextField("ro", "text")
	f.SetReadOnly(true)
	return f
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		want bool
	}{
		{"text input", NewTextField("name", "text"), true},
		{"textarea", NewTextField("notes", "textarea"), true},
		{"number input", NewTextField("qty", "number"), true},
		{"email input", NewTextField("mail", "email"), true},
		{"hidden input", NewTextField("csrf", "hidden"), false},
		{"button", NewTextField("go", "button"), false},
		{"submit", NewTextField("save", "submit"), false},
		{"reset", NewTextField("clear", "reset"), false},
		{"checkbox", NewTextField("paid", "checkbox"), false},
		{"radio", NewTextField("currency", "radio"), false},
		{"file input", NewTextField("attachment", "file"), false},
		{"disabled field", disabledField(), false},
		{"readonly field", readOnlyField(), false},
		{"transcript display", NewDisplayField("log", "transcript"), false},
		{"response display", NewDisplayField("reply", "response"), false},
		{"nil field", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.f); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouteInsertsAtCursor(t *testing.T) {
	r := NewRouter(nil)
	r.SetEnabled(true)

	field := NewTextField("notes", "textarea")
	field.SetValue("Hello")
	field.SetCursor(3)
	r.Focus(field)

	if !r.Route("world") {
		t.Fatal("Route returned false for eligible focused field")
	}

	if got := field.Value(); got != "Helworld lo" {
		t.Errorf("value = %q, want %q", got, "Helworld lo")
	}
	start, end := field.Selection()
	if start != 9 || end != 9 {
		t.Errorf("cursor = [%d,%d), want [9,9)", start, end)
	}
}

func TestRouteReplacesSelection(t *testing.T) {
	r := NewRouter(nil)
	r.SetEnabled(true)

	field := NewTextField("notes", "textarea")
	field.SetValue("pay the vendor now")
	field.Select(4, 14) // "the vendor"
	r.Focus(field)

	if !r.Route("  Acme Corp  ") {
		t.Fatal("Route returned false")
	}
	if got := field.Value(); got != "pay Acme Corp  now" {
		t.Errorf("value = %q", got)
	}
	start, _ := field.Selection()
	if want := 4 + len("Acme Corp "); start != want {
		t.Errorf("cursor = %d, want %d", start, want)
	}
}

func TestRouteAppendsToEnd(t *testing.T) {
	r := NewRouter(nil)
	r.SetEnabled(true)

	field := NewTextField("desc", "text")
	field.SetValue("monthly ")
	field.SetCursor(8)
	r.Focus(field)

	r.Route("retainer")
	if got := field.Value(); got != "monthly retainer " {
		t.Errorf("value = %q", got)
	}
}

func TestRouteDeclines(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *Router) Field
	}{
		{
			"dictation disabled",
			func(r *Router) Field {
				f := NewTextField("a", "text")
				r.Focus(f)
				return f
			},
		},
		{
			"no focus",
			func(r *Router) Field {
				r.SetEnabled(true)
				return NewTextField("a", "text")
			},
		},
		{
			"ineligible kind",
			func(r *Router) Field {
				r.SetEnabled(true)
				f := NewTextField("go", "submit")
				r.Focus(f)
				return f
			},
		},
		{
			"detached field",
			func(r *Router) Field {
				r.SetEnabled(true)
				f := NewTextField("a", "text")
				r.Focus(f)
				f.Detach()
				return f
			},
		},
		{
			"blurred after focus",
			func(r *Router) Field {
				r.SetEnabled(true)
				f := NewTextField("a", "text")
				r.Focus(f)
				r.Blur()
				return f
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(nil)
			field := tt.setup(r)
			field.SetValue("untouched")

			var changed bool
			r.OnChange(func(Field, string) { changed = true })

			if r.Route("spoken text") {
				t.Error("Route consumed text it should have declined")
			}
			if got := field.Value(); got != "untouched" {
				t.Errorf("field modified: %q", got)
			}
			if changed {
				t.Error("change callback fired for declined text")
			}
		})
	}
}

func TestRouteBlankUtterance(t *testing.T) {
	r := NewRouter(nil)
	r.SetEnabled(true)
	field := NewTextField("a", "text")
	field.SetValue("keep")
	r.Focus(field)

	if r.Route("   ") {
		t.Error("Route consumed blank text")
	}
	if field.Value() != "keep" {
		t.Errorf("field modified: %q", field.Value())
	}
}

func TestRouteFiresChangeCallback(t *testing.T) {
	r := NewRouter(nil)
	r.SetEnabled(true)
	field := NewTextField("qty", "number")
	r.Focus(field)

	var gotField Field
	var gotInserted string
	r.OnChange(func(f Field, inserted string) {
		gotField = f
		gotInserted = inserted
	})

	r.Route("42")
	if gotField != field {
		t.Error("callback received wrong field")
	}
	if gotInserted != "42 " {
		t.Errorf("inserted = %q, want %q", gotInserted, "42 ")
	}
}

func TestRouteClampsStaleSelection(t *testing.T) {
	r := NewRouter(nil)
	r.SetEnabled(true)

	field := NewTextField("a", "text")
	field.SetValue("hi")
	field.selStart, field.selEnd = 10, 20 // stale range beyond the value
	r.Focus(field)

	if !r.Route("there") {
		t.Fatal("Route returned false")
	}
	if got := field.Value(); got != "hithere " {
		t.Errorf("value = %q", got)
	}
}
