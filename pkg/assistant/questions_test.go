package assistant

import "testing"

func TestExtractQuestions(t *testing.T) {
	t.Run("two numbered lines", func(t *testing.T) {
		speak := "I need more detail.\n1. What is the client name?\n2. What is the amount?"
		got := ExtractQuestions(speak)
		want := []string{"What is the client name?", "What is the amount?"}
		if len(got) != len(want) {
			t.Fatalf("got %d questions, want %d: %v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("question %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("single numbered line stays prose", func(t *testing.T) {
		if got := ExtractQuestions("Only one thing:\n1. What is the date?"); got != nil {
			t.Errorf("expected nil for one numbered line, got %v", got)
		}
	})

	t.Run("no numbered lines", func(t *testing.T) {
		if got := ExtractQuestions("Opening invoices."); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("paren numbering and leading whitespace", func(t *testing.T) {
		speak := "  1) First thing?\n  2) Second thing?"
		got := ExtractQuestions(speak)
		if len(got) != 2 || got[0] != "First thing?" || got[1] != "Second thing?" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("order preserved", func(t *testing.T) {
		speak := "3. Third?\n1. First?\n2. Second?"
		got := ExtractQuestions(speak)
		if len(got) != 3 || got[0] != "Third?" {
			t.Errorf("extraction order not preserved: %v", got)
		}
	})
}

func TestBuildComposite(t *testing.T) {
	answers := []AnswerRecord{
		{Question: "What is the client name?", Answer: "Acme"},
		{Question: "What is the amount?", Answer: "100"},
	}
	got := BuildComposite("create an invoice", answers)
	want := "create an invoice\nDetails:\n1. What is the client name?: Acme\n2. What is the amount?: 100"
	if got != want {
		t.Errorf("composite =\n%q\nwant\n%q", got, want)
	}
}

func TestClassifyConfirmation(t *testing.T) {
	yes := []string{"yes", "Yes", "YES", "y", "si", "sí", "Sí", "ok", "OK", "okay", "confirm", "Confirmar", " yes ", "yes."}
	for _, in := range yes {
		if classifyConfirmation(in) != confirmYes {
			t.Errorf("%q should classify as yes", in)
		}
	}

	no := []string{"no", "No", "NO", "n", "cancel", "Cancelar", "no!"}
	for _, in := range no {
		if classifyConfirmation(in) != confirmNo {
			t.Errorf("%q should classify as no", in)
		}
	}

	unknown := []string{"", "maybe", "yes please do it", "nope", "affirmative"}
	for _, in := range unknown {
		if classifyConfirmation(in) != confirmUnknown {
			t.Errorf("%q should classify as unknown", in)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	es := []string{"¿qué reuniones tengo?", "abre facturas vencidas", "hola", "sí"}
	for _, in := range es {
		if got := DetectLanguage(in); got != "es-ES" {
			t.Errorf("DetectLanguage(%q) = %q, want es-ES", in, got)
		}
	}

	en := []string{"today's meetings", "open overdue invoices", "hello there", ""}
	for _, in := range en {
		if got := DetectLanguage(in); got != "en-US" {
			t.Errorf("DetectLanguage(%q) = %q, want en-US", in, got)
		}
	}
}

func TestLocalize(t *testing.T) {
	if got := localize(msgCancelled, "es-MX"); got != "Cancelado." {
		t.Errorf("es cancelled = %q", got)
	}
	if got := localize(msgCancelled, "en-US"); got != "Cancelled." {
		t.Errorf("en cancelled = %q", got)
	}
	if got := localize(msgSayYesOrNo, "ES-es"); got != "Por favor di sí o no." {
		t.Errorf("case-insensitive prefix failed: %q", got)
	}
}
