package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/officevoice/go-officevoice/pkg/command"
	"github.com/officevoice/go-officevoice/pkg/dictation"
	"github.com/officevoice/go-officevoice/pkg/prefs"
	"github.com/officevoice/go-officevoice/pkg/speech"
)

// eventSink collects controller events for assertions.
type eventSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *eventSink) record(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *eventSink) statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, ev := range s.events {
		if ev.Status != "" {
			out = append(out, ev.Status)
		}
	}
	return out
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	ctrl, err := NewController(opts...)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func TestNewControllerRequiresCommander(t *testing.T) {
	if _, err := NewController(); !errors.Is(err, ErrNoCommander) {
		t.Errorf("expected ErrNoCommander, got %v", err)
	}
}

func TestFreshCommandTerminalFlow(t *testing.T) {
	cmd := command.NewMock() // echoes the text back
	speaker := speech.NewMockSpeaker()

	ctrl := newController(t,
		WithCommander(cmd),
		WithSpeaker(speaker),
	)

	ctrl.HandleText(context.Background(), "today's meetings")

	if cmd.CallCount() != 1 {
		t.Fatalf("commander called %d times", cmd.CallCount())
	}
	if got := cmd.LastCall().Text; got != "today's meetings" {
		t.Errorf("sent text = %q", got)
	}
	if last := speaker.LastSpoken(); last == nil || last.Text != "today's meetings" {
		t.Errorf("spoken reply = %+v", last)
	}
	if ctrl.State() != Idle {
		t.Errorf("state = %v after terminal reply", ctrl.State())
	}
	if ctrl.Busy() {
		t.Error("busy still held after terminal reply")
	}
}

func TestQuestionCollectionFlow(t *testing.T) {
	var sent []string
	cmd := &command.Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*command.Reply, error) {
			sent = append(sent, text)
			if len(sent) == 1 {
				return &command.Reply{
					Speak: "I need more detail.\n1. What is the client name?\n2. What is the amount?",
				}, nil
			}
			return &command.Reply{Speak: "Invoice created."}, nil
		},
	}

	rec := speech.NewMockRecognizer()
	rec.QueueText("Acme", "en-US")
	rec.QueueText("100", "en-US")
	speaker := speech.NewMockSpeaker()

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speaker),
	)

	ctrl.HandleText(context.Background(), "create an invoice")

	if len(sent) != 2 {
		t.Fatalf("commander called %d times, want 2", len(sent))
	}
	want := "create an invoice\nDetails:\n1. What is the client name?: Acme\n2. What is the amount?: 100"
	if sent[1] != want {
		t.Errorf("composite =\n%q\nwant\n%q", sent[1], want)
	}

	// Both questions were spoken in order before the final reply.
	spoken := speaker.Spoken()
	if len(spoken) < 3 {
		t.Fatalf("spoken %d utterances: %+v", len(spoken), spoken)
	}
	if spoken[0].Text != "What is the client name?" || spoken[1].Text != "What is the amount?" {
		t.Errorf("question order wrong: %+v", spoken)
	}
	if spoken[len(spoken)-1].Text != "Invoice created." {
		t.Errorf("final reply = %+v", spoken[len(spoken)-1])
	}

	if rec.Remaining() != 0 {
		t.Errorf("%d scripted answers unread", rec.Remaining())
	}
	if ctrl.State() != Idle || ctrl.Busy() {
		t.Errorf("turn did not settle: state=%v busy=%v", ctrl.State(), ctrl.Busy())
	}
}

func TestSingleNumberedLineIsNotCollection(t *testing.T) {
	cmd := command.WithReply(&command.Reply{Speak: "One step:\n1. Check the mail."})
	rec := speech.NewMockRecognizer()

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speech.NewMockSpeaker()),
	)

	ctrl.HandleText(context.Background(), "what should I do")

	if cmd.CallCount() != 1 {
		t.Errorf("commander called %d times, want 1", cmd.CallCount())
	}
	if rec.Calls() != 0 {
		t.Errorf("recognizer started %d sessions, want 0", rec.Calls())
	}
	if ctrl.State() != Idle {
		t.Errorf("state = %v", ctrl.State())
	}
}

func TestConfirmationYes(t *testing.T) {
	var sent []string
	cmd := &command.Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*command.Reply, error) {
			sent = append(sent, text)
			if len(sent) == 1 {
				return &command.Reply{Speak: "Delete invoice 5?", NeedsConfirm: true}, nil
			}
			return &command.Reply{Speak: "Deleted."}, nil
		},
	}
	rec := speech.NewMockRecognizer()
	rec.QueueText("Yes", "en-US")

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speech.NewMockSpeaker()),
	)

	ctrl.HandleText(context.Background(), "delete invoice 5")

	if len(sent) != 2 {
		t.Fatalf("commander called %d times, want 2", len(sent))
	}
	if want := "delete invoice 5 confirm=true"; sent[1] != want {
		t.Errorf("reissued command = %q, want %q", sent[1], want)
	}
	if ctrl.State() != Idle || ctrl.Busy() {
		t.Errorf("turn did not settle: state=%v busy=%v", ctrl.State(), ctrl.Busy())
	}
}

func TestConfirmationNo(t *testing.T) {
	cmd := command.WithReply(&command.Reply{Speak: "Delete invoice 5?", NeedsConfirm: true})
	rec := speech.NewMockRecognizer()
	rec.QueueText("no", "en-US")
	speaker := speech.NewMockSpeaker()

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speaker),
	)

	ctrl.HandleText(context.Background(), "delete invoice 5")

	if cmd.CallCount() != 1 {
		t.Errorf("declined command was reissued: %d calls", cmd.CallCount())
	}
	if last := speaker.LastSpoken(); last == nil || last.Text != "Cancelled." {
		t.Errorf("last spoken = %+v, want cancelled message", last)
	}
	if ctrl.State() != Idle || ctrl.Busy() {
		t.Errorf("turn did not settle: state=%v busy=%v", ctrl.State(), ctrl.Busy())
	}
}

func TestConfirmationRepromptsOnUnknown(t *testing.T) {
	var sent []string
	cmd := &command.Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*command.Reply, error) {
			sent = append(sent, text)
			if len(sent) == 1 {
				return &command.Reply{Speak: "Send the reminder?", NeedsConfirm: true}, nil
			}
			return &command.Reply{Speak: "Sent."}, nil
		},
	}
	rec := speech.NewMockRecognizer()
	rec.QueueText("maybe later", "en-US")
	rec.QueueText("yes", "en-US")
	speaker := speech.NewMockSpeaker()

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speaker),
	)

	ctrl.HandleText(context.Background(), "send the reminder")

	var reprompted bool
	for _, s := range speaker.Spoken() {
		if s.Text == "Please say yes or no." {
			reprompted = true
		}
	}
	if !reprompted {
		t.Error("controller did not re-prompt on unrecognized confirmation")
	}
	if len(sent) != 2 || !strings.HasSuffix(sent[1], " confirm=true") {
		t.Errorf("sent = %v", sent)
	}
}

func TestListenDroppedWhileBusy(t *testing.T) {
	cmd := command.WithReply(&command.Reply{Speak: "Proceed?", NeedsConfirm: true})
	rec := speech.NewMockRecognizer()
	speaker := speech.NewMockSpeaker()
	speaker.Silent = true // stall the chain at the confirmation prompt

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speaker),
	)

	ctrl.HandleText(context.Background(), "archive everything")

	if !ctrl.Busy() {
		t.Fatal("expected turn to be held busy at confirmation")
	}
	if ctrl.State() != AwaitingConfirmation {
		t.Fatalf("state = %v", ctrl.State())
	}

	ctrl.Listen(context.Background())

	if rec.Calls() != 0 {
		t.Errorf("recognition started %d sessions while busy", rec.Calls())
	}
	if ctrl.State() != AwaitingConfirmation {
		t.Errorf("busy listen changed state to %v", ctrl.State())
	}
}

func TestTransportFailureMidCollection(t *testing.T) {
	var sent []string
	cmd := &command.Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*command.Reply, error) {
			sent = append(sent, text)
			if len(sent) == 1 {
				return &command.Reply{Speak: "1. First?\n2. Second?"}, nil
			}
			return nil, command.ErrCommandFailed
		},
	}
	rec := speech.NewMockRecognizer()
	rec.QueueText("alpha", "en-US")
	rec.QueueText("beta", "en-US")
	speaker := speech.NewMockSpeaker()
	sink := &eventSink{}

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithSpeaker(speaker),
		WithOnEvent(sink.record),
	)

	ctrl.HandleText(context.Background(), "set up a client")

	if ctrl.State() != Idle || ctrl.Busy() {
		t.Errorf("failure did not reset: state=%v busy=%v", ctrl.State(), ctrl.Busy())
	}

	var surfaced bool
	for _, s := range sink.statuses() {
		if s == "Something went wrong, please try again." {
			surfaced = true
		}
	}
	if !surfaced {
		t.Error("error status never surfaced")
	}

	// The discarded collection must not leak into the next turn.
	ctrl.HandleText(context.Background(), "hello")
	if got := sent[len(sent)-1]; got != "hello" {
		t.Errorf("next turn sent %q, want fresh command", got)
	}
}

func TestDictationTakesPriority(t *testing.T) {
	cmd := command.NewMock()
	router := dictation.NewRouter(nil)
	router.SetEnabled(true)
	field := dictation.NewTextField("notes", "textarea")
	router.Focus(field)

	ctrl := newController(t,
		WithCommander(cmd),
		WithRouter(router),
		WithSpeaker(speech.NewMockSpeaker()),
	)

	ctrl.HandleText(context.Background(), "two laptops")

	if cmd.CallCount() != 0 {
		t.Errorf("dictation leaked to the commander: %d calls", cmd.CallCount())
	}
	if got := field.Value(); got != "two laptops " {
		t.Errorf("field value = %q", got)
	}
	if ctrl.State() != Idle {
		t.Errorf("state = %v", ctrl.State())
	}
}

func TestDictationNoTargetStatus(t *testing.T) {
	cmd := command.NewMock()
	router := dictation.NewRouter(nil)
	router.SetEnabled(true) // enabled but nothing focused
	sink := &eventSink{}

	ctrl := newController(t,
		WithCommander(cmd),
		WithRouter(router),
		WithOnEvent(sink.record),
	)

	ctrl.HandleText(context.Background(), "two laptops")

	if cmd.CallCount() != 0 {
		t.Errorf("untargeted dictation fell through to the commander")
	}
	statuses := sink.statuses()
	if len(statuses) == 0 || statuses[len(statuses)-1] != "No field selected for dictation." {
		t.Errorf("statuses = %v, want no-target", statuses)
	}
}

func TestRedirectFiresAfterDelay(t *testing.T) {
	cmd := command.WithReply(&command.Reply{
		Speak:       "Opening invoices.",
		RedirectURL: "/ar/invoices",
	})

	navigated := make(chan string, 1)
	var navAt time.Time

	ctrl := newController(t,
		WithCommander(cmd),
		WithSpeaker(speech.NewMockSpeaker()),
		WithRedirectDelay(30*time.Millisecond),
		WithNavigate(func(url string) {
			navAt = time.Now()
			navigated <- url
		}),
	)

	start := time.Now()
	ctrl.HandleText(context.Background(), "open invoices")

	// The reply settles before navigation happens.
	select {
	case <-navigated:
		t.Fatal("navigation fired before the delay")
	default:
	}

	select {
	case url := <-navigated:
		if url != "/ar/invoices" {
			t.Errorf("navigated to %q", url)
		}
		if navAt.Sub(start) < 30*time.Millisecond {
			t.Errorf("navigated after %v, want >= 30ms", navAt.Sub(start))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("navigation never fired")
	}
}

func TestGreetSendsEmptyText(t *testing.T) {
	cmd := command.NewMock()
	ctrl := newController(t, WithCommander(cmd))

	ctrl.Greet(context.Background())

	if cmd.CallCount() != 1 {
		t.Fatalf("commander called %d times", cmd.CallCount())
	}
	if got := cmd.LastCall().Text; got != "" {
		t.Errorf("greet sent %q, want empty text", got)
	}
}

func TestLanguageFromPreference(t *testing.T) {
	cmd := command.NewMock()
	store := prefs.NewMemoryStore()
	store.Save(prefs.Preferences{Language: "es-ES"})

	ctrl := newController(t, WithCommander(cmd), WithPrefs(store))
	ctrl.HandleText(context.Background(), "hello")

	if got := cmd.LastCall().Lang; got != "es-ES" {
		t.Errorf("lang = %q, want es-ES", got)
	}
}

func TestLanguageAutoDetects(t *testing.T) {
	cmd := command.NewMock()
	store := prefs.NewMemoryStore()
	store.Save(prefs.Preferences{Language: "auto"})

	ctrl := newController(t, WithCommander(cmd), WithPrefs(store))
	ctrl.HandleText(context.Background(), "abre facturas vencidas")

	if got := cmd.LastCall().Lang; got != "es-ES" {
		t.Errorf("lang = %q, want es-ES", got)
	}
}

func TestUtteranceLanguageWins(t *testing.T) {
	cmd := command.NewMock()
	rec := speech.NewMockRecognizer()
	rec.QueueText("hello", "en-GB")
	store := prefs.NewMemoryStore()
	store.Save(prefs.Preferences{Language: "es-ES"})

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithPrefs(store),
	)

	ctrl.Listen(context.Background())

	if got := cmd.LastCall().Lang; got != "en-GB" {
		t.Errorf("lang = %q, want recognizer's en-GB", got)
	}
}

func TestNoSpeechStatus(t *testing.T) {
	cmd := command.NewMock()
	rec := speech.NewMockRecognizer() // empty script yields ErrNoSpeech
	sink := &eventSink{}

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithOnEvent(sink.record),
	)

	ctrl.Listen(context.Background())

	statuses := sink.statuses()
	if len(statuses) != 2 || statuses[0] != "Listening..." || statuses[1] != "No speech detected." {
		t.Errorf("statuses = %v", statuses)
	}
	if ctrl.State() != Idle {
		t.Errorf("state = %v", ctrl.State())
	}
}

func TestListeningStatusEmitted(t *testing.T) {
	cmd := command.NewMock()
	rec := speech.NewMockRecognizer()
	rec.QueueText("open invoices", "en-US")
	sink := &eventSink{}

	ctrl := newController(t,
		WithCommander(cmd),
		WithRecognizer(rec),
		WithOnEvent(sink.record),
	)

	ctrl.Listen(context.Background())

	statuses := sink.statuses()
	if len(statuses) == 0 || statuses[0] != "Listening..." {
		t.Errorf("statuses = %v, want a leading listening indicator", statuses)
	}
	if cmd.CallCount() != 1 {
		t.Errorf("commander called %d times", cmd.CallCount())
	}
}
