// Package assistant drives the conversational turn loop: capture an
// utterance, classify it against the current state, exchange it with
// the backend, speak the reply and chain into question collection or
// confirmation when the reply calls for it.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/officevoice/go-officevoice/pkg/command"
	"github.com/officevoice/go-officevoice/pkg/dictation"
	"github.com/officevoice/go-officevoice/pkg/prefs"
	"github.com/officevoice/go-officevoice/pkg/speech"
)

// Controller owns one conversational session. All mutable turn state
// lives behind its mutex; completion callbacks from the speaker and
// recognizer re-enter through exported-style methods that take the
// lock themselves, so no lock is ever held across I/O.
type Controller struct {
	commander     command.Commander
	recognizer    speech.Recognizer
	speaker       Speaker
	router        *dictation.Router
	prefs         prefs.Store
	navigate      NavigateFunc
	onEvent       EventFunc
	redirectDelay time.Duration
	logger        *slog.Logger

	mu         sync.Mutex
	state      State
	busy       bool
	turnID     string
	statusSet  bool
	intent     string
	questions  []string
	answers    []AnswerRecord
	confirmCmd string
	confirmLng string
	redirect   *time.Timer
	closed     bool
}

// NewController builds a controller from options. Only the commander
// is required; missing speech capabilities degrade the relevant
// triggers instead of failing.
func NewController(opts ...Option) (*Controller, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Controller{
		commander:     cfg.Commander,
		recognizer:    cfg.Recognizer,
		speaker:       cfg.Speaker,
		router:        cfg.Router,
		prefs:         cfg.Prefs,
		navigate:      cfg.Navigate,
		onEvent:       cfg.OnEvent,
		redirectDelay: cfg.RedirectDelay,
		logger:        cfg.Logger.With("component", "assistant"),
	}, nil
}

// CanListen reports whether a recognizer is configured.
func (c *Controller) CanListen() bool { return c.recognizer != nil }

// CanSpeak reports whether a speaker is configured.
func (c *Controller) CanSpeak() bool { return c.speaker != nil }

// State returns the current conversational state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a command turn is settling.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Listen starts a recognition session in response to a user trigger.
// It is dropped while a command is in flight or chaining; overlapping
// starts while already listening are absorbed by the recognizer.
func (c *Controller) Listen(ctx context.Context) {
	if c.recognizer == nil {
		c.logger.Warn("listen trigger with no recognizer configured")
		return
	}

	c.mu.Lock()
	if c.closed || c.busy {
		busy := c.busy
		c.mu.Unlock()
		c.logger.Debug("listen request dropped", "busy", busy)
		return
	}
	if c.state == Idle {
		c.beginTurnLocked()
	}
	c.mu.Unlock()

	c.capture(ctx)
}

// Greet sends the empty "greet me" command.
func (c *Controller) Greet(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.busy {
		c.mu.Unlock()
		return
	}
	c.beginTurnLocked()
	c.mu.Unlock()

	c.send(ctx, "", c.resolveLang("", ""), true)
}

// HandleText feeds a typed utterance through the same classification
// as recognized speech. Dropped while a command is in flight.
func (c *Controller) HandleText(ctx context.Context, text string) {
	c.mu.Lock()
	if c.closed || c.state == Processing {
		c.mu.Unlock()
		c.logger.Debug("text input dropped while processing")
		return
	}
	if c.state == Idle {
		c.beginTurnLocked()
	}
	c.mu.Unlock()

	c.handleUtterance(ctx, text, c.resolveLang("", text))
}

// Close cancels any playing speech and pending redirect.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
	c.mu.Unlock()

	if c.speaker != nil {
		c.speaker.Cancel()
	}
	return nil
}

// beginTurnLocked stamps a fresh turn ID. Caller holds the lock.
func (c *Controller) beginTurnLocked() {
	c.turnID = uuid.NewString()
	c.statusSet = false
}

// capture runs one recognition pass and dispatches the result.
func (c *Controller) capture(ctx context.Context) {
	if c.recognizer == nil {
		// Typed-input session; nothing to resume into.
		c.mu.Lock()
		if !c.busy {
			c.state = Idle
		}
		c.mu.Unlock()
		return
	}
	// Surface the listening indicator but leave statusSet alone so a
	// silent pass can still report "no speech".
	c.mu.Lock()
	c.state = Listening
	c.mu.Unlock()
	c.emit(Event{Status: localize(msgListening, c.prefLang())})

	utt, err := c.recognizer.ListenOnce(ctx)
	if err != nil {
		if errors.Is(err, speech.ErrAlreadyListening) {
			return
		}

		c.mu.Lock()
		stillListening := c.state == Listening
		already := c.statusSet
		c.mu.Unlock()
		lang := c.prefLang()

		if errors.Is(err, speech.ErrNoSpeech) {
			// Only report if nothing more specific was surfaced.
			if stillListening && !already {
				c.setStatus(msgNoSpeech, lang)
			}
		} else {
			c.logger.Warn("recognition failed", "error", err)
			c.setStatus(msgErrorRetry, lang)
		}
		c.resetTurn()
		return
	}

	c.handleUtterance(ctx, utt.Text, c.resolveLang(utt.Lang, utt.Text))
}

// handleUtterance classifies one utterance by priority: dictation,
// pending confirmation, pending question, fresh command.
func (c *Controller) handleUtterance(ctx context.Context, text, lang string) {
	c.emit(Event{Transcript: text})

	if c.router != nil && c.router.Enabled() {
		if c.router.Route(text) {
			c.setStatus(msgDictated, lang)
			c.capture(ctx)
			return
		}
		c.setStatus(msgNoTarget, lang)
		c.resetTurn()
		return
	}

	c.mu.Lock()
	pendingConfirm := c.confirmCmd != ""
	pendingAnswer := len(c.questions) > 0
	c.mu.Unlock()

	switch {
	case pendingConfirm:
		c.handleConfirmation(ctx, text, lang)
	case pendingAnswer:
		c.handleAnswer(ctx, text, lang)
	default:
		c.mu.Lock()
		c.intent = text
		c.mu.Unlock()
		c.send(ctx, text, lang, true)
	}
}

// handleConfirmation resolves a pending yes/no.
func (c *Controller) handleConfirmation(ctx context.Context, text, lang string) {
	switch classifyConfirmation(text) {
	case confirmYes:
		c.mu.Lock()
		cmdText := c.confirmCmd + confirmSuffix
		cmdLang := c.confirmLng
		c.confirmCmd, c.confirmLng = "", ""
		c.mu.Unlock()
		c.send(ctx, cmdText, cmdLang, false)

	case confirmNo:
		c.setStatus(msgCancelled, lang)
		c.speak(localize(msgCancelled, lang), lang, nil)
		c.resetTurn()

	default:
		// Re-prompt; the pending command stays stored.
		c.setState(AwaitingConfirmation)
		c.speak(localize(msgSayYesOrNo, lang), lang, func() {
			c.capture(ctx)
		})
	}
}

// handleAnswer records the reply to the front question and either asks
// the next one or submits the composite command.
func (c *Controller) handleAnswer(ctx context.Context, text, lang string) {
	c.mu.Lock()
	q := c.questions[0]
	c.questions = c.questions[1:]
	c.answers = append(c.answers, AnswerRecord{Question: q, Answer: strings.TrimSpace(text)})

	var next string
	if len(c.questions) > 0 {
		next = c.questions[0]
	}
	intent := c.intent
	answers := make([]AnswerRecord, len(c.answers))
	copy(answers, c.answers)
	c.mu.Unlock()

	if next != "" {
		c.setState(AwaitingAnswer)
		c.speak(next, lang, func() {
			c.capture(ctx)
		})
		return
	}

	c.send(ctx, BuildComposite(intent, answers), lang, false)
}

// send dispatches one command exchange. fresh marks a brand-new
// command whose reply may open question collection; composite and
// confirmed reissues never re-extract.
func (c *Controller) send(ctx context.Context, text, lang string, fresh bool) {
	c.mu.Lock()
	c.busy = true
	c.state = Processing
	c.mu.Unlock()
	c.emit(Event{})

	reply, err := c.commander.Send(ctx, text, lang)
	if err != nil {
		c.logger.Error("command failed", "error", err)
		c.setStatus(msgErrorRetry, lang)
		c.speak(localize(msgErrorRetry, lang), lang, nil)
		// Terminal to the turn: any half-collected answers are gone.
		c.resetTurn()
		return
	}

	c.processReply(ctx, text, lang, reply, fresh)
}

// processReply routes a backend reply into collection, confirmation or
// terminal handling.
func (c *Controller) processReply(ctx context.Context, sent, lang string, reply *command.Reply, fresh bool) {
	if fresh {
		if qs := ExtractQuestions(reply.Speak); qs != nil {
			c.mu.Lock()
			c.questions = qs
			c.answers = nil
			first := qs[0]
			c.state = AwaitingAnswer
			c.mu.Unlock()
			c.emit(Event{Speak: reply.Speak})

			c.speak(first, lang, func() {
				c.capture(ctx)
			})
			return
		}
	}

	if reply.NeedsConfirm {
		c.mu.Lock()
		c.confirmCmd = sent
		c.confirmLng = lang
		c.questions = nil
		c.state = AwaitingConfirmation
		c.mu.Unlock()
		c.emit(Event{Speak: reply.Speak})

		c.speak(reply.Speak, lang, func() {
			c.capture(ctx)
		})
		return
	}

	// Terminal reply: the turn settles before speech finishes.
	c.mu.Lock()
	c.questions = nil
	c.answers = nil
	c.intent = ""
	c.busy = false
	c.state = Idle
	c.statusSet = true
	c.mu.Unlock()
	c.emit(Event{Speak: reply.Speak, RedirectURL: reply.RedirectURL})

	c.speak(reply.Speak, lang, nil)

	if reply.RedirectURL != "" && c.navigate != nil {
		url := reply.RedirectURL
		c.mu.Lock()
		c.redirect = time.AfterFunc(c.redirectDelay, func() {
			c.navigate(url)
		})
		c.mu.Unlock()
	}
}

// resetTurn clears all turn state back to Idle.
func (c *Controller) resetTurn() {
	c.mu.Lock()
	c.busy = false
	c.state = Idle
	c.intent = ""
	c.questions = nil
	c.answers = nil
	c.confirmCmd = ""
	c.confirmLng = ""
	c.mu.Unlock()
	c.emit(Event{})
}

// setState records a transition and emits it.
func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.emit(Event{})
}

// setStatus surfaces a localized status message.
func (c *Controller) setStatus(key, lang string) {
	msg := localize(key, lang)
	c.mu.Lock()
	c.statusSet = true
	c.mu.Unlock()
	c.emit(Event{Status: msg})
}

// speak voices text when a speaker is available. With no speaker the
// continuation still runs so chained flows don't stall.
func (c *Controller) speak(text, lang string, onDone func()) {
	if c.speaker == nil || text == "" {
		if onDone != nil {
			onDone()
		}
		return
	}
	c.speaker.Speak(text, lang, onDone)
}

// resolveLang picks the language for a turn: the recognizer's tag if
// present, else the preference, with "auto" falling back to detection
// over the utterance text.
func (c *Controller) resolveLang(uttLang, text string) string {
	if uttLang != "" {
		return uttLang
	}

	var pref prefs.Preferences
	if c.prefs != nil {
		pref, _ = c.prefs.Load()
	}
	switch pref.Language {
	case "", "auto":
		return DetectLanguage(text)
	default:
		return pref.Language
	}
}

// prefLang reads the preferred language without detection.
func (c *Controller) prefLang() string {
	if c.prefs == nil {
		return "en-US"
	}
	pref, _ := c.prefs.Load()
	if pref.Language == "" || pref.Language == "auto" {
		return "en-US"
	}
	return pref.Language
}

// emit fills in turn context and delivers the event.
func (c *Controller) emit(ev Event) {
	if c.onEvent == nil {
		return
	}
	c.mu.Lock()
	ev.TurnID = c.turnID
	ev.State = c.state.String()
	c.mu.Unlock()
	c.onEvent(ev)
}
