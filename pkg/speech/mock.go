package speech

import (
	"context"
	"sync"
	"time"
)

// MockRecognizer implements Recognizer for testing.
// Utterances are scripted with Queue, or ListenOnceFunc overrides the
// behavior entirely.
type MockRecognizer struct {
	// ListenOnceFunc, if set, is called instead of the scripted queue.
	ListenOnceFunc func(ctx context.Context) (*Utterance, error)

	mu     sync.Mutex
	script []scriptedResult
	calls  int
	busy   bool
}

type scriptedResult struct {
	utt *Utterance
	err error
}

// NewMockRecognizer creates an empty mock recognizer.
// With no script, ListenOnce returns ErrNoSpeech.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

// Queue appends a scripted result.
func (m *MockRecognizer) Queue(utt *Utterance, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptedResult{utt: utt, err: err})
}

// QueueText appends a scripted utterance with the given text and lang.
func (m *MockRecognizer) QueueText(text, lang string) {
	m.Queue(&Utterance{Text: text, Lang: lang, Confidence: 0.95}, nil)
}

// ListenOnce pops the next scripted result.
func (m *MockRecognizer) ListenOnce(ctx context.Context) (*Utterance, error) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return nil, ErrAlreadyListening
	}
	m.busy = true
	m.calls++
	fn := m.ListenOnceFunc
	var next *scriptedResult
	if fn == nil && len(m.script) > 0 {
		next = &m.script[0]
		m.script = m.script[1:]
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.busy = false
		m.mu.Unlock()
	}()

	if fn != nil {
		return fn(ctx)
	}
	if next == nil {
		return nil, ErrNoSpeech
	}
	return next.utt, next.err
}

// Calls returns the number of ListenOnce invocations.
func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Remaining returns the number of unconsumed scripted results.
func (m *MockRecognizer) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

// Verify MockRecognizer implements Recognizer at compile time.
var _ Recognizer = (*MockRecognizer)(nil)

// MockEngine implements Engine for testing.
type MockEngine struct {
	// SynthesizeFunc is called when Synthesize is invoked.
	// If nil, returns a clip with duration proportional to the text.
	SynthesizeFunc func(ctx context.Context, text string, voice Voice) (*Clip, error)

	// VoiceTable overrides the default test voices.
	VoiceTable []Voice

	mu    sync.Mutex
	calls []MockSynthesis
}

// MockSynthesis records one Synthesize invocation.
type MockSynthesis struct {
	Text  string
	Voice Voice
}

// NewMockEngine creates a mock engine with English and Spanish voices.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		VoiceTable: []Voice{
			{ID: "v-en", Name: "test-en", Lang: "en-US", Default: true},
			{ID: "v-es", Name: "test-es", Lang: "es-ES"},
		},
	}
}

// Synthesize calls SynthesizeFunc and records the call.
func (m *MockEngine) Synthesize(ctx context.Context, text string, voice Voice) (*Clip, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockSynthesis{Text: text, Voice: voice})
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, voice)
	}
	return &Clip{
		Audio:    make([]byte, len(text)),
		Format:   "pcm",
		Duration: time.Duration(len(text)) * time.Millisecond,
	}, nil
}

// Voices returns the test voice table.
func (m *MockEngine) Voices() []Voice {
	return m.VoiceTable
}

// Name returns the engine name.
func (m *MockEngine) Name() string {
	return "mock"
}

// Close releases nothing.
func (m *MockEngine) Close() error {
	return nil
}

// Calls returns all recorded syntheses.
func (m *MockEngine) Calls() []MockSynthesis {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockSynthesis, len(m.calls))
	copy(result, m.calls)
	return result
}

// Verify MockEngine implements Engine at compile time.
var _ Engine = (*MockEngine)(nil)

// MockPlayer implements Player for testing.
// Each Play blocks for the clip duration (or PlayDelay if set) and
// respects context cancellation.
type MockPlayer struct {
	// PlayDelay overrides the clip duration for blocking.
	PlayDelay time.Duration

	mu     sync.Mutex
	played []string
}

// NewMockPlayer creates a mock player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// Play blocks for the clip's duration or until cancelled.
func (m *MockPlayer) Play(ctx context.Context, clip *Clip) error {
	delay := clip.Duration
	if m.PlayDelay > 0 {
		delay = m.PlayDelay
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	m.played = append(m.played, clip.Format)
	m.mu.Unlock()
	return nil
}

// PlayCount returns the number of clips played to completion.
func (m *MockPlayer) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.played)
}

// Verify MockPlayer implements Player at compile time.
var _ Player = (*MockPlayer)(nil)

// MockSpeaker is a synchronous speaker stand-in for controller tests:
// it records every Speak and invokes onDone immediately.
type MockSpeaker struct {
	mu     sync.Mutex
	spoken []SpokenText

	// Silent suppresses onDone callbacks when true, simulating a
	// missing synthesis capability.
	Silent bool
}

// SpokenText records one Speak invocation.
type SpokenText struct {
	Text string
	Lang string
}

// NewMockSpeaker creates a mock speaker.
func NewMockSpeaker() *MockSpeaker {
	return &MockSpeaker{}
}

// Speak records the text and fires onDone synchronously.
func (m *MockSpeaker) Speak(text, lang string, onDone func()) {
	if text == "" {
		return
	}
	m.mu.Lock()
	m.spoken = append(m.spoken, SpokenText{Text: text, Lang: lang})
	silent := m.Silent
	m.mu.Unlock()

	if !silent && onDone != nil {
		onDone()
	}
}

// Cancel is a no-op on the mock.
func (m *MockSpeaker) Cancel() {}

// Spoken returns all recorded utterances.
func (m *MockSpeaker) Spoken() []SpokenText {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]SpokenText, len(m.spoken))
	copy(result, m.spoken)
	return result
}

// LastSpoken returns the most recent utterance, or nil.
func (m *MockSpeaker) LastSpoken() *SpokenText {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.spoken) == 0 {
		return nil
	}
	s := m.spoken[len(m.spoken)-1]
	return &s
}
