package speech

import (
	"context"
	"log/slog"
	"sync"
)

// Speaker serializes synthesis and playback: at most one utterance is
// audible at a time, and starting a new one cancels whatever is playing.
//
// The onDone callback passed to Speak fires exactly once when that
// utterance finishes playing naturally. It never fires for an utterance
// that was cancelled by a later Speak, for empty text, or when synthesis
// or playback fails — callers must not assume completion.
type Speaker struct {
	engine Engine
	player Player
	logger *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSpeaker creates a Speaker over the given engine and player.
func NewSpeaker(engine Engine, player Player, opts ...Option) (*Speaker, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if engine == nil {
		return nil, ErrNoEngine
	}
	if player == nil {
		return nil, ErrNoPlayer
	}

	return &Speaker{
		engine: engine,
		player: player,
		logger: cfg.Logger.With("component", "speech.speaker"),
	}, nil
}

// Speak synthesizes and plays text in the voice bound to lang.
// Any in-flight utterance is cancelled first; its callback will not
// fire. Empty text is a no-op.
func (s *Speaker) Speak(text, lang string, onDone func()) {
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.gen++
	myGen := s.gen
	s.mu.Unlock()

	voice, ok := SelectVoice(s.engine.Voices(), lang)
	if !ok {
		s.logger.Warn("no voices available", "engine", s.engine.Name())
		return
	}

	go s.run(ctx, myGen, text, voice, onDone)
}

// run performs one synthesis + playback cycle.
func (s *Speaker) run(ctx context.Context, gen uint64, text string, voice Voice, onDone func()) {
	err := s.play(ctx, text, voice)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("speak failed", "error", err, "chars", len(text))
		}
		return
	}
	if !s.claimCompletion(ctx, gen) {
		return
	}
	if onDone != nil {
		onDone()
	}
}

// play prefers the streaming path when both sides support it.
func (s *Speaker) play(ctx context.Context, text string, voice Voice) error {
	streamer, canStream := s.engine.(StreamingEngine)
	streamPlayer, canPlayStream := s.player.(StreamPlayer)

	if canStream && canPlayStream {
		stream, err := streamer.SynthesizeStream(ctx, text, voice)
		if err == nil {
			return streamPlayer.PlayStream(ctx, stream)
		}
		s.logger.Warn("stream synthesis failed, falling back", "error", err)
	}

	clip, err := s.engine.Synthesize(ctx, text, voice)
	if err != nil {
		return err
	}
	return s.player.Play(ctx, clip)
}

// claimCompletion marks gen as finished and reserves callback delivery
// for it. The check and the claim share the critical section with
// Speak's cancel-and-increment, so an utterance superseded after its
// playback ended still cannot deliver its callback.
func (s *Speaker) claimCompletion(ctx context.Context, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil || s.gen != gen {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Cancel stops any in-flight utterance. Its callback will not fire.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
