package speech

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/officevoice/go-officevoice/pkg/audioio"
)

// recordUtterance captures one utterance from the source: it reads until
// speech has been heard and a silence tail follows it, the utterance cap
// is hit, or the source is exhausted. The source is stopped before
// returning. Returns ErrNoSpeech if nothing above the silence threshold
// was captured.
func recordUtterance(ctx context.Context, src audioio.Source, cfg *Config) ([]int16, error) {
	if err := src.Start(ctx); err != nil {
		return nil, err
	}
	defer src.Stop()

	var (
		samples   []int16
		heard     bool
		silence   time.Duration
		recorded  time.Duration
		chunkTime = src.Config().BufferDuration
	)

	for recorded < cfg.MaxUtterance {
		chunk, err := src.Read(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		samples = append(samples, chunk.Samples...)
		recorded += chunkTime

		if chunk.RMS() >= cfg.SilenceThreshold {
			heard = true
			silence = 0
			continue
		}

		silence += chunkTime
		if heard && silence >= cfg.SilenceTail {
			break
		}
	}

	if !heard {
		return nil, ErrNoSpeech
	}
	return samples, nil
}

// writeWAVTo encodes mono PCM16 samples as a WAV file.
func writeWAVTo(w io.Writer, samples []int16, sampleRate int) error {
	return audioio.WriteWAV(w, samples, sampleRate, 1)
}
