package audioio

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
)

// MockSource is a mock audio source for testing.
// It plays back enqueued chunks, then returns io.EOF.
type MockSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	queue   []AudioChunk
	running bool
	closed  bool

	// Stats
	chunksRead int64
}

// NewMockSource creates a new mock audio source.
func NewMockSource(cfg Config, logger *slog.Logger) *MockSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSource{
		cfg:    cfg,
		logger: logger,
	}
}

// EnqueueChunk appends a chunk to the playback queue.
func (m *MockSource) EnqueueChunk(chunk AudioChunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, chunk)
}

// EnqueueTone appends one buffer of a sine wave at the given frequency
// and amplitude (0.0-1.0). Amplitude 0 produces silence.
func (m *MockSource) EnqueueTone(frequency, amplitude float64) {
	n := m.cfg.ChunkSamples()
	samples := make([]int16, n)
	for i := range samples {
		if amplitude > 0 && frequency > 0 {
			v := amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(m.cfg.SampleRate))
			samples[i] = int16(v * 32767)
		}
	}
	m.EnqueueChunk(AudioChunk{
		Samples:    samples,
		SampleRate: m.cfg.SampleRate,
		Channels:   m.cfg.Channels,
	})
}

// EnqueueSilence appends count buffers of silence.
func (m *MockSource) EnqueueSilence(count int) {
	for i := 0; i < count; i++ {
		m.EnqueueTone(0, 0)
	}
}

// EnqueueSpeech appends count buffers of loud tone, simulating speech.
func (m *MockSource) EnqueueSpeech(count int) {
	for i := 0; i < count; i++ {
		m.EnqueueTone(440, 0.5)
	}
}

// Start begins playback of the queue.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return io.ErrClosedPipe
	}
	m.running = true
	return nil
}

// Read returns the next enqueued chunk, or io.EOF when exhausted.
func (m *MockSource) Read(ctx context.Context) (AudioChunk, error) {
	if err := ctx.Err(); err != nil {
		return AudioChunk{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || len(m.queue) == 0 {
		return AudioChunk{}, io.EOF
	}

	chunk := m.queue[0]
	m.queue = m.queue[1:]
	m.chunksRead++
	return chunk, nil
}

// Stop halts playback.
func (m *MockSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	return nil
}

// Config returns the current audio configuration.
func (m *MockSource) Config() Config {
	return m.cfg
}

// Name returns the backend name.
func (m *MockSource) Name() string {
	return "mock"
}

// Close releases all resources.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.closed = true
	return nil
}

// ChunksRead returns the number of chunks consumed.
func (m *MockSource) ChunksRead() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chunksRead
}

// Verify MockSource implements Source at compile time.
var _ Source = (*MockSource)(nil)
