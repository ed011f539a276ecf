package command

import (
	"context"
	"sync"
	"time"
)

// Mock implements Commander for testing.
// All methods can be customized via function fields.
type Mock struct {
	// SendFunc is called when Send is invoked.
	// If nil, returns an empty reply.
	SendFunc func(ctx context.Context, text, lang string) (*Reply, error)

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a Send invocation for verification.
type MockCall struct {
	Text string
	Lang string
	Time time.Time
}

// NewMock creates a mock commander that echoes the command back.
func NewMock() *Mock {
	return &Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*Reply, error) {
			return &Reply{Speak: text}, nil
		},
	}
}

// WithReply returns a mock that always returns the given reply.
func WithReply(reply *Reply) *Mock {
	return &Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*Reply, error) {
			return reply, nil
		},
	}
}

// WithError returns a mock that always fails with the given error.
func WithError(err error) *Mock {
	return &Mock{
		SendFunc: func(ctx context.Context, text, lang string) (*Reply, error) {
			return nil, err
		},
	}
}

// Send calls SendFunc and records the call.
func (m *Mock) Send(ctx context.Context, text, lang string) (*Reply, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Text: text, Lang: lang, Time: time.Now()})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, text, lang)
	}
	return &Reply{}, nil
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// LastCall returns the most recent call, or nil if none.
func (m *Mock) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// CallCount returns the number of Send invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Commander at compile time.
var _ Commander = (*Mock)(nil)
