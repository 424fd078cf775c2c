package mock

import (
	"context"
	"sync"
)

// MockGenerator is a test double for ai.TextGenerator.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, Generate returns Reply.
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)

	// Reply is the canned response used when GenerateFunc is nil.
	Reply string

	mu         sync.Mutex
	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a mock generator that always answers reply.
func NewMockGenerator(reply string) *MockGenerator {
	return &MockGenerator{Reply: reply}
}

// Generate returns the injected or canned reply.
func (m *MockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}
	return m.Reply, nil
}

// CallCount returns the number of Generate calls.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the user prompt of the most recent call.
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}
