package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"gopherai-qa/internal/ai"
	"gopherai-qa/internal/repository/memory"
)

// fakeEmbedder returns the registered vector for a text and a fallback otherwise.
type fakeEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	failOn   func(text string) bool
	calls    int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors:  map[string][]float32{},
		fallback: []float32{0, 0, 1},
	}
}

func (e *fakeEmbedder) set(text string, vector ...float32) {
	e.vectors[text] = vector
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.failOn != nil && e.failOn(text) {
		return nil, errors.New("embedding provider unavailable")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return e.fallback, nil
}

// fakeCompleter replays canned replies and records every prompt it receives.
type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts [][]ai.ChatMessage
}

func (c *fakeCompleter) Complete(_ context.Context, messages []ai.ChatMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, messages)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *fakeCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func memoryStores() (Stores, *memory.Store) {
	store := memory.NewStore()
	return Stores{
		Questions: store.Questions(),
		Answers:   store.Answers(),
		Chunks:    store.Chunks(),
	}, store
}

var testLogger = zap.NewNop()
