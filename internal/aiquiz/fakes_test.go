package aiquiz_test

import (
	"context"
	"errors"
	"sync"

	"github.com/saulo-duarte/quizzer/internal/aiquiz"
)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	opts    []aiquiz.CompletionOptions
}

func (p *fakeProvider) Complete(ctx context.Context, prompt string, opts aiquiz.CompletionOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	p.opts = append(p.opts, opts)
	return p.reply, p.err
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

type memoryHintCache struct {
	items  map[string]string
	getErr error
}

func newMemoryHintCache() *memoryHintCache {
	return &memoryHintCache{items: map[string]string{}}
}

func (c *memoryHintCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memoryHintCache) Set(ctx context.Context, key, hint string) error {
	c.items[key] = hint
	return nil
}

var errUpstream = errors.New("upstream unavailable")
