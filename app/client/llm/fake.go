package llm

import (
	"context"
	"sync"
)

// Fake is a scripted Client for tests and offline runs.
type Fake struct {
	mu    sync.Mutex
	Reply string
	Err   error
	calls [][]Message
}

func (f *Fake) Complete(_ context.Context, messages []Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := make([]Message, len(messages))
	copy(cp, messages)
	f.calls = append(f.calls, cp)

	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func (f *Fake) Calls() [][]Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}
