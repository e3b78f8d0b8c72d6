package llm

import (
	"context"
	"fmt"
	"sync"
)

// Reply is one scripted answer of a Fake backend.
type Reply struct {
	JSON   string
	Err    error
	Tokens int
	// Block makes the call wait for ctx to be done and return its error.
	Block bool
	// Panic makes the call panic with this value.
	Panic any
}

// Fake returns scripted replies keyed by phase, for offline runs and tests.
type Fake struct {
	Replies map[string]Reply
	// Default answers phases missing from Replies.
	Default *Reply

	mu    sync.Mutex
	calls map[string]int
}

func NewFake(replies map[string]Reply) *Fake {
	return &Fake{Replies: replies}
}

func (f *Fake) Name() string { return "fake" }
func (f *Fake) Close() error { return nil }

// Calls returns how many requests were made for phase.
func (f *Fake) Calls(phase string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[phase]
}

func (f *Fake) GenerateJSON(ctx context.Context, prompt string, input any) (Response, error) {
	phase := PhaseFrom(ctx)

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[phase]++
	f.mu.Unlock()

	r, ok := f.Replies[phase]
	if !ok {
		if f.Default == nil {
			return Response{}, fmt.Errorf("fake: no reply for phase %q", phase)
		}
		r = *f.Default
	}

	switch {
	case r.Panic != nil:
		panic(r.Panic)
	case r.Block:
		<-ctx.Done()
		return Response{}, ctx.Err()
	case r.Err != nil:
		return Response{}, r.Err
	}

	raw, err := extractObject(r.JSON)
	if err != nil {
		return Response{}, err
	}
	return Response{Raw: raw, TokensUsed: r.Tokens}, nil
}
