package llm

import (
	"context"
	"errors"
	"slices"
	"sync"
)

const fakeModel = "fake"

// Fake is a scripted Provider for tests. Each Generate consumes the next
// scripted reply and checks it against the request schema the way a real
// backend's reply is checked.
type Fake struct {
	mu       sync.Mutex
	replies  []FakeReply
	requests []Request
}

// FakeReply is one scripted answer: JSON text, a reply cut off by the
// token budget, or an error returned as is.
type FakeReply struct {
	JSON      string
	Truncated bool
	Err       error
}

// NewFake returns a Fake that answers with replies in order.
func NewFake(replies ...FakeReply) *Fake {
	return &Fake{replies: replies}
}

func (f *Fake) Generate(_ context.Context, req Request) (*Response, error) {
	if err := req.check(); err != nil {
		return nil, &Error{Provider: fakeModel, Err: err}
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		f.mu.Unlock()
		return nil, &Error{Provider: fakeModel, Err: errors.New("no scripted reply left")}
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	f.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(fakeModel, req, reply{text: next.JSON, model: fakeModel, truncated: next.Truncated})
}

func (f *Fake) ModelID() string { return fakeModel }

// Requests returns every request received so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}
