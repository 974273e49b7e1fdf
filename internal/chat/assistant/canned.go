package assistant

import (
	"context"
	"sync"
)

// Canned replays queued responses in order, recording the requests it saw.
// It stands in for the assistant service in tests and in test mode.
type Canned struct {
	mu        sync.Mutex
	responses []Response
	requests  []Request
}

func NewCanned(responses ...Response) *Canned {
	return &Canned{responses: responses}
}

func (c *Canned) Reply(_ context.Context, req Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return &Response{Content: "I don't have an answer for that yet."}, nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return &resp, nil
}

// Requests returns the requests received so far.
func (c *Canned) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, len(c.requests))
	copy(out, c.requests)
	return out
}
