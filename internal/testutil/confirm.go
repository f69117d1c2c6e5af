package testutil

import "sync"

// ConfirmStub stands in for the presentation layer's confirmation prompt.
// It records how many times it was asked and returns a fixed answer.
type ConfirmStub struct {
	mu     sync.Mutex
	asked  int
	Answer bool
}

// NewConfirmStub creates a ConfirmStub answering as given.
func NewConfirmStub(answer bool) *ConfirmStub {
	return &ConfirmStub{Answer: answer}
}

// Func returns the callback to hand to the controller.
func (c *ConfirmStub) Func() func() bool {
	return func() bool {
		c.mu.Lock()
		c.asked++
		c.mu.Unlock()
		return c.Answer
	}
}

// Asked returns how many times the confirmation was requested.
func (c *ConfirmStub) Asked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asked
}
