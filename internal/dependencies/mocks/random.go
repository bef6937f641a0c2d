package mocks

import (
	"errors"
	"sync"

	"github.com/mcoot/ofelia/internal/dependencies/random"
)

// ErrExhausted is returned by MockRandom once its queue is empty
var ErrExhausted = errors.New("mock random: no queued strings")

// MockRandom returns queued strings in order, for predictable draft tokens
type MockRandom struct {
	mu      sync.Mutex
	strings []string
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with an empty queue
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String pops the next queued string, ignoring length and alphabet
func (r *MockRandom) String(int, string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.strings) == 0 {
		return "", ErrExhausted
	}
	next := r.strings[0]
	r.strings = r.strings[1:]
	return next, nil
}

// QueueString appends values to the queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}
