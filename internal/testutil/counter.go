package testutil

import "sync"

// CallCounter counts calls made to a fake collaborator.
//
// Tests use it to prove memoization: a cached lookup must not reach the
// collaborator a second time.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CallCounter struct {
	mu    sync.Mutex
	calls map[string]int64
}

// NewCallCounter creates a counter with no calls recorded.
func NewCallCounter() *CallCounter {
	return &CallCounter{calls: make(map[string]int64)}
}

// Record increments the count for method and returns the new value.
func (c *CallCounter) Record(method string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	return c.calls[method]
}

// Count returns the number of calls recorded for method.
func (c *CallCounter) Count(method string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// Total returns the number of calls recorded across all methods.
func (c *CallCounter) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, v := range c.calls {
		n += v
	}
	return n
}

// Reset forgets every recorded call.
func (c *CallCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.calls)
}
