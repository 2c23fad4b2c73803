package kafka

import "sync"

// Gate is the flow-control signal a sink endpoint's dispatcher goroutine
// uses to pause and resume its consumer worker goroutine. AMQP credit
// backpressure isn't rate-shaped, it's a single edge — credit exhausted,
// stop polling; credit restored, resume polling — so a bool guarded by a
// condition variable is all that's needed, no token bucket.
type Gate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
	closed bool
}

func NewGate() *Gate {
	g := &Gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

func (g *Gate) Pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
}

func (g *Gate) Resume() {
	g.mu.Lock()
	g.paused = false
	g.mu.Unlock()
	g.cond.Broadcast()
}

// Wait blocks the calling goroutine while the gate is paused, returning
// immediately once either Resume or Close is called.
func (g *Gate) Wait() {
	g.mu.Lock()
	for g.paused && !g.closed {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.cond.Broadcast()
}
