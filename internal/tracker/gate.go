package tracker

import (
	"context"
	"sync"
)

type gateState int

const (
	gateIdle gateState = iota
	gateInFlight
	gateDone
)

// gate is a tri-state at-most-once latch. Concurrent triggers while an
// attempt is in flight collapse onto it and share its result; a failed
// attempt returns the gate to idle so a later retry runs normally.
type gate struct {
	mu    sync.Mutex
	state gateState
	done  chan struct{}
	err   error
}

// run executes fn unless the gate is already done, collapsing concurrent
// callers onto a single in-flight attempt.
func (g *gate) run(ctx context.Context, fn func() error) error {
	g.mu.Lock()
	switch g.state {
	case gateDone:
		g.mu.Unlock()
		return nil
	case gateInFlight:
		done := g.done
		g.mu.Unlock()
		select {
		case <-done:
			g.mu.Lock()
			err := g.err
			g.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.state = gateInFlight
	g.done = make(chan struct{})
	g.mu.Unlock()

	err := fn()

	g.mu.Lock()
	if err != nil {
		g.state = gateIdle
	} else {
		g.state = gateDone
	}
	g.err = err
	close(g.done)
	g.mu.Unlock()
	return err
}

// completed reports whether a run has finished successfully.
func (g *gate) completed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == gateDone
}
