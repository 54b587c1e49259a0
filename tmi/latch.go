package tmi

import "context"

// latch is a one-shot-at-a-time rendezvous signal: each Release permits
// exactly one Wait to proceed. At most one Release is held for a later
// Wait; further Releases before that Wait are discarded rather than
// accumulating credit. Grounded on the teacher's
// own pongReceived chan struct{} (helix/irc.go Ping) — a buffered size-1
// channel used the same way — generalized into a reusable type since
// spec.md §3/§5 calls for two of these (connect latch, join latch).
type latch struct {
	ch chan struct{}
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{}, 1)}
}

// Release permits one pending or future Wait to proceed. A second Release
// before any Wait consumes the first is a no-op (idempotent release).
func (l *latch) Release() {
	select {
	case l.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until Release is called, the context is cancelled, or the
// deadline elapses, whichever comes first.
func (l *latch) Wait(ctx context.Context) error {
	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain discards any pending release without waiting, used when disposing.
func (l *latch) drain() {
	select {
	case <-l.ch:
	default:
	}
}
