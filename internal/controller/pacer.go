package controller

import "time"

// Pacer enforces the minimum interval the gateway hardware needs between
// frames. One Pacer may be shared by several controllers (see Pool) so that
// interleaved gateways still pace as a single stream.
//
// The Pacer holds no lock: controllers are synchronous and callers are
// expected to serialize access, as the dispatch queue does in the daemon.
type Pacer struct {
	clock Clock
	last  time.Time
}

// NewPacer creates a pacing gate on the given clock. A nil clock selects the
// system clock.
func NewPacer(clock Clock) *Pacer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Pacer{clock: clock}
}

// Wait blocks until at least pause has elapsed since the previous Mark.
// A fresh Pacer has no previous command, so the first Wait never blocks.
func (p *Pacer) Wait(pause time.Duration) {
	if p.last.IsZero() || pause <= 0 {
		return
	}
	if elapsed := p.clock.Now().Sub(p.last); elapsed < pause {
		p.clock.Sleep(pause - elapsed)
	}
}

// Mark records a transmission. It is called after every send, whether the
// send succeeded or not.
func (p *Pacer) Mark() {
	p.last = p.clock.Now()
}
