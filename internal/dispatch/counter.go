package dispatch

import "github.com/luxbridge/milightd/internal/controller"

// FrameCounter counts transmitted datagrams so the queue can attribute wire
// traffic to command log entries. Single-writer: it is only touched from the
// queue's worker, which also owns the pool.
type FrameCounter struct {
	n int
}

// Wrap decorates a send function with the counter.
func (f *FrameCounter) Wrap(send controller.SendFunc) controller.SendFunc {
	return func(payload []byte, host string, port int) error {
		f.n++
		return send(payload, host, port)
	}
}

// Count returns the total frames sent so far.
func (f *FrameCounter) Count() int { return f.n }
