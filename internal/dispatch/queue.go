package dispatch

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/milightd/internal/controller"
	"github.com/luxbridge/milightd/internal/ledger"
)

// DefaultQueueSize bounds how many operations may be waiting for the worker.
const DefaultQueueSize = 64

// SceneResolver looks up a registered scene by name, returning its gateway
// index and steps. Injected by the application so scenes stay optional.
type SceneResolver func(name string) (gateway int, steps []Op, ok bool)

// Queue serializes operations onto the gateway pool. Controllers and their
// shared pacing gate are not safe for concurrent use, so exactly one worker
// drains the queue; every control surface funnels through Enqueue.
type Queue struct {
	pool    *controller.Pool
	ledger  *ledger.Ledger // may be nil
	counter *FrameCounter  // may be nil
	names   []string       // gateway labels by pool index, for the log
	scenes  SceneResolver  // may be nil

	work chan Op
	wg   sync.WaitGroup

	// Closing this channel signals publishers to stop; checking a channel
	// in select is race-free, unlike a mutex-guarded bool.
	closing   chan struct{}
	closeOnce sync.Once
}

// NewQueue creates the queue and starts its worker.
func NewQueue(pool *controller.Pool, l *ledger.Ledger, counter *FrameCounter, names []string, scenes SceneResolver, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		pool:    pool,
		ledger:  l,
		counter: counter,
		names:   names,
		scenes:  scenes,
		work:    make(chan Op, size),
		closing: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Enqueue queues an operation for execution. It reports false when the queue
// is full or shutting down; the operation is dropped in both cases, which is
// acceptable for a protocol that cannot confirm delivery anyway.
func (q *Queue) Enqueue(op Op) bool {
	select {
	case <-q.closing:
		return false
	default:
	}
	select {
	case q.work <- op:
		return true
	default:
		log.Warn().Str("op", op.Name).Int("gateway", op.Gateway).Msg("Dispatch queue full, dropping operation")
		return false
	}
}

// Close stops accepting operations, drains the queue and waits for the
// worker to finish.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closing)
		close(q.work)
	})
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for op := range q.work {
		q.execute(op)
	}
}

func (q *Queue) execute(op Op) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("op", op.Name).Msg("Operation panicked")
		}
	}()

	before := 0
	if q.counter != nil {
		before = q.counter.Count()
	}

	var err error
	if op.Name == "scene" {
		err = q.runScene(op)
	} else {
		err = q.pool.Execute(op.Gateway, func(c *controller.Controller) error {
			return Apply(c, op)
		})
	}

	frames := 0
	if q.counter != nil {
		frames = q.counter.Count() - before
	}

	if err != nil {
		log.Error().Err(err).
			Str("op", op.Name).
			Int("gateway", op.Gateway).
			Int("group", op.Group).
			Msg("Operation failed")
	} else {
		log.Debug().
			Str("op", op.Name).
			Int("gateway", op.Gateway).
			Int("group", op.Group).
			Int("frames", frames).
			Msg("Operation dispatched")
	}

	if q.ledger != nil && err == nil {
		if _, lerr := q.ledger.Append(q.label(op.Gateway), op.Group, op.Name, op.Args(), frames); lerr != nil {
			log.Error().Err(lerr).Msg("Failed to write command log")
		}
	}
}

// runScene expands a registered scene into a batch run on its gateway.
func (q *Queue) runScene(op Op) error {
	if q.scenes == nil {
		return errNoScenes
	}
	gateway, ops, ok := q.scenes(op.Scene)
	if !ok {
		return errSceneNotFound(op.Scene)
	}
	steps := make([]controller.BatchStep, 0, len(ops))
	for _, sceneOp := range ops {
		steps = append(steps, sceneOp.Step())
	}
	return q.pool.Execute(gateway, func(c *controller.Controller) error {
		return c.BatchRun(steps...)
	})
}

func (q *Queue) label(gateway int) string {
	if gateway >= 0 && gateway < len(q.names) {
		return q.names[gateway]
	}
	return ""
}
