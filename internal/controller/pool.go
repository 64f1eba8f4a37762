package controller

import (
	"fmt"

	"github.com/luxbridge/milightd/internal/protocol"
)

// Pool drives several independently configured gateways through one shared
// pacing gate, so commands issued through the pool keep the global minimum
// spacing no matter which gateway they target.
type Pool struct {
	controllers []*Controller
	pacer       *Pacer
}

// NewPool builds a pool with one controller per config, all sharing a single
// pacing gate on the system clock and the UDP transport.
func NewPool(cfgs []Config) (*Pool, error) {
	return NewPoolWithTransport(cfgs, NewPacer(SystemClock()), UDPSend)
}

// NewPoolWithTransport builds a pool on an explicit pacing gate and send
// function.
func NewPoolWithTransport(cfgs []Config, pacer *Pacer, send SendFunc) (*Pool, error) {
	if pacer == nil {
		pacer = NewPacer(SystemClock())
	}
	p := &Pool{pacer: pacer}
	for _, cfg := range cfgs {
		c, err := NewWithTransport(cfg, pacer, send)
		if err != nil {
			return nil, fmt.Errorf("gateway %q: %w", cfg.Host, err)
		}
		p.controllers = append(p.controllers, c)
	}
	return p, nil
}

// Size returns the number of gateways in the pool.
func (p *Pool) Size() int { return len(p.controllers) }

// Controller returns the controller at index.
func (p *Pool) Controller(index int) (*Controller, error) {
	if index < 0 || index >= len(p.controllers) {
		return nil, fmt.Errorf("%w: %d (pool size %d)", protocol.ErrIndexOutOfRange, index, len(p.controllers))
	}
	return p.controllers[index], nil
}

// Execute runs fn against the controller at index.
func (p *Pool) Execute(index int, fn func(*Controller) error) error {
	c, err := p.Controller(index)
	if err != nil {
		return err
	}
	return fn(c)
}
