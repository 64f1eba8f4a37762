// Package controller drives LimitlessLED/MiLight gateways: it resolves
// operations against the protocol command tables, paces transmissions to the
// hardware's minimum spacing, and fans commands out across multiple gateways
// through a shared pacing gate.
//
// Controllers are synchronous and not safe for concurrent use. Each call
// blocks for its pacing delays and retries before returning; concurrent
// callers must serialize externally (the daemon funnels everything through a
// single dispatch worker).
package controller

import (
	"fmt"

	"time"

	"github.com/luxbridge/milightd/internal/protocol"
)

// Controller is a client for a single gateway.
type Controller struct {
	host    string
	port    int
	repeats int
	pause   time.Duration
	groups  [protocol.GroupCount]protocol.BulbType

	pacer *Pacer
	send  SendFunc
}

// New creates a controller with its own pacing gate and the UDP transport.
func New(cfg Config) (*Controller, error) {
	return NewWithTransport(cfg, NewPacer(SystemClock()), UDPSend)
}

// NewWithTransport creates a controller on an explicit pacing gate and send
// function. Pool uses it to share one gate across gateways; tests use it to
// capture frames on a virtual clock.
func NewWithTransport(cfg Config, pacer *Pacer, send SendFunc) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	repeats := cfg.RepeatCommands
	if repeats == 0 {
		repeats = 1
	}
	if pacer == nil {
		pacer = NewPacer(SystemClock())
	}
	if send == nil {
		send = UDPSend
	}
	return &Controller{
		host:    cfg.Host,
		port:    cfg.Port,
		repeats: repeats,
		pause:   cfg.PauseBetweenCommands,
		groups:  cfg.Groups,
		pacer:   pacer,
		send:    send,
	}, nil
}

// Host returns the gateway address.
func (c *Controller) Host() string { return c.host }

// Port returns the gateway UDP port.
func (c *Controller) Port() int { return c.port }

// RepeatCommands returns the retransmit count for safe commands.
func (c *Controller) RepeatCommands() int { return c.repeats }

// SetRepeatCommands changes the retransmit count. Zero is coerced to one.
func (c *Controller) SetRepeatCommands(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative repeat count %d", protocol.ErrInvalidConfig, n)
	}
	if n == 0 {
		n = 1
	}
	c.repeats = n
	return nil
}

// Pause returns the minimum spacing between frames.
func (c *Controller) Pause() time.Duration { return c.pause }

// SetPause changes the minimum spacing between frames.
func (c *Controller) SetPause(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative pause %s", protocol.ErrInvalidConfig, d)
	}
	c.pause = d
	return nil
}

// GroupType returns the bulb type configured for group 1-4.
func (c *Controller) GroupType(group int) (protocol.BulbType, error) {
	if group < 1 || group > protocol.GroupCount {
		return 0, fmt.Errorf("%w: %d", protocol.ErrInvalidGroup, group)
	}
	return c.groups[group-1], nil
}

// SetGroupType reassigns the bulb type of group 1-4. The change affects the
// next command immediately.
func (c *Controller) SetGroupType(group int, t protocol.BulbType) error {
	if group < 1 || group > protocol.GroupCount {
		return fmt.Errorf("%w: %d", protocol.ErrInvalidGroup, group)
	}
	if t != protocol.RGBW && t != protocol.White {
		return fmt.Errorf("%w: %d", protocol.ErrInvalidBulbType, uint8(t))
	}
	c.groups[group-1] = t
	return nil
}

// transmit encodes one command and sends it through the pacing gate. The
// gate is marked even when the send fails, so a retry after an error still
// keeps the hardware's minimum spacing.
func (c *Controller) transmit(cmd protocol.Command) error {
	c.pacer.Wait(c.pause)
	err := c.send(protocol.EncodeFrame(cmd), c.host, c.port)
	c.pacer.Mark()
	return err
}
