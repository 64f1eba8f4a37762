package controller

import (
	"errors"
	"fmt"

	"github.com/luxbridge/milightd/internal/protocol"
)

// bulbTypes is the fan-out order for all-groups operations.
var bulbTypes = [...]protocol.BulbType{protocol.RGBW, protocol.White}

func validGroup(group int) error {
	if group < 0 || group > protocol.GroupCount {
		return fmt.Errorf("%w: %d", protocol.ErrInvalidGroup, group)
	}
	return nil
}

// hasType reports whether any configured group uses t. Derived on demand so
// it can never disagree with the group assignments.
func (c *Controller) hasType(t protocol.BulbType) bool {
	for _, gt := range c.groups {
		if gt == t {
			return true
		}
	}
	return false
}

// run resolves op through the command tables and transmits it, with auto-on
// before each round when requested. Group 0 targets all groups.
func (c *Controller) run(group int, op string, autoOn bool, times int) error {
	if err := validGroup(group); err != nil {
		return err
	}
	if group == 0 {
		return c.runAll(op, autoOn, times)
	}
	return c.runGroup(group, op, autoOn, times)
}

// runAll fans a flat operation out to every bulb type present among the
// configured groups, skipping types the operation does not exist for
// (warmer has no RGBW meaning, disco has no dual-white meaning).
func (c *Controller) runAll(op string, autoOn bool, times int) error {
	for _, t := range bulbTypes {
		if !c.hasType(t) {
			continue
		}
		cmd, err := protocol.Flat(t, op)
		if errors.Is(err, protocol.ErrUnknownCommand) {
			continue
		}
		if err != nil {
			return err
		}
		if err := c.repeatCommand(cmd, t, 0, autoOn, times); err != nil {
			return err
		}
	}
	return nil
}

// runGroup resolves op against one group's configured bulb type, preferring
// the per-group opcode where one exists.
func (c *Controller) runGroup(group int, op string, autoOn bool, times int) error {
	t := c.groups[group-1]
	var cmd protocol.Command
	var err error
	if protocol.HasGroupVariant(op) {
		cmd, err = protocol.Group(t, op, group)
	} else {
		cmd, err = protocol.Flat(t, op)
	}
	if err != nil {
		return err
	}
	return c.repeatCommand(cmd, t, group, autoOn, times)
}

// runRaw transmits a prebuilt parameterized command (color, brightness).
// Only groups whose bulb type passes the filter participate; a nil filter
// admits every type. Addressing a filtered-out group directly is an error,
// while the all-groups form silently skips absent types.
func (c *Controller) runRaw(group int, cmd protocol.Command, only []protocol.BulbType, autoOn bool, times int) error {
	if err := validGroup(group); err != nil {
		return err
	}
	admitted := func(t protocol.BulbType) bool {
		if only == nil {
			return true
		}
		for _, a := range only {
			if a == t {
				return true
			}
		}
		return false
	}
	if group == 0 {
		for _, t := range bulbTypes {
			if !c.hasType(t) || !admitted(t) {
				continue
			}
			if err := c.repeatCommand(cmd, t, 0, autoOn, times); err != nil {
				return err
			}
		}
		return nil
	}
	t := c.groups[group-1]
	if !admitted(t) {
		return fmt.Errorf("%w: no such command for %s bulbs in group %d", protocol.ErrUnknownCommand, t, group)
	}
	return c.repeatCommand(cmd, t, group, autoOn, times)
}

// repeatCommand transmits cmd the given number of times, preceding every
// round with the power-on command of the target when autoOn is set. The
// hardware needs the group powered before color or brightness changes take
// effect, and the on command doubles as group addressing.
func (c *Controller) repeatCommand(cmd protocol.Command, t protocol.BulbType, group int, autoOn bool, times int) error {
	var on protocol.Command
	if autoOn {
		var err error
		if group == 0 {
			on, err = protocol.Flat(t, "on")
		} else {
			on, err = protocol.Group(t, "on", group)
		}
		if err != nil {
			return err
		}
	}
	for i := 0; i < times; i++ {
		if autoOn {
			if err := c.transmit(on); err != nil {
				return err
			}
		}
		if err := c.transmit(cmd); err != nil {
			return err
		}
	}
	return nil
}
