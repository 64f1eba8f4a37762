package controller

import (
	"github.com/luxbridge/milightd/internal/protocol"
)

// rgbwOnly restricts parameterized color commands to the RGBW family.
var rgbwOnly = []protocol.BulbType{protocol.RGBW}

// On switches group 1-4 on, or all groups when group is 0.
func (c *Controller) On(group int) error {
	return c.run(group, "on", false, c.repeats)
}

// Off switches group 1-4 off, or all groups when group is 0.
func (c *Controller) Off(group int) error {
	return c.run(group, "off", false, c.repeats)
}

// White switches the group on and to white. For dual-white bulbs this is the
// full-brightness command.
func (c *Controller) White(group int) error {
	return c.run(group, "white", true, c.repeats)
}

// SetColor switches the group on and to the given color. Colors only exist
// for RGBW bulbs; addressing a dual-white group directly is an error while
// the all-groups form skips them.
//
// Black and pure white RGB input have no hue, so they route to Off and White
// instead of the color wheel.
func (c *Controller) SetColor(col protocol.Color, group int) error {
	switch col.Kind() {
	case protocol.ColorNamed:
		if col.Name() == "white" {
			return c.White(group)
		}
		cmd, err := protocol.NamedColor(col.Name())
		if err != nil {
			return err
		}
		return c.runRaw(group, cmd, rgbwOnly, true, c.repeats)
	case protocol.ColorHue:
		return c.runRaw(group, protocol.ColorCommand(col.HueValue()), rgbwOnly, true, c.repeats)
	default:
		r, g, b := col.RGBValues()
		if r == 0 && g == 0 && b == 0 {
			return c.Off(group)
		}
		if r == 255 && g == 255 && b == 255 {
			return c.White(group)
		}
		cmd := protocol.ColorCommand(protocol.WireHue(r, g, b))
		return c.runRaw(group, cmd, rgbwOnly, true, c.repeats)
	}
}

// SetBrightness switches the group on and sets brightness as a percentage
// 0-100 (clamped). The device command is the same for every bulb family;
// dual-white bulbs step brightness with BrightnessUp/BrightnessDown instead
// and may ignore it, which mirrors the hardware's documented behavior.
func (c *Controller) SetBrightness(percent, group int) error {
	cmd := protocol.BrightnessCommand(protocol.DeviceBrightness(percent))
	return c.runRaw(group, cmd, nil, true, c.repeats)
}

// SetBrightnessFloat accepts the historical float form of brightness:
// values at or below 1.0 are a fraction of 100, larger values are truncated
// to whole percent.
func (c *Controller) SetBrightnessFloat(f float64, group int) error {
	return c.SetBrightness(protocol.NormalizePercent(f), group)
}

// Disco starts disco mode, or advances to the next of the 20 built-in
// animations when already running. Sent exactly once regardless of the
// repeat count: with no delivery confirmation, retransmitting would skip
// through animations.
func (c *Controller) Disco(group int) error {
	return c.run(group, "disco", true, 1)
}

// DiscoFaster speeds up a running disco animation. Sent exactly once.
func (c *Controller) DiscoFaster(group int) error {
	return c.run(group, "disco_faster", true, 1)
}

// DiscoSlower slows down a running disco animation. Sent exactly once.
func (c *Controller) DiscoSlower(group int) error {
	return c.run(group, "disco_slower", true, 1)
}

// Nightmode switches the group off and into the very dim fixed white mode.
// The nightmode frame is sent exactly once: retransmitting makes the bulbs
// blink instead of settling.
func (c *Controller) Nightmode(group int) error {
	if err := c.Off(group); err != nil {
		return err
	}
	return c.run(group, "nightmode", false, 1)
}

// Warmer shifts dual-white bulbs one step towards warm white. A relative
// step, so it is sent exactly once.
func (c *Controller) Warmer(group int) error {
	return c.run(group, "warmer", true, 1)
}

// Cooler shifts dual-white bulbs one step towards cool white. Sent once.
func (c *Controller) Cooler(group int) error {
	return c.run(group, "cooler", true, 1)
}

// BrightnessUp steps dual-white bulbs one brightness level up. Sent once.
func (c *Controller) BrightnessUp(group int) error {
	return c.run(group, "brightness_up", true, 1)
}

// BrightnessDown steps dual-white bulbs one brightness level down. Sent once.
func (c *Controller) BrightnessDown(group int) error {
	return c.run(group, "brightness_down", true, 1)
}
