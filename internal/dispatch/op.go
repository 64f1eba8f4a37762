// Package dispatch turns control-surface requests (HTTP, MQTT, scenes) into
// controller invocations and serializes them onto the gateway pool.
package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxbridge/milightd/internal/controller"
	"github.com/luxbridge/milightd/internal/protocol"
)

// Op is one control operation addressed to a gateway in the pool.
type Op struct {
	// Gateway is the pool index of the target gateway.
	Gateway int `json:"gateway"`
	// Name is the operation: on, off, white, set_color, set_brightness,
	// disco, disco_faster, disco_slower, nightmode, warmer, cooler,
	// brightness_up, brightness_down, or scene.
	Name string `json:"command"`
	// Group targets one of the four groups; 0 means all groups.
	Group int `json:"group"`
	// Color carries the set_color argument: a palette name, "#rrggbb",
	// or a decimal hue byte 0-255.
	Color string `json:"color,omitempty"`
	// Brightness carries the set_brightness argument in the historical
	// form: values at or below 1.0 are a fraction of 100.
	Brightness *float64 `json:"brightness,omitempty"`
	// Scene names a registered scene when Name is "scene".
	Scene string `json:"scene,omitempty"`
}

// Args returns the operation arguments for the command log.
func (op Op) Args() map[string]any {
	args := map[string]any{}
	if op.Color != "" {
		args["color"] = op.Color
	}
	if op.Brightness != nil {
		args["brightness"] = *op.Brightness
	}
	if op.Scene != "" {
		args["scene"] = op.Scene
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// Apply resolves the op name and invokes the controller. Scene ops are not
// handled here; the queue expands them before applying.
func Apply(c *controller.Controller, op Op) error {
	switch op.Name {
	case "on":
		return c.On(op.Group)
	case "off":
		return c.Off(op.Group)
	case "white":
		return c.White(op.Group)
	case "set_color":
		col, err := ParseColor(op.Color)
		if err != nil {
			return err
		}
		return c.SetColor(col, op.Group)
	case "set_brightness":
		if op.Brightness == nil {
			return fmt.Errorf("%w: set_brightness requires a brightness value", protocol.ErrUnknownCommand)
		}
		return c.SetBrightnessFloat(*op.Brightness, op.Group)
	case "disco":
		return c.Disco(op.Group)
	case "disco_faster":
		return c.DiscoFaster(op.Group)
	case "disco_slower":
		return c.DiscoSlower(op.Group)
	case "nightmode":
		return c.Nightmode(op.Group)
	case "warmer":
		return c.Warmer(op.Group)
	case "cooler":
		return c.Cooler(op.Group)
	case "brightness_up":
		return c.BrightnessUp(op.Group)
	case "brightness_down":
		return c.BrightnessDown(op.Group)
	}
	return fmt.Errorf("%w: %q", protocol.ErrUnknownCommand, op.Name)
}

// Step converts the op into a batch step for scene execution.
func (op Op) Step() controller.BatchStep {
	return func(c *controller.Controller) error {
		return Apply(c, op)
	}
}

// ParseColor turns the wire representation of a color into the protocol's
// tagged variant: a palette name (or "white"), "#rrggbb" hex, or a decimal
// hue byte.
func ParseColor(s string) (protocol.Color, error) {
	if s == "" {
		return protocol.Color{}, fmt.Errorf("%w: empty color", protocol.ErrUnknownColor)
	}
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return protocol.Color{}, fmt.Errorf("%w: %q is not #rrggbb", protocol.ErrUnknownColor, s)
		}
		rgb, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return protocol.Color{}, fmt.Errorf("%w: %q is not #rrggbb", protocol.ErrUnknownColor, s)
		}
		return protocol.RGB(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb)), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return protocol.Color{}, fmt.Errorf("%w: hue %d outside [0,255]", protocol.ErrUnknownColor, n)
		}
		return protocol.Hue(uint8(n)), nil
	}
	// Palette names are validated at command lookup time.
	return protocol.Named(s), nil
}
