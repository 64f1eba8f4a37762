package protocol

import "fmt"

// Command is the 1-2 raw bytes naming one protocol action, before frame
// padding. Commands are immutable table entries; callers must not mutate them.
type Command []byte

// GroupCount is the number of addressable groups per gateway. Group pairing
// happens in the vendor app, not here.
const GroupCount = 4

// Flat commands address all groups of one bulb family at once. The "white"
// entry means full brightness for the dual-white family; the byte differs but
// the intent matches the RGBW color-to-white command.
var flatCommands = map[BulbType]map[string]Command{
	RGBW: {
		"on":           {0x42},
		"off":          {0x41},
		"white":        {0xc2},
		"nightmode":    {0xc1},
		"disco":        {0x4d},
		"disco_faster": {0x44},
		"disco_slower": {0x43},
	},
	White: {
		"on":              {0x35},
		"off":             {0x39},
		"white":           {0xb5},
		"nightmode":       {0xb9},
		"warmer":          {0x3e},
		"cooler":          {0x3f},
		"brightness_up":   {0x3c},
		"brightness_down": {0x34},
	},
}

// Per-group variants, indexed by group-1. Only on/off/white/nightmode have
// dedicated per-group opcodes; every other operation addresses the group by
// powering it on first (see the controller's auto-on handling).
var groupCommands = map[BulbType]map[string][GroupCount]Command{
	RGBW: {
		"on":        {{0x45}, {0x47}, {0x49}, {0x4b}},
		"off":       {{0x46}, {0x48}, {0x4a}, {0x4c}},
		"white":     {{0xc5}, {0xc7}, {0xc9}, {0xcb}},
		"nightmode": {{0xc6}, {0xc8}, {0xca}, {0xcc}},
	},
	White: {
		"on":        {{0x38}, {0x3d}, {0x37}, {0x32}},
		"off":       {{0x3b}, {0x33}, {0x3a}, {0x36}},
		"white":     {{0xb8}, {0xbd}, {0xb7}, {0xb2}},
		"nightmode": {{0xbb}, {0xb3}, {0xba}, {0xb6}},
	},
}

// The 16-step RGBW color wheel. Hue bytes ascend in 0x10 steps starting at
// violet; the gateway only uses the high nibble for named colors.
var namedColors = map[string]byte{
	"violet":        0x00,
	"royal_blue":    0x10,
	"baby_blue":     0x20,
	"aqua":          0x30,
	"royal_mint":    0x40,
	"seafoam_green": 0x50,
	"green":         0x60,
	"lime_green":    0x70,
	"yellow":        0x80,
	"yellow_orange": 0x90,
	"orange":        0xa0,
	"red":           0xb0,
	"pink":          0xc0,
	"fusia":         0xd0,
	"lilac":         0xe0,
	"lavendar":      0xf0,
}

// Flat returns the all-groups command for op under the given bulb type.
func Flat(t BulbType, op string) (Command, error) {
	cmd, ok := flatCommands[t][op]
	if !ok {
		return nil, fmt.Errorf("%w: %q for %s bulbs", ErrUnknownCommand, op, t)
	}
	return cmd, nil
}

// Group returns the per-group variant of op for group 1-4.
func Group(t BulbType, op string, group int) (Command, error) {
	variants, ok := groupCommands[t][op]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no per-group variant for %s bulbs", ErrUnknownCommand, op, t)
	}
	if group < 1 || group > GroupCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGroup, group)
	}
	return variants[group-1], nil
}

// HasFlat reports whether op exists in the flat table for t.
func HasFlat(t BulbType, op string) bool {
	_, ok := flatCommands[t][op]
	return ok
}

// HasGroupVariant reports whether op has dedicated per-group opcodes. The set
// is the same for both bulb families.
func HasGroupVariant(op string) bool {
	_, ok := groupCommands[RGBW][op]
	return ok
}

// ColorCommand builds the RGBW continuous color command for a hue byte.
func ColorCommand(hue uint8) Command {
	return Command{0x40, hue}
}

// NamedColor builds the color command for one of the 16 palette names.
// "white" is not in the palette; it maps to a different opcode and is handled
// by the controller.
func NamedColor(name string) (Command, error) {
	hue, ok := namedColors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return Command{0x40, hue}, nil
}

// ColorNames returns the palette names, for the control surfaces.
func ColorNames() []string {
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}
	return names
}

// BrightnessCommand builds the brightness command for a device value 2-27.
func BrightnessCommand(value uint8) Command {
	return Command{0x4e, value}
}
