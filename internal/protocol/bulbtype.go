// Package protocol implements the LimitlessLED/MiLight UDP command set: the
// static command tables for RGBW and dual-white bulbs, the 3-byte frame
// encoding, and the hue/brightness numeric transforms. Everything here is
// pure; transmission and pacing live in the controller package.
package protocol

import "fmt"

// BulbType selects which command set a light group speaks.
type BulbType uint8

const (
	// RGBW is the color-capable bulb family. All groups default to it.
	RGBW BulbType = iota
	// White is the dual-white (warm/cool) bulb family.
	White
)

func (t BulbType) String() string {
	switch t {
	case RGBW:
		return "rgbw"
	case White:
		return "white"
	}
	return fmt.Sprintf("BulbType(%d)", uint8(t))
}

// ParseBulbType parses the configuration spelling of a bulb type.
func ParseBulbType(s string) (BulbType, error) {
	switch s {
	case "rgbw":
		return RGBW, nil
	case "white":
		return White, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBulbType, s)
}
