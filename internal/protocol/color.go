package protocol

// ColorKind tags the three accepted color argument forms.
type ColorKind uint8

const (
	// ColorNamed is one of the 16 palette names, or the literal "white".
	ColorNamed ColorKind = iota
	// ColorHue is a raw hue byte for the continuous color command.
	ColorHue
	// ColorRGB is an RGB triple converted through WireHue.
	ColorRGB
)

// Color is the polymorphic color argument accepted by SetColor, as a tagged
// variant instead of runtime type dispatch.
type Color struct {
	kind    ColorKind
	name    string
	hue     uint8
	r, g, b uint8
}

// Named selects a palette color by name. Validity is checked at lookup time.
func Named(name string) Color {
	return Color{kind: ColorNamed, name: name}
}

// Hue selects a raw hue byte.
func Hue(v uint8) Color {
	return Color{kind: ColorHue, hue: v}
}

// RGB selects a color by RGB triple.
func RGB(r, g, b uint8) Color {
	return Color{kind: ColorRGB, r: r, g: g, b: b}
}

// Kind returns the variant tag.
func (c Color) Kind() ColorKind { return c.kind }

// Name returns the palette name of a ColorNamed value.
func (c Color) Name() string { return c.name }

// HueValue returns the hue byte of a ColorHue value.
func (c Color) HueValue() uint8 { return c.hue }

// RGBValues returns the channels of a ColorRGB value.
func (c Color) RGBValues() (r, g, b uint8) { return c.r, c.g, c.b }
