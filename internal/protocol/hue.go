package protocol

import "math"

// WireHue maps an RGB triple to the single hue byte used by the continuous
// color command. The gateway's hue wheel starts at blue, not at red as in
// HLS, hence the 2/3 rotation.
//
// Pure black and pure white have no hue; callers must route those to the off
// and white commands instead of calling this.
func WireHue(r, g, b uint8) uint8 {
	h := hlsHue(float64(r)/255, float64(g)/255, float64(b)/255)
	return uint8(math.Mod(1-h+2.0/3.0, 1) * 256)
}

// hlsHue extracts the HLS hue of an RGB triple with channels in [0,1],
// normalized to [0,1). Achromatic input yields 0.
func hlsHue(r, g, b float64) float64 {
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	if maxc == minc {
		return 0
	}
	delta := maxc - minc
	var h float64
	switch maxc {
	case r:
		h = (g - b) / delta
	case g:
		h = 2 + (b-r)/delta
	default:
		h = 4 + (r-g)/delta
	}
	h /= 6
	return h - math.Floor(h)
}
