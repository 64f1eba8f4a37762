package protocol

// ClampPercent confines a brightness percentage to [0,100].
func ClampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// NormalizePercent applies the historical float interpretation of brightness:
// values at or below 1.0 are a fraction of 100, larger values are truncated
// to whole percent. So 0.1 means 10%, 1.0 means 100% and 50.0 means 50%.
func NormalizePercent(f float64) int {
	var percent int
	if f <= 1.0 {
		percent = int(f * 100)
	} else {
		percent = int(f)
	}
	return ClampPercent(percent)
}

// DeviceBrightness maps a percentage to the device's brightness range 2-27.
func DeviceBrightness(percent int) uint8 {
	p := ClampPercent(percent)
	return uint8(2 + p*25/100)
}
