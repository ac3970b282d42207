package hinge

// baselineDPI is the screen density at which one density-independent unit
// equals one pixel.
const baselineDPI = 160.0

// DefaultDensity is used whenever the platform cannot report a density.
const DefaultDensity = 1.0

// PixelsToDIP converts a pixel length into density-independent units.
// The division is exact; callers that want rounding do it themselves.
func PixelsToDIP(px int, density float64) float64 {
	return float64(px) / density
}

// DensityFromPhysical derives pixels-per-dp from an output's pixel width and
// its physical width in millimetres. It returns DefaultDensity when the
// physical size is unknown (RandR reports 0 for many virtual outputs).
func DensityFromPhysical(widthPx int, widthMM uint32) float64 {
	if widthPx <= 0 || widthMM == 0 {
		return DefaultDensity
	}
	dpi := float64(widthPx) / (float64(widthMM) / 25.4)
	return dpi / baselineDPI
}
