package layout

// Conversion constants between px (CSS pixel, 96 per inch), mm and pt.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96.0
	MmToPx = 1.0 / PxToMm
	PxToPt = 0.75
)

// ToMM converts a px length to millimeters.
func ToMM(px float64) float64 { return px * PxToMm }

// ToPT converts a px length to points.
func ToPT(px float64) float64 { return px * PxToPt }
