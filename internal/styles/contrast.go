package styles

import "math"

// RGB is a plain 0-255 color triple used where lipgloss.Color's string
// representation is too indirect for arithmetic (contrast checks).
type RGB struct {
	R, G, B float64
}

func contrastRatio(fg, bg RGB) float64 {
	l1 := relativeLuminance(fg)
	l2 := relativeLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func minContrastRatio(fg RGB, bgs []RGB) float64 {
	if len(bgs) == 0 {
		return contrastRatio(fg, RGB{0, 0, 0})
	}
	minRatio := math.MaxFloat64
	for _, bg := range bgs {
		if ratio := contrastRatio(fg, bg); ratio < minRatio {
			minRatio = ratio
		}
	}
	return minRatio
}

func relativeLuminance(c RGB) float64 {
	r := linearize(c.R / 255.0)
	g := linearize(c.G / 255.0)
	b := linearize(c.B / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// AttentionBadgeColors picks readable foreground/background colors for the
// sidebar's unacknowledged-attention marker, falling back to a fixed pair
// when the configured accent color is too close to the panel background.
func AttentionBadgeColors(accent RGB, panelBg RGB) (fg, bg RGB) {
	if minContrastRatio(RGB{249, 250, 251}, []RGB{accent}) >= 4.5 {
		return RGB{249, 250, 251}, accent
	}
	if contrastRatio(panelBg, accent) < 1.5 {
		return RGB{255, 255, 255}, RGB{124, 58, 237}
	}
	return RGB{17, 24, 39}, accent
}
