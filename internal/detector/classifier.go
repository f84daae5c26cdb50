package detector

// PixelClassifier decides whether a single pixel belongs to the tracked target.
type PixelClassifier interface {
	IsSkin(r, g, b uint8) bool
}

// PixelClassifierFunc adapts a function to PixelClassifier.
type PixelClassifierFunc func(r, g, b uint8) bool

// IsSkin calls f(r, g, b).
func (f PixelClassifierFunc) IsSkin(r, g, b uint8) bool {
	return f(r, g, b)
}

// SkinRule is an RGB thresholding heuristic for skin tones.
// It is coarse and lighting dependent; treat hits as "probably a hand".
type SkinRule struct {
	MinRed   int
	MinGreen int
	MinBlue  int
	// MinSpread is the required margin of red over the smaller of green and blue.
	MinSpread int
	// MinRedGreen is the required |red - green| difference.
	MinRedGreen int
}

// DefaultSkinRule returns the standard thresholds.
func DefaultSkinRule() SkinRule {
	return SkinRule{
		MinRed:      95,
		MinGreen:    40,
		MinBlue:     20,
		MinSpread:   15,
		MinRedGreen: 15,
	}
}

// IsSkin applies the rule. All comparisons are strict.
func (s SkinRule) IsSkin(r, g, b uint8) bool {
	ri, gi, bi := int(r), int(g), int(b)

	if ri <= s.MinRed || gi <= s.MinGreen || bi <= s.MinBlue {
		return false
	}
	if ri <= gi || ri <= bi {
		return false
	}
	if ri-min(gi, bi) <= s.MinSpread {
		return false
	}

	diff := ri - gi
	if diff < 0 {
		diff = -diff
	}
	return diff > s.MinRedGreen
}
