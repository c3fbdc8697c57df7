package rsvp

import "math"

// PercentToIndex maps a progress percentage to a word index. The percentage
// is clamped to [0,100] and the index floored, so 100% maps to total; callers
// seeking by percentage clamp the result to the last valid index. A
// non-positive total maps everything to 0.
func PercentToIndex(pct float64, total int) int {
	if total <= 0 {
		return 0
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	return int(math.Floor(pct / 100 * float64(total)))
}

// IndexToPercent maps a word index to a whole progress percentage, rounding
// to nearest. A non-positive total maps to 0. PercentToIndex and
// IndexToPercent are approximate inverses only: flooring one way and
// rounding the other means a round trip can land one word off.
func IndexToPercent(index, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(index) / float64(total) * 100))
}
