package extract

import "math"

// Discount derives a discount percentage in [0,100] from an original and a
// current price.
//
// original <= 0 yields 0. That conflates "no discount" with "original price
// unknown", but it is the behavior downstream consumers already rely on, so
// it is pinned here and by the tests.
func Discount(original, current float64) int {
	if original <= 0 {
		return 0
	}
	if current <= 0 {
		return 100
	}
	if current > original {
		return 0
	}

	pct := int(math.Round((original - current) / original * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
