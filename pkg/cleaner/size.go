// pkg/cleaner/size.go
package cleaner

import (
	"regexp"
	"strconv"
)

// MilliLitersPerOunce converts US fluid ounces to milliliters.
const MilliLitersPerOunce = 29.5735

// Size strings come in two recognized shapes: "<number> mL" taken at face
// value, and "<number> oz" converted to milliliters. A string like
// "30 mL / 1 oz" matches the milliliter pattern first.
var (
	mlPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*mL`)
	ozPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*oz`)
)

// ParseSizeML extracts a volume in milliliters from a free-text size
// string. The second return value is false when neither pattern matches.
func ParseSizeML(sizeText string) (float64, bool) {
	if m := mlPattern.FindStringSubmatch(sizeText); m != nil {
		ml, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return ml, true
		}
	}

	if m := ozPattern.FindStringSubmatch(sizeText); m != nil {
		oz, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return oz * MilliLitersPerOunce, true
		}
	}

	return 0, false
}
