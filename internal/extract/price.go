package extract

import (
	"strconv"
	"strings"
)

// NormalizePrice parses a locale-ambiguous currency string ("R$ 1.234,56",
// "1,234.56", "99") into a canonical amount. Unknown or unparseable input
// yields 0.0, which downstream treats as "price unknown" rather than an
// error.
//
// Disambiguation rules, applied in order:
//  1. keep only digits, '.' and ','
//  2. both separators present: the one occurring last is the decimal
//     separator, every earlier occurrence of either is grouping
//  3. one kind of separator more than once: only its last occurrence is
//     the decimal separator
//  4. one separator exactly once: decimal only when exactly two digits
//     follow it, otherwise grouping
func NormalizePrice(raw string) float64 {
	var cleaned strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			cleaned.WriteRune(r)
		}
	}
	s := cleaned.String()

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	decimalAt := -1
	switch {
	case dots > 0 && commas > 0:
		decimalAt = lastDot
		if lastComma > lastDot {
			decimalAt = lastComma
		}
	case dots > 1:
		decimalAt = lastDot
	case commas > 1:
		decimalAt = lastComma
	case dots == 1:
		if len(s)-lastDot-1 == 2 {
			decimalAt = lastDot
		}
	case commas == 1:
		if len(s)-lastComma-1 == 2 {
			decimalAt = lastComma
		}
	}

	var normalized strings.Builder
	hasDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			normalized.WriteRune(r)
			hasDigit = true
		case i == decimalAt:
			normalized.WriteByte('.')
		}
	}

	if !hasDigit {
		return 0.0
	}

	value, err := strconv.ParseFloat(normalized.String(), 64)
	if err != nil || value < 0 {
		return 0.0
	}
	return value
}
