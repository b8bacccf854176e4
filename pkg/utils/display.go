package utils

import (
	"strconv"
	"strings"
)

// DisplayNameLimit is the number of characters kept when shortening names for the console.
const DisplayNameLimit = 50

// DecimalDigits returns how many decimal digits n is written with.
func DecimalDigits(n int) int {
	if n < 0 {
		n = -n
	}
	return len(strconv.Itoa(n))
}

// CeilDiv divides n by d rounding up.
func CeilDiv(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// Pad formats n with leading zeros up to width digits.
func Pad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// TruncateForDisplay shortens name to DisplayNameLimit characters followed by "...".
// Only console output goes through it, never a real path.
func TruncateForDisplay(name string, full bool) string {
	if full {
		return name
	}
	runes := []rune(name)
	if len(runes) <= DisplayNameLimit {
		return name
	}
	return string(runes[:DisplayNameLimit]) + "..."
}

// PadRight fills name with spaces up to DisplayNameLimit characters, used to align success lines.
func PadRight(name string) string {
	n := len([]rune(name))
	if n >= DisplayNameLimit {
		return name
	}
	return name + strings.Repeat(" ", DisplayNameLimit-n)
}
