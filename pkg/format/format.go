// Package format renders financial figures for terminal output, matching the
// number formats the generated models use.
package format

import (
	"fmt"
	"strings"
)

// Percent renders a fraction as a percentage, e.g. 0.25 -> "25.0%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Multiple renders an EV/EBITDA-style multiple, e.g. 8 -> "8.00x".
func Multiple(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

// Amount renders a monetary figure with thousands separators and no decimals
// for round values.
func Amount(v float64) string {
	if v == float64(int64(v)) {
		return groupThousands(fmt.Sprintf("%.0f", v))
	}
	return groupThousands(fmt.Sprintf("%.2f", v))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// ProgressBar renders a fixed-width bar for a 0-100 progress value.
func ProgressBar(progress, width int) string {
	if width <= 0 {
		width = 20
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress * width / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
