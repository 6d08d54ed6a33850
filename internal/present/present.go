// Package present formats classification results for display.
package present

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Band is a confidence band.
type Band int

const (
	Red Band = iota
	Amber
	Green
)

// Band floors, inclusive.
const (
	GreenFloor = 0.8
	AmberFloor = 0.6
)

func (b Band) String() string {
	switch b {
	case Green:
		return "green"
	case Amber:
		return "amber"
	default:
		return "red"
	}
}

// ConfidenceBand returns Green for c >= 0.8, Amber for 0.6 <= c < 0.8 and
// Red for everything else.
func ConfidenceBand(c float64) Band {
	switch {
	case c >= GreenFloor:
		return Green
	case c >= AmberFloor:
		return Amber
	default:
		return Red
	}
}

// FormatLabel turns a class token such as "diabetic_retinopathy" into
// "Diabetic Retinopathy". Only the first rune of each segment changes case.
func FormatLabel(class string) string {
	segments := strings.Split(class, "_")
	for i, segment := range segments {
		segments[i] = upperFirst(segment)
	}
	return strings.Join(segments, " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// FormatConfidence renders c as a percentage with one decimal.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.1f%%", c*100)
}
