package badge

import "strings"

// Price text sizing: the larger face is tried first; if the text needs two
// lines at that size, it is re-wrapped at the smaller one.
const (
	priceFontSize        = 70
	priceTwoLineFontSize = 50
	lineSpacing          = 4

	// Usable width for price text inside the badge.
	priceMaxWidthFactor = 0.75
)

type measureFunc func(s string) float64

// selectPriceLines wraps the price text at the larger size first and
// falls back to the smaller size when two lines are needed. Reports
// whether the smaller face was chosen.
func selectPriceLines(measureLarge, measureSmall measureFunc, text string, maxWidth float64) (bool, []string) {
	lines := wrapTwoLines(measureLarge, text, maxWidth)
	if len(lines) > 1 {
		return true, wrapTwoLines(measureSmall, text, maxWidth)
	}
	return false, lines
}

// wrapTwoLines greedily accumulates words into lines whose rendered width
// stays within maxWidth, capped at two lines. When a third line would be
// needed, the word is forced onto the second line regardless of overflow.
func wrapTwoLines(measure measureFunc, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 2)
	current := ""

	for _, word := range words {
		test := word
		if current != "" {
			test = current + " " + word
		}

		if current == "" || measure(test) <= maxWidth {
			current = test
			continue
		}

		if len(lines) == 1 {
			// The second line absorbs the overflow instead of wrapping
			// further.
			current = test
			continue
		}

		lines = append(lines, current)
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
