package badge

import "testing"

func TestSelectPriceLines(t *testing.T) {
	t.Parallel()

	// Large face: 20px per char; small face: 10px per char.
	measureLarge := func(s string) float64 { return float64(len(s)) * 20 }
	measureSmall := func(s string) float64 { return float64(len(s)) * 10 }

	t.Run("fits at large size", func(t *testing.T) {
		useSmall, lines := selectPriceLines(measureLarge, measureSmall, "$9", 100)
		if useSmall {
			t.Error("short text should keep the large face")
		}
		if len(lines) != 1 {
			t.Errorf("expected 1 line, got %v", lines)
		}
	})

	t.Run("overflow falls back to small face", func(t *testing.T) {
		// "only $19.99" is 220px at the large size, over the 150px
		// budget, so the small face is used.
		useSmall, lines := selectPriceLines(measureLarge, measureSmall, "only $19.99", 150)
		if !useSmall {
			t.Error("wrapped text should switch to the small face")
		}
		if len(lines) == 0 || len(lines) > 2 {
			t.Errorf("expected 1 or 2 lines, got %v", lines)
		}
	})

	t.Run("never more than two lines at either size", func(t *testing.T) {
		_, lines := selectPriceLines(measureLarge, measureSmall,
			"now just only $1,299.99 for today only", 100)
		if len(lines) > 2 {
			t.Errorf("expected at most 2 lines, got %d: %v", len(lines), lines)
		}
	})
}
