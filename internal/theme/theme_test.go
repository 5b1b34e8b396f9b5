package theme

import (
	"image/color"
	"strings"
	"testing"
)

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestRecoveryColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{score: 100, want: "high"},
		{score: 67, want: "high"},
		{score: 66.9, want: "medium"},
		{score: 34, want: "medium"},
		{score: 33, want: "low"},
		{score: 0, want: "low"},
	}

	bands := map[string]color.Color{
		"high":   ColorHighRecovery,
		"medium": ColorMediumRecovery,
		"low":    ColorLowRecovery,
	}

	for _, tt := range tests {
		if got := RecoveryColor(tt.score); !sameColor(got, bands[tt.want]) {
			t.Errorf("RecoveryColor(%v) = %v, want %s band", tt.score, got, tt.want)
		}
	}
}

func TestRing(t *testing.T) {
	t.Parallel()

	dots := func(rows []string) int {
		n := 0
		for _, row := range rows {
			for _, r := range row {
				if r != ' ' && r != emptyBraille {
					n++
				}
			}
		}
		return n
	}

	empty, half, full := ring(0), ring(0.5), ring(1)

	for _, rows := range [][]string{empty, half, full} {
		if len(rows) != ringDots/4 {
			t.Fatalf("rows = %d, want %d", len(rows), ringDots/4)
		}
		for _, row := range rows {
			if n := len([]rune(row)); n != ringDots/2 {
				t.Errorf("row width = %d, want %d", n, ringDots/2)
			}
		}
	}

	if n := dots(empty); n != 0 {
		t.Errorf("empty ring has %d cells", n)
	}
	if !(dots(half) > 0 && dots(half) < dots(full)) {
		t.Errorf("half ring cells = %d, full = %d", dots(half), dots(full))
	}
}

func TestGaugeRender(t *testing.T) {
	t.Parallel()

	score := 66.4
	out := Gauge{Value: &score, Max: 100, Label: "Recovery", Color: RecoveryColor(score)}.Render()
	if !strings.Contains(out, "66%") || !strings.Contains(out, "Recovery") {
		t.Errorf("Render() = %q, want value and label", out)
	}

	strain := 12.34
	if out := (Gauge{Value: &strain, Max: 21, Label: "Strain", Color: ColorStrain}).Render(); !strings.Contains(out, "12.3") {
		t.Errorf("Render() = %q, want 12.3", out)
	}

	if out := (Gauge{Max: 100, Label: "Sleep", Color: ColorSleep}).Render(); !strings.Contains(out, "--") {
		t.Errorf("Render() = %q, want no-data marker", out)
	}
}
