package timeline

import "testing"

func TestRestoreOffset(t *testing.T) {
	tests := []struct {
		name       string
		prevOffset float64
		prevHeight float64
		newHeight  float64
		want       float64
	}{
		{"content prepended", 120, 5000, 6200, 1320},
		{"no growth", 120, 5000, 5000, 120},
		{"at top", 0, 5000, 6200, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RestoreOffset(tt.prevOffset, tt.prevHeight, tt.newHeight); got != tt.want {
				t.Errorf("RestoreOffset = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCenterOffset(t *testing.T) {
	tests := []struct {
		name           string
		rowTop         float64
		rowHeight      float64
		viewportHeight float64
		want           float64
	}{
		{"row deep in the list", 2000, 100, 800, 1650},
		{"row near the top clamps to zero", 50, 100, 800, 0},
		{"row exactly at center threshold", 400, 0, 800, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CenterOffset(tt.rowTop, tt.rowHeight, tt.viewportHeight); got != tt.want {
				t.Errorf("CenterOffset = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDropIndexForPointer(t *testing.T) {
	tests := []struct {
		name      string
		pointerX  float64
		cardLeft  float64
		cardWidth float64
		cardIndex int
		want      int
	}{
		{"left half inserts before", 110, 100, 200, 2, 2},
		{"right half inserts after", 250, 100, 200, 2, 3},
		{"exact midpoint goes after", 200, 100, 200, 2, 3},
		{"first card left edge", 0, 0, 200, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DropIndexForPointer(tt.pointerX, tt.cardLeft, tt.cardWidth, tt.cardIndex)
			if got != tt.want {
				t.Errorf("DropIndexForPointer = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrailingDropIndex(t *testing.T) {
	if got := TrailingDropIndex(0); got != 0 {
		t.Errorf("empty day = %d, want 0", got)
	}
	if got := TrailingDropIndex(4); got != 4 {
		t.Errorf("four cards = %d, want 4", got)
	}
}
