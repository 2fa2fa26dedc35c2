package timeline

// Pure viewport math. The client reports geometry; the engine never holds
// pixel state, so these helpers stay free of Controller.

// NearEdgeMargin is how many pixels before a window edge the client should
// report proximity, triggering window growth.
const NearEdgeMargin = 400

// RestoreOffset returns the scroll offset that keeps the viewport visually
// still after content was prepended above it: the previous offset plus
// however much the content grew.
func RestoreOffset(prevOffset, prevHeight, newHeight float64) float64 {
	return prevOffset + (newHeight - prevHeight)
}

// CenterOffset returns the scroll offset that vertically centers a row in
// the viewport, clamped at the top.
func CenterOffset(rowTop, rowHeight, viewportHeight float64) float64 {
	offset := rowTop - viewportHeight/2 + rowHeight/2
	if offset < 0 {
		return 0
	}
	return offset
}

// DropIndexForPointer maps a horizontal pointer position over a card to an
// insertion index: the left half of card i means "insert at i", the right
// half means "insert after i".
func DropIndexForPointer(pointerX, cardLeft, cardWidth float64, cardIndex int) int {
	if pointerX < cardLeft+cardWidth/2 {
		return cardIndex
	}
	return cardIndex + 1
}

// TrailingDropIndex is the insertion index for a drop on the empty space
// after a day's last card.
func TrailingDropIndex(taskCount int) int {
	return taskCount
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
