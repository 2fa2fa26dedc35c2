package timeline

import (
	"strings"
)

type searchState struct {
	query   string
	matches []Match
	active  int
}

// SetSearchQuery updates the search query. Matches are rebuilt in window
// order, the active match resets to the first, and the client is scrolled to
// it. Clearing the query clears matches without scrolling.
func (c *Controller) SetSearchQuery(query string) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	c.mu.Lock()
	c.search.query = normalized
	c.rebuildMatchesLocked()
	c.search.active = 0
	matches := append([]Match(nil), c.search.matches...)
	c.mu.Unlock()

	if normalized == "" {
		c.sink.SearchChanged(nil, -1)
		return
	}

	c.emitSearchIfActive()
	if len(matches) > 0 {
		c.sink.ScrollToTask(matches[0].DayKey, matches[0].TaskID)
	}
}

// SearchNext advances to the next match, wrapping at the end.
func (c *Controller) SearchNext() {
	c.stepSearch(1)
}

// SearchPrev steps back to the previous match, wrapping at the start.
func (c *Controller) SearchPrev() {
	c.stepSearch(-1)
}

func (c *Controller) stepSearch(delta int) {
	c.mu.Lock()
	n := len(c.search.matches)
	if n == 0 {
		c.mu.Unlock()
		return
	}
	c.search.active = (c.search.active + delta + n) % n
	match := c.search.matches[c.search.active]
	c.mu.Unlock()

	c.emitSearchIfActive()
	c.sink.ScrollToTask(match.DayKey, match.TaskID)
}

// ActiveMatch returns the current match, if any.
func (c *Controller) ActiveMatch() (Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.search.matches) == 0 {
		return Match{}, false
	}
	return c.search.matches[c.search.active], true
}

// Matches returns a copy of the current match list.
func (c *Controller) Matches() []Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Match(nil), c.search.matches...)
}

// rebuildMatchesLocked scans the window in order, each day in canonical
// order, matching the query against title and notes case-insensitively.
func (c *Controller) rebuildMatchesLocked() {
	c.search.matches = nil
	if c.search.query == "" {
		return
	}

	for _, day := range c.window {
		for _, t := range c.tasksByDay[day] {
			haystack := strings.ToLower(t.Title + "\n" + t.Notes)
			if strings.Contains(haystack, c.search.query) {
				c.search.matches = append(c.search.matches, Match{DayKey: day, TaskID: t.ID})
			}
		}
	}
}

// refreshSearchLocked rebuilds matches after task data changed, keeping the
// active index valid: an index past the end snaps back to the first match.
func (c *Controller) refreshSearchLocked() {
	if c.search.query == "" {
		return
	}
	c.rebuildMatchesLocked()
	if c.search.active >= len(c.search.matches) {
		c.search.active = 0
	}
}

// emitSearchIfActive announces the current match state when a query is set.
func (c *Controller) emitSearchIfActive() {
	c.mu.Lock()
	if c.search.query == "" {
		c.mu.Unlock()
		return
	}
	matches := append([]Match(nil), c.search.matches...)
	active := c.search.active
	if len(matches) == 0 {
		active = -1
	}
	c.mu.Unlock()

	c.sink.SearchChanged(matches, active)
}
