package timeline

import (
	domain "github.com/vinayytyagi/lineup/domain/task"
)

// Match identifies one search hit.
type Match struct {
	DayKey string `json:"dayKey"`
	TaskID string `json:"taskId"`
}

// Sink receives engine output. The websocket layer implements it by pushing
// events to the client; tests implement it by recording calls. Methods may be
// invoked from background goroutines and must be safe for concurrent use.
type Sink interface {
	// WindowChanged announces the new ordered day-key window.
	WindowChanged(days []string)

	// DayChanged delivers the full, canonically sorted task list of a day.
	DayChanged(dayKey string, tasks []domain.Task)

	// Banner surfaces a transient, non-fatal problem.
	Banner(message string)

	// ScrollToDay asks the client to bring a day into view.
	ScrollToDay(dayKey string, center bool)

	// ScrollToTask asks the client to center a specific task.
	ScrollToTask(dayKey, taskID string)

	// SearchChanged delivers the match list and the active match index,
	// -1 when there are no matches.
	SearchChanged(matches []Match, active int)
}
