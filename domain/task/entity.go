// Package task holds the timeline task entity and the pure rules that govern
// it: canonical ordering, dense order reindexing and title derivation. Every
// consumer of tasks (storage, timeline engine, HTTP surface) goes through the
// definitions here so the rules exist exactly once.
package task

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vinayytyagi/lineup/domain/datekey"
)

const (
	// TypeVideo marks a task created from a video URL.
	TypeVideo = "video"
	// TypeNote marks a free-form note task.
	TypeNote = "note"

	// OrderGap is the spacing between order values. Appending to a day
	// takes max(order)+OrderGap; reindexing assigns (position+1)*OrderGap.
	OrderGap = 1000

	// MaxTimeToComplete caps the estimate at seven days of minutes.
	MaxTimeToComplete = 7 * 24 * 60

	// MaxTitleLength bounds titles derived from note text.
	MaxTitleLength = 80

	// MaxReorderBatch bounds a single bulk reorder request.
	MaxReorderBatch = 300

	// PlaceholderTitle is assigned when video metadata cannot be resolved.
	PlaceholderTitle = "Untitled video"
)

// Task is a single timeline entry, either a video or a note, pinned to a
// calendar day via its canonical ScheduledDate.
type Task struct {
	ID             string `gorm:"primaryKey;type:text" json:"id"`
	OwnerID        string `gorm:"index;not null;type:text" json:"-"`
	Type           string `gorm:"not null;type:text" json:"type"`
	Title          string `gorm:"type:text" json:"title"`
	VideoURL       string `gorm:"type:text" json:"videoUrl,omitempty"`
	Notes          string `gorm:"type:text" json:"notes,omitempty"`
	ThumbnailURL   string `gorm:"type:text" json:"thumbnailUrl,omitempty"`
	VideoDuration  string `gorm:"type:text" json:"videoDuration,omitempty"`
	ScheduledDate  string `gorm:"index;not null;type:text" json:"scheduledDate"`
	TimeToComplete int    `gorm:"not null" json:"timeToComplete"`
	Order          *int   `gorm:"column:sort_order" json:"order,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// DayKey is derived from ScheduledDate for the wire, never stored.
	DayKey string `gorm:"-" json:"dayKey"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// WithDayKey returns a copy of t with DayKey derived from ScheduledDate.
func (t Task) WithDayKey() Task {
	t.DayKey = datekey.FromScheduledISO(t.ScheduledDate)
	return t
}

// OrderValue returns the task's order, or a sentinel that sorts after every
// real order when the task has none.
func (t Task) OrderValue() int {
	if t.Order == nil {
		return int(^uint(0) >> 1)
	}
	return *t.Order
}

// SortCanonical sorts tasks in the single ordering used everywhere: order
// ascending with missing orders last, then newest created first as the
// tie-break. The sort is stable so equal tasks keep their relative positions.
func SortCanonical(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		oi, oj := tasks[i].OrderValue(), tasks[j].OrderValue()
		if oi != oj {
			return oi < oj
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// Reindex stamps every task in list onto dayKey with dense order values,
// (position+1)*OrderGap, preserving the given slice order. The input order is
// taken as authoritative; callers sort first when they need canonical order.
func Reindex(dayKey string, list []Task) []Task {
	out := make([]Task, len(list))
	for i, t := range list {
		order := (i + 1) * OrderGap
		t.Order = &order
		t.ScheduledDate = datekey.ScheduledISO(dayKey)
		t.DayKey = dayKey
		out[i] = t
	}
	return out
}

// NextOrder returns the order value for a task appended after maxOrder.
func NextOrder(maxOrder int) int {
	return maxOrder + OrderGap
}

// DeriveNoteTitle derives a note task's title from its text: the first line,
// trimmed and capped at MaxTitleLength runes, falling back to "Note".
func DeriveNoteTitle(notes string) string {
	line, _, _ := strings.Cut(notes, "\n")
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) > MaxTitleLength {
		line = string(runes[:MaxTitleLength])
	}
	if line == "" {
		return "Note"
	}
	return line
}

// NeedsMetadataRepair reports whether a video task carries placeholder
// metadata worth re-fetching: a missing or generic title, or a missing
// thumbnail or duration.
func NeedsMetadataRepair(t Task) bool {
	if t.Type != TypeVideo {
		return false
	}
	return t.Title == "" ||
		t.Title == "YouTube video" ||
		t.Title == PlaceholderTitle ||
		t.ThumbnailURL == "" ||
		t.VideoDuration == ""
}

// FormatMinutes renders a minute count as a compact human label.
func FormatMinutes(minutes int) string {
	switch {
	case minutes <= 0:
		return "0m"
	case minutes == 24*60:
		return "1 day"
	case minutes >= 60 && minutes%60 == 0:
		return fmt.Sprintf("%dh", minutes/60)
	case minutes >= 60:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
