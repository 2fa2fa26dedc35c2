package task

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestSortCanonical(t *testing.T) {
	base := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		tasks []Task
		want  []string
	}{
		{
			name: "order ascending",
			tasks: []Task{
				{ID: "b", Order: intPtr(2000), CreatedAt: base},
				{ID: "a", Order: intPtr(1000), CreatedAt: base},
				{ID: "c", Order: intPtr(3000), CreatedAt: base},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "missing order sorts last",
			tasks: []Task{
				{ID: "x", CreatedAt: base},
				{ID: "a", Order: intPtr(1000), CreatedAt: base},
			},
			want: []string{"a", "x"},
		},
		{
			name: "equal order breaks ties by newest created first",
			tasks: []Task{
				{ID: "old", Order: intPtr(1000), CreatedAt: base},
				{ID: "new", Order: intPtr(1000), CreatedAt: base.Add(time.Hour)},
			},
			want: []string{"new", "old"},
		},
		{
			name: "two unordered tasks newest first",
			tasks: []Task{
				{ID: "old", CreatedAt: base},
				{ID: "new", CreatedAt: base.Add(time.Minute)},
			},
			want: []string{"new", "old"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortCanonical(tt.tasks)
			for i, want := range tt.want {
				if tt.tasks[i].ID != want {
					t.Errorf("position %d = %q, want %q", i, tt.tasks[i].ID, want)
				}
			}
		})
	}
}

func TestReindex(t *testing.T) {
	list := []Task{
		{ID: "a", Order: intPtr(5200), ScheduledDate: "2025-03-10T00:00:00.000Z"},
		{ID: "b", ScheduledDate: "2025-03-10T00:00:00.000Z"},
		{ID: "c", Order: intPtr(999), ScheduledDate: "2025-03-10T00:00:00.000Z"},
	}

	got := Reindex("2025-03-12", list)

	for i, task := range got {
		wantOrder := (i + 1) * OrderGap
		if task.Order == nil || *task.Order != wantOrder {
			t.Errorf("task %q order = %v, want %d", task.ID, task.Order, wantOrder)
		}
		if task.ScheduledDate != "2025-03-12T00:00:00.000Z" {
			t.Errorf("task %q scheduledDate = %q", task.ID, task.ScheduledDate)
		}
		if task.DayKey != "2025-03-12" {
			t.Errorf("task %q dayKey = %q", task.ID, task.DayKey)
		}
	}

	// Input slice must not be mutated.
	if list[1].Order != nil {
		t.Error("Reindex mutated its input")
	}
}

func TestReindexIdempotent(t *testing.T) {
	list := []Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	once := Reindex("2025-03-12", list)
	twice := Reindex("2025-03-12", once)

	for i := range once {
		if *once[i].Order != *twice[i].Order {
			t.Errorf("reindex not idempotent at %d: %d vs %d", i, *once[i].Order, *twice[i].Order)
		}
	}
}

func TestDeriveNoteTitle(t *testing.T) {
	tests := []struct {
		name  string
		notes string
		want  string
	}{
		{name: "first line", notes: "Buy milk\nand eggs", want: "Buy milk"},
		{name: "trims whitespace", notes: "   padded title   \nrest", want: "padded title"},
		{name: "single line", notes: "just one line", want: "just one line"},
		{name: "empty falls back", notes: "", want: "Note"},
		{name: "whitespace only falls back", notes: "   \n\nmore", want: "Note"},
		{
			name:  "long first line truncated to 80 runes",
			notes: string(make([]rune, 0)) + repeatRune('x', 120),
			want:  repeatRune('x', 80),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveNoteTitle(tt.notes); got != tt.want {
				t.Errorf("DeriveNoteTitle(%q) = %q, want %q", tt.notes, got, tt.want)
			}
		})
	}
}

func repeatRune(r rune, n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}

func TestNeedsMetadataRepair(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "complete video needs nothing",
			task: Task{Type: TypeVideo, Title: "Real title", ThumbnailURL: "https://i.ytimg.com/vi/x/hqdefault.jpg", VideoDuration: "3:25"},
			want: false,
		},
		{
			name: "placeholder title",
			task: Task{Type: TypeVideo, Title: PlaceholderTitle, ThumbnailURL: "t", VideoDuration: "1:00"},
			want: true,
		},
		{
			name: "generic title",
			task: Task{Type: TypeVideo, Title: "YouTube video", ThumbnailURL: "t", VideoDuration: "1:00"},
			want: true,
		},
		{
			name: "missing thumbnail",
			task: Task{Type: TypeVideo, Title: "Real title", VideoDuration: "1:00"},
			want: true,
		},
		{
			name: "missing duration",
			task: Task{Type: TypeVideo, Title: "Real title", ThumbnailURL: "t"},
			want: true,
		},
		{
			name: "notes never need repair",
			task: Task{Type: TypeNote, Title: ""},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsMetadataRepair(tt.task); got != tt.want {
				t.Errorf("NeedsMetadataRepair() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{30, "30m"},
		{59, "59m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{1440, "1 day"},
		{150, "2h 30m"},
		{0, "0m"},
	}

	for _, tt := range tests {
		if got := FormatMinutes(tt.minutes); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
