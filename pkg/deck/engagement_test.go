package deck

import "testing"

func TestTrackerFiresOnFirstCrossingOnly(t *testing.T) {
	tracker := NewTracker("")
	today := "2026-10-14"

	sizes := []int{0, 1, 2, 3, 4, 5, 4, 5, 6, 5, 4, 5}
	fired := 0
	for i := 1; i < len(sizes); i++ {
		if tracker.Observe(sizes[i-1], sizes[i], today) {
			fired++
			if sizes[i-1] != 4 || sizes[i] != 5 || i != 5 {
				t.Fatalf("fired on unexpected step %d (%d -> %d)", i, sizes[i-1], sizes[i])
			}
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one celebration, got %d", fired)
	}
	if tracker.State(today) != CelebratedToday || tracker.ShownDate() != today {
		t.Fatalf("expected celebrated state for today")
	}
}

func TestTrackerRespectsStoredShownDate(t *testing.T) {
	tracker := NewTracker("2026-10-14")
	if tracker.Observe(4, 5, "2026-10-14") {
		t.Fatalf("celebration must not fire twice on the same day")
	}
	if !tracker.Observe(4, 5, "2026-10-15") {
		t.Fatalf("expected celebration on a new day")
	}
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker("2026-10-14")
	tracker.Reset()
	if tracker.State("2026-10-14") != BelowGoal {
		t.Fatalf("expected below goal after reset")
	}
}

func TestDisplayCountIsCapped(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{size: -1, want: 0},
		{size: 0, want: 0},
		{size: 3, want: 3},
		{size: Goal, want: Goal},
		{size: 12, want: Goal},
	}
	for _, tt := range tests {
		if got := DisplayCount(tt.size); got != tt.want {
			t.Fatalf("DisplayCount(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
	if Progress(12) != 1 || Progress(0) != 0 {
		t.Fatalf("unexpected progress bounds")
	}
}
