package deck

import "testing"

func TestLedgerToggleIsInvolution(t *testing.T) {
	ledger := NewLedger([]int{1, 3}, []int{3}, "2026-10-14")
	for _, position := range []int{0, 1, 3} {
		before := ledger.IsFavorited(position)
		ledger.Toggle(position, "2026-10-14")
		if ledger.IsFavorited(position) == before {
			t.Fatalf("first toggle of %d did not flip membership", position)
		}
		ledger.Toggle(position, "2026-10-14")
		if ledger.IsFavorited(position) != before {
			t.Fatalf("second toggle of %d did not restore membership", position)
		}
	}
}

func TestLedgerTodayFollowsAllTime(t *testing.T) {
	ledger := NewLedger([]int{2}, nil, "2026-10-14")

	ledger.Toggle(5, "2026-10-14")
	if ledger.TodaySize() != 1 || ledger.Size() != 2 {
		t.Fatalf("expected like to count today, got today=%d all=%d", ledger.TodaySize(), ledger.Size())
	}

	ledger.Toggle(2, "2026-10-14")
	if ledger.TodaySize() != 1 {
		t.Fatalf("unliking an older favorite must not count as a like today, got %v", ledger.Today())
	}
	if ledger.IsFavorited(2) {
		t.Fatalf("expected 2 removed from favorites")
	}

	ledger.Toggle(5, "2026-10-14")
	if ledger.TodaySize() != 0 {
		t.Fatalf("expected unlike to remove today's like, got %v", ledger.Today())
	}
}

func TestLedgerToggleOnNewDayStartsFreshDay(t *testing.T) {
	ledger := NewLedger([]int{1}, []int{1}, "2026-10-13")
	ledger.Toggle(4, "2026-10-14")
	if ledger.TodayDate() != "2026-10-14" {
		t.Fatalf("expected date stamp to move, got %q", ledger.TodayDate())
	}
	if got := ledger.Today(); len(got) != 1 || got[0] != 4 {
		t.Fatalf("expected only today's like, got %v", got)
	}
	if got := ledger.AllTime(); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("unexpected favorites %v", got)
	}
}
