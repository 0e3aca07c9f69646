package deck

import (
	"errors"
	"testing"

	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/quotes"
)

const testDay = "2026-10-14"

func threeQuotes(t *testing.T) *quotes.Catalog {
	t.Helper()
	catalog, err := quotes.NewCatalog([]quotes.Quote{
		{Text: "A", Reference: "a"},
		{Text: "B", Reference: "b"},
		{Text: "C", Reference: "c"},
	})
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	return catalog
}

func TestSessionFavoritesScenario(t *testing.T) {
	session, _ := NewSession(threeQuotes(t), prefs.Record{TodayLikesDate: testDay}, testDay)

	session.ToggleFavorite(testDay)
	session.Advance()
	session.Advance()
	session.ToggleFavorite(testDay)
	session.Advance()
	if session.Position() != 0 {
		t.Fatalf("expected to be back on A, got %d", session.Position())
	}

	if _, err := session.SetFilter(FilterFavorites); err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}
	session.Advance()
	if session.Position() != 2 {
		t.Fatalf("expected C, got %d", session.Position())
	}
	session.Advance()
	if session.Position() != 0 {
		t.Fatalf("expected A, got %d", session.Position())
	}
}

func TestSessionRemovingLastFavoriteDropsFilterInPlace(t *testing.T) {
	session, _ := NewSession(threeQuotes(t), prefs.Record{
		LikedQuotes:    []int{1},
		ShowOnlyLiked:  true,
		TodayLikesDate: testDay,
	}, testDay)
	if session.Mode() != FilterFavorites || session.Position() != 1 {
		t.Fatalf("expected favorites filter anchored on 1, got mode %v position %d", session.Mode(), session.Position())
	}

	out := session.ToggleFavorite(testDay)
	if !out.FilterReset || session.Mode() != FilterAll {
		t.Fatalf("expected filter reset, got %+v mode %v", out, session.Mode())
	}
	if session.Position() != 1 {
		t.Fatalf("expected position kept at 1, got %d", session.Position())
	}
	if out.Patch[prefs.KeyShowOnlyLiked] != false {
		t.Fatalf("expected showOnlyLiked=false in the same patch, got %v", out.Patch)
	}
	if session.PeekNext() != 2 {
		t.Fatalf("expected navigation over the full catalog, got %d", session.PeekNext())
	}
}

func TestSessionToggleWritesBothSetsTogether(t *testing.T) {
	session, _ := NewSession(threeQuotes(t), prefs.Record{TodayLikesDate: testDay}, testDay)
	out := session.ToggleFavorite(testDay)
	for _, key := range []string{prefs.KeyLikedQuotes, prefs.KeyTodayLikes, prefs.KeyTodayLikesDate} {
		if _, ok := out.Patch[key]; !ok {
			t.Fatalf("expected %s in toggle patch %v", key, out.Patch)
		}
	}
	out = session.ToggleFavorite(testDay)
	if liked := out.Patch[prefs.KeyLikedQuotes].([]int); len(liked) != 0 {
		t.Fatalf("expected empty favorites after second toggle, got %v", liked)
	}
}

func TestSessionCelebrationScenario(t *testing.T) {
	session, _ := NewSession(quotes.Builtin(), prefs.Record{TodayLikesDate: testDay}, testDay)

	like := func(position int) Outcome {
		for session.Position() != position {
			session.Advance()
		}
		return session.ToggleFavorite(testDay)
	}

	for _, position := range []int{1, 2, 3, 4} {
		if out := like(position); out.Celebrate {
			t.Fatalf("unexpected celebration at position %d", position)
		}
	}
	out := like(5)
	if !out.Celebrate || out.Patch[prefs.KeyCelebrationShownDate] != testDay {
		t.Fatalf("expected celebration with shown date, got %+v", out)
	}
	if out := like(5); out.Celebrate || session.Ledger().TodaySize() != 4 {
		t.Fatalf("unlike must not celebrate, got %+v size %d", out, session.Ledger().TodaySize())
	}
	if out := like(5); out.Celebrate {
		t.Fatalf("re-like must not celebrate again")
	}
}

func TestSessionSetFilterWithoutFavorites(t *testing.T) {
	session, _ := NewSession(threeQuotes(t), prefs.Record{TodayLikesDate: testDay}, testDay)
	if _, err := session.SetFilter(FilterFavorites); !errors.Is(err, ErrEmptyFilteredSet) {
		t.Fatalf("expected ErrEmptyFilteredSet, got %v", err)
	}
	if session.Mode() != FilterAll {
		t.Fatalf("expected filter to stay on all")
	}
}

func TestSessionSetFilterAnchorsOnNextFavorite(t *testing.T) {
	session, _ := NewSession(quotes.Builtin(), prefs.Record{LikedQuotes: []int{3, 8}, TodayLikesDate: testDay}, testDay)
	for session.Position() != 4 {
		session.Advance()
	}
	out, err := session.SetFilter(FilterFavorites)
	if err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}
	if session.Position() != 8 || out.Patch[prefs.KeyShowOnlyLiked] != true {
		t.Fatalf("expected anchor on 8 with persisted filter, got %d %v", session.Position(), out.Patch)
	}
	out, _ = session.SetFilter(FilterAll)
	if session.Position() != 8 || out.Patch[prefs.KeyShowOnlyLiked] != false {
		t.Fatalf("expected position kept when leaving filter, got %d %v", session.Position(), out.Patch)
	}
}

func TestNewSessionDropsStaleFilterAndUnknownPositions(t *testing.T) {
	session, patch := NewSession(threeQuotes(t), prefs.Record{
		LikedQuotes:    []int{7},
		ShowOnlyLiked:  true,
		TodayLikesDate: testDay,
	}, testDay)
	if session.Mode() != FilterAll || session.Ledger().Size() != 0 {
		t.Fatalf("expected all mode without favorites, got %v %d", session.Mode(), session.Ledger().Size())
	}
	if patch[prefs.KeyShowOnlyLiked] != false {
		t.Fatalf("expected persisted filter reset, got %v", patch)
	}
}

func TestSessionResumeOnNewDay(t *testing.T) {
	session, _ := NewSession(quotes.Builtin(), prefs.Record{
		LikedQuotes:          []int{0, 1, 2, 3, 4},
		TodayLikes:           []int{0, 1, 2, 3, 4},
		TodayLikesDate:       testDay,
		CelebrationShownDate: testDay,
	}, testDay)

	if patch := session.Resume(testDay); patch != nil {
		t.Fatalf("same day resume must not write, got %v", patch)
	}
	patch := session.Resume("2026-10-15")
	if patch[prefs.KeyTodayLikesDate] != "2026-10-15" {
		t.Fatalf("unexpected rollover patch %v", patch)
	}
	if session.Ledger().TodaySize() != 0 || session.Ledger().Size() != 5 {
		t.Fatalf("expected today cleared and favorites kept")
	}
	if session.Tracker().State("2026-10-15") != BelowGoal {
		t.Fatalf("expected celebration cleared")
	}
}
