package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/quotes"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type fixedOffsets map[int64]int

func (f fixedOffsets) OffsetHours(_ context.Context, userID int64) (int, error) {
	offset, ok := f[userID]
	if !ok {
		return 0, errors.New("no settings")
	}
	return offset, nil
}

type managerFixture struct {
	manager *Manager
	store   *prefs.DiskvStore
	writer  *prefs.Writer
	clock   *testClock
}

func newManagerFixture(t *testing.T, catalog *quotes.Catalog) *managerFixture {
	t.Helper()
	store := prefs.NewDiskvStore(t.TempDir(), 0)
	writer := prefs.NewWriter(store, 16)
	t.Cleanup(writer.Close)

	clock := &testClock{now: time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)}
	var (
		tokenMu sync.Mutex
		tokens  int
	)
	manager := NewManager(Options{
		Catalog: catalog,
		Reader:  store,
		Writer:  writer,
		Offsets: fixedOffsets{1: 0, 2: 3},
		Now:     clock.Now,
		NewToken: func() string {
			tokenMu.Lock()
			defer tokenMu.Unlock()
			tokens++
			return fmt.Sprintf("tok-%d", tokens)
		},
	})
	return &managerFixture{manager: manager, store: store, writer: writer, clock: clock}
}

func (f *managerFixture) stored(t *testing.T, userID int64) prefs.Record {
	t.Helper()
	if err := f.writer.Flush(context.Background()); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	record, err := f.store.Read(context.Background(), userID)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	return record
}

func TestManagerOpenPersistsRollover(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, err := f.manager.Open(ctx, 1)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if view.Token == "" || view.Position != 0 || view.Filter != FilterAll {
		t.Fatalf("unexpected view %+v", view)
	}
	record := f.stored(t, 1)
	if record.TodayLikesDate != "2026-10-14" {
		t.Fatalf("expected launch to stamp today, got %+v", record)
	}
}

func TestManagerSingleCommitPerGesture(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, _ := f.manager.Open(ctx, 1)
	token := view.Token

	next, err := f.manager.Advance(ctx, 1, token)
	if err != nil || next.Position != 1 {
		t.Fatalf("Advance = %+v, %v", next, err)
	}
	again, err := f.manager.Advance(ctx, 1, token)
	if !errors.Is(err, ErrStaleGesture) {
		t.Fatalf("expected ErrStaleGesture for a repeated gesture, got %v", err)
	}
	if again.Position != 1 || again.Token != next.Token {
		t.Fatalf("stale gesture must not move the card, got %+v", again)
	}

	liked, err := f.manager.ToggleFavorite(ctx, 1, next.Token)
	if err != nil || !liked.Favorited || liked.TodayLikes != 1 {
		t.Fatalf("ToggleFavorite = %+v, %v", liked, err)
	}
	if _, err := f.manager.ToggleFavorite(ctx, 1, next.Token); !errors.Is(err, ErrStaleGesture) {
		t.Fatalf("expected double tap to be rejected, got %v", err)
	}

	record := f.stored(t, 1)
	if len(record.LikedQuotes) != 1 || record.LikedQuotes[0] != 1 || len(record.TodayLikes) != 1 {
		t.Fatalf("unexpected stored record %+v", record)
	}
}

func TestManagerCelebratesOncePerDay(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, _ := f.manager.Open(ctx, 1)
	celebrations := 0
	step := func(fn func(token string) (View, error)) {
		t.Helper()
		var err error
		view, err = fn(view.Token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Celebrate {
			celebrations++
		}
	}
	advance := func(token string) (View, error) { return f.manager.Advance(ctx, 1, token) }
	toggle := func(token string) (View, error) { return f.manager.ToggleFavorite(ctx, 1, token) }

	for i := 0; i < Goal; i++ {
		step(advance)
		step(toggle)
	}
	if celebrations != 1 || !view.GoalReached || view.DisplayLikes() != Goal {
		t.Fatalf("expected one celebration at the goal, got %d (%+v)", celebrations, view)
	}
	step(toggle)
	step(toggle)
	step(advance)
	step(toggle)
	if celebrations != 1 {
		t.Fatalf("celebration fired again on the same day")
	}
	if view.DisplayLikes() != Goal || view.TodayLikes != Goal+1 {
		t.Fatalf("expected display capped at goal, got %+v", view)
	}
	if record := f.stored(t, 1); record.CelebrationShownDate != "2026-10-14" {
		t.Fatalf("expected celebration date persisted, got %+v", record)
	}

	f.clock.Set(time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC))
	view, err := f.manager.Current(ctx, 1)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if view.TodayLikes != 0 || view.Favorites != Goal+1 {
		t.Fatalf("expected new day to clear today's likes only, got %+v", view)
	}
	record := f.stored(t, 1)
	if record.TodayLikesDate != "2026-10-15" || len(record.TodayLikes) != 0 || len(record.LikedQuotes) != Goal+1 {
		t.Fatalf("unexpected stored record after rollover %+v", record)
	}
}

func TestManagerUsesUserOffsetForToday(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	f.clock.Set(time.Date(2026, 10, 14, 22, 0, 0, 0, time.UTC))

	if _, err := f.manager.Open(context.Background(), 2); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if record := f.stored(t, 2); record.TodayLikesDate != "2026-10-15" {
		t.Fatalf("expected local date of UTC+3, got %q", record.TodayLikesDate)
	}
}

func TestManagerSetFilterWithoutFavorites(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, _ := f.manager.Open(ctx, 1)
	got, err := f.manager.SetFilter(ctx, 1, view.Token, FilterFavorites)
	if !errors.Is(err, ErrEmptyFilteredSet) {
		t.Fatalf("expected ErrEmptyFilteredSet, got %v", err)
	}
	if got.Filter != FilterAll || got.Token != view.Token {
		t.Fatalf("expected unchanged view, got %+v", got)
	}
}

func TestManagerFilterResetOnLastUnlike(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, _ := f.manager.Open(ctx, 1)
	view, _ = f.manager.Advance(ctx, 1, view.Token)
	view, _ = f.manager.ToggleFavorite(ctx, 1, view.Token)
	view, err := f.manager.SetFilter(ctx, 1, view.Token, FilterFavorites)
	if err != nil || view.Filter != FilterFavorites {
		t.Fatalf("SetFilter = %+v, %v", view, err)
	}
	if record := f.stored(t, 1); !record.ShowOnlyLiked {
		t.Fatalf("expected filter preference persisted")
	}

	view, err = f.manager.ToggleFavorite(ctx, 1, view.Token)
	if err != nil || !view.FilterReset || view.Filter != FilterAll || view.Position != 1 {
		t.Fatalf("expected filter reset in place, got %+v, %v", view, err)
	}
	if record := f.stored(t, 1); record.ShowOnlyLiked {
		t.Fatalf("expected filter preference cleared")
	}
}

func TestManagerShare(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, _ := f.manager.Open(ctx, 1)
	text, err := f.manager.Share(ctx, 1, view.Token)
	if err != nil {
		t.Fatalf("Share returned error: %v", err)
	}
	if text != view.Quote.ShareText() {
		t.Fatalf("unexpected share text %q", text)
	}
	if _, err := f.manager.Share(ctx, 1, "old"); !errors.Is(err, ErrStaleGesture) {
		t.Fatalf("expected stale token to be rejected, got %v", err)
	}
}

func TestManagerSweepAndRehydrate(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	view, _ := f.manager.Open(ctx, 1)
	view, _ = f.manager.ToggleFavorite(ctx, 1, view.Token)
	view, _ = f.manager.Advance(ctx, 1, view.Token)
	view, _ = f.manager.ToggleFavorite(ctx, 1, view.Token)

	f.clock.Set(f.clock.Now().Add(InactivityTimeout + time.Minute))
	if evicted := f.manager.SweepInactive(); evicted != 1 {
		t.Fatalf("expected one eviction, got %d", evicted)
	}
	if f.manager.Len() != 0 {
		t.Fatalf("expected no live sessions")
	}

	view, err := f.manager.Open(ctx, 1)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if view.Favorites != 2 || view.TodayLikes != 2 {
		t.Fatalf("expected favorites rehydrated from the store, got %+v", view)
	}
	favorites, err := f.manager.Favorites(ctx, 1)
	if err != nil || len(favorites) != 2 {
		t.Fatalf("Favorites = %v, %v", favorites, err)
	}
}

func TestManagerConcurrentUsers(t *testing.T) {
	f := newManagerFixture(t, quotes.Builtin())
	ctx := context.Background()

	var wg sync.WaitGroup
	for userID := int64(10); userID < 20; userID++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			view, err := f.manager.Open(ctx, userID)
			if err != nil {
				t.Errorf("Open(%d) returned error: %v", userID, err)
				return
			}
			for i := 0; i < 3; i++ {
				view, err = f.manager.ToggleFavorite(ctx, userID, view.Token)
				if err != nil {
					t.Errorf("ToggleFavorite(%d) returned error: %v", userID, err)
					return
				}
				view, err = f.manager.Advance(ctx, userID, view.Token)
				if err != nil {
					t.Errorf("Advance(%d) returned error: %v", userID, err)
					return
				}
			}
		}(userID)
	}
	wg.Wait()

	for userID := int64(10); userID < 20; userID++ {
		if record := f.stored(t, userID); len(record.LikedQuotes) != 3 {
			t.Fatalf("user %d: expected 3 favorites, got %v", userID, record.LikedQuotes)
		}
	}
}
