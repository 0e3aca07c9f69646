package deck

import (
	"errors"

	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/quotes"
)

// Session is one user's in-memory deck. It is the source of truth for
// rendering; every mutation returns the patch that mirrors it to the store.
type Session struct {
	catalog  *quotes.Catalog
	position int
	mode     FilterMode
	ledger   *Ledger
	tracker  *Tracker
}

// Outcome describes what a mutation did beyond moving state.
type Outcome struct {
	Patch     prefs.Patch
	Celebrate bool
	// FilterReset is set when the favorites filter was dropped because no
	// favorites remain.
	FilterReset bool
}

// NewSession rehydrates a session from a stored record, reconciled to today.
func NewSession(catalog *quotes.Catalog, record prefs.Record, today string) (*Session, prefs.Patch) {
	record, patch := Reconcile(record, today)

	s := &Session{
		catalog: catalog,
		ledger:  NewLedger(catalog.Filter(record.LikedQuotes), catalog.Filter(record.TodayLikes), record.TodayLikesDate),
		tracker: NewTracker(record.CelebrationShownDate),
	}
	if record.ShowOnlyLiked {
		if s.ledger.Size() > 0 {
			s.mode = FilterFavorites
			s.position, _ = anchor(s.position, s.ledger.AllTime())
		} else {
			patch = mergePatch(patch, prefs.Patch{prefs.KeyShowOnlyLiked: false})
		}
	}
	return s, patch
}

// Resume is the foreground check: a new day clears today's likes and the
// celebration while leaving favorites alone.
func (s *Session) Resume(today string) prefs.Patch {
	if s.ledger.TodayDate() == today {
		return nil
	}
	s.ledger.ResetDay(today)
	s.tracker.Reset()
	return rolloverPatch(today)
}

func (s *Session) Position() int {
	return s.position
}

func (s *Session) Mode() FilterMode {
	return s.mode
}

func (s *Session) Ledger() *Ledger {
	return s.ledger
}

func (s *Session) Tracker() *Tracker {
	return s.tracker
}

func (s *Session) Quote() quotes.Quote {
	quote, err := s.catalog.At(s.position)
	if err != nil {
		s.position = s.catalog.Clamp(s.position)
		quote, _ = s.catalog.At(s.position)
	}
	return quote
}

// PeekNext is the position Advance would commit.
func (s *Session) PeekNext() int {
	next, err := Advance(s.position, s.catalog.Count(), s.ledger.AllTime(), s.mode)
	if errors.Is(err, ErrEmptyFilteredSet) {
		next, _ = Advance(s.position, s.catalog.Count(), nil, FilterAll)
	}
	return next
}

func (s *Session) Advance() Outcome {
	var out Outcome
	next, err := Advance(s.position, s.catalog.Count(), s.ledger.AllTime(), s.mode)
	if errors.Is(err, ErrEmptyFilteredSet) {
		s.mode = FilterAll
		out.FilterReset = true
		out.Patch = prefs.Patch{prefs.KeyShowOnlyLiked: false}
		next, _ = Advance(s.position, s.catalog.Count(), nil, FilterAll)
	}
	s.position = next
	return out
}

// ToggleFavorite flips the current quote. Both sets are written in one
// patch, together with the celebration date when the goal is first reached.
func (s *Session) ToggleFavorite(today string) Outcome {
	before := s.ledger.TodaySize()
	s.ledger.Toggle(s.position, today)
	after := s.ledger.TodaySize()

	out := Outcome{Patch: prefs.Patch{
		prefs.KeyLikedQuotes:    s.ledger.AllTime(),
		prefs.KeyTodayLikes:     s.ledger.Today(),
		prefs.KeyTodayLikesDate: s.ledger.TodayDate(),
	}}
	if s.tracker.Observe(before, after, today) {
		out.Celebrate = true
		out.Patch[prefs.KeyCelebrationShownDate] = today
	}
	if s.mode == FilterFavorites && s.ledger.Size() == 0 {
		s.mode = FilterAll
		out.FilterReset = true
		out.Patch[prefs.KeyShowOnlyLiked] = false
	}
	return out
}

// SetFilter switches the filter. Switching to favorites with none liked
// fails with ErrEmptyFilteredSet and leaves the session unchanged.
func (s *Session) SetFilter(mode FilterMode) (Outcome, error) {
	if mode == s.mode {
		return Outcome{}, nil
	}
	if mode == FilterFavorites {
		position, err := anchor(s.position, s.ledger.AllTime())
		if err != nil {
			return Outcome{}, err
		}
		s.position = position
	}
	s.mode = mode
	return Outcome{Patch: prefs.Patch{prefs.KeyShowOnlyLiked: mode == FilterFavorites}}, nil
}

func mergePatch(base, extra prefs.Patch) prefs.Patch {
	if base == nil {
		base = prefs.Patch{}
	}
	for key, value := range extra {
		base[key] = value
	}
	return base
}
