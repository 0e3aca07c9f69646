package deck

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/quotes"
)

const (
	InactivityTimeout = 30 * time.Minute
	SweeperInterval   = 5 * time.Minute
)

var ErrStaleGesture = errors.New("gesture does not match the active card")

// OffsetSource resolves a user's UTC offset in hours.
type OffsetSource interface {
	OffsetHours(ctx context.Context, userID int64) (int, error)
}

type flusher interface {
	Flush(ctx context.Context) error
}

// View is what the presentation layer renders for a card.
type View struct {
	Quote       quotes.Quote
	Position    int
	Favorited   bool
	Filter      FilterMode
	Token       string
	TodayLikes  int
	GoalReached bool
	Favorites   int
	Celebrate   bool
	FilterReset bool
}

// DisplayLikes is today's like count capped at the goal.
func (v View) DisplayLikes() int {
	return DisplayCount(v.TodayLikes)
}

type entry struct {
	mu             sync.Mutex
	session        *Session
	token          string
	lastActivityAt time.Time
	evicted        bool
}

type Options struct {
	Catalog *quotes.Catalog
	Reader  prefs.Reader
	// Writer receives every patch; a prefs.Writer makes the writes async.
	Writer        prefs.Merger
	Offsets       OffsetSource
	DefaultOffset int
	Now           func() time.Time
	NewToken      func() string
}

// Manager owns the live sessions. Operations on one user run one at a
// time and each reconciles the day first.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*entry

	catalog       *quotes.Catalog
	reader        prefs.Reader
	writer        prefs.Merger
	offsets       OffsetSource
	defaultOffset int
	now           func() time.Time
	newToken      func() string
}

func NewManager(opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewToken == nil {
		opts.NewToken = uuid.NewString
	}
	return &Manager{
		sessions:      make(map[int64]*entry),
		catalog:       opts.Catalog,
		reader:        opts.Reader,
		writer:        opts.Writer,
		offsets:       opts.Offsets,
		defaultOffset: opts.DefaultOffset,
		now:           opts.Now,
		newToken:      opts.NewToken,
	}
}

// Open shows the current card on a fresh message; older cards go stale.
func (m *Manager) Open(ctx context.Context, userID int64) (View, error) {
	return m.withSession(ctx, userID, "", func(e *entry, _ string) (Outcome, bool, error) {
		return Outcome{}, true, nil
	})
}

// Current renders the card without issuing a new token.
func (m *Manager) Current(ctx context.Context, userID int64) (View, error) {
	return m.withSession(ctx, userID, "", func(e *entry, _ string) (Outcome, bool, error) {
		return Outcome{}, false, nil
	})
}

func (m *Manager) Advance(ctx context.Context, userID int64, token string) (View, error) {
	return m.withSession(ctx, userID, token, func(e *entry, _ string) (Outcome, bool, error) {
		return e.session.Advance(), true, nil
	})
}

func (m *Manager) ToggleFavorite(ctx context.Context, userID int64, token string) (View, error) {
	return m.withSession(ctx, userID, token, func(e *entry, today string) (Outcome, bool, error) {
		return e.session.ToggleFavorite(today), true, nil
	})
}

// SetFilter returns ErrEmptyFilteredSet alongside the unchanged view when
// there are no favorites to filter on.
func (m *Manager) SetFilter(ctx context.Context, userID int64, token string, mode FilterMode) (View, error) {
	return m.withSession(ctx, userID, token, func(e *entry, _ string) (Outcome, bool, error) {
		out, err := e.session.SetFilter(mode)
		if errors.Is(err, ErrEmptyFilteredSet) {
			return Outcome{}, false, err
		}
		return out, true, err
	})
}

// Share returns the share text of the card the token belongs to.
func (m *Manager) Share(ctx context.Context, userID int64, token string) (string, error) {
	view, err := m.withSession(ctx, userID, token, func(e *entry, _ string) (Outcome, bool, error) {
		return Outcome{}, false, nil
	})
	if err != nil {
		return "", err
	}
	return view.Quote.ShareText(), nil
}

type mutation func(e *entry, today string) (out Outcome, rotate bool, err error)

func (m *Manager) withSession(ctx context.Context, userID int64, token string, fn mutation) (View, error) {
	e, err := m.acquire(ctx, userID)
	if err != nil {
		return View{}, err
	}
	defer e.mu.Unlock()

	now := m.now()
	today := LocalDate(now, m.offsetHours(ctx, userID))
	m.persist(ctx, userID, e.session.Resume(today))
	e.lastActivityAt = now

	if token != "" && token != e.token {
		return m.view(e, Outcome{}), ErrStaleGesture
	}

	out, rotate, err := fn(e, today)
	m.persist(ctx, userID, out.Patch)
	if rotate || e.token == "" {
		e.token = m.newToken()
	}
	return m.view(e, out), err
}

// acquire returns the user's entry locked and loaded.
func (m *Manager) acquire(ctx context.Context, userID int64) (*entry, error) {
	for {
		m.mu.Lock()
		e, ok := m.sessions[userID]
		if !ok {
			e = &entry{}
			m.sessions[userID] = e
		}
		m.mu.Unlock()

		e.mu.Lock()
		if e.evicted {
			e.mu.Unlock()
			continue
		}
		if e.session != nil {
			return e, nil
		}
		if err := m.load(ctx, userID, e); err != nil {
			m.mu.Lock()
			if m.sessions[userID] == e {
				delete(m.sessions, userID)
			}
			m.mu.Unlock()
			e.evicted = true
			e.mu.Unlock()
			return nil, err
		}
		return e, nil
	}
}

func (m *Manager) load(ctx context.Context, userID int64, e *entry) error {
	if f, ok := m.writer.(flusher); ok {
		if err := f.Flush(ctx); err != nil {
			logger.Warn("failed to flush pending preference writes", "user_id", userID, "error", err)
		}
	}
	record, err := m.reader.Read(ctx, userID)
	if err != nil {
		logger.Error("failed to read preference record", "user_id", userID, "error", err)
		return err
	}
	today := LocalDate(m.now(), m.offsetHours(ctx, userID))
	session, patch := NewSession(m.catalog, record, today)
	m.persist(ctx, userID, patch)
	e.session = session
	logger.Debug("deck session loaded", "user_id", userID, "favorites", session.Ledger().Size())
	return nil
}

func (m *Manager) offsetHours(ctx context.Context, userID int64) int {
	if m.offsets == nil {
		return m.defaultOffset
	}
	offset, err := m.offsets.OffsetHours(ctx, userID)
	if err != nil {
		logger.Warn("failed to load timezone offset, using default", "user_id", userID, "error", err)
		return m.defaultOffset
	}
	return offset
}

func (m *Manager) persist(ctx context.Context, userID int64, patch prefs.Patch) {
	if len(patch) == 0 || m.writer == nil {
		return
	}
	if err := m.writer.Merge(ctx, userID, patch); err != nil {
		logger.Error("failed to submit preference write", "user_id", userID, "keys", patch.Keys(), "error", err)
	}
}

func (m *Manager) view(e *entry, out Outcome) View {
	s := e.session
	quote := s.Quote()
	todayLikes := s.Ledger().TodaySize()
	return View{
		Quote:       quote,
		Position:    s.Position(),
		Favorited:   s.Ledger().IsFavorited(s.Position()),
		Filter:      s.Mode(),
		Token:       e.token,
		TodayLikes:  todayLikes,
		GoalReached: todayLikes >= Goal,
		Favorites:   s.Ledger().Size(),
		Celebrate:   out.Celebrate,
		FilterReset: out.FilterReset,
	}
}

// Favorites returns the user's favorite quotes in catalog order.
func (m *Manager) Favorites(ctx context.Context, userID int64) ([]quotes.Quote, error) {
	e, err := m.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	positions := e.session.Ledger().AllTime()
	items := make([]quotes.Quote, 0, len(positions))
	for _, position := range positions {
		quote, err := m.catalog.At(position)
		if err != nil {
			continue
		}
		items = append(items, quote)
	}
	return items, nil
}

// StartSweeper evicts idle sessions until ctx is canceled.
func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(SweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := m.SweepInactive(); evicted > 0 {
				logger.Debug("evicted idle deck sessions", "count", evicted)
			}
		}
	}
}

// SweepInactive drops sessions idle for longer than InactivityTimeout.
// Busy sessions are skipped; evicted ones reload from the store on next use.
func (m *Manager) SweepInactive() int {
	cutoff := m.now().Add(-InactivityTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for userID, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.session != nil && e.lastActivityAt.Before(cutoff) {
			e.evicted = true
			delete(m.sessions, userID)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
