package deck

// Goal is the number of likes per day that earns the celebration.
const Goal = 5

type TrackerState int

const (
	BelowGoal TrackerState = iota
	CelebratedToday
)

// Tracker fires the celebration once per calendar day.
type Tracker struct {
	shownDate string
}

func NewTracker(shownDate string) *Tracker {
	return &Tracker{shownDate: shownDate}
}

func (t *Tracker) State(today string) TrackerState {
	if t.shownDate == today {
		return CelebratedToday
	}
	return BelowGoal
}

// Observe reports whether a change of today's like count from before to
// after is the first crossing of the goal on today.
func (t *Tracker) Observe(before, after int, today string) bool {
	if t.State(today) == CelebratedToday {
		return false
	}
	if before >= Goal || after < Goal {
		return false
	}
	t.shownDate = today
	return true
}

func (t *Tracker) ShownDate() string {
	return t.shownDate
}

func (t *Tracker) Reset() {
	t.shownDate = ""
}

// DisplayCount caps today's like count at the goal.
func DisplayCount(todaySize int) int {
	if todaySize > Goal {
		return Goal
	}
	if todaySize < 0 {
		return 0
	}
	return todaySize
}

// Progress is the share of the daily goal reached, in [0, 1].
func Progress(todaySize int) float64 {
	return float64(DisplayCount(todaySize)) / float64(Goal)
}
