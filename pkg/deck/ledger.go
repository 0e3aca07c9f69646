package deck

// Ledger holds the all-time favorites and the likes of one calendar day.
type Ledger struct {
	allTime   map[int]struct{}
	today     map[int]struct{}
	todayDate string
}

func NewLedger(allTime, today []int, todayDate string) *Ledger {
	return &Ledger{
		allTime:   toSet(allTime),
		today:     toSet(today),
		todayDate: todayDate,
	}
}

// Toggle flips position in the all-time set and mirrors the result into
// today's likes, stamping today as the day they belong to.
func (l *Ledger) Toggle(position int, today string) {
	if l.todayDate != today {
		l.today = make(map[int]struct{})
		l.todayDate = today
	}
	if _, ok := l.allTime[position]; ok {
		delete(l.allTime, position)
		delete(l.today, position)
		return
	}
	l.allTime[position] = struct{}{}
	l.today[position] = struct{}{}
}

func (l *Ledger) IsFavorited(position int) bool {
	_, ok := l.allTime[position]
	return ok
}

func (l *Ledger) Size() int {
	return len(l.allTime)
}

func (l *Ledger) TodaySize() int {
	return len(l.today)
}

func (l *Ledger) TodayDate() string {
	return l.todayDate
}

// AllTime returns the favorites in ascending order.
func (l *Ledger) AllTime() []int {
	return setToSorted(l.allTime)
}

func (l *Ledger) Today() []int {
	return setToSorted(l.today)
}

// ResetDay empties today's likes and moves them to a new day.
func (l *Ledger) ResetDay(today string) {
	l.today = make(map[int]struct{})
	l.todayDate = today
}

func toSet(positions []int) map[int]struct{} {
	set := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		set[p] = struct{}{}
	}
	return set
}

func setToSorted(set map[int]struct{}) []int {
	positions := make([]int, 0, len(set))
	for p := range set {
		positions = append(positions, p)
	}
	return sortedPositions(positions)
}
