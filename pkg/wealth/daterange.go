package wealth

import (
	"fmt"
	"sync"
	"time"
)

// Scope is the granularity of a reporting window
type Scope string

const (
	ScopeMonth   Scope = "month"
	ScopeQuarter Scope = "quarter"
	ScopeYear    Scope = "year"
	ScopeCustom  Scope = "custom"
)

// Valid reports whether s is a known scope
func (s Scope) Valid() bool {
	switch s {
	case ScopeMonth, ScopeQuarter, ScopeYear, ScopeCustom:
		return true
	}
	return false
}

// ParseScope converts user input into a Scope
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	if !scope.Valid() {
		return "", &ValidationError{Field: "scope", Message: "must be month, quarter, year or custom", Value: s}
	}
	return scope, nil
}

// Direction is a navigation step over the reporting window
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection converts "prev"/"next" into a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "prev":
		return Prev, nil
	case "next":
		return Next, nil
	}
	return 0, &ValidationError{Field: "direction", Message: "must be prev or next", Value: s}
}

// DateRange is an inclusive reporting window of calendar days.
// For non-custom scopes Start and End are derived from Scope and Anchor.
type DateRange struct {
	Scope  Scope     `json:"scope"`
	Anchor time.Time `json:"anchorDate"`
	Start  time.Time `json:"startDate"`
	End    time.Time `json:"endDate"`
}

// RangeFor derives the calendar window of scope containing anchor
func RangeFor(scope Scope, anchor time.Time) (DateRange, error) {
	anchor = Day(anchor)
	r := DateRange{Scope: scope, Anchor: anchor}

	switch scope {
	case ScopeMonth:
		r.Start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.End = r.Start.AddDate(0, 1, -1)
	case ScopeQuarter:
		startMonth := time.Month(((int(anchor.Month())-1)/3)*3 + 1)
		r.Start = time.Date(anchor.Year(), startMonth, 1, 0, 0, 0, 0, time.UTC)
		r.End = r.Start.AddDate(0, 3, -1)
	case ScopeYear:
		r.Start = time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		r.End = time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	case ScopeCustom:
		r.Start, r.End = anchor, anchor
	default:
		return DateRange{}, &ValidationError{Field: "scope", Message: "unknown scope", Value: string(scope)}
	}

	return r, nil
}

// CustomRange builds an explicit window, swapping the bounds if reversed
func CustomRange(start, end time.Time) DateRange {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		start, end = end, start
	}
	return DateRange{Scope: ScopeCustom, Anchor: start, Start: start, End: end}
}

// Days returns the inclusive number of days in the range
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Previous returns the equal-length window ending the day before Start
func (r DateRange) Previous() DateRange {
	days := r.Days()
	if days == 0 {
		days = 1
	}
	end := r.Start.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(days - 1))
	return DateRange{Scope: ScopeCustom, Anchor: start, Start: start, End: end}
}

// Contains reports whether t falls on a day inside the range
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Key identifies the (start, end) pair
func (r DateRange) Key() string {
	return rangeKey(r.Start, r.End)
}

// Label renders the window for humans, e.g. "March 2024" or "Q1 2024"
func (r DateRange) Label() string {
	switch r.Scope {
	case ScopeMonth:
		return r.Start.Format("January 2006")
	case ScopeQuarter:
		return fmt.Sprintf("Q%d %d", (int(r.Start.Month())-1)/3+1, r.Start.Year())
	case ScopeYear:
		return fmt.Sprintf("%d", r.Start.Year())
	}
	return fmt.Sprintf("%s to %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

func rangeKey(start, end time.Time) string {
	return start.Format(DateLayout) + ".." + end.Format(DateLayout)
}

// addMonthsClamped shifts t by n months, clamping the day to the length of the
// target month so Jan 31 + 1 month lands on the last day of February
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DateRangeState holds the session's active reporting window. It is the only
// writer of the window; consumers observe changes through Subscribe.
type DateRangeState struct {
	// writeMu serializes updates together with their notifications so
	// observers see changes in the order they were made
	writeMu   sync.Mutex
	mu        sync.RWMutex
	current   DateRange
	observers []observer
	nextID    int
}

type observer struct {
	id int
	fn func(DateRange)
}

// NewDateRangeState creates the window of scope around anchor
func NewDateRangeState(scope Scope, anchor time.Time) (*DateRangeState, error) {
	r, err := RangeFor(scope, anchor)
	if err != nil {
		return nil, err
	}
	return &DateRangeState{current: r}, nil
}

// Current returns a snapshot of the active window
func (s *DateRangeState) Current() DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to be called after every window change and returns
// a function that removes it. Observers run on the writer's goroutine and
// must not call the setters.
func (s *DateRangeState) Subscribe(fn func(DateRange)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// SetScope switches granularity and recomputes the window from the anchor.
// Switching to custom keeps the current window.
func (s *DateRangeState) SetScope(scope Scope) error {
	if !scope.Valid() {
		return &ValidationError{Field: "scope", Message: "unknown scope", Value: string(scope)}
	}

	return s.update(func(cur DateRange) (DateRange, error) {
		if scope == ScopeCustom {
			cur.Scope = ScopeCustom
			return cur, nil
		}
		return RangeFor(scope, cur.Anchor)
	})
}

// Navigate shifts the anchor by one unit of the current scope
func (s *DateRangeState) Navigate(dir Direction) error {
	if dir != Prev && dir != Next {
		return &ValidationError{Field: "direction", Message: "must be Prev or Next", Value: int(dir)}
	}

	step := int(dir)
	return s.update(func(cur DateRange) (DateRange, error) {
		switch cur.Scope {
		case ScopeMonth:
			return RangeFor(cur.Scope, addMonthsClamped(cur.Anchor, step))
		case ScopeQuarter:
			return RangeFor(cur.Scope, addMonthsClamped(cur.Anchor, 3*step))
		case ScopeYear:
			return RangeFor(cur.Scope, addMonthsClamped(cur.Anchor, 12*step))
		default:
			days := cur.Days() * step
			return CustomRange(cur.Start.AddDate(0, 0, days), cur.End.AddDate(0, 0, days)), nil
		}
	})
}

// SetDate moves the anchor to date. A custom window keeps its length and
// starts on date.
func (s *DateRangeState) SetDate(date time.Time) error {
	date = Day(date)
	return s.update(func(cur DateRange) (DateRange, error) {
		if cur.Scope == ScopeCustom {
			return CustomRange(date, date.AddDate(0, 0, cur.Days()-1)), nil
		}
		return RangeFor(cur.Scope, date)
	})
}

// SetRange assigns an explicit custom window
func (s *DateRangeState) SetRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return &ValidationError{Field: "range", Message: "start and end are required", Err: ErrInvalidRange}
	}
	return s.update(func(DateRange) (DateRange, error) {
		return CustomRange(start, end), nil
	})
}

// Reset returns to the calendar month containing now
func (s *DateRangeState) Reset(now time.Time) error {
	return s.update(func(DateRange) (DateRange, error) {
		return RangeFor(ScopeMonth, now)
	})
}

// update applies fn under the lock and notifies observers when the window
// bounds changed
func (s *DateRangeState) update(fn func(DateRange) (DateRange, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.current
	next, err := fn(prev)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next

	changed := !prev.Start.Equal(next.Start) || !prev.End.Equal(next.End)
	var observers []observer
	if changed {
		observers = make([]observer, len(s.observers))
		copy(observers, s.observers)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(next)
	}
	return nil
}
