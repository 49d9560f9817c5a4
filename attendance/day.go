package attendance

import "time"

// =============================================================================
// DAY - ISO calendar day, the key type for every store section
// =============================================================================

// Day is a calendar day in ISO format ("2006-01-02").
// Because the format is zero-padded, lexicographic comparison of the raw
// strings orders days correctly, which is exactly how the stores use it.
type Day string

const dayLayout = "2006-01-02"

func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dayLayout))
}

func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// ParseDay validates and normalizes an ISO date string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", &InvalidDayError{Input: s}
	}
	return DayOf(t), nil
}

func Today() Day {
	return DayOf(time.Now().UTC())
}

// Comparison. Valid by construction: zero-padded ISO strings sort temporally.
func (d Day) Before(other Day) bool        { return d < other }
func (d Day) After(other Day) bool         { return d > other }
func (d Day) BeforeOrEqual(other Day) bool { return d <= other }
func (d Day) AfterOrEqual(other Day) bool  { return d >= other }

func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) IsZero() bool { return d == "" }

func (d Day) String() string { return string(d) }

// =============================================================================
// DAY RANGE - Inclusive [From, To] span of days
// =============================================================================

// DayRange is an inclusive span of calendar days. Used for vacation records
// and for template/report windows.
type DayRange struct {
	From Day `json:"from"`
	To   Day `json:"to"`
}

func NewDayRange(from, to Day) DayRange {
	return DayRange{From: from, To: to}
}

func (r DayRange) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.From.BeforeOrEqual(r.To)
}

// Contains reports whether d falls within [From, To].
func (r DayRange) Contains(d Day) bool {
	return r.From.BeforeOrEqual(d) && d.BeforeOrEqual(r.To)
}

// Days returns every day in the range in order.
func (r DayRange) Days() []Day {
	if !r.Valid() {
		return nil
	}
	var days []Day
	for d := r.From; d.BeforeOrEqual(r.To); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Weekdays returns only the Monday-Friday days in the range.
// Templates never touch Saturday/Sunday; those are governed by shift flags.
func (r DayRange) Weekdays() []Day {
	var days []Day
	for _, d := range r.Days() {
		if !d.IsWeekend() {
			days = append(days, d)
		}
	}
	return days
}

func (r DayRange) String() string {
	return "[" + r.From.String() + ", " + r.To.String() + "]"
}
