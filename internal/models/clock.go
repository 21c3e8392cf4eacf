package models

import "time"

// Clock decides what "today" is for completions and stats.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) noon() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	t := now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

func (c Clock) Today() string {
	return c.noon().Format(DateLayout)
}

// LastDays returns the n calendar days ending today, oldest first.
func (c Clock) LastDays(n int) []string {
	today := c.noon()
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i).Format(DateLayout))
	}
	return days
}
