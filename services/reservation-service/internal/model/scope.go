package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CourtScope says whether a rule applies to one court or to every court.
// Rules bound to a court outrank global ones.
type CourtScope struct {
	id       int64
	specific bool
}

func AnyCourt() CourtScope { return CourtScope{} }

func ForCourt(id int64) CourtScope { return CourtScope{id: id, specific: true} }

// CourtScopeFromPtr maps a nullable court id (nil = all courts) to a scope.
func CourtScopeFromPtr(id *int64) CourtScope {
	if id == nil {
		return AnyCourt()
	}
	return ForCourt(*id)
}

func (s CourtScope) Specific() bool { return s.specific }

func (s CourtScope) CourtID() (int64, bool) { return s.id, s.specific }

func (s CourtScope) Ptr() *int64 {
	if !s.specific {
		return nil
	}
	id := s.id
	return &id
}

func (s CourtScope) Matches(courtID int64) bool {
	return !s.specific || s.id == courtID
}

func (s CourtScope) String() string {
	if !s.specific {
		return "all courts"
	}
	return "court " + strconv.FormatInt(s.id, 10)
}

// Weekday is a day index where 0 is Monday and 6 is Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// DayScope says whether a rule applies to one weekday or to every day.
type DayScope struct {
	day      Weekday
	specific bool
}

func AnyDay() DayScope { return DayScope{} }

func OnDay(d Weekday) DayScope { return DayScope{day: d, specific: true} }

func DayScopeFromPtr(d *int) DayScope {
	if d == nil {
		return AnyDay()
	}
	return OnDay(Weekday(*d))
}

func (s DayScope) Specific() bool { return s.specific }

func (s DayScope) Day() (Weekday, bool) { return s.day, s.specific }

func (s DayScope) Ptr() *int {
	if !s.specific {
		return nil
	}
	d := int(s.day)
	return &d
}

func (s DayScope) Matches(d Weekday) bool {
	return !s.specific || s.day == d
}

// ClockTime is a wall clock time of day stored as the offset from midnight.
type ClockTime time.Duration

const maxClock = ClockTime(24 * time.Hour)

// ParseClock accepts "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func NewClock(hour, minute int) ClockTime {
	return ClockTime(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ClockOf returns the wall clock part of t.
func ClockOf(t time.Time) ClockTime {
	h, m, s := t.Clock()
	return ClockTime(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond()))
}

func (c ClockTime) Valid() bool { return c >= 0 && c < maxClock }

// On combines the calendar date of day with c, in day's location.
func (c ClockTime) On(day time.Time) time.Time {
	return DateOf(day).Add(time.Duration(c))
}

func (c ClockTime) Duration() time.Duration { return time.Duration(c) }

func (c ClockTime) String() string {
	d := time.Duration(c)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TimestampLayout is the zone-less wire format for instants.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"
