package model

import "time"

// ScheduleRule is a recurring operating window.
type ScheduleRule struct {
	ID        int64
	Court     CourtScope
	Day       Weekday
	OpenTime  ClockTime
	CloseTime ClockTime
	Active    bool
}

// TariffRule prices play per hour inside [StartTime, EndTime) of a day.
type TariffRule struct {
	ID                int64
	Court             CourtScope
	Day               DayScope
	StartTime         ClockTime
	EndTime           ClockTime
	PricePerHourCents int64
	Active            bool
}

// Closure blocks play on one court, or all courts, for an absolute interval.
type Closure struct {
	ID        int64
	Court     CourtScope
	StartTime time.Time
	EndTime   time.Time
	Reason    string
	CreatedAt time.Time
}
