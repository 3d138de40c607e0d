// Package core provides business domain types.
//
// This file implements the Strategy Pattern for recurring expense schedules.
// Each frequency has its own strategy for finding the next occurrence.

package core

import (
	"fmt"
	"time"
)

// Schedule is the strategy interface for stepping through the occurrences of
// a recurring expense that began on start.
type Schedule interface {
	// Next returns the first occurrence on or after from.
	Next(start, from Date) Date
}

// DayInterval repeats every fixed number of days.
type DayInterval int

func (d DayInterval) Next(start, from Date) Date {
	if !start.Before(from.Time) {
		return start
	}
	days := int(from.Sub(start.Time).Hours()) / 24
	n := (days + int(d) - 1) / int(d)
	return Date{Time: start.AddDate(0, 0, n*int(d))}
}

// MonthInterval repeats every fixed number of months on the start's day of
// month, clamped to the last day of shorter months. Occurrences are counted
// from the start so a clamped month does not shift later ones.
type MonthInterval int

func (m MonthInterval) Next(start, from Date) Date {
	if !start.Before(from.Time) {
		return start
	}
	months := (from.Year()-start.Year())*12 + int(from.Month()) - int(start.Month())
	n := months / int(m)
	for {
		d := m.occurrence(start, n)
		if !d.Before(from.Time) {
			return d
		}
		n++
	}
}

func (m MonthInterval) occurrence(start Date, n int) Date {
	months := int(start.Month()) - 1 + int(m)*n
	year := start.Year() + months/12
	month := time.Month(months%12 + 1)

	day := start.Day()
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return NewDate(year, int(month), day)
}

var schedules = map[Frequency]Schedule{
	Weekly:       DayInterval(7),
	BiWeekly:     DayInterval(14),
	Monthly:      MonthInterval(1),
	Quarterly:    MonthInterval(3),
	SemiAnnually: MonthInterval(6),
	Annually:     MonthInterval(12),
}

// ScheduleFor returns the schedule for a frequency.
func ScheduleFor(f Frequency) (Schedule, error) {
	s, ok := schedules[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrequency, f)
	}
	return s, nil
}

// NextDue returns the first occurrence of re on or after from. Only active
// recurring expenses with a known frequency and a start date are due.
func NextDue(re RecurringExpense, from Date) (Date, bool) {
	if re.Status != StatusActive || re.StartDate.IsZero() {
		return Date{}, false
	}
	s, err := ScheduleFor(re.Frequency)
	if err != nil {
		return Date{}, false
	}
	return s.Next(re.StartDate, from), true
}

// Toggled flips an active recurring expense to paused and anything else to active.
func (s RecurringStatus) Toggled() RecurringStatus {
	if s == StatusActive {
		return StatusPaused
	}
	return StatusActive
}
