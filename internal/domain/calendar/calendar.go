// Package calendar decides whether a calendar date accepts bookings at all.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateFormat is returned when a date string does not parse as YYYY-MM-DD.
var ErrInvalidDateFormat = errors.New("calendar: invalid date format, want YYYY-MM-DD")

// DateLayout is the wire format for calendar dates across the core.
const DateLayout = "2006-01-02"

// BlockReason explains why a date is closed for booking.
type BlockReason string

const (
	BlockWeekend BlockReason = "weekend"
	BlockHoliday BlockReason = "holiday"
)

// Gate evaluates weekend and holiday blocking rules. The holiday set is fixed at
// construction; the gate itself holds no mutable state and is safe for concurrent use.
type Gate struct {
	holidays map[string]struct{}
}

// NewGate builds a gate from the configured holiday dates. Malformed entries are
// rejected so a typo in configuration cannot silently unblock a holiday.
func NewGate(holidays []string) (*Gate, error) {
	set := make(map[string]struct{}, len(holidays))
	for _, d := range holidays {
		if _, err := ParseDate(d); err != nil {
			return nil, fmt.Errorf("calendar: holiday %q: %w", d, err)
		}
		set[d] = struct{}{}
	}
	return &Gate{holidays: set}, nil
}

// ParseDate validates and parses a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date)
	}
	return t, nil
}

// Blocked reports whether the date is closed for booking and why. Weekends are
// checked before holidays; a Saturday holiday reports as a weekend.
func (g *Gate) Blocked(date string) (BlockReason, bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return "", false, err
	}
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return BlockWeekend, true, nil
	}
	if _, ok := g.holidays[date]; ok {
		return BlockHoliday, true, nil
	}
	return "", false, nil
}
