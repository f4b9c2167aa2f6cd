// Package timeslot provides minute-of-day arithmetic for the HH:MM wall-clock
// strings used throughout the scheduling core.
package timeslot

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidTimeFormat is returned whenever a wall-clock string does not match HH:MM.
var ErrInvalidTimeFormat = errors.New("timeslot: invalid time format, want HH:MM")

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Valid reports whether s matches the strict HH:MM pattern with in-range fields.
func Valid(s string) bool {
	if !clockPattern.MatchString(s) {
		return false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h < 24 && m < 60
}

// ToMinutes parses an HH:MM string into minutes since midnight.
func ToMinutes(s string) (int, error) {
	if !Valid(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}

// FromMinutes renders minutes since midnight as a zero-padded HH:MM string.
// The value wraps modulo one day, so negative deltas land on the previous day's clock.
func FromMinutes(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes shifts an HH:MM string by delta minutes, wrapping at midnight.
func AddMinutes(s string, delta int) (string, error) {
	base, err := ToMinutes(s)
	if err != nil {
		return "", err
	}
	return FromMinutes(base + delta), nil
}

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) share at least one minute. Touching intervals do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// Contains reports whether instant falls inside the half-open interval [start, end).
func Contains(start, end, instant int) bool {
	return instant >= start && instant < end
}
