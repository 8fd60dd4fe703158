package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var (
	// ErrInvalidTimeString is returned when a value does not look like HH:MM
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the current day
	ErrTimeOverflow = errors.New("time string overflows the day")

	timeStringRegexp = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
)

// TimeString is a time of day in 24-hour HH:MM form.
// The zero value ("") means "not set".
type TimeString string

// NewTimeString builds a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString parses "H:MM" or "HH:MM" and normalizes it to "HH:MM".
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	if !timeStringRegexp.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	parts := strings.SplitN(s, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	return fromMinutes(hours*60 + minutes), nil
}

// IsZero reports whether the value is unset.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the HH:MM format.
func (t TimeString) Validate() error {
	if !timeStringRegexp.MatchString(string(t)) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// String returns the HH:MM representation.
func (t TimeString) String() string {
	return string(t)
}

// Minutes returns minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	parts := strings.SplitN(string(t), ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes, nil
}

// AddMinutes returns t shifted by n minutes. Crossing midnight is an error.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}

	result := current + n
	if result < 0 || result >= minutesPerDay {
		return "", fmt.Errorf("%w: %s %+d min", ErrTimeOverflow, t, n)
	}

	return fromMinutes(result), nil
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.compare(other) < 0
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.compare(other) > 0
}

// Equal reports whether both values denote the same minute.
func (t TimeString) Equal(other TimeString) bool {
	return t.compare(other) == 0
}

// compare relies on the normalized zero-padded form: lexical order is chronological.
func (t TimeString) compare(other TimeString) int {
	return strings.Compare(string(t.normalized()), string(other.normalized()))
}

func (t TimeString) normalized() TimeString {
	if n, err := NewTimeStringFromString(string(t)); err == nil {
		return n
	}
	return t
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t.normalized()), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive either as text
// ("09:30:00") or, with lib/pq, as time.Time on 0000-01-01.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanText(string(v))
	case string:
		return t.scanText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanText(s string) error {
	// отбрасываем секунды и дробную часть: "09:30:00.000000"
	if strings.Count(s, ":") == 2 {
		s = s[:strings.LastIndex(s, ":")]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func fromMinutes(total int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}
