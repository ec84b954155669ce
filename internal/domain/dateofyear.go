package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidDateOfYear is returned for strings that are not a valid MM-DD.
var ErrInvalidDateOfYear = errors.New("invalid date of year")

// dateOfYearRe accepts MM-DD with zero padding, e.g. "04-26".
var dateOfYearRe = regexp.MustCompile(`^(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// daysInMonth allows Feb 29 so leap days can be queried in any year.
var daysInMonth = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// DateOfYear is a calendar day without a year.
type DateOfYear struct {
	Month time.Month
	Day   int
}

// ParseDateOfYear parses "MM-DD".
func ParseDateOfYear(s string) (DateOfYear, error) {
	m := dateOfYearRe.FindStringSubmatch(s)
	if len(m) != 3 {
		return DateOfYear{}, fmt.Errorf("%w: %q", ErrInvalidDateOfYear, s)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if day > daysInMonth[month-1] {
		return DateOfYear{}, fmt.Errorf("%w: %q", ErrInvalidDateOfYear, s)
	}
	return DateOfYear{Month: time.Month(month), Day: day}, nil
}

// DateOfYearFrom drops the year from t.
func DateOfYearFrom(t time.Time) DateOfYear {
	return DateOfYear{Month: t.Month(), Day: t.Day()}
}

// CurrentDateOfYear returns today's MM-DD according to the package clock.
func CurrentDateOfYear() DateOfYear {
	return DateOfYearFrom(clock.Now())
}

// String formats as "MM-DD".
func (d DateOfYear) String() string {
	return fmt.Sprintf("%02d-%02d", int(d.Month), d.Day)
}

// DisplayName formats as "26 de Abril".
func (d DateOfYear) DisplayName() string {
	if d.Month < time.January || d.Month > time.December {
		return d.String()
	}
	return fmt.Sprintf("%d de %s", d.Day, monthNames[d.Month-1])
}

// DayOfYear returns the 1-based ordinal of the date in year. Feb 29 in a
// non-leap year rolls over to Mar 1.
func (d DateOfYear) DayOfYear(year int) int {
	return time.Date(year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).YearDay()
}
