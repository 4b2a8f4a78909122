package edtf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	maxLongYear = 999_999_999
	maxYear     = 9999
)

// currentYear is the reference for future-date rejection (injectable for tests)
var currentYear = func() int { return time.Now().Year() }

// InstantParts holds the already-known components of an instant
type InstantParts struct {
	Year          int           // Declared digits only (19 for 19XX)
	Precision     YearPrecision // Withheld rightmost digits
	Month         int           // 0 = unspecified
	Day           int           // 0 = unspecified
	Qualification Qualification
	LongYear      bool // Signed year beyond four digits, written with a Y prefix
}

// Instant is a single, possibly partial, calendar point
type Instant struct {
	year          int
	precision     YearPrecision
	month         int
	day           int
	qualification Qualification
	boundary      BoundaryType
	longYear      bool
}

// NewInstant validates parts and builds a declared instant.
// With flexible set, an invalid month/day pair is retried with the two swapped.
func NewInstant(p InstantParts, flexible bool) (Instant, error) {
	if err := checkYear(p); err != nil {
		return Instant{}, err
	}

	month, day := p.Month, p.Day
	if err := checkMonthDay(p.Year, p.Precision, month, day); err != nil {
		if !flexible || checkMonthDay(p.Year, p.Precision, day, month) != nil {
			return Instant{}, err
		}
		month, day = day, month
	}

	return Instant{
		year:          p.Year,
		precision:     p.Precision,
		month:         month,
		day:           day,
		qualification: p.Qualification,
		boundary:      Declared,
		longYear:      p.LongYear,
	}, nil
}

// OpenInstant returns an open-ended interval boundary
func OpenInstant() Instant {
	return Instant{boundary: Open}
}

// UnknownInstant returns an unknown interval boundary
func UnknownInstant() Instant {
	return Instant{boundary: Unknown}
}

func checkYear(p InstantParts) error {
	abs := p.Year
	if abs < 0 {
		abs = -abs
	}

	if p.LongYear {
		if p.Precision != Exact || p.Month != 0 || p.Day != 0 {
			return errors.Wrap(ErrYearOutOfRange, "long years carry no month, day or precision")
		}
		if abs <= maxYear || abs > maxLongYear {
			return errors.Wrapf(ErrYearOutOfRange, "long year %d", p.Year)
		}
	} else {
		limit := maxYear / p.Precision.Duration()
		if abs > limit {
			return errors.Wrapf(ErrYearOutOfRange, "year %d with %s precision", p.Year, p.Precision)
		}
	}

	if first, _ := yearSpan(p.Year, p.Precision); first > currentYear() {
		return errors.Wrapf(ErrFutureDate, "year %d", first)
	}
	return nil
}

func checkMonthDay(year int, precision YearPrecision, month, day int) error {
	if month < 0 || month > 12 {
		return errors.Wrapf(ErrInvalidMonth, "month %d", month)
	}
	if day < 0 || day > 31 {
		return errors.Wrapf(ErrInvalidDay, "day %d", day)
	}
	if day > 0 {
		if month == 0 {
			return errors.Wrapf(ErrInvalidDay, "day %d without month", day)
		}
		if day > daysIn(year, precision, month) {
			return errors.Wrapf(ErrInvalidDay, "day %d for month %d", day, month)
		}
	}
	return nil
}

// daysIn returns the month length; February allows 29 days when the year is not exact
func daysIn(year int, precision YearPrecision, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if precision != Exact || isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// yearSpan returns the first and last real year a declared prefix covers
func yearSpan(year int, precision YearPrecision) (int, int) {
	d := precision.Duration()
	if year < 0 {
		return year*d - (d - 1), year * d
	}
	return year * d, year*d + d - 1
}

// Year returns the declared year digits
func (i Instant) Year() int { return i.year }

// Precision returns the year precision
func (i Instant) Precision() YearPrecision { return i.precision }

// Month returns the month (0 when unspecified)
func (i Instant) Month() int { return i.month }

// Day returns the day (0 when unspecified)
func (i Instant) Day() int { return i.day }

// Qualification returns the instant qualification
func (i Instant) Qualification() Qualification { return i.qualification }

// Boundary returns whether the instant is declared, open or unknown
func (i Instant) Boundary() BoundaryType { return i.boundary }

// IsLongYear reports whether the year is written with the Y prefix
func (i Instant) IsLongYear() bool { return i.longYear }

// IsDeclared reports whether the instant carries a date
func (i Instant) IsDeclared() bool { return i.boundary == Declared }

// HasDayPrecision reports whether the instant is a declared, fully specified day
func (i Instant) HasDayPrecision() bool {
	return i.IsDeclared() && i.precision == Exact && i.day > 0
}

// WithQualification returns a copy carrying q. Open and unknown boundaries are returned unchanged.
func (i Instant) WithQualification(q Qualification) Instant {
	if !i.IsDeclared() {
		return i
	}
	i.qualification = q
	return i
}

// String returns the EDTF level 1 notation
func (i Instant) String() string {
	if !i.IsDeclared() {
		return ".."
	}

	var b strings.Builder
	b.WriteString(i.yearString())
	if i.month > 0 {
		fmt.Fprintf(&b, "-%02d", i.month)
		if i.day > 0 {
			fmt.Fprintf(&b, "-%02d", i.day)
		}
	}
	b.WriteString(i.qualification.Suffix())
	return b.String()
}

func (i Instant) yearString() string {
	if i.longYear {
		return "Y" + strconv.Itoa(i.year)
	}

	sign := ""
	abs := i.year
	if abs < 0 {
		sign = "-"
		abs = -abs
	}

	switch i.precision {
	case Decade:
		return fmt.Sprintf("%s%03dX", sign, abs)
	case Century:
		return fmt.Sprintf("%s%02dXX", sign, abs)
	default:
		return fmt.Sprintf("%s%04d", sign, abs)
	}
}

// FirstDay returns the earliest exact day the instant covers. Long years keep only the year.
func (i Instant) FirstDay() Instant {
	if !i.IsDeclared() {
		return i
	}
	if i.longYear {
		return Instant{year: i.year, longYear: true}
	}

	first, _ := yearSpan(i.year, i.precision)
	month, day := i.month, i.day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return Instant{year: first, month: month, day: day}
}

// LastDay returns the latest exact day the instant covers. Long years keep only the year.
func (i Instant) LastDay() Instant {
	if !i.IsDeclared() {
		return i
	}
	if i.longYear {
		return Instant{year: i.year, longYear: true}
	}

	_, last := yearSpan(i.year, i.precision)
	month, day := i.month, i.day
	if month == 0 {
		month = 12
	}
	if day == 0 {
		day = daysIn(last, Exact, month)
	}
	return Instant{year: last, month: month, day: day}
}

// Century returns the 1-based century index (negative for years before year 1)
func (i Instant) Century() int {
	switch i.precision {
	case Decade:
		if i.year < 0 {
			return i.year/10 - 1
		}
		return i.year/10 + 1
	case Century:
		if i.year < 0 {
			return i.year - 1
		}
		return i.year + 1
	}

	if i.year > 0 {
		return (i.year + 99) / 100
	}
	return i.year/100 - 1
}

// Centuries implements Date
func (i Instant) Centuries() (int, int, bool) {
	if !i.IsDeclared() {
		return 0, 0, false
	}
	c := i.Century()
	return c, c, true
}

// after reports whether i is chronologically later than o, comparing year, month and day
func (i Instant) after(o Instant) bool {
	if i.year != o.year {
		return i.year > o.year
	}
	if i.month != o.month {
		return i.month > o.month
	}
	return i.day > o.day
}

func (Instant) isDate() {}
