package edtf

import "github.com/cockroachdb/errors"

// Date is either an Instant or an Interval
type Date interface {
	String() string
	Qualification() Qualification
	FirstDay() Instant
	LastDay() Instant
	Centuries() (from, to int, ok bool)
	HasDayPrecision() bool
	isDate()
}

// Interval is an ordered pair of instants with an optional display label
type Interval struct {
	start         Instant
	end           Instant
	label         string
	qualification Qualification
}

// NewInterval validates the pair. Both boundaries may not be open or unknown at once.
// With flexible set, a start later than the end is swapped instead of rejected.
func NewInterval(start, end Instant, flexible bool) (Interval, error) {
	if !start.IsDeclared() && !end.IsDeclared() {
		return Interval{}, ErrNoBoundary
	}

	if start.IsDeclared() && end.IsDeclared() && start.FirstDay().after(end.LastDay()) {
		if !flexible {
			return Interval{}, errors.Wrapf(ErrStartAfterEnd, "%s/%s", start, end)
		}
		start, end = end, start
	}

	return Interval{start: start, end: end}, nil
}

// Start returns the start boundary
func (iv Interval) Start() Instant { return iv.start }

// End returns the end boundary
func (iv Interval) End() Instant { return iv.end }

// Label returns the preserved display label, if any
func (iv Interval) Label() string { return iv.label }

// Qualification returns the interval's own qualification
func (iv Interval) Qualification() Qualification { return iv.qualification }

// WithLabel returns a copy carrying label
func (iv Interval) WithLabel(label string) Interval {
	iv.label = label
	return iv
}

// WithQualification returns a copy with q applied to the interval and both declared boundaries
func (iv Interval) WithQualification(q Qualification) Interval {
	iv.qualification = q
	iv.start = iv.start.WithQualification(q)
	iv.end = iv.end.WithQualification(q)
	return iv
}

// String returns the EDTF level 1 notation
func (iv Interval) String() string {
	return iv.start.String() + "/" + iv.end.String()
}

// FirstDay returns the first day of the start boundary
func (iv Interval) FirstDay() Instant { return iv.start.FirstDay() }

// LastDay returns the last day of the end boundary
func (iv Interval) LastDay() Instant { return iv.end.LastDay() }

// HasDayPrecision reports whether every declared boundary is a full day
func (iv Interval) HasDayPrecision() bool {
	for _, b := range []Instant{iv.start, iv.end} {
		if b.IsDeclared() && !b.HasDayPrecision() {
			return false
		}
	}
	return true
}

// Centuries returns the century indices of the boundaries. A missing side takes the other side's value.
func (iv Interval) Centuries() (int, int, bool) {
	from, _, okStart := iv.start.Centuries()
	to, _, okEnd := iv.end.Centuries()
	switch {
	case !okStart && !okEnd:
		return 0, 0, false
	case !okStart:
		from = to
	case !okEnd:
		to = from
	}
	return from, to, true
}

func (Interval) isDate() {}

// Requalify applies q to any date kind
func Requalify(d Date, q Qualification) Date {
	switch v := d.(type) {
	case Instant:
		return v.WithQualification(q)
	case Interval:
		return v.WithQualification(q)
	default:
		return d
	}
}
