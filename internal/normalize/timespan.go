package normalize

import (
	"net/url"
	"strconv"

	"github.com/ppiankov/datenorm/internal/edtf"
	"github.com/ppiankov/datenorm/internal/extract"
	"github.com/ppiankov/datenorm/internal/model"
)

const (
	centuryURIPrefix = "http://data.europeana.eu/timespan/"
	edtfDatatype     = "http://id.loc.gov/datatypes/edtf/EDTF-level1"
	noLanguage       = "zxx"
)

// Describe converts a result into its report form
func Describe(res extract.Result, withTimeSpan bool) model.NormalizedDate {
	out := model.NormalizedDate{
		Status: string(res.Status),
		Input:  res.Input,
	}
	if !res.Matched() {
		return out
	}

	out.MatchID = string(res.MatchID)
	out.EDTF = res.Date.String()
	out.Label = label(res.Date)
	out.Sanitize = string(res.Operation)
	out.DayPrecision = res.Date.HasDayPrecision()
	out.Begin, out.End = bounds(res.Date)
	if q := dateQualification(res.Date); q != edtf.NoQualification {
		out.Qualification = q.String()
	}
	if withTimeSpan {
		if ts, ok := BuildTimeSpan(res); ok {
			out.TimeSpan = &ts
		}
	}
	return out
}

// BuildTimeSpan summarises a matched date as a time-span entity
func BuildTimeSpan(res extract.Result) (model.TimeSpan, bool) {
	if !res.Matched() {
		return model.TimeSpan{}, false
	}

	notation := res.Date.String()
	ts := model.TimeSpan{
		ID:               "#" + url.QueryEscape(notation),
		PrefLabel:        model.LangLiteral{Value: label(res.Date), Lang: noLanguage},
		Notation:         notation,
		NotationDatatype: edtfDatatype,
	}
	ts.Begin, ts.End = bounds(res.Date)

	q := dateQualification(res.Date)
	if q == edtf.Approximate || q == edtf.UncertainApproximate {
		ts.Notes = append(ts.Notes, "approximate")
	}
	if q == edtf.Uncertain || q == edtf.UncertainApproximate {
		ts.Notes = append(ts.Notes, "uncertain")
	}

	if from, to, ok := res.Date.Centuries(); ok {
		for c := max(1, from); c <= to; c++ {
			ts.IsPartOf = append(ts.IsPartOf, centuryURIPrefix+strconv.Itoa(c))
		}
	}
	return ts, true
}

// label prefers a preserved period name over the EDTF notation
func label(d edtf.Date) string {
	if iv, ok := d.(edtf.Interval); ok && iv.Label() != "" {
		return iv.Label()
	}
	return d.String()
}

// bounds returns the first and last covered day. Open or unknown sides stay empty.
func bounds(d edtf.Date) (string, string) {
	var begin, end string
	if first := d.FirstDay(); first.IsDeclared() {
		begin = first.String()
	}
	if last := d.LastDay(); last.IsDeclared() {
		end = last.String()
	}
	return begin, end
}

// dateQualification combines the qualifications carried anywhere in d
func dateQualification(d edtf.Date) edtf.Qualification {
	iv, ok := d.(edtf.Interval)
	if !ok {
		return d.Qualification()
	}

	var uncertain, approximate bool
	for _, q := range []edtf.Qualification{iv.Qualification(), iv.Start().Qualification(), iv.End().Qualification()} {
		uncertain = uncertain || q == edtf.Uncertain || q == edtf.UncertainApproximate
		approximate = approximate || q == edtf.Approximate || q == edtf.UncertainApproximate
	}
	switch {
	case uncertain && approximate:
		return edtf.UncertainApproximate
	case approximate:
		return edtf.Approximate
	case uncertain:
		return edtf.Uncertain
	}
	return edtf.NoQualification
}
