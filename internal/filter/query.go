package filter

import (
	"net/url"
	"strings"

	"github.com/altinukshini/jobs-tui/internal/model"
)

// Query is the canonical remote query descriptor for /jobs/search.
type Query struct {
	values url.Values
}

// Build maps criteria and sort to a query. Empty fields are left out
// entirely; the back end treats an empty parameter as an exact match on "".
// Date bounds are sent as the local calendar date of the stored instant.
func Build(c model.FilterCriteria, s model.SortDirective) Query {
	v := url.Values{}
	if c.Company != "" {
		v.Set(string(model.FieldCompany), c.Company)
	}
	if c.SourceRegion != "" {
		v.Set(string(model.FieldSourceRegion), c.SourceRegion)
	}
	if c.Location != "" {
		v.Set(string(model.FieldLocation), c.Location)
	}
	if c.JobTitle != "" {
		v.Set(string(model.FieldJobTitle), c.JobTitle)
	}
	if !c.DateFrom.IsZero() {
		v.Set(string(model.FieldDateFrom), model.FormatDate(c.DateFrom))
	}
	if !c.DateTo.IsZero() {
		v.Set(string(model.FieldDateTo), model.FormatDate(c.DateTo))
	}
	v.Set("sortBy", string(s.Field))
	v.Set("sortOrder", string(s.Order))
	return Query{values: v}
}

// Encode returns the query string with keys sorted, so equal inputs always
// produce byte-identical output.
func (q Query) Encode() string {
	return q.values.Encode()
}

// QueryString returns Encode prefixed with "?".
func (q Query) QueryString() string {
	if qs := q.Encode(); qs != "" {
		return "?" + qs
	}
	return ""
}

// Values returns a copy of the underlying parameters.
func (q Query) Values() url.Values {
	out := make(url.Values, len(q.values))
	for k, vs := range q.values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func (q Query) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

// Summary returns a short human-readable summary for the status bar.
func (q Query) Summary() string {
	var parts []string
	for _, f := range model.FilterFields {
		if v := q.values.Get(string(f)); v != "" {
			parts = append(parts, string(f)+":"+v)
		}
	}
	parts = append(parts, "sort:"+q.values.Get("sortBy")+" "+q.values.Get("sortOrder"))
	return strings.Join(parts, " ")
}
