package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date form used for date filters on the wire.
const DateLayout = "2006-01-02"

type FilterField string

const (
	FieldCompany      FilterField = "company"
	FieldSourceRegion FilterField = "sourceRegion"
	FieldLocation     FilterField = "location"
	FieldJobTitle     FilterField = "jobTitle"
	FieldDateFrom     FilterField = "dateFrom"
	FieldDateTo       FilterField = "dateTo"
)

// FilterFields lists every filter field in display order.
var FilterFields = []FilterField{
	FieldJobTitle,
	FieldCompany,
	FieldLocation,
	FieldSourceRegion,
	FieldDateFrom,
	FieldDateTo,
}

func (f FilterField) IsDate() bool {
	return f == FieldDateFrom || f == FieldDateTo
}

func (f FilterField) Valid() bool {
	switch f {
	case FieldCompany, FieldSourceRegion, FieldLocation, FieldJobTitle, FieldDateFrom, FieldDateTo:
		return true
	}
	return false
}

// FilterCriteria holds the six optional predicates. Empty strings and zero
// times mean "no constraint". DateFrom after DateTo is allowed here; the
// back end decides what to do with it.
type FilterCriteria struct {
	Company      string
	SourceRegion string
	Location     string
	JobTitle     string
	DateFrom     time.Time
	DateTo       time.Time
}

// IsEmpty returns true when no filter criteria are set.
func (c FilterCriteria) IsEmpty() bool {
	return c.Company == "" && c.SourceRegion == "" && c.Location == "" &&
		c.JobTitle == "" && c.DateFrom.IsZero() && c.DateTo.IsZero()
}

// Equal compares criteria by value, using time.Equal for the date bounds.
func (c FilterCriteria) Equal(o FilterCriteria) bool {
	return c.Company == o.Company &&
		c.SourceRegion == o.SourceRegion &&
		c.Location == o.Location &&
		c.JobTitle == o.JobTitle &&
		c.DateFrom.Equal(o.DateFrom) &&
		c.DateTo.Equal(o.DateTo)
}

// Text returns the value of a text field, or the local calendar date of a
// date field ("" when unset).
func (c FilterCriteria) Text(f FilterField) string {
	switch f {
	case FieldCompany:
		return c.Company
	case FieldSourceRegion:
		return c.SourceRegion
	case FieldLocation:
		return c.Location
	case FieldJobTitle:
		return c.JobTitle
	case FieldDateFrom:
		return FormatDate(c.DateFrom)
	case FieldDateTo:
		return FormatDate(c.DateTo)
	}
	return ""
}

// FormatDate renders the local calendar date of t, dropping time of day.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date at local midnight. An empty
// string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

type SortField string

const (
	SortCollectedAt SortField = "collectedAt"
	SortSalaryRaw   SortField = "salaryRaw"
	SortJobTitle    SortField = "jobTitle"
	SortCompany     SortField = "company"
)

var SortFields = []SortField{SortCollectedAt, SortSalaryRaw, SortJobTitle, SortCompany}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var SortOrders = []SortOrder{SortDesc, SortAsc}

// SortDirective is always fully specified; there is no unsorted state.
type SortDirective struct {
	Field SortField
	Order SortOrder
}

func DefaultSort() SortDirective {
	return SortDirective{Field: SortCollectedAt, Order: SortDesc}
}

func (s SortDirective) Validate() error {
	switch s.Field {
	case SortCollectedAt, SortSalaryRaw, SortJobTitle, SortCompany:
	default:
		return &ValidationError{Field: "sortBy", Reason: fmt.Sprintf("unknown sort field %q", s.Field)}
	}
	switch s.Order {
	case SortAsc, SortDesc:
	default:
		return &ValidationError{Field: "sortOrder", Reason: fmt.Sprintf("unknown sort order %q", s.Order)}
	}
	return nil
}
