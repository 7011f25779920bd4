package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Job is a single posting as returned by the back end. No field is
// guaranteed unique; position in a result set is the only stable handle.
type Job struct {
	JobTitle     string    `json:"jobTitle"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	SourceRegion string    `json:"sourceRegion"`
	SalaryRaw    *string   `json:"salaryRaw"`
	CollectedAt  time.Time `json:"collectedAt"`
	JobLink      string    `json:"jobLink"`
}

// collectedLayouts are tried in order. Zone-less values are read as local time.
var collectedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCollectedAt reads a collection timestamp in any of the formats the
// back end has been seen to emit. Empty input yields the zero time.
func ParseCollectedAt(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range collectedLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, raw)
		} else {
			t, err = time.ParseInLocation(layout, raw, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes collectedAt leniently. An unrecognised timestamp
// leaves the zero time so one odd row cannot fail a whole result set.
func (j *Job) UnmarshalJSON(data []byte) error {
	type plain Job
	aux := struct {
		*plain
		CollectedAt *string `json:"collectedAt"`
	}{plain: (*plain)(j)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	j.CollectedAt = time.Time{}
	if aux.CollectedAt != nil {
		j.CollectedAt, _ = ParseCollectedAt(*aux.CollectedAt)
	}
	return nil
}

type JobsResponse struct {
	Data []Job `json:"data"`
}

// Salary returns the raw salary text, or "N/A" when the source left it blank.
func (j Job) Salary() string {
	if j.SalaryRaw == nil || *j.SalaryRaw == "" {
		return "N/A"
	}
	return *j.SalaryRaw
}

func (j Job) CollectedDate() string {
	if j.CollectedAt.IsZero() {
		return "-"
	}
	return j.CollectedAt.Local().Format("2006-01-02")
}
