package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCollectedAt(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   time.Time
		wantOK bool
	}{
		{"rfc3339", "2024-03-05T12:00:00+02:00", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), true},
		{"zone-less iso", "2024-03-05T12:00:00", time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local), true},
		{"space separated", "2024-03-05 12:00:00", time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local), true},
		{"date only", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), true},
		{"empty", "  ", time.Time{}, true},
		{"garbage", "05/03/2024", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCollectedAt(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}
}

func TestJobUnmarshalKeepsOtherFields(t *testing.T) {
	var j Job
	require.NoError(t, json.Unmarshal([]byte(`{"jobTitle":"Engineer","salaryRaw":"10k",
		"collectedAt":"2024-03-05","jobLink":"https://jobs.example.com/1"}`), &j))

	assert.Equal(t, "Engineer", j.JobTitle)
	assert.Equal(t, "10k", j.Salary())
	assert.Equal(t, "https://jobs.example.com/1", j.JobLink)
	assert.Equal(t, "2024-03-05", j.CollectedDate())
}

func TestJobUnmarshalRejectsBadShape(t *testing.T) {
	var j Job
	assert.Error(t, json.Unmarshal([]byte(`{"collectedAt":42}`), &j))
}
