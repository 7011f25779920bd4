package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionSettingsIsReady(t *testing.T) {
	tests := []struct {
		name     string
		settings ConnectionSettings
		want     bool
	}{
		{"unconfigured", ConnectionSettings{}, false},
		{"no token", ConnectionSettings{SourceURL: "https://x", TableID: "9"}, false},
		{"no table", ConnectionSettings{SourceURL: "https://x", TokenPresent: true}, false},
		{"no url", ConnectionSettings{TableID: "9", TokenPresent: true}, false},
		{"ready", ConnectionSettings{SourceURL: "https://x", TableID: "9", TokenPresent: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsReady())
		})
	}
}

func TestPendingConnectionEditValidate(t *testing.T) {
	tests := []struct {
		name      string
		edit      PendingConnectionEdit
		wantField string
	}{
		{"valid without token", PendingConnectionEdit{SourceURL: "https://x", TableID: "9"}, ""},
		{"valid with token", PendingConnectionEdit{SourceURL: "http://baserow.local/api", TableID: "12", Token: "t"}, ""},
		{"missing url", PendingConnectionEdit{TableID: "9"}, "sourceUrl"},
		{"missing table", PendingConnectionEdit{SourceURL: "https://x"}, "tableId"},
		{"relative url", PendingConnectionEdit{SourceURL: "baserow.local", TableID: "9"}, "sourceUrl"},
		{"ftp url", PendingConnectionEdit{SourceURL: "ftp://files.example.com", TableID: "9"}, "sourceUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edit.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.True(t, IsValidation(err))
			assert.False(t, IsConnection(err))
		})
	}
}

func TestEditFromAndDirty(t *testing.T) {
	committed := ConnectionSettings{SourceURL: "https://x", TableID: "9", TokenPresent: true}
	edit := EditFrom(committed)

	assert.Equal(t, "", edit.Token)
	assert.False(t, edit.Dirty(committed))

	edit.Token = "secret"
	assert.True(t, edit.Dirty(committed))

	edit = EditFrom(committed)
	edit.TableID = "10"
	assert.True(t, edit.Dirty(committed))
}

func TestJobSalary(t *testing.T) {
	empty := ""
	raw := "R$ 10.000"

	assert.Equal(t, "N/A", Job{}.Salary())
	assert.Equal(t, "N/A", Job{SalaryRaw: &empty}.Salary())
	assert.Equal(t, raw, Job{SalaryRaw: &raw}.Salary())
}
