package ui

import (
	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/model"
)

// SnapshotMsg carries the latest query executor state.
type SnapshotMsg struct {
	Snapshot executor.Snapshot
}

type SettingsLoadedMsg struct {
	Settings model.ConnectionSettings
	Err      error
}

type SettingsSavedMsg struct {
	Settings model.ConnectionSettings
	Err      error
}

type BrowseResultMsg struct {
	URL string
	Err error
}
