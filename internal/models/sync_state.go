package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncState records the outcome of the most recent sync per scope
// ("polls", "reputation"). Observability only.
type SyncState struct {
	Scope         string         `gorm:"primaryKey" json:"scope"`
	LastAttemptAt *time.Time     `json:"last_attempt_at"`
	LastSuccessAt *time.Time     `json:"last_success_at"`
	LastError     *string        `json:"last_error"`
	StatsJSON     datatypes.JSON `json:"stats_json"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
