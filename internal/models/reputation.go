package models

import "time"

// Reputation is the public, opt-in reputation record for one user hash.
// Rows are upserted wholesale on every sync, never partially patched.
// AccuracyScore is in basis points (10000 = 100%); TotalVolume is in
// microcredits.
type Reputation struct {
	UserHash           string    `gorm:"primaryKey" json:"user_hash"`
	Username           string    `gorm:"not null;default:Anonymous" json:"username"`
	AccuracyScore      int64     `gorm:"not null;default:0" json:"accuracy_score"`
	TotalPredictions   int64     `gorm:"not null;default:0" json:"total_predictions"`
	CorrectPredictions int64     `gorm:"not null;default:0" json:"correct_predictions"`
	TotalVolume        int64     `gorm:"not null;default:0" json:"total_volume"`
	Level              int       `gorm:"not null;default:1" json:"level"`
	LeaderboardScore   int64     `gorm:"not null;default:0" json:"leaderboard_score"`
	LastSynced         time.Time `json:"last_synced"`
}

func (Reputation) TableName() string {
	return "reputation"
}
