package models

import "time"

// Poll status values mirror the betting program's status mapping.
const (
	PollStatusActive    = 0
	PollStatusResolved  = 1
	PollStatusCancelled = 2
)

// Winning option values: 0 = not resolved, 1 = option A, 2 = option B.
const (
	WinnerNone    = 0
	WinnerOptionA = 1
	WinnerOptionB = 2
)

// Poll is a prediction market. Off-chain metadata is written once at
// creation; the chain-state block is overwritten wholesale by the ledger
// sync service and must not be mutated anywhere else.
type Poll struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	PollIDOnchain      *string   `gorm:"uniqueIndex" json:"poll_id_onchain"`
	Question           string    `gorm:"not null" json:"question"`
	OptionA            string    `gorm:"not null" json:"option_a"`
	OptionB            string    `gorm:"not null" json:"option_b"`
	Category           string    `gorm:"not null;default:Other;index" json:"category"`
	Description        string    `gorm:"not null;default:''" json:"description"`
	CreatorAddressHash string    `gorm:"not null" json:"creator_address_hash"`
	Deadline           int64     `gorm:"not null" json:"deadline"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`

	// Chain-synced state.
	Status        int   `gorm:"not null;default:0;index" json:"status"`
	PoolOptionA   int64 `gorm:"not null;default:0" json:"pool_option_a"`
	PoolOptionB   int64 `gorm:"not null;default:0" json:"pool_option_b"`
	TotalPool     int64 `gorm:"not null;default:0;index" json:"total_pool"`
	TotalBets     int64 `gorm:"not null;default:0" json:"total_bets"`
	WinningOption int   `gorm:"not null;default:0" json:"winning_option"`

	LastSynced time.Time `json:"last_synced"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Poll) TableName() string {
	return "polls"
}
