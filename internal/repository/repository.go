package repository

import (
	"context"
	"time"

	"syncial/internal/models"
)

// CategoryAll is the sentinel category filter meaning "no filter".
const CategoryAll = "All"

// ListPollsParams filters and pages the poll listing. SortBy is checked
// against an allow-list; anything else falls back to created_at.
type ListPollsParams struct {
	Status   *int
	Category string
	SortBy   string
	Limit    int
	Offset   int
}

// PollChainState is the full ledger-derived tuple for one poll. It is
// always written as a whole; there is no partial patch path.
type PollChainState struct {
	Status        int
	PoolOptionA   int64
	PoolOptionB   int64
	TotalPool     int64
	TotalBets     int64
	WinningOption int
}

// StatsSummary aggregates across the whole store. Volume and bet totals
// are in microcredits / raw counts.
type StatsSummary struct {
	TotalPolls  int64 `json:"total_polls"`
	ActivePolls int64 `json:"active_polls"`
	TotalVolume int64 `json:"total_volume"`
	TotalBets   int64 `json:"total_bets"`
	TotalUsers  int64 `json:"total_users"`
}

// Repository is the local secondary store. The ledger sync service is
// the only writer of chain-derived fields; everything else writes
// off-chain metadata.
type Repository interface {
	// Polls
	CreatePoll(ctx context.Context, item *models.Poll) error
	GetPoll(ctx context.Context, id string) (*models.Poll, error)
	ListPolls(ctx context.Context, params ListPollsParams) ([]models.Poll, error)
	CountPolls(ctx context.Context, params ListPollsParams) (int64, error)
	ListPollOnchainIDs(ctx context.Context) ([]string, error)
	UpdatePollChainState(ctx context.Context, pollIDOnchain string, state PollChainState, syncedAt time.Time) error

	// Posts
	CreatePost(ctx context.Context, item *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error)
	LikePost(ctx context.Context, id string) error

	// Comments
	AddComment(ctx context.Context, item *models.Comment) error
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)

	// Reputation
	UpsertReputation(ctx context.Context, item *models.Reputation) error
	GetReputation(ctx context.Context, userHash string) (*models.Reputation, error)
	Leaderboard(ctx context.Context, limit int) ([]models.Reputation, error)

	// Categories
	SeedCategories(ctx context.Context) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	RefreshCategoryRollups(ctx context.Context) error

	// Aggregates & sync bookkeeping
	Stats(ctx context.Context) (StatsSummary, error)
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncState(ctx context.Context, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
}
