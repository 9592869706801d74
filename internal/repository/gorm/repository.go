package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"syncial/internal/models"
	"syncial/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Polls ------------------------------------------------------------------

func (s *Store) CreatePoll(ctx context.Context, item *models.Poll) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// GetPoll matches either the local id or the onchain id.
func (s *Store) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Poll
	err := s.db.WithContext(ctx).
		Where("id = ? OR poll_id_onchain = ?", id, id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

var pollSortColumns = map[string]bool{
	"created_at": true,
	"total_pool": true,
	"total_bets": true,
}

func pollListQuery(db *gorm.DB, params repository.ListPollsParams) *gorm.DB {
	query := db.Model(&models.Poll{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	category := strings.TrimSpace(params.Category)
	if category != "" && !strings.EqualFold(category, repository.CategoryAll) {
		query = query.Where("category = ?", category)
	}
	return query
}

func (s *Store) ListPolls(ctx context.Context, params repository.ListPollsParams) ([]models.Poll, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := pollListQuery(s.db.WithContext(ctx), params)
	sortBy := strings.TrimSpace(params.SortBy)
	if !pollSortColumns[sortBy] {
		sortBy = "created_at"
	}
	query = query.Order(sortBy + " DESC")
	limit := normalizeLimit(params.Limit, 20)
	offset := normalizeOffset(params.Offset)
	var items []models.Poll
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPolls(ctx context.Context, params repository.ListPollsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := pollListQuery(s.db.WithContext(ctx), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListPollOnchainIDs returns the sync candidates: every poll that has a
// ledger identifier. Polls awaiting first confirmation are skipped.
func (s *Store) ListPollOnchainIDs(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Poll{}).
		Where("poll_id_onchain IS NOT NULL").
		Pluck("poll_id_onchain", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdatePollChainState overwrites the full chain-derived tuple plus
// both sync timestamps in one statement. Last-writer-wins is fine here
// since the tuple is never partially patched.
func (s *Store) UpdatePollChainState(ctx context.Context, pollIDOnchain string, state repository.PollChainState, syncedAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Poll{}).
		Where("poll_id_onchain = ?", pollIDOnchain).
		UpdateColumns(map[string]any{
			"status":         state.Status,
			"pool_option_a":  state.PoolOptionA,
			"pool_option_b":  state.PoolOptionB,
			"total_pool":     state.TotalPool,
			"total_bets":     state.TotalBets,
			"winning_option": state.WinningOption,
			"last_synced":    syncedAt,
			"updated_at":     syncedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Posts ------------------------------------------------------------------

func (s *Store) CreatePost(ctx context.Context, item *models.Post) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Post
	err := s.db.WithContext(ctx).
		Where("id = ? OR post_id_onchain = ?", id, id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Post
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Order("timestamp DESC").
		Limit(normalizeLimit(limit, 20)).
		Offset(normalizeOffset(offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LikePost is an unconditional atomic increment. There is no decrement
// and no per-user dedup; repeated events count repeatedly.
func (s *Store) LikePost(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Comments ---------------------------------------------------------------

func (s *Store) AddComment(ctx context.Context, item *models.Comment) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Comment
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Order("timestamp ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Reputation -------------------------------------------------------------

func (s *Store) UpsertReputation(ctx context.Context, item *models.Reputation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.UserHash) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"accuracy_score",
			"total_predictions",
			"correct_predictions",
			"total_volume",
			"level",
			"leaderboard_score",
			"last_synced",
		}),
	}).Create(item).Error
}

func (s *Store) GetReputation(ctx context.Context, userHash string) (*models.Reputation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Reputation
	err := s.db.WithContext(ctx).
		Where("user_hash = ?", userHash).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]models.Reputation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Reputation
	err := s.db.WithContext(ctx).
		Model(&models.Reputation{}).
		Where("total_predictions > 0").
		Order("accuracy_score DESC").
		Order("total_predictions DESC").
		Limit(normalizeLimit(limit, 20)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Categories -------------------------------------------------------------

func (s *Store) SeedCategories(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	items := make([]models.Category, 0, len(models.CategoryNames))
	for _, name := range models.CategoryNames {
		items = append(items, models.Category{Name: name})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&items).Error
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Category
	err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RefreshCategoryRollups recomputes per-category poll counts and volume
// from the polls table. Categories with no polls reset to zero.
func (s *Store) RefreshCategoryRollups(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	type rollup struct {
		Name        string
		PollCount   int64
		TotalVolume int64
	}
	var rows []rollup
	err := s.db.WithContext(ctx).
		Model(&models.Poll{}).
		Select("category AS name, COUNT(*) AS poll_count, COALESCE(SUM(total_pool), 0) AS total_volume").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("1 = 1").
			UpdateColumns(map[string]any{"poll_count": 0, "total_volume": 0}).Error; err != nil {
			return err
		}
		for _, r := range rows {
			if err := tx.Model(&models.Category{}).
				Where("name = ?", r.Name).
				UpdateColumns(map[string]any{
					"poll_count":   r.PollCount,
					"total_volume": r.TotalVolume,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Aggregates & sync bookkeeping ------------------------------------------

func (s *Store) Stats(ctx context.Context) (repository.StatsSummary, error) {
	var out repository.StatsSummary
	if s == nil || s.db == nil {
		return out, nil
	}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Poll{}).Count(&out.TotalPolls).Error; err != nil {
		return out, err
	}
	if err := db.Model(&models.Poll{}).
		Where("status = ?", models.PollStatusActive).
		Count(&out.ActivePolls).Error; err != nil {
		return out, err
	}
	if err := db.Model(&models.Poll{}).
		Select("COALESCE(SUM(total_pool), 0)").
		Scan(&out.TotalVolume).Error; err != nil {
		return out, err
	}
	if err := db.Model(&models.Poll{}).
		Select("COALESCE(SUM(total_bets), 0)").
		Scan(&out.TotalBets).Error; err != nil {
		return out, err
	}
	if err := db.Model(&models.Reputation{}).Count(&out.TotalUsers).Error; err != nil {
		return out, err
	}
	return out, nil
}

func (s *Store) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.SyncState
	err := s.db.WithContext(ctx).
		Where("scope = ?", scope).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_attempt_at",
			"last_success_at",
			"last_error",
			"stats_json",
		}),
	}).Create(state).Error
}

func (s *Store) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SyncState
	err := s.db.WithContext(ctx).
		Model(&models.SyncState{}).
		Order("scope ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 200 {
		return 200
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
