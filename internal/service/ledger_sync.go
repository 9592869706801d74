package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"syncial/internal/betting"
	"syncial/internal/client/aleo"
	"syncial/internal/models"
	"syncial/internal/repository"
)

// Betting program mappings, keyed by onchain poll id.
const (
	mappingPollStatus    = "poll_status"
	mappingPoolOptionA   = "pool_option_1"
	mappingPoolOptionB   = "pool_option_2"
	mappingTotalPool     = "total_pool"
	mappingTotalBets     = "total_bets_count"
	mappingWinningOption = "winning_option"
)

// Reputation program mappings, keyed by user hash.
const (
	mappingAccuracy         = "public_reputation"
	mappingPredictionCount  = "prediction_count"
	mappingCorrectCount     = "correct_count"
	mappingTotalVolume      = "total_volume"
	mappingLeaderboardScore = "leaderboard_score"
)

const (
	scopePolls      = "polls"
	scopeReputation = "reputation"

	defaultPollConcurrency = 8
)

// LedgerSyncService mirrors ledger mapping state into the local store.
// It holds no state between passes beyond the non-overlap guard; every
// pass re-reads the candidate set from the store.
type LedgerSyncService struct {
	Store  repository.Repository
	Aleo   *aleo.Client
	Logger *zap.Logger

	BettingProgram    string
	ReputationProgram string
	PollConcurrency   int

	mu sync.Mutex
}

type SyncResult struct {
	Attempted int  `json:"attempted"`
	Synced    int  `json:"synced"`
	Failed    int  `json:"failed"`
	Skipped   bool `json:"skipped"`
}

// SyncPolls runs one full reconciliation pass over every poll that has
// an onchain id. Per-poll failures are logged and counted, never
// propagated; a pass only errors when the candidate set itself cannot
// be read. A tick arriving while a pass is still running is skipped.
func (s *LedgerSyncService) SyncPolls(ctx context.Context) (SyncResult, error) {
	if !s.mu.TryLock() {
		if s.Logger != nil {
			s.Logger.Warn("poll sync still running, skipping tick")
		}
		return SyncResult{Skipped: true}, nil
	}
	defer s.mu.Unlock()

	ids, err := s.Store.ListPollOnchainIDs(ctx)
	if err != nil {
		s.writeSyncError(ctx, scopePolls, err)
		return SyncResult{}, err
	}

	result := SyncResult{Attempted: len(ids)}
	var synced, failed int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := s.SyncPoll(gctx, id); err != nil {
				atomic.AddInt64(&failed, 1)
				if s.Logger != nil {
					s.Logger.Warn("poll sync failed",
						zap.String("poll_id", shortID(id)),
						zap.Error(err),
					)
				}
				// Isolation: one poll's failure never aborts the batch.
				return nil
			}
			atomic.AddInt64(&synced, 1)
			return nil
		})
	}
	_ = g.Wait()

	result.Synced = int(synced)
	result.Failed = int(failed)

	if err := s.Store.RefreshCategoryRollups(ctx); err != nil && s.Logger != nil {
		s.Logger.Warn("category rollup refresh failed", zap.Error(err))
	}

	now := time.Now().UTC()
	state := &models.SyncState{
		Scope:         scopePolls,
		LastAttemptAt: &now,
		LastSuccessAt: &now,
		LastError:     nil,
		StatsJSON:     statsJSON(result),
	}
	if err := s.Store.SaveSyncState(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Warn("save sync state failed", zap.Error(err))
	}

	return result, nil
}

// SyncPoll re-reads one poll's six mapping values concurrently and
// writes the normalized tuple back in a single statement.
func (s *LedgerSyncService) SyncPoll(ctx context.Context, pollIDOnchain string) error {
	var status, poolA, poolB, totalPool, totalBets, winner aleo.Reading

	g, gctx := errgroup.WithContext(ctx)
	read := func(mapping string, dst *aleo.Reading) {
		g.Go(func() error {
			raw, ok := s.Aleo.MappingValue(gctx, s.BettingProgram, mapping, pollIDOnchain)
			*dst = aleo.ParseReading(raw, ok)
			return nil
		})
	}
	read(mappingPollStatus, &status)
	read(mappingPoolOptionA, &poolA)
	read(mappingPoolOptionB, &poolB)
	read(mappingTotalPool, &totalPool)
	read(mappingTotalBets, &totalBets)
	read(mappingWinningOption, &winner)
	_ = g.Wait()

	unknown := countUnknown(status, poolA, poolB, totalPool, totalBets, winner)
	if unknown > 0 && s.Logger != nil {
		// Unknown values collapse to zero in the store; keep the
		// distinction visible in logs at least.
		s.Logger.Debug("poll sync has unknown fields",
			zap.String("poll_id", shortID(pollIDOnchain)),
			zap.Int("unknown", unknown),
		)
	}

	state := repository.PollChainState{
		Status:        int(status.Value),
		PoolOptionA:   poolA.Value,
		PoolOptionB:   poolB.Value,
		TotalPool:     totalPool.Value,
		TotalBets:     totalBets.Value,
		WinningOption: int(winner.Value),
	}
	if err := s.Store.UpdatePollChainState(ctx, pollIDOnchain, state, time.Now().UTC()); err != nil {
		return fmt.Errorf("write poll state: %w", err)
	}

	if s.Logger != nil {
		s.Logger.Info("poll synced",
			zap.String("poll_id", shortID(pollIDOnchain)),
			zap.Int64("total_pool", totalPool.Value),
			zap.Int64("total_bets", totalBets.Value),
			zap.Int64("status", status.Value),
		)
	}
	return nil
}

// SyncUserReputation mirrors one user's reputation mappings and derives
// the tier locally. The sync path never learns a display name, so the
// record keeps the Anonymous default; the leaderboard score is read in
// the same batch and persisted alongside.
func (s *LedgerSyncService) SyncUserReputation(ctx context.Context, userHash string) error {
	var accuracy, predictions, correct, volume, leaderboard aleo.Reading

	g, gctx := errgroup.WithContext(ctx)
	read := func(mapping string, dst *aleo.Reading) {
		g.Go(func() error {
			raw, ok := s.Aleo.MappingValue(gctx, s.ReputationProgram, mapping, userHash)
			*dst = aleo.ParseReading(raw, ok)
			return nil
		})
	}
	read(mappingAccuracy, &accuracy)
	read(mappingPredictionCount, &predictions)
	read(mappingCorrectCount, &correct)
	read(mappingTotalVolume, &volume)
	read(mappingLeaderboardScore, &leaderboard)
	_ = g.Wait()

	item := &models.Reputation{
		UserHash:           userHash,
		Username:           "Anonymous",
		AccuracyScore:      accuracy.Value,
		TotalPredictions:   predictions.Value,
		CorrectPredictions: correct.Value,
		TotalVolume:        volume.Value,
		Level:              betting.ReputationTier(predictions.Value, accuracy.Value),
		LeaderboardScore:   leaderboard.Value,
		LastSynced:         time.Now().UTC(),
	}
	if err := s.Store.UpsertReputation(ctx, item); err != nil {
		s.writeSyncError(ctx, scopeReputation, err)
		return fmt.Errorf("write reputation: %w", err)
	}
	return nil
}

func (s *LedgerSyncService) concurrency() int {
	if s.PollConcurrency > 0 {
		return s.PollConcurrency
	}
	return defaultPollConcurrency
}

func (s *LedgerSyncService) writeSyncError(ctx context.Context, scope string, cause error) {
	now := time.Now().UTC()
	msg := cause.Error()
	state := &models.SyncState{
		Scope:         scope,
		LastAttemptAt: &now,
		LastError:     &msg,
	}
	if prev, err := s.Store.GetSyncState(ctx, scope); err == nil && prev != nil {
		state.LastSuccessAt = prev.LastSuccessAt
		state.StatsJSON = prev.StatsJSON
	}
	if err := s.Store.SaveSyncState(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Warn("save sync state failed", zap.String("scope", scope), zap.Error(err))
	}
}

func countUnknown(readings ...aleo.Reading) int {
	n := 0
	for _, r := range readings {
		if !r.Known {
			n++
		}
	}
	return n
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "..."
}

func statsJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
