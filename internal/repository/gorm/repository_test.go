package gormrepository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"syncial/internal/models"
	"syncial/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.Poll{},
		&models.Post{},
		&models.Comment{},
		&models.Reputation{},
		&models.Category{},
		&models.SyncState{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(gdb)
}

func strPtr(s string) *string { return &s }

func seedPoll(t *testing.T, s *Store, id, onchain, category string, status int, totalPool, totalBets int64) {
	t.Helper()
	item := &models.Poll{
		ID:                 id,
		Question:           "q-" + id,
		OptionA:            "Yes",
		OptionB:            "No",
		Category:           category,
		CreatorAddressHash: "creator",
		Deadline:           time.Now().Unix() + 3600,
		Status:             status,
		TotalPool:          totalPool,
		TotalBets:          totalBets,
	}
	if onchain != "" {
		item.PollIDOnchain = strPtr(onchain)
	}
	if err := s.CreatePoll(context.Background(), item); err != nil {
		t.Fatalf("seed poll %s: %v", id, err)
	}
}

func TestGetPollByEitherID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPoll(t, s, "local-1", "1field", "Crypto", models.PollStatusActive, 0, 0)

	byLocal, err := s.GetPoll(ctx, "local-1")
	if err != nil || byLocal == nil {
		t.Fatalf("get by local id: %v %v", byLocal, err)
	}
	byOnchain, err := s.GetPoll(ctx, "1field")
	if err != nil || byOnchain == nil {
		t.Fatalf("get by onchain id: %v %v", byOnchain, err)
	}
	if byLocal.ID != byOnchain.ID {
		t.Fatalf("lookups disagree: %s vs %s", byLocal.ID, byOnchain.ID)
	}
	missing, err := s.GetPoll(ctx, "nope")
	if err != nil {
		t.Fatalf("missing lookup errored: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing poll")
	}
}

func TestListPollsFilterSortPage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPoll(t, s, "p1", "1field", "Crypto", models.PollStatusActive, 500, 5)
	seedPoll(t, s, "p2", "2field", "Sports", models.PollStatusActive, 900, 2)
	seedPoll(t, s, "p3", "3field", "Crypto", models.PollStatusResolved, 100, 9)

	active := models.PollStatusActive
	items, err := s.ListPolls(ctx, repository.ListPollsParams{Status: &active})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("active polls=%d want=2", len(items))
	}

	items, err = s.ListPolls(ctx, repository.ListPollsParams{Category: "Crypto"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("crypto polls=%d want=2", len(items))
	}

	// "All" sentinel disables the category filter.
	items, err = s.ListPolls(ctx, repository.ListPollsParams{Category: "All"})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("all polls=%d want=3", len(items))
	}

	items, err = s.ListPolls(ctx, repository.ListPollsParams{SortBy: "total_pool"})
	if err != nil {
		t.Fatalf("list by volume: %v", err)
	}
	if items[0].ID != "p2" || items[2].ID != "p3" {
		t.Fatalf("volume sort order wrong: %s..%s", items[0].ID, items[2].ID)
	}

	// Unknown sort column falls back to created_at instead of
	// interpolating caller input.
	if _, err := s.ListPolls(ctx, repository.ListPollsParams{SortBy: "likes; DROP TABLE polls"}); err != nil {
		t.Fatalf("hostile sort column: %v", err)
	}

	items, err = s.ListPolls(ctx, repository.ListPollsParams{SortBy: "total_pool", Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "p1" {
		t.Fatalf("page 2 of volume sort wrong: %+v", items)
	}

	total, err := s.CountPolls(ctx, repository.ListPollsParams{Category: "Crypto"})
	if err != nil || total != 2 {
		t.Fatalf("count=%d err=%v want=2", total, err)
	}
}

func TestListPollOnchainIDsSkipsUnconfirmed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPoll(t, s, "p1", "1field", "Other", models.PollStatusActive, 0, 0)
	seedPoll(t, s, "p2", "", "Other", models.PollStatusActive, 0, 0)

	ids, err := s.ListPollOnchainIDs(ctx)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "1field" {
		t.Fatalf("ids=%v want=[1field]", ids)
	}
}

func TestUpdatePollChainState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPoll(t, s, "p1", "1field", "Other", models.PollStatusActive, 0, 0)

	syncedAt := time.Now().UTC()
	state := repository.PollChainState{
		Status:        models.PollStatusResolved,
		PoolOptionA:   150_000_000,
		PoolOptionB:   85_000_000,
		TotalPool:     235_000_000,
		TotalBets:     42,
		WinningOption: models.WinnerOptionA,
	}
	if err := s.UpdatePollChainState(ctx, "1field", state, syncedAt); err != nil {
		t.Fatalf("update chain state: %v", err)
	}

	got, err := s.GetPoll(ctx, "p1")
	if err != nil || got == nil {
		t.Fatalf("reload: %v %v", got, err)
	}
	if got.Status != models.PollStatusResolved || got.TotalPool != 235_000_000 ||
		got.PoolOptionA != 150_000_000 || got.PoolOptionB != 85_000_000 ||
		got.TotalBets != 42 || got.WinningOption != models.WinnerOptionA {
		t.Fatalf("chain state not applied: %+v", got)
	}
	if got.LastSynced.IsZero() {
		t.Fatalf("last_synced not set")
	}

	if err := s.UpdatePollChainState(ctx, "ghost", state, syncedAt); err != gorm.ErrRecordNotFound {
		t.Fatalf("unknown onchain id: err=%v want=ErrRecordNotFound", err)
	}
}

func TestLikePostIncrements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	post := &models.Post{
		ID:                "post-1",
		Content:           "hello",
		ContentHash:       "h",
		AuthorAddressHash: "author",
		Timestamp:         100,
	}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.LikePost(ctx, "post-1"); err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
	}
	got, err := s.GetPost(ctx, "post-1")
	if err != nil || got == nil {
		t.Fatalf("reload post: %v %v", got, err)
	}
	if got.Likes != 3 {
		t.Fatalf("likes=%d want=3", got.Likes)
	}
	if err := s.LikePost(ctx, "missing"); err != gorm.ErrRecordNotFound {
		t.Fatalf("like missing: err=%v want=ErrRecordNotFound", err)
	}
}

func TestCommentsOrderedAscending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	post := &models.Post{ID: "post-1", Content: "c", ContentHash: "h", AuthorAddressHash: "a", Timestamp: 1}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	for i, ts := range []int64{300, 100, 200} {
		c := &models.Comment{
			ID:                string(rune('a' + i)),
			PostID:            "post-1",
			AuthorAddressHash: "a",
			Content:           "c",
			Timestamp:         ts,
		}
		if err := s.AddComment(ctx, c); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}
	items, err := s.ListComments(ctx, "post-1")
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(items) != 3 || items[0].Timestamp != 100 || items[2].Timestamp != 300 {
		t.Fatalf("comments not time-ascending: %+v", items)
	}
}

func TestUpsertReputationWholesale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := &models.Reputation{
		UserHash:         "user-1",
		Username:         "Anonymous",
		AccuracyScore:    4000,
		TotalPredictions: 10,
		Level:            1,
		LastSynced:       time.Now().UTC(),
	}
	if err := s.UpsertReputation(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &models.Reputation{
		UserHash:           "user-1",
		Username:           "Anonymous",
		AccuracyScore:      8500,
		TotalPredictions:   50,
		CorrectPredictions: 40,
		TotalVolume:        1_000_000,
		Level:              10,
		LeaderboardScore:   77,
		LastSynced:         time.Now().UTC(),
	}
	if err := s.UpsertReputation(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err := s.GetReputation(ctx, "user-1")
	if err != nil || got == nil {
		t.Fatalf("reload: %v %v", got, err)
	}
	if got.AccuracyScore != 8500 || got.Level != 10 || got.LeaderboardScore != 77 {
		t.Fatalf("upsert did not overwrite: %+v", got)
	}
}

func TestLeaderboardOrderAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rows := []models.Reputation{
		{UserHash: "a", AccuracyScore: 7000, TotalPredictions: 10},
		{UserHash: "b", AccuracyScore: 9000, TotalPredictions: 5},
		{UserHash: "c", AccuracyScore: 7000, TotalPredictions: 30},
		{UserHash: "d", AccuracyScore: 9999, TotalPredictions: 0}, // no history, excluded
	}
	for i := range rows {
		if err := s.UpsertReputation(ctx, &rows[i]); err != nil {
			t.Fatalf("seed %s: %v", rows[i].UserHash, err)
		}
	}
	items, err := s.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("leaderboard size=%d want=3", len(items))
	}
	if items[0].UserHash != "b" || items[1].UserHash != "c" || items[2].UserHash != "a" {
		t.Fatalf("leaderboard order wrong: %s,%s,%s", items[0].UserHash, items[1].UserHash, items[2].UserHash)
	}
}

func TestSeedCategoriesIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SeedCategories(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := s.SeedCategories(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	items, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(items) != 8 {
		t.Fatalf("categories=%d want=8", len(items))
	}
}

func TestRefreshCategoryRollups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SeedCategories(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	seedPoll(t, s, "p1", "1field", "Crypto", models.PollStatusActive, 500, 1)
	seedPoll(t, s, "p2", "2field", "Crypto", models.PollStatusActive, 300, 1)
	seedPoll(t, s, "p3", "3field", "Sports", models.PollStatusActive, 100, 1)

	if err := s.RefreshCategoryRollups(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	items, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	byName := map[string]models.Category{}
	for _, item := range items {
		byName[item.Name] = item
	}
	if got := byName["Crypto"]; got.PollCount != 2 || got.TotalVolume != 800 {
		t.Fatalf("crypto rollup=%+v want count=2 volume=800", got)
	}
	if got := byName["Sports"]; got.PollCount != 1 || got.TotalVolume != 100 {
		t.Fatalf("sports rollup=%+v want count=1 volume=100", got)
	}
	if got := byName["Politics"]; got.PollCount != 0 || got.TotalVolume != 0 {
		t.Fatalf("politics rollup=%+v want zeros", got)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPoll(t, s, "p1", "1field", "Crypto", models.PollStatusActive, 500, 5)
	seedPoll(t, s, "p2", "2field", "Sports", models.PollStatusResolved, 900, 2)
	if err := s.UpsertReputation(ctx, &models.Reputation{UserHash: "u1", TotalPredictions: 1}); err != nil {
		t.Fatalf("seed reputation: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalPolls != 2 || stats.ActivePolls != 1 {
		t.Fatalf("poll counts=%d/%d want=2/1", stats.TotalPolls, stats.ActivePolls)
	}
	if stats.TotalVolume != 1400 || stats.TotalBets != 7 {
		t.Fatalf("volume/bets=%d/%d want=1400/7", stats.TotalVolume, stats.TotalBets)
	}
	if stats.TotalUsers != 1 {
		t.Fatalf("users=%d want=1", stats.TotalUsers)
	}
}

func TestSyncStateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	state := &models.SyncState{
		Scope:         "polls",
		LastAttemptAt: &now,
		LastSuccessAt: &now,
	}
	if err := s.SaveSyncState(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	msg := "boom"
	state2 := &models.SyncState{Scope: "polls", LastAttemptAt: &now, LastError: &msg}
	if err := s.SaveSyncState(ctx, state2); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := s.GetSyncState(ctx, "polls")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.LastError == nil || *got.LastError != "boom" {
		t.Fatalf("last error not updated: %+v", got)
	}
	states, err := s.ListSyncStates(ctx)
	if err != nil || len(states) != 1 {
		t.Fatalf("list states: %v len=%d", err, len(states))
	}
}
