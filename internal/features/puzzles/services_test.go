package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, uuid.UUID) {
	t.Helper()
	db := testutil.NewDB(t, &models.User{}, &models.Game{})
	if err := SeedCatalog(db); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	user := models.User{Email: "p@example.com", Username: "player", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	clock := calendar.Fixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.UTC)
	return NewService(db, &cache.Cache{}, clock), db, user.ID
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	_, db, _ := newTestService(t)
	var before int64
	db.Model(&models.Game{}).Count(&before)
	if err := SeedCatalog(db); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	var after int64
	db.Model(&models.Game{}).Count(&after)
	if before == 0 || before != after {
		t.Fatalf("games before=%d after=%d", before, after)
	}
}

func TestNextMarksSeen(t *testing.T) {
	svc, db, userID := newTestService(t)
	ctx := context.Background()
	f := Filter{Type: models.GameTypeSudoku, Difficulty: "easy"}

	first, err := svc.Next(ctx, userID, f)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	second, err := svc.Next(ctx, userID, f)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("Next returned the same game twice")
	}

	var user models.User
	db.First(&user, "id = ?", userID)
	if len(user.SeenGameIDs) != 2 {
		t.Fatalf("seen = %v", user.SeenGameIDs)
	}

	for i := 2; i < generatedPerDifficulty; i++ {
		if _, err := svc.Next(ctx, userID, f); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if _, err := svc.Next(ctx, userID, f); !errors.Is(err, ErrNoUnseenGame) {
		t.Fatalf("exhausted err = %v", err)
	}
	if _, err := svc.Next(ctx, userID, Filter{Type: "chess"}); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("bad filter err = %v", err)
	}
}

func TestCheckSudokuAndWordle(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	var sudoku models.Game
	db.Where("type = ?", models.GameTypeSudoku).First(&sudoku)
	var sol sudokuSolution
	if err := json.Unmarshal(sudoku.Solution, &sol); err != nil {
		t.Fatalf("solution: %v", err)
	}
	res, err := svc.Check(ctx, sudoku.ID, CheckRequest{Grid: &sol.Grid})
	if err != nil || !res.Correct {
		t.Fatalf("correct grid = %+v, %v", res, err)
	}
	if _, err := svc.Check(ctx, sudoku.ID, CheckRequest{}); !errors.Is(err, ErrInvalidGuess) {
		t.Fatalf("missing grid err = %v", err)
	}

	var wordle models.Game
	db.Where("title = ?", "Wordle easy #1").First(&wordle)
	res, err = svc.Check(ctx, wordle.ID, CheckRequest{Word: "apple"})
	if err != nil || !res.Correct || len(res.Letters) != 5 {
		t.Fatalf("wordle = %+v, %v", res, err)
	}
	res, err = svc.Check(ctx, wordle.ID, CheckRequest{Word: "paper"})
	if err != nil || res.Correct {
		t.Fatalf("wrong wordle = %+v, %v", res, err)
	}
}

func TestRecordResultUpdatesListsStatsAndStreak(t *testing.T) {
	svc, db, userID := newTestService(t)
	ctx := context.Background()

	db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"streak_count": 3, "last_played_day": "2024-04-30",
	})

	var riddle models.Game
	db.Where("type = ?", models.GameTypeRiddle).First(&riddle)

	resp, err := svc.RecordResult(ctx, userID, riddle.ID, ResultRequest{Outcome: OutcomeCompleted, Score: 40})
	if err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if resp.StreakCount != 4 {
		t.Fatalf("streak = %d, want 4", resp.StreakCount)
	}
	line := resp.Stats.Categories["riddles"]
	if line.Played != 1 || line.Completed != 1 || line.BestScore != 40 {
		t.Fatalf("category stats = %+v", line)
	}

	// A second play on the same day keeps the streak.
	resp, _ = svc.RecordResult(ctx, userID, riddle.ID, ResultRequest{Outcome: OutcomeCompleted, Score: 10})
	if resp.StreakCount != 4 {
		t.Fatalf("same-day streak = %d", resp.StreakCount)
	}

	games, err := svc.List(ctx, userID, Filter{Type: models.GameTypeRiddle}, 100, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, g := range games {
		if g.ID == riddle.ID {
			t.Fatal("completed game still listed")
		}
	}

	var user models.User
	db.First(&user, "id = ?", userID)
	if len(user.CompletedGameIDs) != 1 {
		t.Fatalf("completed = %v", user.CompletedGameIDs)
	}

	if _, err := svc.RecordResult(ctx, userID, riddle.ID, ResultRequest{Outcome: "won"}); !errors.Is(err, ErrInvalidOutcome) {
		t.Fatalf("bad outcome err = %v", err)
	}
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		current int
		last    string
		want    int
	}{
		{0, "", 1},
		{5, "2024-04-30", 6},
		{5, "2024-05-01", 5},
		{5, "2024-04-20", 1},
	}
	for _, tt := range tests {
		if got := nextStreak(tt.current, tt.last, "2024-05-01", "2024-04-30"); got != tt.want {
			t.Errorf("nextStreak(%d, %q) = %d, want %d", tt.current, tt.last, got, tt.want)
		}
	}
}

func TestLeaderboardWithoutRedisIsEmpty(t *testing.T) {
	svc, _, userID := newTestService(t)
	board, err := svc.Leaderboard(context.Background(), models.GameTypeWordle, userID, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board.Entries) != 0 || board.MyRank != 0 {
		t.Fatalf("board = %+v", board)
	}
}

func TestReplayDoesNotInflateStatsOrLeaderboard(t *testing.T) {
	svc, db, userID := newTestService(t)
	svc.cache, _ = testutil.NewCache(t)
	ctx := context.Background()

	var riddle models.Game
	db.Where("type = ?", models.GameTypeRiddle).First(&riddle)

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordResult(ctx, userID, riddle.ID, ResultRequest{Outcome: OutcomeCompleted, Score: MaxScore}); err != nil {
			t.Fatalf("RecordResult #%d: %v", i, err)
		}
	}
	if _, err := svc.RecordResult(ctx, userID, riddle.ID, ResultRequest{Outcome: OutcomeSkipped}); err != nil {
		t.Fatalf("skip after completion: %v", err)
	}

	board, err := svc.Leaderboard(ctx, models.GameTypeRiddle, userID, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].Score != MaxScore {
		t.Fatalf("board = %+v, want one entry scored %d", board.Entries, MaxScore)
	}

	var user models.User
	db.First(&user, "id = ?", userID)
	line := user.Stats.Data().Categories["riddles"]
	if line.Played != 1 || line.Completed != 1 || line.Skipped != 0 {
		t.Fatalf("category stats = %+v", line)
	}
	if len(user.CompletedGameIDs) != 1 || len(user.SkippedGameIDs) != 0 {
		t.Fatalf("completed=%v skipped=%v", user.CompletedGameIDs, user.SkippedGameIDs)
	}

	if _, err := svc.RecordResult(ctx, userID, riddle.ID, ResultRequest{Outcome: OutcomeCompleted, Score: MaxScore + 1}); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("oversized score err = %v", err)
	}
}

func TestLeaderboardFromRedis(t *testing.T) {
	svc, db, aliceID := newTestService(t)
	svc.cache, _ = testutil.NewCache(t)
	ctx := context.Background()

	bob := models.User{Email: "b@example.com", Username: "bob", Password: "x"}
	if err := db.Create(&bob).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	var riddles []models.Game
	db.Where("type = ?", models.GameTypeRiddle).Order("title").Limit(2).Find(&riddles)
	if len(riddles) != 2 {
		t.Fatalf("want 2 riddles, got %d", len(riddles))
	}

	for _, g := range riddles {
		svc.RecordResult(ctx, aliceID, g.ID, ResultRequest{Outcome: OutcomeCompleted, Score: 30})
	}
	svc.RecordResult(ctx, bob.ID, riddles[0].ID, ResultRequest{Outcome: OutcomeCompleted, Score: 100})

	board, err := svc.Leaderboard(ctx, models.GameTypeRiddle, aliceID, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board.Entries) != 2 {
		t.Fatalf("entries = %+v", board.Entries)
	}
	first, second := board.Entries[0], board.Entries[1]
	if first.Username != "bob" || first.Score != 100 || first.Rank != 1 {
		t.Errorf("first = %+v", first)
	}
	if second.Username != "player" || second.Score != 60 || second.Rank != 2 {
		t.Errorf("second = %+v", second)
	}
	if board.MyRank != 2 {
		t.Errorf("MyRank = %d, want 2", board.MyRank)
	}
}
