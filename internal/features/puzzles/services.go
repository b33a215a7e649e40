package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoUnseenGame   = errors.New("no unseen games left for this filter")
	ErrInvalidFilter  = errors.New("unknown game type or difficulty")
	ErrInvalidOutcome = errors.New("outcome must be completed or skipped")
	ErrInvalidGuess   = errors.New("guess does not fit this game")
	ErrNotCheckable   = errors.New("this game is checked on the device")
	ErrInvalidScore   = errors.New("score must be between 0 and 1000")
)

type Service struct {
	db    *gorm.DB
	cache *cache.Cache
	clock *calendar.Clock
}

func NewService(db *gorm.DB, c *cache.Cache, clock *calendar.Clock) *Service {
	return &Service{db: db, cache: c, clock: clock}
}

// Filter narrows catalog queries; empty fields match everything.
type Filter struct {
	Type       string
	Difficulty string
}

func (f Filter) validate() error {
	if f.Type != "" && !models.GameTypes[f.Type] {
		return ErrInvalidFilter
	}
	if f.Difficulty != "" && !models.Difficulties[f.Difficulty] {
		return ErrInvalidFilter
	}
	return nil
}

func (s *Service) loadUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func catalog(db *gorm.DB, f Filter, exclude []string) *gorm.DB {
	query := db.Model(&models.Game{}).Where("active = ?", true)
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	return query.Order("created_at ASC, id ASC")
}

// List returns active games matching f that userID has not completed.
func (s *Service) List(ctx context.Context, userID uuid.UUID, f Filter, limit, offset int) ([]models.Game, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	games := []models.Game{}
	err = catalog(s.db.WithContext(ctx), f, user.CompletedGameIDs).Limit(limit).Offset(offset).Find(&games).Error
	return games, err
}

// Next returns the first game matching f that userID has neither seen nor
// completed, and records it as seen.
func (s *Service) Next(ctx context.Context, userID uuid.UUID, f Filter) (*models.Game, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		exclude := append(slices.Clone([]string(user.SeenGameIDs)), user.CompletedGameIDs...)

		if err := catalog(tx, f, exclude).First(&game).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoUnseenGame
			}
			return err
		}

		seen := append(user.SeenGameIDs, game.ID.String())
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("seen_game_ids", seen).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// Check scores a guess against the stored solution.
func (s *Service) Check(ctx context.Context, gameID uuid.UUID, req CheckRequest) (*CheckResult, error) {
	game, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return checkGuess(game, req)
}

func checkGuess(game *models.Game, req CheckRequest) (*CheckResult, error) {
	switch game.Type {
	case models.GameTypeSudoku:
		var payload sudokuPayload
		if err := decode(game.Payload, &payload); err != nil {
			return nil, err
		}
		if req.Grid == nil {
			return nil, ErrInvalidGuess
		}
		return &CheckResult{Correct: ValidateSolution(*req.Grid) && MatchesGivens(payload.Grid, *req.Grid)}, nil

	case models.GameTypeMastermind:
		var sol mastermindSolution
		if err := decode(game.Solution, &sol); err != nil {
			return nil, err
		}
		if len(req.Code) != len(sol.Code) {
			return nil, ErrInvalidGuess
		}
		exact, partial := Score(sol.Code, req.Code)
		return &CheckResult{Correct: exact == len(sol.Code), Exact: &exact, Partial: &partial}, nil

	case models.GameTypeQuickMath:
		var sol quickMathSolution
		if err := decode(game.Solution, &sol); err != nil {
			return nil, err
		}
		if req.Answer == nil {
			return nil, ErrInvalidGuess
		}
		return &CheckResult{Correct: *req.Answer == sol.Answer}, nil

	case models.GameTypeWordle:
		var sol wordleSolution
		if err := decode(game.Solution, &sol); err != nil {
			return nil, err
		}
		letters, err := EvaluateGuess(sol.Word, req.Word)
		if err != nil {
			return nil, ErrInvalidGuess
		}
		return &CheckResult{Correct: Solved(letters), Letters: letters}, nil

	case models.GameTypeRiddle:
		var sol riddleSolution
		if err := decode(game.Solution, &sol); err != nil {
			return nil, err
		}
		return &CheckResult{Correct: CheckRiddle(sol.Answers, req.Text)}, nil
	}
	return nil, ErrNotCheckable
}

func decode(raw datatypes.JSON, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("corrupt game data: %w", err)
	}
	return nil
}

// RecordResult files a completed or skipped play. Completed plays update the
// day streak. A game counts toward stats and the per-type leaderboard once;
// replaying a completed game only refreshes the streak.
func (s *Service) RecordResult(ctx context.Context, userID, gameID uuid.UUID, req ResultRequest) (*ResultResponse, error) {
	if req.Outcome != OutcomeCompleted && req.Outcome != OutcomeSkipped {
		return nil, ErrInvalidOutcome
	}
	if req.Score < 0 || req.Score > MaxScore {
		return nil, ErrInvalidScore
	}

	game, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	var resp ResultResponse
	firstCompletion := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		id := game.ID.String()
		stats := user.Stats.Data()
		completed := slices.Contains(user.CompletedGameIDs, id)
		if completed || (req.Outcome == OutcomeSkipped && slices.Contains(user.SkippedGameIDs, id)) {
			resp.Outcome = req.Outcome
			resp.Stats = stats
			resp.StreakCount = user.StreakCount
			if !completed || req.Outcome != OutcomeCompleted {
				return nil
			}
			resp.StreakCount = nextStreak(user.StreakCount, user.LastPlayedDay, today, s.clock.PreviousDay(today))
			return tx.Model(&models.User{}).Where("id = ?", userID).
				Updates(map[string]interface{}{"streak_count": resp.StreakCount, "last_played_day": today}).Error
		}
		firstCompletion = req.Outcome == OutcomeCompleted

		if stats.Categories == nil {
			stats.Categories = map[string]models.StatLine{}
		}
		if stats.Difficulties == nil {
			stats.Difficulties = map[string]models.StatLine{}
		}
		category := game.Category
		if category == "" {
			category = game.Type
		}
		stats.Categories[category] = applyOutcome(stats.Categories[category], req)
		stats.Difficulties[game.Difficulty] = applyOutcome(stats.Difficulties[game.Difficulty], req)

		updates := map[string]interface{}{
			"stats": datatypes.NewJSONType(stats),
		}
		switch req.Outcome {
		case OutcomeCompleted:
			updates["completed_game_ids"] = append(user.CompletedGameIDs, id)
			streak := nextStreak(user.StreakCount, user.LastPlayedDay, today, s.clock.PreviousDay(today))
			updates["streak_count"] = streak
			updates["last_played_day"] = today
			resp.StreakCount = streak
		case OutcomeSkipped:
			updates["skipped_game_ids"] = append(user.SkippedGameIDs, id)
			resp.StreakCount = user.StreakCount
		}

		resp.Outcome = req.Outcome
		resp.Stats = stats
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if firstCompletion && req.Score > 0 {
		if err := s.cache.AddScore(ctx, game.Type, userID.String(), int64(req.Score)); err != nil {
			slog.Warn("failed to update leaderboard", "type", game.Type, "user_id", userID, "error", err)
		}
	}
	return &resp, nil
}

func applyOutcome(line models.StatLine, req ResultRequest) models.StatLine {
	line.Played++
	switch req.Outcome {
	case OutcomeCompleted:
		line.Completed++
		if req.Score > line.BestScore {
			line.BestScore = req.Score
		}
	case OutcomeSkipped:
		line.Skipped++
	}
	return line
}

// nextStreak extends the streak when the last play was yesterday, keeps it when
// already played today, and restarts it otherwise.
func nextStreak(current int, lastDay, today, yesterday string) int {
	switch lastDay {
	case today:
		if current == 0 {
			return 1
		}
		return current
	case yesterday:
		return current + 1
	}
	return 1
}

// Leaderboard returns the top scores for a game type. Without Redis the board is empty.
func (s *Service) Leaderboard(ctx context.Context, gameType string, viewerID uuid.UUID, limit int) (*Leaderboard, error) {
	if !models.GameTypes[gameType] {
		return nil, ErrInvalidFilter
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	top, err := s.cache.Top(ctx, gameType, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	board := &Leaderboard{Type: gameType, Entries: make([]LeaderboardRow, 0, len(top))}

	ids := make([]uuid.UUID, 0, len(top))
	for _, e := range top {
		if id, err := uuid.Parse(e.Member); err == nil {
			ids = append(ids, id)
		}
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}
	for _, e := range top {
		id, err := uuid.Parse(e.Member)
		if err != nil {
			continue
		}
		board.Entries = append(board.Entries, LeaderboardRow{UserID: id, Username: names[id], Score: e.Score, Rank: e.Rank})
	}

	if board.MyRank, err = s.cache.Rank(ctx, gameType, viewerID.String()); err != nil {
		slog.Warn("failed to read leaderboard rank", "type", gameType, "error", err)
	}
	return board, nil
}
