package puzzles

import (
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
)

const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"

	// MaxScore bounds the score a client may report for one game.
	MaxScore = 1000
)

// Payloads are what the client renders; solutions are stored beside them and never sent.
type (
	sudokuPayload struct {
		Grid Grid `json:"grid"`
	}
	sudokuSolution struct {
		Grid Grid `json:"grid"`
	}
	mastermindPayload struct {
		Length int `json:"length"`
		Colors int `json:"colors"`
	}
	mastermindSolution struct {
		Code []int `json:"code"`
	}
	quickMathPayload struct {
		QuickMath
		Prompt string `json:"prompt"`
	}
	quickMathSolution struct {
		Answer int `json:"answer"`
	}
	wordlePayload struct {
		Length int `json:"length"`
	}
	wordleSolution struct {
		Word string `json:"word"`
	}
	riddlePayload struct {
		Question string `json:"question"`
	}
	riddleSolution struct {
		Answers []string `json:"answers"`
	}
)

// CheckRequest carries one guess; only the field for the game's type is read.
type CheckRequest struct {
	Grid   *Grid  `json:"grid,omitempty"`
	Code   []int  `json:"code,omitempty"`
	Answer *int   `json:"answer,omitempty"`
	Word   string `json:"word,omitempty"`
	Text   string `json:"text,omitempty"`
}

type CheckResult struct {
	Correct bool           `json:"correct"`
	Exact   *int           `json:"exact,omitempty"`
	Partial *int           `json:"partial,omitempty"`
	Letters []LetterResult `json:"letters,omitempty"`
}

type ResultRequest struct {
	Outcome string `json:"outcome"`
	Score   int    `json:"score"`
}

type ResultResponse struct {
	Outcome     string           `json:"outcome"`
	StreakCount int              `json:"streak_count"`
	Stats       models.UserStats `json:"stats"`
}

type LeaderboardRow struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Score    int64     `json:"score"`
	Rank     int64     `json:"rank"`
}

type Leaderboard struct {
	Type    string           `json:"type"`
	Entries []LeaderboardRow `json:"entries"`
	MyRank  int64            `json:"my_rank"`
}
