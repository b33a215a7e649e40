package puzzles

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const generatedPerDifficulty = 5

var seedWords = map[string][]string{
	"easy":   {"apple", "house", "smile", "plant", "bread"},
	"medium": {"crane", "vivid", "knack", "glyph", "sworn"},
	"hard":   {"fjord", "nymph", "xylem", "quartz", "zephyr"},
}

type seedRiddle struct {
	Difficulty string
	Question   string
	Answers    []string
}

var seedRiddles = []seedRiddle{
	{"easy", "What has to be broken before you can use it?", []string{"an egg", "egg"}},
	{"easy", "What has hands but can't clap?", []string{"a clock", "clock", "watch"}},
	{"easy", "What gets wetter the more it dries?", []string{"a towel", "towel"}},
	{"medium", "What has keys but can't open locks?", []string{"a piano", "piano", "keyboard"}},
	{"medium", "I speak without a mouth and hear without ears. What am I?", []string{"an echo", "echo"}},
	{"medium", "The more of this there is, the less you see. What is it?", []string{"darkness", "the dark", "fog"}},
	{"hard", "What can run but never walks, has a mouth but never talks?", []string{"a river", "river"}},
	{"hard", "What comes once in a minute, twice in a moment, but never in a thousand years?", []string{"the letter m", "m"}},
	{"hard", "The person who makes it sells it. The person who buys it never uses it. What is it?", []string{"a coffin", "coffin"}},
}

var difficultyOrder = []string{"easy", "medium", "hard"}

// SeedCatalog inserts the built-in games that are not present yet, keyed by title.
// Generated boards use a fixed seed so titles map to the same content across runs.
func SeedCatalog(db *gorm.DB) error {
	rng := rand.New(rand.NewSource(20240501))
	var games []models.Game

	for _, diff := range difficultyOrder {
		for i := 1; i <= generatedPerDifficulty; i++ {
			puzzle, solution := GenerateSudoku(diff, rng)
			games = append(games, newGame(models.GameTypeSudoku, diff, "logic",
				fmt.Sprintf("Sudoku %s #%d", diff, i), sudokuPayload{Grid: puzzle}, sudokuSolution{Grid: solution}))

			code, colors := GenerateCode(diff, rng)
			games = append(games, newGame(models.GameTypeMastermind, diff, "logic",
				fmt.Sprintf("Mastermind %s #%d", diff, i), mastermindPayload{Length: len(code), Colors: colors}, mastermindSolution{Code: code}))

			q := GenerateQuickMath(diff, rng)
			games = append(games, newGame(models.GameTypeQuickMath, diff, "math",
				fmt.Sprintf("Quick Math %s #%d", diff, i), quickMathPayload{QuickMath: q, Prompt: q.Prompt()}, quickMathSolution{Answer: q.Answer}))
		}
		for i, word := range seedWords[diff] {
			games = append(games, newGame(models.GameTypeWordle, diff, "words",
				fmt.Sprintf("Wordle %s #%d", diff, i+1), wordlePayload{Length: len([]rune(word))}, wordleSolution{Word: word}))
		}
	}
	for i, r := range seedRiddles {
		games = append(games, newGame(models.GameTypeRiddle, r.Difficulty, "riddles",
			fmt.Sprintf("Riddle #%d", i+1), riddlePayload{Question: r.Question}, riddleSolution{Answers: r.Answers}))
	}

	seeded := 0
	for _, g := range games {
		var count int64
		if err := db.Model(&models.Game{}).Where("title = ?", g.Title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&g).Error; err != nil {
			return fmt.Errorf("failed to seed %q: %w", g.Title, err)
		}
		seeded++
	}
	if seeded > 0 {
		slog.Info("seeded puzzle catalog", "games", seeded)
	}
	return nil
}

func newGame(gameType, difficulty, category, title string, payload, solution any) models.Game {
	return models.Game{
		Type:       gameType,
		Difficulty: difficulty,
		Category:   category,
		Title:      title,
		Payload:    mustJSON(payload),
		Solution:   mustJSON(solution),
		Active:     true,
	}
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(b)
}

func normalizeDifficulty(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}
