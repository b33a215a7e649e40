package puzzles

import (
	"errors"
	"strings"
)

const (
	LetterCorrect = "correct"
	LetterPresent = "present"
	LetterAbsent  = "absent"
)

var ErrGuessLength = errors.New("guess length does not match the answer")

type LetterResult struct {
	Letter string `json:"letter"`
	State  string `json:"state"`
}

// EvaluateGuess marks each letter of guess against answer. A letter repeated in
// the guess is only marked present as many times as it is still unmatched in
// the answer; exact matches are claimed first.
func EvaluateGuess(answer, guess string) ([]LetterResult, error) {
	a := []rune(strings.ToLower(strings.TrimSpace(answer)))
	g := []rune(strings.ToLower(strings.TrimSpace(guess)))
	if len(a) != len(g) {
		return nil, ErrGuessLength
	}

	results := make([]LetterResult, len(g))
	remaining := map[rune]int{}
	for i := range g {
		results[i].Letter = string(g[i])
		if g[i] == a[i] {
			results[i].State = LetterCorrect
		} else {
			remaining[a[i]]++
		}
	}
	for i := range g {
		if results[i].State == LetterCorrect {
			continue
		}
		if remaining[g[i]] > 0 {
			results[i].State = LetterPresent
			remaining[g[i]]--
		} else {
			results[i].State = LetterAbsent
		}
	}
	return results, nil
}

func Solved(results []LetterResult) bool {
	for _, r := range results {
		if r.State != LetterCorrect {
			return false
		}
	}
	return len(results) > 0
}
