package puzzles

import "math/rand"

const (
	mastermindLength = 4
)

var mastermindColors = map[string]int{
	"easy":   4,
	"medium": 6,
	"hard":   8,
}

// Score counts pegs in the right place (exact) and right colours in the wrong
// place (partial). Positions past the shorter slice are ignored.
func Score(secret, guess []int) (exact, partial int) {
	secretLeft := map[int]int{}
	guessLeft := map[int]int{}
	for i := 0; i < len(secret) && i < len(guess); i++ {
		if secret[i] == guess[i] {
			exact++
			continue
		}
		secretLeft[secret[i]]++
		guessLeft[guess[i]]++
	}
	for color, n := range guessLeft {
		partial += min(n, secretLeft[color])
	}
	return exact, partial
}

// GenerateCode picks a secret of mastermindLength pegs; colours may repeat.
func GenerateCode(difficulty string, rng *rand.Rand) (code []int, colors int) {
	colors, ok := mastermindColors[difficulty]
	if !ok {
		colors = mastermindColors["easy"]
	}
	code = make([]int, mastermindLength)
	for i := range code {
		code[i] = rng.Intn(colors)
	}
	return code, colors
}
