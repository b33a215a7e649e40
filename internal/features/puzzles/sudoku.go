package puzzles

import (
	"math/rand"
)

// Grid is a 9x9 sudoku board; 0 marks an empty cell.
type Grid [9][9]int

var sudokuBlanks = map[string]int{
	"easy":   36,
	"medium": 46,
	"hard":   54,
}

// ValidateSolution reports whether every row, column and 3x3 box holds 1..9 exactly once.
func ValidateSolution(g Grid) bool {
	for i := 0; i < 9; i++ {
		var row, col, box [10]bool
		for j := 0; j < 9; j++ {
			r := g[i][j]
			c := g[j][i]
			b := g[3*(i/3)+j/3][3*(i%3)+j%3]
			if r < 1 || r > 9 || c < 1 || c > 9 || b < 1 || b > 9 {
				return false
			}
			if row[r] || col[c] || box[b] {
				return false
			}
			row[r], col[c], box[b] = true, true, true
		}
	}
	return true
}

// MatchesGivens reports whether solution keeps every filled cell of puzzle.
func MatchesGivens(puzzle, solution Grid) bool {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if puzzle[r][c] != 0 && puzzle[r][c] != solution[r][c] {
				return false
			}
		}
	}
	return true
}

// GenerateSudoku builds a solved grid by shuffling a base pattern, then blanks
// cells according to difficulty. Unknown difficulties are treated as easy.
func GenerateSudoku(difficulty string, rng *rand.Rand) (puzzle, solution Grid) {
	rows := bandOrder(rng)
	cols := bandOrder(rng)
	digits := rng.Perm(9)

	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			rr, cc := rows[r], cols[c]
			base := (3*(rr%3) + rr/3 + cc) % 9
			solution[r][c] = digits[base] + 1
		}
	}

	puzzle = solution
	blanks, ok := sudokuBlanks[difficulty]
	if !ok {
		blanks = sudokuBlanks["easy"]
	}
	for _, cell := range rng.Perm(81)[:blanks] {
		puzzle[cell/9][cell%9] = 0
	}
	return puzzle, solution
}

// bandOrder permutes the three bands and the three lines inside each band,
// which keeps every sudoku constraint intact.
func bandOrder(rng *rand.Rand) [9]int {
	var order [9]int
	bands := rng.Perm(3)
	i := 0
	for _, band := range bands {
		for _, line := range rng.Perm(3) {
			order[i] = band*3 + line
			i++
		}
	}
	return order
}
