package puzzles

import (
	"math/rand"
	"testing"
)

func TestGenerateSudoku(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for diff, blanks := range sudokuBlanks {
		puzzle, solution := GenerateSudoku(diff, rng)
		if !ValidateSolution(solution) {
			t.Fatalf("%s: generated solution is invalid: %v", diff, solution)
		}
		if !MatchesGivens(puzzle, solution) {
			t.Fatalf("%s: puzzle givens differ from solution", diff)
		}
		empty := 0
		for _, row := range puzzle {
			for _, v := range row {
				if v == 0 {
					empty++
				}
			}
		}
		if empty != blanks {
			t.Fatalf("%s: %d blanks, want %d", diff, empty, blanks)
		}
	}
}

func TestValidateSolutionRejectsBrokenGrids(t *testing.T) {
	_, solution := GenerateSudoku("easy", rand.New(rand.NewSource(1)))

	swapped := solution
	swapped[0][0], swapped[1][0] = swapped[1][0], swapped[0][0]
	if ValidateSolution(swapped) {
		t.Fatal("grid with swapped column cells accepted")
	}

	zeroed := solution
	zeroed[4][4] = 0
	if ValidateSolution(zeroed) {
		t.Fatal("grid with an empty cell accepted")
	}
}

func TestMastermindScore(t *testing.T) {
	tests := []struct {
		secret, guess  []int
		exact, partial int
	}{
		{[]int{1, 2, 3, 4}, []int{1, 2, 3, 4}, 4, 0},
		{[]int{1, 2, 3, 4}, []int{4, 3, 2, 1}, 0, 4},
		{[]int{1, 2, 1, 2}, []int{1, 1, 2, 2}, 2, 2},
		{[]int{1, 1, 2, 3}, []int{1, 1, 1, 1}, 2, 0},
		{[]int{0, 0, 0, 0}, []int{5, 5, 5, 5}, 0, 0},
	}
	for _, tt := range tests {
		exact, partial := Score(tt.secret, tt.guess)
		if exact != tt.exact || partial != tt.partial {
			t.Errorf("Score(%v, %v) = %d, %d; want %d, %d", tt.secret, tt.guess, exact, partial, tt.exact, tt.partial)
		}
	}
}

func TestGenerateQuickMath(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for diff, r := range quickMathRanges {
		for i := 0; i < 200; i++ {
			q := GenerateQuickMath(diff, rng)
			if !q.Check(q.Answer) || q.Check(q.Answer+1) {
				t.Fatalf("%s: Check inconsistent for %s = %d", diff, q.Prompt(), q.Answer)
			}
			switch q.Op {
			case "-":
				if q.Answer < 0 {
					t.Fatalf("%s: negative result %s", diff, q.Prompt())
				}
			case "÷":
				if q.A != q.Answer*q.B || q.A > r.hi {
					t.Fatalf("%s: bad division %s = %d", diff, q.Prompt(), q.Answer)
				}
			}
			if diff == "easy" && q.Op != "+" && q.Op != "-" {
				t.Fatalf("easy produced %q", q.Op)
			}
		}
	}
}

func TestEvaluateGuess(t *testing.T) {
	tests := []struct {
		answer, guess string
		want          []string
	}{
		{"apple", "apple", []string{LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect}},
		{"apple", "paper", []string{LetterPresent, LetterPresent, LetterCorrect, LetterPresent, LetterAbsent}},
		// Only one e is left unmatched after the exact hit, so the other two are absent.
		{"crane", "eerie", []string{LetterAbsent, LetterAbsent, LetterPresent, LetterAbsent, LetterCorrect}},
		{"Crane", "CRANE", []string{LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect}},
	}
	for _, tt := range tests {
		got, err := EvaluateGuess(tt.answer, tt.guess)
		if err != nil {
			t.Fatalf("EvaluateGuess(%q, %q): %v", tt.answer, tt.guess, err)
		}
		for i, r := range got {
			if r.State != tt.want[i] {
				t.Errorf("EvaluateGuess(%q, %q)[%d] = %s, want %s", tt.answer, tt.guess, i, r.State, tt.want[i])
			}
		}
	}

	if _, err := EvaluateGuess("apple", "app"); err != ErrGuessLength {
		t.Fatalf("short guess err = %v", err)
	}
	res, _ := EvaluateGuess("apple", "apple")
	if !Solved(res) {
		t.Fatal("exact guess not solved")
	}
}

func TestCheckRiddle(t *testing.T) {
	answers := []string{"an egg", "egg"}
	tests := []struct {
		guess string
		want  bool
	}{
		{"Egg!", true},
		{"  The   EGG. ", true},
		{"a egg", true},
		{"eggs", false},
		{"", false},
		{"?!", false},
	}
	for _, tt := range tests {
		if got := CheckRiddle(answers, tt.guess); got != tt.want {
			t.Errorf("CheckRiddle(%q) = %v, want %v", tt.guess, got, tt.want)
		}
	}
}
