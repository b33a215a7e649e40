package puzzles

import (
	"fmt"
	"math/rand"
)

// QuickMath is one arithmetic prompt. Answer stays on the server.
type QuickMath struct {
	A      int    `json:"a"`
	B      int    `json:"b"`
	Op     string `json:"op"`
	Answer int    `json:"-"`
}

func (q QuickMath) Prompt() string {
	return fmt.Sprintf("%d %s %d", q.A, q.Op, q.B)
}

type mathRange struct {
	lo, hi int
	ops    []string
}

var quickMathRanges = map[string]mathRange{
	"easy":   {lo: 1, hi: 10, ops: []string{"+", "-"}},
	"medium": {lo: 2, hi: 25, ops: []string{"+", "-", "×"}},
	"hard":   {lo: 5, hi: 99, ops: []string{"+", "-", "×", "÷"}},
}

// GenerateQuickMath draws operands from the difficulty's range. Subtraction never
// goes negative and division always comes out whole.
func GenerateQuickMath(difficulty string, rng *rand.Rand) QuickMath {
	r, ok := quickMathRanges[difficulty]
	if !ok {
		r = quickMathRanges["easy"]
	}
	draw := func() int { return r.lo + rng.Intn(r.hi-r.lo+1) }

	q := QuickMath{A: draw(), B: draw(), Op: r.ops[rng.Intn(len(r.ops))]}
	switch q.Op {
	case "+":
		q.Answer = q.A + q.B
	case "-":
		if q.B > q.A {
			q.A, q.B = q.B, q.A
		}
		q.Answer = q.A - q.B
	case "×":
		q.Answer = q.A * q.B
	case "÷":
		// Keep the dividend in range by drawing the quotient small.
		q.B = 2 + rng.Intn(11)
		q.Answer = 1 + rng.Intn(r.hi/q.B)
		q.A = q.Answer * q.B
	}
	return q
}

func (q QuickMath) Check(answer int) bool {
	return answer == q.Answer
}
