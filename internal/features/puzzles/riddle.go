package puzzles

import (
	"strings"
	"unicode"
)

var leadingArticles = []string{"a ", "an ", "the "}

// normalizeAnswer lowercases, drops punctuation, collapses whitespace and strips
// one leading article.
func normalizeAnswer(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	for _, article := range leadingArticles {
		if strings.HasPrefix(out, article) {
			return strings.TrimPrefix(out, article)
		}
	}
	return out
}

// CheckRiddle reports whether guess matches any accepted answer.
func CheckRiddle(answers []string, guess string) bool {
	g := normalizeAnswer(guess)
	if g == "" {
		return false
	}
	for _, a := range answers {
		if normalizeAnswer(a) == g {
			return true
		}
	}
	return false
}
