package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// maxContextTurns bounds how much prior conversation is sent with a request.
	maxContextTurns = 10

	Apology = "Sorry, I couldn't process that right now. Please try again later."
)

var (
	ErrEmptyReply = errors.New("completion returned no reply")

	citationPattern = regexp.MustCompile(`\[\d+\]`)
)

// Completer turns a role-tagged message array into a reply.
type Completer interface {
	Complete(ctx context.Context, input []Turn) (string, error)
}

func systemPrompt(topic string) string {
	if strings.TrimSpace(topic) == "" {
		topic = "no topic has been posted yet today"
	}
	return fmt.Sprintf(`You are the PuzzlePals assistant inside a social puzzle app.

Today's discussion topic: "%s"

Rules:
1. Answer in at most 3 short sentences unless the user asks for more detail
2. Use plain text, no markdown headings or lists
3. When the user asks about the topic, give both sides fairly
4. Help with puzzles by giving hints, never full solutions

Examples:
User: Is it worth learning chess openings?
Assistant: It helps at higher levels, but beginners gain more from tactics. Try learning one opening for each color and spend the rest on puzzles.

User: Give me a hint for a sudoku row missing 4 and 7.
Assistant: Look at the columns those two cells sit in. One of them probably already has a 4 or a 7.`, topic)
}

// BuildPrompt assembles the system prompt, at most the last maxContextTurns
// non-greeting turns of history, and the new user input.
func BuildPrompt(topic string, history []Message, input string) []Turn {
	prior := make([]Message, 0, len(history))
	for _, m := range history {
		if m.ID == GreetingID {
			continue
		}
		prior = append(prior, m)
	}
	if len(prior) > maxContextTurns {
		prior = prior[len(prior)-maxContextTurns:]
	}

	turns := make([]Turn, 0, len(prior)+2)
	turns = append(turns, Turn{Role: RoleSystem, Content: systemPrompt(topic)})
	for _, m := range prior {
		role := RoleAssistant
		if m.IsUser {
			role = RoleUser
		}
		turns = append(turns, Turn{Role: role, Content: m.Text})
	}
	return append(turns, Turn{Role: RoleUser, Content: input})
}

// StripCitations removes every bracketed numeric citation marker such as [1].
func StripCitations(s string) string {
	return citationPattern.ReplaceAllString(s, "")
}

// StripFirstAsterisk removes only the first '*' in s.
func StripFirstAsterisk(s string) string {
	return strings.Replace(s, "*", "", 1)
}

// PostProcess applies both reply clean-up passes.
func PostProcess(reply string) string {
	return StripFirstAsterisk(StripCitations(reply))
}

// FunctionCompleter calls a perplexity_chat style HTTP function:
// POST {"input": [...]} answered by {"reply": "..."} or {"error": "..."}.
type FunctionCompleter struct {
	url    string
	token  string
	client *http.Client
}

func NewFunctionCompleter(url, token string, timeout time.Duration) *FunctionCompleter {
	return &FunctionCompleter{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

type functionResponse struct {
	Reply *string `json:"reply"`
	Error string  `json:"error"`
}

func (f *FunctionCompleter) Complete(ctx context.Context, input []Turn) (string, error) {
	if f.url == "" {
		return "", errors.New("assistant function URL not configured")
	}

	body, err := json.Marshal(FunctionRequest{Input: input})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("X-Function-Token", f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("function returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out functionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to parse function response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("function error: %s", out.Error)
	}
	if out.Reply == nil {
		return "", ErrEmptyReply
	}
	return *out.Reply, nil
}

// ChainCompleter tries each provider in order and returns the first reply.
type ChainCompleter struct {
	names     []string
	providers []Completer
}

func NewChainCompleter() *ChainCompleter {
	return &ChainCompleter{}
}

// Add appends a provider. Nil providers are skipped.
func (c *ChainCompleter) Add(name string, p Completer) *ChainCompleter {
	if p != nil {
		c.names = append(c.names, name)
		c.providers = append(c.providers, p)
	}
	return c
}

func (c *ChainCompleter) Len() int { return len(c.providers) }

func (c *ChainCompleter) Complete(ctx context.Context, input []Turn) (string, error) {
	if len(c.providers) == 0 {
		return "", errors.New("no completion providers configured")
	}

	var errs []error
	for i, p := range c.providers {
		reply, err := p.Complete(ctx, input)
		if err == nil {
			return reply, nil
		}
		slog.Warn("completion provider failed", "feature", "assistant", "provider", c.names[i], "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", c.names[i], err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all completion providers failed: %w", errors.Join(errs...))
}
