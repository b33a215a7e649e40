package builder

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func quizDefinition() Definition {
	return Definition{
		Title: "Capital quiz",
		Board: Board{Kind: BoardNone},
		Systems: Systems{
			Timer: Timer{Enabled: true, Seconds: 30},
			Score: ScoreSystem{Enabled: true, Start: 0, Target: 3},
		},
		Rules: []Rule{
			{Trigger: TriggerChoice, Condition: Condition{Kind: ConditionChoiceIs, Index: intPtr(1)}, Action: Action{Kind: ActionAddScore, Value: intPtr(1)}},
			{Trigger: TriggerTimerEnd, Condition: Condition{Kind: ConditionScoreLTE, Value: intPtr(2)}, Action: Action{Kind: ActionLose}},
		},
		Win:     []string{TagScoreReached},
		Lose:    []string{TagTimerExpired, TagRule},
		Content: Content{Prompt: "Capital of France?", Choices: []string{"Berlin", "Paris", "Rome"}},
	}
}

func fieldsOf(t *testing.T, err error) map[string]bool {
	t.Helper()
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	out := map[string]bool{}
	for _, f := range v.Fields {
		out[f.Field] = true
	}
	return out
}

func TestValidDefinitionPasses(t *testing.T) {
	def := quizDefinition()
	def.Normalize()
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsFieldKeyedErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Definition)
		field  string
	}{
		{"missing title", func(d *Definition) { d.Title = "" }, "title"},
		{"grid without rows", func(d *Definition) { d.Board = Board{Kind: BoardGrid, Cols: 3} }, "board.rows"},
		{"list without items", func(d *Definition) { d.Board = Board{Kind: BoardList} }, "board.items"},
		{"unknown board", func(d *Definition) { d.Board.Kind = "hex" }, "board.kind"},
		{"timer without seconds", func(d *Definition) { d.Systems.Timer.Seconds = 0 }, "systems.timer.seconds"},
		{"score condition without scoring", func(d *Definition) {
			d.Systems.Score.Enabled = false
			d.Win = []string{TagCorrectChoice}
		}, "rules[1].condition.kind"},
		{"add_score without scoring", func(d *Definition) {
			d.Systems.Score.Enabled = false
			d.Win = []string{TagCorrectChoice}
		}, "rules[0].action.kind"},
		{"add_score without value", func(d *Definition) { d.Rules[0].Action.Value = nil }, "rules[0].action.value"},
		{"too few choices", func(d *Definition) { d.Content.Choices = []string{"Paris"} }, "content.choices"},
		{"choice index out of range", func(d *Definition) { d.Rules[0].Condition.Index = intPtr(5) }, "rules[0].condition.index"},
		{"unknown trigger", func(d *Definition) { d.Rules[0].Trigger = "on_shake" }, "rules[0].trigger"},
		{"unknown action", func(d *Definition) { d.Rules[0].Action.Kind = "explode" }, "rules[0].action.kind"},
		{"unknown win tag", func(d *Definition) { d.Win = []string{"vibes"} }, "win[0]"},
		{"no win condition", func(d *Definition) { d.Win = nil }, "win"},
		{"rule tag without rule", func(d *Definition) { d.Rules[1].Action = Action{Kind: ActionShowMessage, Text: "Time!"} }, "lose[1]"},
		{"cell tap without grid", func(d *Definition) { d.Rules[0].Trigger = TriggerCellTap }, "rules[0].trigger"},
		{"timer_expired without timer", func(d *Definition) {
			d.Systems.Timer = Timer{}
			d.Rules = d.Rules[:1]
			d.Lose = []string{TagTimerExpired}
		}, "lose[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := quizDefinition()
			tt.mutate(&def)
			def.Normalize()
			fields := fieldsOf(t, def.Validate())
			if !fields[tt.field] {
				t.Fatalf("missing %q in %v", tt.field, fields)
			}
		})
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	def := Definition{Board: Board{Kind: BoardGrid}}
	def.Normalize()
	fields := fieldsOf(t, def.Validate())
	for _, want := range []string{"title", "board.rows", "board.cols", "win"} {
		if !fields[want] {
			t.Errorf("missing %q in %v", want, fields)
		}
	}
}

func TestNormalizeDefaultsBoardKind(t *testing.T) {
	def := Definition{Title: "  Tap fast  ", Rules: []Rule{{Trigger: TriggerStart, Action: Action{Kind: ActionWin}}}, Win: []string{TagRule}}
	def.Normalize()
	if def.Title != "Tap fast" || def.Board.Kind != BoardNone {
		t.Fatalf("normalized = %+v", def)
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
