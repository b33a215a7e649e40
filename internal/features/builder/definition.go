package builder

import (
	"fmt"
	"strings"
)

const (
	BoardGrid     = "grid"
	BoardFreeform = "freeform"
	BoardList     = "list"
	BoardNone     = "none"

	TriggerStart    = "on_start"
	TriggerTick     = "on_tick"
	TriggerChoice   = "on_choice"
	TriggerCellTap  = "on_cell_tap"
	TriggerTimerEnd = "on_timer_end"

	ConditionAlways   = "always"
	ConditionScoreGTE = "score_gte"
	ConditionScoreLTE = "score_lte"
	ConditionChoiceIs = "choice_is"
	ConditionTimerLTE = "timer_lte"

	ActionAddScore    = "add_score"
	ActionSetScore    = "set_score"
	ActionWin         = "win"
	ActionLose        = "lose"
	ActionShowMessage = "show_message"

	TagScoreReached   = "score_reached"
	TagTimerExpired   = "timer_expired"
	TagAllCellsFilled = "all_cells_filled"
	TagCorrectChoice  = "correct_choice"
	TagWrongChoice    = "wrong_choice"
	TagRule           = "rule"
)

const (
	maxTitleLength   = 100
	maxBoardSide     = 12
	maxTimerSeconds  = 3600
	maxRules         = 50
	maxMessageLength = 200
	minChoices       = 2
)

var (
	boardKinds = map[string]bool{BoardGrid: true, BoardFreeform: true, BoardList: true, BoardNone: true}
	triggers   = map[string]bool{TriggerStart: true, TriggerTick: true, TriggerChoice: true, TriggerCellTap: true, TriggerTimerEnd: true}
	conditions = map[string]bool{ConditionAlways: true, ConditionScoreGTE: true, ConditionScoreLTE: true, ConditionChoiceIs: true, ConditionTimerLTE: true}
	actions    = map[string]bool{ActionAddScore: true, ActionSetScore: true, ActionWin: true, ActionLose: true, ActionShowMessage: true}
	endTags    = map[string]bool{TagScoreReached: true, TagTimerExpired: true, TagAllCellsFilled: true, TagCorrectChoice: true, TagWrongChoice: true, TagRule: true}
)

// Definition is the document a custom game is built from and played with.
type Definition struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Board       Board    `json:"board"`
	Systems     Systems  `json:"systems"`
	Rules       []Rule   `json:"rules"`
	Win         []string `json:"win"`
	Lose        []string `json:"lose"`
	Content     Content  `json:"content"`
}

type Board struct {
	Kind  string   `json:"kind"`
	Rows  int      `json:"rows,omitempty"`
	Cols  int      `json:"cols,omitempty"`
	Items []string `json:"items,omitempty"`
}

type Systems struct {
	Timer Timer       `json:"timer"`
	Score ScoreSystem `json:"score"`
}

type Timer struct {
	Enabled bool `json:"enabled"`
	Seconds int  `json:"seconds,omitempty"`
}

type ScoreSystem struct {
	Enabled bool `json:"enabled"`
	Start   int  `json:"start"`
	Target  int  `json:"target"`
}

// Rule fires Action when Trigger happens and Condition holds.
type Rule struct {
	Trigger   string    `json:"trigger"`
	Condition Condition `json:"condition"`
	Action    Action    `json:"action"`
}

// Condition is tagged by Kind; only the fields that kind uses are set.
type Condition struct {
	Kind    string `json:"kind"`
	Value   *int   `json:"value,omitempty"`
	Index   *int   `json:"index,omitempty"`
	Seconds *int   `json:"seconds,omitempty"`
}

// Action is tagged by Kind; only the fields that kind uses are set.
type Action struct {
	Kind  string `json:"kind"`
	Value *int   `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

type Content struct {
	Prompt  string   `json:"prompt,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

// Texts returns every free-text field other players will see.
func (d *Definition) Texts() []string {
	texts := []string{d.Title, d.Description, d.Content.Prompt}
	texts = append(texts, d.Content.Choices...)
	texts = append(texts, d.Board.Items...)
	for _, r := range d.Rules {
		if r.Action.Text != "" {
			texts = append(texts, r.Action.Text)
		}
	}
	return texts
}

// FieldError is one validation problem, keyed by a JSON path such as "rules[2].action.value".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a definition.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid game definition: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Normalize trims free text in place.
func (d *Definition) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Board.Kind = strings.ToLower(strings.TrimSpace(d.Board.Kind))
	if d.Board.Kind == "" {
		d.Board.Kind = BoardNone
	}
	d.Content.Prompt = strings.TrimSpace(d.Content.Prompt)
	for i := range d.Content.Choices {
		d.Content.Choices[i] = strings.TrimSpace(d.Content.Choices[i])
	}
}

// Validate returns a *ValidationError listing every problem, or nil.
func (d *Definition) Validate() error {
	v := &ValidationError{}
	score := d.Systems.Score.Enabled
	timer := d.Systems.Timer.Enabled
	choices := len(d.Content.Choices)
	needsChoices := false
	ruleWins, ruleLoses := false, false

	if d.Title == "" {
		v.add("title", "is required")
	} else if len([]rune(d.Title)) > maxTitleLength {
		v.add("title", "must be at most %d characters", maxTitleLength)
	}

	switch d.Board.Kind {
	case BoardGrid:
		if d.Board.Rows < 1 || d.Board.Rows > maxBoardSide {
			v.add("board.rows", "must be between 1 and %d", maxBoardSide)
		}
		if d.Board.Cols < 1 || d.Board.Cols > maxBoardSide {
			v.add("board.cols", "must be between 1 and %d", maxBoardSide)
		}
	case BoardList:
		if len(d.Board.Items) == 0 {
			v.add("board.items", "a list board needs at least one item")
		}
	case BoardFreeform, BoardNone:
	default:
		v.add("board.kind", "unknown board kind %q", d.Board.Kind)
	}

	if timer && (d.Systems.Timer.Seconds < 1 || d.Systems.Timer.Seconds > maxTimerSeconds) {
		v.add("systems.timer.seconds", "must be between 1 and %d when the timer is on", maxTimerSeconds)
	}
	if score && d.Systems.Score.Target == d.Systems.Score.Start {
		v.add("systems.score.target", "must differ from the start score")
	}

	if len(d.Rules) > maxRules {
		v.add("rules", "at most %d rules are allowed", maxRules)
	}
	for i, r := range d.Rules {
		path := fmt.Sprintf("rules[%d]", i)

		switch {
		case !triggers[r.Trigger]:
			v.add(path+".trigger", "unknown trigger %q", r.Trigger)
		case r.Trigger == TriggerChoice:
			needsChoices = true
		case r.Trigger == TriggerTimerEnd && !timer:
			v.add(path+".trigger", "on_timer_end needs the timer system")
		case r.Trigger == TriggerCellTap && d.Board.Kind != BoardGrid:
			v.add(path+".trigger", "on_cell_tap needs a grid board")
		}

		c := r.Condition
		cpath := path + ".condition"
		switch c.Kind {
		case "", ConditionAlways:
		case ConditionScoreGTE, ConditionScoreLTE:
			if !score {
				v.add(cpath+".kind", "%s needs the score system", c.Kind)
			}
			if c.Value == nil {
				v.add(cpath+".value", "is required")
			}
		case ConditionChoiceIs:
			needsChoices = true
			if c.Index == nil {
				v.add(cpath+".index", "is required")
			} else if *c.Index < 0 || (choices > 0 && *c.Index >= choices) {
				v.add(cpath+".index", "must point at one of the %d choices", choices)
			}
		case ConditionTimerLTE:
			if !timer {
				v.add(cpath+".kind", "timer_lte needs the timer system")
			}
			if c.Seconds == nil || *c.Seconds < 0 {
				v.add(cpath+".seconds", "must be zero or more")
			}
		default:
			v.add(cpath+".kind", "unknown condition %q", c.Kind)
		}

		a := r.Action
		apath := path + ".action"
		switch a.Kind {
		case ActionAddScore, ActionSetScore:
			if !score {
				v.add(apath+".kind", "%s needs the score system", a.Kind)
			}
			if a.Value == nil {
				v.add(apath+".value", "is required")
			}
		case ActionWin:
			ruleWins = true
		case ActionLose:
			ruleLoses = true
		case ActionShowMessage:
			if strings.TrimSpace(a.Text) == "" {
				v.add(apath+".text", "is required")
			} else if len([]rune(a.Text)) > maxMessageLength {
				v.add(apath+".text", "must be at most %d characters", maxMessageLength)
			}
		default:
			v.add(apath+".kind", "unknown action %q", a.Kind)
		}
	}

	check := func(field string, tags []string, ruleEnds bool) {
		for i, tag := range tags {
			path := fmt.Sprintf("%s[%d]", field, i)
			switch {
			case !endTags[tag]:
				v.add(path, "unknown condition tag %q", tag)
			case tag == TagScoreReached && !score:
				v.add(path, "score_reached needs the score system")
			case tag == TagTimerExpired && !timer:
				v.add(path, "timer_expired needs the timer system")
			case tag == TagAllCellsFilled && d.Board.Kind != BoardGrid:
				v.add(path, "all_cells_filled needs a grid board")
			case tag == TagCorrectChoice || tag == TagWrongChoice:
				needsChoices = true
			case tag == TagRule && !ruleEnds:
				v.add(path, "no rule has a matching %s action", field)
			}
		}
	}
	check("win", d.Win, ruleWins)
	check("lose", d.Lose, ruleLoses)

	if len(d.Win) == 0 && !ruleWins {
		v.add("win", "the game needs at least one way to win")
	}
	if needsChoices && choices < minChoices {
		v.add("content.choices", "at least %d choices are needed when choices are used", minChoices)
	}
	for i, ch := range d.Content.Choices {
		if ch == "" {
			v.add(fmt.Sprintf("content.choices[%d]", i), "must not be empty")
		}
	}

	if len(v.Fields) > 0 {
		return v
	}
	return nil
}
