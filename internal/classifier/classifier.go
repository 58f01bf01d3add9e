// Package classifier implements the pure decision engine: given a
// feature's current state, pick the single next action a caller should
// take. classify never fails — a state that no rule matches classifies
// to Done.
package classifier

import (
	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/gate"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
)

// EvalContext bundles everything a rule's condition or message
// function needs to inspect. Rules never mutate it.
type EvalContext struct {
	Feature *feature.Feature
	State   *state.State
	Config  config.Config
	Root    string
}

// Rule is one priority-ordered entry in the classifier's decision
// table. Condition is evaluated in order; the first Rule whose
// Condition returns true wins. Message, NextCommand, OutputPath, and
// TaskID are all derived from ctx so a single Rule value can serve
// every feature.
type Rule struct {
	ID            string
	Condition     func(ctx *EvalContext) bool
	Action        taxonomy.ActionType
	Message       func(ctx *EvalContext) string
	NextCommand   func(ctx *EvalContext) string
	OutputPath    func(ctx *EvalContext) string
	TransitionTo  *taxonomy.Phase
	TaskID        func(ctx *EvalContext) string
}

// Classification is the wire shape returned by Classify — the single
// recommended next action for a feature, along with enough detail for
// a caller to act on it without re-deriving anything.
type Classification struct {
	Feature      string               `json:"feature"`
	Action       taxonomy.ActionType  `json:"action"`
	Message      string               `json:"message"`
	NextCommand  string               `json:"next_command"`
	OutputPath   string               `json:"output_path,omitempty"`
	TransitionTo *taxonomy.Phase      `json:"transition_to,omitempty"`
	TaskID       string               `json:"task_id,omitempty"`
	IsHeavy      bool                 `json:"is_heavy"`
	CurrentPhase taxonomy.Phase       `json:"current_phase"`
	Gates        []gate.Definition    `json:"gates,omitempty"`
}

// Classifier holds a priority-ordered rule table.
type Classifier struct {
	rules []Rule
}

// New builds a Classifier from an already priority-ordered rule slice.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify walks the rule table in order and returns the Classification
// built from the first matching rule. When no rule matches (including
// an empty rule table) it returns a Done classification with no next
// command.
func (c *Classifier) Classify(ctx *EvalContext) Classification {
	for _, r := range c.rules {
		if !r.Condition(ctx) {
			continue
		}

		result := Classification{
			Feature:      ctx.Feature.Slug,
			Action:       r.Action,
			Message:      r.Message(ctx),
			IsHeavy:      r.Action.IsHeavy(),
			CurrentPhase: ctx.Feature.Phase,
		}
		if r.NextCommand != nil {
			result.NextCommand = r.NextCommand(ctx)
		}
		if r.OutputPath != nil {
			result.OutputPath = r.OutputPath(ctx)
		}
		if r.TransitionTo != nil {
			transitionTo := *r.TransitionTo
			result.TransitionTo = &transitionTo
		}
		if r.TaskID != nil {
			result.TaskID = r.TaskID(ctx)
		}
		result.Gates = ctx.Config.GatesFor(r.Action)

		return result
	}

	return Classification{
		Feature:      ctx.Feature.Slug,
		Action:       taxonomy.Done,
		Message:      "no rule matched; nothing further to do",
		CurrentPhase: ctx.Feature.Phase,
	}
}
