// Package gate defines verification gate data attached to a
// classifier action. A gate names what must be checked before an
// action is considered complete — a shell command, a human prompt, or
// a set of step-back questions — but this package never executes one.
// Execution belongs to the collaborator that owns the process tree and
// can kill overrun children; the core only attaches gate definitions to
// a Classification and records the results a collaborator reports back.
package gate

import (
	"encoding/json"

	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"gopkg.in/yaml.v3"
)

// Kind discriminates the three gate shapes a config can declare.
type Kind int

const (
	KindShell Kind = iota
	KindHuman
	KindStepBack
)

func (k Kind) String() string {
	switch k {
	case KindShell:
		return "shell"
	case KindHuman:
		return "human"
	case KindStepBack:
		return "step_back"
	default:
		return "unknown"
	}
}

// ParseKind parses the snake_case wire representation.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "shell":
		return KindShell, nil
	case "human":
		return KindHuman, nil
	case "step_back":
		return KindStepBack, nil
	default:
		return 0, sdlcerr.Wrapf(sdlcerr.ErrInvalidInvestigationKind, "unknown gate kind %q: must be shell, human, or step_back", s)
	}
}

func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Definition is one gate attached to an action. Exactly one of Command,
// Prompt, Questions is meaningful, selected by Kind — mirroring the
// tagged-union GateKind the core persists, flattened for Go's lack of
// sum types.
type Definition struct {
	Name          string   `yaml:"name" json:"name"`
	Kind          Kind     `yaml:"kind" json:"kind"`
	Command       string   `yaml:"command,omitempty" json:"command,omitempty"`
	Prompt        string   `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Questions     []string `yaml:"questions,omitempty" json:"questions,omitempty"`
	MaxRetries    int      `yaml:"max_retries" json:"max_retries"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Result is one attempt's outcome, reported back by whatever ran the
// gate. Attempt is 1-indexed; a Shell gate may report up to
// MaxRetries+1 of these for a single Definition.
type Result struct {
	GateName   string `json:"gate_name"`
	Passed     bool   `json:"passed"`
	Output     string `json:"output"`
	Attempt    int    `json:"attempt"`
	DurationMs int64  `json:"duration_ms"`
}
