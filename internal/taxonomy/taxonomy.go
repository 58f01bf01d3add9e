// Package taxonomy defines the fixed enumerations shared by every other
// package in the decision engine: lifecycle phases, artifact types and
// statuses, action types, task statuses, and comment flags.
//
// Every enum here follows the same shape: a small int type with a
// String() method and a parser, so the type is equally at home in YAML
// (via MarshalYAML/UnmarshalYAML) and in log lines.
package taxonomy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Phase is a feature's position in the SDLC pipeline. Phases are ordered —
// callers compare them with plain <, <=, > — and transitions are forward-only.
type Phase int

const (
	Draft Phase = iota
	Specified
	Planned
	Ready
	Implementation
	Review
	Audit
	Qa
	Merge
	Released
)

var allPhases = []Phase{Draft, Specified, Planned, Ready, Implementation, Review, Audit, Qa, Merge, Released}

// AllPhases returns every phase in pipeline order.
func AllPhases() []Phase {
	out := make([]Phase, len(allPhases))
	copy(out, allPhases)
	return out
}

// Next returns the phase that follows p, or false if p is terminal.
func (p Phase) Next() (Phase, bool) {
	if int(p)+1 >= len(allPhases) {
		return 0, false
	}
	return allPhases[p+1], true
}

func (p Phase) String() string {
	switch p {
	case Draft:
		return "draft"
	case Specified:
		return "specified"
	case Planned:
		return "planned"
	case Ready:
		return "ready"
	case Implementation:
		return "implementation"
	case Review:
		return "review"
	case Audit:
		return "audit"
	case Qa:
		return "qa"
	case Merge:
		return "merge"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase parses the snake_case wire representation of a Phase.
func ParsePhase(s string) (Phase, error) {
	for _, p := range allPhases {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid phase %q", s)
}

func (p Phase) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// MarshalJSON renders the Phase as its snake_case wire string.
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParsePhase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p *Phase) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParsePhase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ArtifactType names one of the seven documents tracked per feature.
type ArtifactType int

const (
	Spec ArtifactType = iota
	Design
	Tasks
	QaPlan
	ArtifactReview
	ArtifactAudit
	QaResults
)

var allArtifactTypes = []ArtifactType{Spec, Design, Tasks, QaPlan, ArtifactReview, ArtifactAudit, QaResults}

// AllArtifactTypes returns every artifact type, in the feature's fixed order.
func AllArtifactTypes() []ArtifactType {
	out := make([]ArtifactType, len(allArtifactTypes))
	copy(out, allArtifactTypes)
	return out
}

func (t ArtifactType) String() string {
	switch t {
	case Spec:
		return "spec"
	case Design:
		return "design"
	case Tasks:
		return "tasks"
	case QaPlan:
		return "qa_plan"
	case ArtifactReview:
		return "review"
	case ArtifactAudit:
		return "audit"
	case QaResults:
		return "qa_results"
	default:
		return fmt.Sprintf("artifact_type(%d)", int(t))
	}
}

// Filename returns the conventional on-disk filename for this artifact type.
func (t ArtifactType) Filename() string {
	switch t {
	case Spec:
		return "spec.md"
	case Design:
		return "design.md"
	case Tasks:
		return "tasks.md"
	case QaPlan:
		return "qa-plan.md"
	case ArtifactReview:
		return "review.md"
	case ArtifactAudit:
		return "audit.md"
	case QaResults:
		return "qa-results.md"
	default:
		return "unknown.md"
	}
}

// ParseArtifactType parses both the canonical snake_case form and the
// hyphenated aliases used by a couple of CLI-facing spellings.
func ParseArtifactType(s string) (ArtifactType, error) {
	switch s {
	case "spec":
		return Spec, nil
	case "design":
		return Design, nil
	case "tasks":
		return Tasks, nil
	case "qa_plan", "qa-plan":
		return QaPlan, nil
	case "review":
		return ArtifactReview, nil
	case "audit":
		return ArtifactAudit, nil
	case "qa_results", "qa-results":
		return QaResults, nil
	default:
		return 0, fmt.Errorf("unknown artifact type %q", s)
	}
}

func (t ArtifactType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *ArtifactType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseArtifactType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ArtifactStatus is the state machine each Artifact moves through.
type ArtifactStatus int

const (
	Missing ArtifactStatus = iota
	ArtifactDraft
	Approved
	Rejected
	NeedsFix
	Waived
)

func (s ArtifactStatus) String() string {
	switch s {
	case Missing:
		return "missing"
	case ArtifactDraft:
		return "draft"
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	case NeedsFix:
		return "needs_fix"
	case Waived:
		return "waived"
	default:
		return fmt.Sprintf("artifact_status(%d)", int(s))
	}
}

// ParseArtifactStatus parses the snake_case wire representation.
func ParseArtifactStatus(s string) (ArtifactStatus, error) {
	switch s {
	case "missing":
		return Missing, nil
	case "draft":
		return ArtifactDraft, nil
	case "approved":
		return Approved, nil
	case "rejected":
		return Rejected, nil
	case "needs_fix":
		return NeedsFix, nil
	case "waived":
		return Waived, nil
	default:
		return 0, fmt.Errorf("invalid artifact status %q", s)
	}
}

func (s ArtifactStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *ArtifactStatus) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseArtifactStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ActionType is the single next step a Classification can recommend.
type ActionType int

const (
	CreateSpec ActionType = iota
	ApproveSpec
	CreateDesign
	ApproveDesign
	CreateTasks
	CreateQaPlan
	ImplementTask
	FixReviewIssues
	CreateReview
	ApproveReview
	CreateAudit
	RunQa
	ApproveMerge
	Merge
	Archive
	UnblockDependency
	WaitForApproval
	Done
)

var allActions = []ActionType{
	CreateSpec, ApproveSpec, CreateDesign, ApproveDesign, CreateTasks, CreateQaPlan,
	ImplementTask, FixReviewIssues, CreateReview, ApproveReview, CreateAudit, RunQa,
	ApproveMerge, Merge, Archive, UnblockDependency, WaitForApproval, Done,
}

// AllActions returns every ActionType variant.
func AllActions() []ActionType {
	out := make([]ActionType, len(allActions))
	copy(out, allActions)
	return out
}

func (a ActionType) String() string {
	switch a {
	case CreateSpec:
		return "create_spec"
	case ApproveSpec:
		return "approve_spec"
	case CreateDesign:
		return "create_design"
	case ApproveDesign:
		return "approve_design"
	case CreateTasks:
		return "create_tasks"
	case CreateQaPlan:
		return "create_qa_plan"
	case ImplementTask:
		return "implement_task"
	case FixReviewIssues:
		return "fix_review_issues"
	case CreateReview:
		return "create_review"
	case ApproveReview:
		return "approve_review"
	case CreateAudit:
		return "create_audit"
	case RunQa:
		return "run_qa"
	case ApproveMerge:
		return "approve_merge"
	case Merge:
		return "merge"
	case Archive:
		return "archive"
	case UnblockDependency:
		return "unblock_dependency"
	case WaitForApproval:
		return "wait_for_approval"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("action_type(%d)", int(a))
	}
}

// IsActionValid reports whether s names a known ActionType.
func IsActionValid(s string) bool {
	for _, a := range allActions {
		if a.String() == s {
			return true
		}
	}
	return false
}

// IsHeavy reports whether the action is expected to run long enough that
// callers should isolate it in its own working copy.
func (a ActionType) IsHeavy() bool {
	switch a {
	case ImplementTask, FixReviewIssues, RunQa:
		return true
	default:
		return false
	}
}

// TimeoutMinutes is the soft timeout hint attached to a classified action.
func (a ActionType) TimeoutMinutes() int {
	if a.IsHeavy() {
		return 45
	}
	return 10
}

func (a ActionType) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// MarshalJSON renders the ActionType as its snake_case wire string, for
// Classification and Wave payloads handed to HTTP/MCP callers.
func (a ActionType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *ActionType) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for _, candidate := range allActions {
		if candidate.String() == s {
			*a = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid action type %q", s)
}

// TaskStatus is the lifecycle state of a single Task on a feature.
type TaskStatus int

const (
	Pending TaskStatus = iota
	InProgress
	Completed
	Blocked
)

func (s TaskStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Blocked:
		return "blocked"
	default:
		return fmt.Sprintf("task_status(%d)", int(s))
	}
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "in_progress":
		return InProgress, nil
	case "completed":
		return Completed, nil
	case "blocked":
		return Blocked, nil
	default:
		return 0, fmt.Errorf("invalid task status %q", s)
	}
}

func (s TaskStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *TaskStatus) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseTaskStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CommentFlag marks a comment as gating the pipeline or merely informational.
type CommentFlag int

const (
	NoFlag CommentFlag = iota
	FlagBlocker
	FlagQuestion
	FlagFyi
)

func (f CommentFlag) String() string {
	switch f {
	case FlagBlocker:
		return "blocker"
	case FlagQuestion:
		return "question"
	case FlagFyi:
		return "fyi"
	default:
		return ""
	}
}

func ParseCommentFlag(s string) (CommentFlag, error) {
	switch s {
	case "", "none":
		return NoFlag, nil
	case "blocker":
		return FlagBlocker, nil
	case "question":
		return FlagQuestion, nil
	case "fyi":
		return FlagFyi, nil
	default:
		return 0, fmt.Errorf("invalid comment flag %q", s)
	}
}

func (f CommentFlag) MarshalYAML() (interface{}, error) {
	if f == NoFlag {
		return nil, nil
	}
	return f.String(), nil
}

func (f *CommentFlag) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseCommentFlag(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Gates: pending comment flags that stall the pipeline.
func (f CommentFlag) GatesPipeline() bool {
	return f == FlagBlocker || f == FlagQuestion
}
