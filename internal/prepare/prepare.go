// Package prepare implements two read-only planning views over a
// project's milestones: CurrentProjectPhase infers the project's overall
// lifecycle position from milestone and ponder state, and Prepare
// surveys a single milestone for gaps and organizes its features into
// dependency-ordered, parallelizable waves. Neither function mutates
// anything on disk.
package prepare

import (
	"fmt"
	"sort"

	"github.com/sdlcstack/sdlc/internal/classifier"
	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/milestone"
	"github.com/sdlcstack/sdlc/internal/ponder"
	"github.com/sdlcstack/sdlc/internal/rules"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
)

// ProjectPhase is the project's inferred overall lifecycle position.
type ProjectPhase struct {
	Kind      string `json:"phase"`
	Milestone string `json:"milestone,omitempty"`
}

const (
	PhaseIdle      = "idle"
	PhasePondering = "pondering"
	PhasePlanning  = "planning"
	PhaseExecuting = "executing"
	PhaseVerifying = "verifying"
)

func (p ProjectPhase) String() string {
	if p.Milestone == "" {
		return p.Kind
	}
	return fmt.Sprintf("%s (%s)", p.Kind, p.Milestone)
}

// GapSeverity grades a Gap's urgency.
type GapSeverity int

const (
	SeverityBlocker GapSeverity = iota
	SeverityWarning
	SeverityInfo
)

func (s GapSeverity) String() string {
	switch s {
	case SeverityBlocker:
		return "blocker"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

func (s GapSeverity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Gap is one readiness issue found while surveying a milestone.
type Gap struct {
	Feature  string      `json:"feature"`
	Severity GapSeverity `json:"severity"`
	Message  string      `json:"message"`
}

// WaveItem is one feature scheduled into a Wave.
type WaveItem struct {
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Phase         taxonomy.Phase `json:"phase"`
	Action        string         `json:"action"`
	NeedsWorktree bool           `json:"needs_worktree"`
	BlockedBy     []string       `json:"blocked_by"`
}

// Wave is one level of the dependency-ordered schedule: every item in
// a wave can run in parallel once every earlier wave has completed.
type Wave struct {
	Number          int        `json:"number"`
	Label           string     `json:"label"`
	Items           []WaveItem `json:"items"`
	NeedsWorktrees  bool       `json:"needs_worktrees"`
}

// BlockedFeature is a feature excluded from waves because it (or a
// transitive dependency) is stuck at a human gate.
type BlockedFeature struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// MilestoneProgress tallies feature counts by coarse status.
type MilestoneProgress struct {
	Total      int `json:"total"`
	Released   int `json:"released"`
	InProgress int `json:"in_progress"`
	Blocked    int `json:"blocked"`
	Pending    int `json:"pending"`
}

// Result is the full output of Prepare.
type Result struct {
	ProjectPhase      ProjectPhase       `json:"project_phase"`
	Milestone         string             `json:"milestone,omitempty"`
	MilestoneTitle    string             `json:"milestone_title,omitempty"`
	MilestoneProgress *MilestoneProgress `json:"milestone_progress,omitempty"`
	Gaps              []Gap              `json:"gaps"`
	Waves             []Wave             `json:"waves"`
	Blocked           []BlockedFeature   `json:"blocked"`
	NextCommands      []string           `json:"next_commands"`
}

// CurrentProjectPhase inspects state, milestones, and ponders to infer
// the project's current lifecycle position.
func CurrentProjectPhase(root string) (ProjectPhase, error) {
	st, err := state.Load(root)
	if err != nil {
		return ProjectPhase{}, err
	}

	for _, slug := range st.Milestones {
		m, err := milestone.Load(root, slug)
		if err != nil {
			continue
		}
		if m.Status != milestone.StatusActive {
			continue
		}

		var nonArchived []feature.Feature
		for _, fs := range m.Features {
			f, err := feature.Load(root, fs)
			if err != nil {
				continue
			}
			if !f.Archived {
				nonArchived = append(nonArchived, f)
			}
		}

		if len(nonArchived) > 0 && allReleased(nonArchived) {
			return ProjectPhase{Kind: PhaseVerifying, Milestone: m.Slug}, nil
		}
		if anyPastPlanned(nonArchived) {
			return ProjectPhase{Kind: PhaseExecuting, Milestone: m.Slug}, nil
		}
		return ProjectPhase{Kind: PhasePlanning, Milestone: m.Slug}, nil
	}

	entries, err := ponder.List(root)
	if err != nil {
		return ProjectPhase{}, err
	}
	if ponder.ActiveCount(entries) > 0 {
		return ProjectPhase{Kind: PhasePondering}, nil
	}
	return ProjectPhase{Kind: PhaseIdle}, nil
}

func allReleased(fs []feature.Feature) bool {
	for _, f := range fs {
		if f.Phase != taxonomy.Released {
			return false
		}
	}
	return true
}

func anyPastPlanned(fs []feature.Feature) bool {
	for _, f := range fs {
		if f.Phase > taxonomy.Planned {
			return true
		}
	}
	return false
}

type classifiedFeature struct {
	feature   feature.Feature
	action    taxonomy.ActionType
	actionStr string
}

// Prepare surveys a milestone: finds readiness gaps and schedules its
// features into dependency-ordered waves. If milestoneSlug is empty,
// the target milestone is inferred from CurrentProjectPhase; an Idle
// or Pondering project has nothing to prepare and Prepare returns an
// empty Result with that phase.
func Prepare(root, milestoneSlug string) (Result, error) {
	phase, err := CurrentProjectPhase(root)
	if err != nil {
		return Result{}, err
	}

	targetSlug := milestoneSlug
	if targetSlug == "" {
		switch phase.Kind {
		case PhasePlanning, PhaseExecuting, PhaseVerifying:
			targetSlug = phase.Milestone
		default:
			return Result{ProjectPhase: phase, Gaps: []Gap{}, Waves: []Wave{}, Blocked: []BlockedFeature{}, NextCommands: []string{}}, nil
		}
	}

	m, err := milestone.Load(root, targetSlug)
	if err != nil {
		return Result{}, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return Result{}, err
	}
	st, err := state.Load(root)
	if err != nil {
		return Result{}, err
	}
	classify := classifier.New(rules.DefaultRules())

	allFeatures, err := feature.List(root)
	if err != nil {
		return Result{}, err
	}
	allSlugs := make(map[string]bool, len(allFeatures))
	for _, f := range allFeatures {
		allSlugs[f.Slug] = true
	}

	var gaps []Gap
	features := make(map[string]classifiedFeature)

	for _, fs := range m.Features {
		f, err := feature.Load(root, fs)
		if err != nil {
			gaps = append(gaps, Gap{
				Feature:  fs,
				Severity: SeverityBlocker,
				Message:  fmt.Sprintf("Feature %q listed in milestone but not found", fs),
			})
			continue
		}
		if f.Archived {
			continue
		}

		if f.Description == "" {
			gaps = append(gaps, Gap{
				Feature:  fs,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Feature %q has no description", fs),
			})
		}

		for _, dep := range f.Dependencies {
			if !allSlugs[dep] {
				gaps = append(gaps, Gap{
					Feature:  fs,
					Severity: SeverityBlocker,
					Message:  fmt.Sprintf("Feature %q depends on %q which does not exist", fs, dep),
				})
			}
		}

		ctx := &classifier.EvalContext{Feature: &f, State: &st, Config: cfg, Root: root}
		c := classify.Classify(ctx)

		features[fs] = classifiedFeature{feature: f, action: c.Action, actionStr: c.Action.String()}
	}

	completed := map[string]bool{}
	hitlBlocked := map[string]bool{}
	for slug, info := range features {
		if info.feature.Phase == taxonomy.Released || info.action == taxonomy.Done {
			completed[slug] = true
		} else if info.action == taxonomy.WaitForApproval || info.action == taxonomy.UnblockDependency {
			hitlBlocked[slug] = true
		}
	}

	blockedSet := map[string]bool{}
	for s := range hitlBlocked {
		blockedSet[s] = true
	}
	for {
		changed := false
		for slug, info := range features {
			if completed[slug] || blockedSet[slug] {
				continue
			}
			depBlocked := false
			for _, dep := range info.feature.Dependencies {
				if blockedSet[dep] {
					if _, ok := features[dep]; ok {
						depBlocked = true
						break
					}
				}
			}
			if depBlocked {
				blockedSet[slug] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	var blockedFeatures []BlockedFeature
	for slug := range blockedSet {
		info, ok := features[slug]
		if !ok {
			continue
		}
		var reason string
		if hitlBlocked[slug] {
			switch info.action {
			case taxonomy.WaitForApproval:
				reason = "Waiting for human approval"
			case taxonomy.UnblockDependency:
				reason = "Blocked by unresolved dependency"
			default:
				reason = "Blocked"
			}
		} else {
			var blockingDep string
			for _, d := range info.feature.Dependencies {
				if blockedSet[d] {
					blockingDep = d
					break
				}
			}
			reason = fmt.Sprintf("Depends on blocked feature %q", blockingDep)
		}
		blockedFeatures = append(blockedFeatures, BlockedFeature{Slug: slug, Title: info.feature.Title, Reason: reason})
	}
	sort.Slice(blockedFeatures, func(i, j int) bool { return blockedFeatures[i].Slug < blockedFeatures[j].Slug })

	for slug := range hitlBlocked {
		info, ok := features[slug]
		if !ok {
			continue
		}
		dependents := 0
		for _, other := range features {
			if !completed[other.feature.Slug] {
				for _, d := range other.feature.Dependencies {
					if d == slug {
						dependents++
						break
					}
				}
			}
		}
		if dependents > 0 {
			gaps = append(gaps, Gap{
				Feature:  slug,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("Feature %q is at a human gate and blocking %d dependent feature(s)", info.feature.Title, dependents),
			})
		}
	}

	candidates := map[string]bool{}
	for slug := range features {
		if !completed[slug] && !blockedSet[slug] {
			candidates[slug] = true
		}
	}

	adj := map[string][]string{}
	inDegree := map[string]int{}
	for slug := range candidates {
		adj[slug] = nil
		inDegree[slug] = 0
	}
	for slug := range candidates {
		info := features[slug]
		for _, dep := range info.feature.Dependencies {
			if candidates[dep] {
				adj[dep] = append(adj[dep], slug)
				inDegree[slug]++
			}
		}
	}

	var waveGroups [][]string
	remaining := len(candidates)

	var current []string
	for slug, deg := range inDegree {
		if deg == 0 {
			current = append(current, slug)
		}
	}
	sort.Strings(current)

	for len(current) > 0 {
		remaining -= len(current)

		var next []string
		for _, slug := range current {
			for _, dependent := range adj[slug] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		waveGroups = append(waveGroups, current)
		sort.Strings(next)
		current = next
	}

	if remaining > 0 {
		processed := map[string]bool{}
		for _, g := range waveGroups {
			for _, s := range g {
				processed[s] = true
			}
		}
		var cycled []string
		for slug := range candidates {
			if !processed[slug] {
				cycled = append(cycled, slug)
			}
		}
		sort.Strings(cycled)
		first := ""
		if len(cycled) > 0 {
			first = cycled[0]
		}
		gaps = append(gaps, Gap{
			Feature:  first,
			Severity: SeverityBlocker,
			Message:  fmt.Sprintf("Dependency cycle detected among features: %s", joinStrings(cycled, ", ")),
		})
	}

	assigned := map[string]bool{}
	waves := make([]Wave, 0, len(waveGroups))
	for i, slugs := range waveGroups {
		items := make([]WaveItem, 0, len(slugs))
		for _, slug := range slugs {
			info, ok := features[slug]
			if !ok {
				continue
			}
			var blockedBy []string
			for _, dep := range info.feature.Dependencies {
				if assigned[dep] {
					blockedBy = append(blockedBy, dep)
				}
			}
			items = append(items, WaveItem{
				Slug:          slug,
				Title:         info.feature.Title,
				Phase:         info.feature.Phase,
				Action:        info.actionStr,
				NeedsWorktree: info.action.IsHeavy(),
				BlockedBy:     blockedBy,
			})
		}
		for _, slug := range slugs {
			assigned[slug] = true
		}

		needsWorktrees := false
		for _, it := range items {
			if it.NeedsWorktree {
				needsWorktrees = true
				break
			}
		}

		waves = append(waves, Wave{
			Number:         i + 1,
			Label:          waveLabel(items),
			Items:          items,
			NeedsWorktrees: needsWorktrees,
		})
	}

	var releasedCount, blockedCount, inProgressCount, pendingCount int
	for slug, info := range features {
		switch {
		case info.feature.Phase == taxonomy.Released || info.action == taxonomy.Done:
			releasedCount++
		case blockedSet[slug]:
			blockedCount++
		case info.feature.Phase > taxonomy.Draft:
			inProgressCount++
		default:
			pendingCount++
		}
	}
	progress := &MilestoneProgress{
		Total:      len(features),
		Released:   releasedCount,
		InProgress: inProgressCount,
		Blocked:    blockedCount,
		Pending:    pendingCount,
	}

	var nextCommands []string
	if len(waves) > 0 {
		wave1 := waves[0]
		milestoneFresh := releasedCount == 0 && inProgressCount == 0
		actionSet := map[string]bool{}
		for _, it := range wave1.Items {
			actionSet[it.Action] = true
		}
		uniformAction := len(actionSet) == 1
		if milestoneFresh && uniformAction && len(wave1.Items) > 1 {
			nextCommands = []string{fmt.Sprintf("/sdlc-prepare %s", m.Slug)}
		} else {
			for _, it := range wave1.Items {
				nextCommands = append(nextCommands, fmt.Sprintf("/sdlc-run %s", it.Slug))
			}
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Severity < gaps[j].Severity })

	if gaps == nil {
		gaps = []Gap{}
	}
	if waves == nil {
		waves = []Wave{}
	}
	if blockedFeatures == nil {
		blockedFeatures = []BlockedFeature{}
	}
	if nextCommands == nil {
		nextCommands = []string{}
	}

	return Result{
		ProjectPhase:      phase,
		Milestone:         m.Slug,
		MilestoneTitle:    m.Title,
		MilestoneProgress: progress,
		Gaps:              gaps,
		Waves:             waves,
		Blocked:           blockedFeatures,
		NextCommands:      nextCommands,
	}, nil
}

func waveLabel(items []WaveItem) string {
	if len(items) == 0 {
		return "Empty"
	}

	var planning, implementation, review int
	for _, item := range items {
		switch item.Phase {
		case taxonomy.Draft, taxonomy.Specified, taxonomy.Planned, taxonomy.Ready:
			planning++
		case taxonomy.Implementation:
			implementation++
		case taxonomy.Review, taxonomy.Audit, taxonomy.Qa, taxonomy.Merge:
			review++
		}
	}

	max := planning
	if implementation > max {
		max = implementation
	}
	if review > max {
		max = review
	}
	if max == 0 {
		return "Mixed"
	}

	switch {
	case planning == max && implementation < max && review < max:
		return "Planning"
	case implementation == max && planning < max && review < max:
		return "Implementation"
	case review == max && planning < max && implementation < max:
		return "Review"
	default:
		return "Mixed"
	}
}

func joinStrings(ss []string, sep string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}
