// Package rules supplies the classifier's default, priority-ordered
// decision table. Each Rule pairs a condition over an EvalContext with
// the action to recommend when it matches; DefaultRules returns them
// in the fixed order the classifier evaluates — most urgent (blocked
// dependencies, unresolved blocker comments) first, most terminal
// (released) last.
package rules

import (
	"fmt"
	"strings"

	"github.com/sdlcstack/sdlc/internal/classifier"
	"github.com/sdlcstack/sdlc/internal/task"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
)

func isBlocked(ctx *classifier.EvalContext) bool {
	return ctx.Feature.IsBlocked()
}

func artifactMissing(ctx *classifier.EvalContext, t taxonomy.ArtifactType) bool {
	a := ctx.Feature.Artifact(t)
	return a == nil || a.Status == taxonomy.Missing
}

func artifactNeedsApproval(ctx *classifier.EvalContext, t taxonomy.ArtifactType) bool {
	a := ctx.Feature.Artifact(t)
	return a != nil && (a.Status == taxonomy.ArtifactDraft || a.Status == taxonomy.NeedsFix)
}

func artifactApproved(ctx *classifier.EvalContext, t taxonomy.ArtifactType) bool {
	a := ctx.Feature.Artifact(t)
	return a != nil && a.Status == taxonomy.Approved
}

func artifactRejected(ctx *classifier.EvalContext, t taxonomy.ArtifactType) bool {
	a := ctx.Feature.Artifact(t)
	return a != nil && a.Status == taxonomy.Rejected
}

func inPhase(ctx *classifier.EvalContext, p taxonomy.Phase) bool {
	return ctx.Feature.Phase == p
}

func hasPendingTask(ctx *classifier.EvalContext) bool {
	return task.HasPending(ctx.Feature.Tasks)
}

func featureDir(ctx *classifier.EvalContext) string {
	return ".sdlc/features/" + ctx.Feature.Slug
}

func outputPathFor(t taxonomy.ArtifactType) func(ctx *classifier.EvalContext) string {
	return func(ctx *classifier.EvalContext) string {
		a := ctx.Feature.Artifact(t)
		if a != nil {
			return a.Path
		}
		return featureDir(ctx) + "/" + t.String() + ".md"
	}
}

func hasBlockerComments(ctx *classifier.EvalContext) bool {
	for _, c := range ctx.Feature.Comments {
		if c.IsPending() {
			return true
		}
	}
	return false
}

func blockerCommentsMessage(ctx *classifier.EvalContext) string {
	var parts []string
	for _, c := range ctx.Feature.Comments {
		if !c.IsPending() {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", c.ID, c.Body))
	}
	return fmt.Sprintf("Feature %q has %d unresolved blocker comment(s): %s", ctx.Feature.Slug, len(parts), strings.Join(parts, "; "))
}

func firstPendingTaskID(ctx *classifier.EvalContext) string {
	t, ok := task.NextPending(ctx.Feature.Tasks)
	if !ok {
		return ""
	}
	return t.ID
}

func phasePtr(p taxonomy.Phase) *taxonomy.Phase { return &p }

func constMessage(msg string) func(ctx *classifier.EvalContext) string {
	return func(ctx *classifier.EvalContext) string { return msg }
}

func constCommand(cmd string) func(ctx *classifier.EvalContext) string {
	return func(ctx *classifier.EvalContext) string { return cmd }
}

// DefaultRules returns the full, priority-ordered decision table.
func DefaultRules() []classifier.Rule {
	return []classifier.Rule{
		{
			ID:          "blocked_dependency",
			Condition:   isBlocked,
			Action:      taxonomy.UnblockDependency,
			Message:     func(ctx *classifier.EvalContext) string { return fmt.Sprintf("Feature %q is blocked on: %s", ctx.Feature.Slug, strings.Join(ctx.Feature.Blockers, ", ")) },
			NextCommand: constCommand("sdlc feature unblock"),
		},
		{
			ID:          "blocker_comment",
			Condition:   hasBlockerComments,
			Action:      taxonomy.WaitForApproval,
			Message:     blockerCommentsMessage,
			NextCommand: constCommand("sdlc comment resolve"),
		},
		{
			ID:          "needs_spec",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Draft) && artifactMissing(ctx, taxonomy.Spec) },
			Action:      taxonomy.CreateSpec,
			Message:     constMessage("Create the spec artifact."),
			NextCommand: constCommand("sdlc artifact draft spec"),
			OutputPath:  outputPathFor(taxonomy.Spec),
		},
		{
			ID:          "spec_needs_approval",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Draft) && artifactNeedsApproval(ctx, taxonomy.Spec) },
			Action:      taxonomy.ApproveSpec,
			Message:     constMessage("Spec is ready for review."),
			NextCommand: constCommand("sdlc artifact approve spec"),
			OutputPath:  outputPathFor(taxonomy.Spec),
		},
		{
			ID:          "spec_rejected",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Draft) && artifactRejected(ctx, taxonomy.Spec) },
			Action:      taxonomy.CreateSpec,
			Message:     constMessage("Spec was rejected; revise and resubmit."),
			NextCommand: constCommand("sdlc artifact draft spec"),
			OutputPath:  outputPathFor(taxonomy.Spec),
		},
		{
			ID:           "spec_approved",
			Condition:    func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Draft) && artifactApproved(ctx, taxonomy.Spec) },
			Action:       taxonomy.ApproveSpec,
			Message:      constMessage("Spec approved; advancing to Specified."),
			NextCommand:  constCommand("sdlc feature transition specified"),
			TransitionTo: phasePtr(taxonomy.Specified),
		},
		{
			ID:          "needs_design",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Specified) && artifactMissing(ctx, taxonomy.Design) },
			Action:      taxonomy.CreateDesign,
			Message:     constMessage("Create the design artifact."),
			NextCommand: constCommand("sdlc artifact draft design"),
			OutputPath:  outputPathFor(taxonomy.Design),
		},
		{
			ID:          "design_needs_approval",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Specified) && artifactNeedsApproval(ctx, taxonomy.Design) },
			Action:      taxonomy.ApproveDesign,
			Message:     constMessage("Design is ready for review."),
			NextCommand: constCommand("sdlc artifact approve design"),
			OutputPath:  outputPathFor(taxonomy.Design),
		},
		{
			ID:          "design_rejected",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Specified) && artifactRejected(ctx, taxonomy.Design) },
			Action:      taxonomy.CreateDesign,
			Message:     constMessage("Design was rejected; revise and resubmit."),
			NextCommand: constCommand("sdlc artifact draft design"),
			OutputPath:  outputPathFor(taxonomy.Design),
		},
		{
			ID: "needs_tasks",
			Condition: func(ctx *classifier.EvalContext) bool {
				return inPhase(ctx, taxonomy.Specified) && artifactApproved(ctx, taxonomy.Design) && artifactMissing(ctx, taxonomy.Tasks)
			},
			Action:      taxonomy.CreateTasks,
			Message:     constMessage("Design approved; break the work into tasks."),
			NextCommand: constCommand("sdlc artifact draft tasks"),
			OutputPath:  outputPathFor(taxonomy.Tasks),
		},
		{
			ID: "needs_qa_plan",
			Condition: func(ctx *classifier.EvalContext) bool {
				return inPhase(ctx, taxonomy.Specified) && artifactApproved(ctx, taxonomy.Design) && !artifactMissing(ctx, taxonomy.Tasks) && artifactMissing(ctx, taxonomy.QaPlan)
			},
			Action:      taxonomy.CreateQaPlan,
			Message:     constMessage("Tasks drafted; write the QA plan."),
			NextCommand: constCommand("sdlc artifact draft qa_plan"),
			OutputPath:  outputPathFor(taxonomy.QaPlan),
		},
		{
			ID: "ready_to_plan",
			Condition: func(ctx *classifier.EvalContext) bool {
				return inPhase(ctx, taxonomy.Specified) &&
					artifactApproved(ctx, taxonomy.Design) &&
					artifactApproved(ctx, taxonomy.Tasks) &&
					artifactApproved(ctx, taxonomy.QaPlan)
			},
			Action:       taxonomy.WaitForApproval,
			Message:      constMessage("Design, tasks, and QA plan are all approved; advancing to Planned."),
			NextCommand:  constCommand("sdlc feature transition planned"),
			TransitionTo: phasePtr(taxonomy.Planned),
		},
		{
			ID:           "planned_to_ready",
			Condition:    func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Planned) },
			Action:       taxonomy.ImplementTask,
			Message:      constMessage("Planned; moving into implementation."),
			NextCommand:  constCommand("sdlc feature transition ready"),
			TransitionTo: phasePtr(taxonomy.Ready),
		},
		{
			ID:          "implement_task",
			Condition:   func(ctx *classifier.EvalContext) bool { return (inPhase(ctx, taxonomy.Ready) || inPhase(ctx, taxonomy.Implementation)) && hasPendingTask(ctx) },
			Action:      taxonomy.ImplementTask,
			Message:     func(ctx *classifier.EvalContext) string { return fmt.Sprintf("Implement task %s.", firstPendingTaskID(ctx)) },
			NextCommand: constCommand("sdlc task start"),
			TaskID:      firstPendingTaskID,
		},
		{
			ID: "needs_review",
			Condition: func(ctx *classifier.EvalContext) bool {
				return inPhase(ctx, taxonomy.Ready) && !hasPendingTask(ctx) && artifactMissing(ctx, taxonomy.ArtifactReview)
			},
			Action:       taxonomy.CreateReview,
			Message:      constMessage("All tasks complete; request review."),
			NextCommand:  constCommand("sdlc artifact draft review"),
			OutputPath:   outputPathFor(taxonomy.ArtifactReview),
			TransitionTo: phasePtr(taxonomy.Review),
		},
		{
			ID:          "review_needs_approval",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Review) && artifactNeedsApproval(ctx, taxonomy.ArtifactReview) },
			Action:      taxonomy.ApproveReview,
			Message:     constMessage("Review is ready for approval."),
			NextCommand: constCommand("sdlc artifact approve review"),
			OutputPath:  outputPathFor(taxonomy.ArtifactReview),
		},
		{
			ID:          "fix_review_issues",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Review) && artifactRejected(ctx, taxonomy.ArtifactReview) },
			Action:      taxonomy.FixReviewIssues,
			Message:     constMessage("Review raised issues; fix them."),
			NextCommand: constCommand("sdlc task start"),
		},
		{
			ID:           "review_approved",
			Condition:    func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Review) && artifactApproved(ctx, taxonomy.ArtifactReview) },
			Action:       taxonomy.CreateAudit,
			Message:      constMessage("Review approved; advancing to Audit."),
			NextCommand:  constCommand("sdlc artifact draft audit"),
			OutputPath:   outputPathFor(taxonomy.ArtifactAudit),
			TransitionTo: phasePtr(taxonomy.Audit),
		},
		{
			ID:          "needs_audit",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Audit) && artifactMissing(ctx, taxonomy.ArtifactAudit) },
			Action:      taxonomy.CreateAudit,
			Message:     constMessage("Perform the audit."),
			NextCommand: constCommand("sdlc artifact draft audit"),
			OutputPath:  outputPathFor(taxonomy.ArtifactAudit),
		},
		{
			ID:           "audit_approved",
			Condition:    func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Audit) && artifactApproved(ctx, taxonomy.ArtifactAudit) },
			Action:       taxonomy.RunQa,
			Message:      constMessage("Audit approved; advancing to QA."),
			NextCommand:  constCommand("sdlc artifact draft qa_results"),
			OutputPath:   outputPathFor(taxonomy.QaResults),
			TransitionTo: phasePtr(taxonomy.Qa),
		},
		{
			ID:          "needs_qa",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Qa) && artifactMissing(ctx, taxonomy.QaResults) },
			Action:      taxonomy.RunQa,
			Message:     constMessage("Run QA."),
			NextCommand: constCommand("sdlc artifact draft qa_results"),
			OutputPath:  outputPathFor(taxonomy.QaResults),
		},
		{
			ID:          "qa_needs_approval",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Qa) && artifactNeedsApproval(ctx, taxonomy.QaResults) },
			Action:      taxonomy.ApproveMerge,
			Message:     constMessage("QA results are ready for approval."),
			NextCommand: constCommand("sdlc artifact approve qa_results"),
			OutputPath:  outputPathFor(taxonomy.QaResults),
		},
		{
			ID:          "qa_failed",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Qa) && artifactRejected(ctx, taxonomy.QaResults) },
			Action:      taxonomy.FixReviewIssues,
			Message:     constMessage("QA failed; fix the issues it raised."),
			NextCommand: constCommand("sdlc task start"),
		},
		{
			ID:           "qa_approved",
			Condition:    func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Qa) && artifactApproved(ctx, taxonomy.QaResults) },
			Action:       taxonomy.Merge,
			Message:      constMessage("QA approved; advancing to Merge."),
			NextCommand:  constCommand("sdlc feature merge"),
			TransitionTo: phasePtr(taxonomy.Merge),
		},
		{
			ID:          "do_merge",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Merge) },
			Action:      taxonomy.Merge,
			Message:     constMessage("Merge the feature branch."),
			NextCommand: constCommand("sdlc feature merge"),
		},
		{
			ID:          "released",
			Condition:   func(ctx *classifier.EvalContext) bool { return inPhase(ctx, taxonomy.Released) },
			Action:      taxonomy.Done,
			Message:     constMessage("Feature is released; nothing further to do."),
			NextCommand: constCommand(""),
		},
	}
}
