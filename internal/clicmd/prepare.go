package clicmd

import (
	"fmt"

	"github.com/sdlcstack/sdlc/internal/prepare"
	"github.com/spf13/cobra"
)

func newPrepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare [milestone-slug]",
		Short: "Show the project phase, or a milestone's wave plan and gaps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()

			if len(args) == 0 {
				phase, err := prepare.CurrentProjectPhase(r)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(phase)
				}
				if phase.Milestone == "" {
					fmt.Println(phase.Kind)
				} else {
					fmt.Printf("%s (%s)\n", phase.Kind, phase.Milestone)
				}
				return nil
			}

			result, err := prepare.Prepare(r, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			printPrepareResult(result)
			return nil
		},
	}
	return cmd
}

func printPrepareResult(result prepare.Result) {
	fmt.Printf("Milestone: %s — %s\n", result.Milestone, result.MilestoneTitle)
	if result.MilestoneProgress != nil {
		p := result.MilestoneProgress
		fmt.Printf("Progress:  %d/%d released, %d in progress, %d blocked, %d pending\n",
			p.Released, p.Total, p.InProgress, p.Blocked, p.Pending)
	}

	for _, gap := range result.Gaps {
		fmt.Printf("[%s] %s: %s\n", gap.Severity, gap.Feature, gap.Message)
	}

	for _, wave := range result.Waves {
		fmt.Printf("Wave %d (%s):\n", wave.Number, wave.Label)
		for _, item := range wave.Items {
			fmt.Printf("  %s — %s (%s)\n", item.Slug, item.Title, item.Action)
		}
	}

	for _, b := range result.Blocked {
		fmt.Printf("blocked: %s — %s\n", b.Slug, b.Reason)
	}

	for _, cmd := range result.NextCommands {
		fmt.Printf("next: %s\n", cmd)
	}
}
