package clicmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sdlcstack/sdlc/internal/milestone"
	"github.com/sdlcstack/sdlc/internal/prepare"
	"github.com/spf13/cobra"
)

func newMilestoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage milestones",
	}
	cmd.AddCommand(newMilestoneCreateCmd())
	cmd.AddCommand(newMilestoneListCmd())
	cmd.AddCommand(newMilestoneInfoCmd())
	cmd.AddCommand(newMilestoneAddFeatureCmd())
	cmd.AddCommand(newMilestoneRemoveFeatureCmd())
	cmd.AddCommand(newMilestoneReorderCmd())
	cmd.AddCommand(newMilestoneCompleteCmd())
	cmd.AddCommand(newMilestoneCancelCmd())
	cmd.AddCommand(newMilestoneUpdateCmd())
	return cmd
}

func newMilestoneCreateCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a new milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				title = args[0]
			}
			m, err := milestone.Create(projectRoot(), args[0], title)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(m)
			}
			fmt.Printf("Created milestone %q.\n", m.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "milestone title (defaults to slug)")
	return cmd
}

func newMilestoneListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			milestones, err := milestone.List(projectRoot())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(milestones)
			}
			if len(milestones) == 0 {
				fmt.Println("No milestones.")
				return nil
			}
			rows := make([][]string, 0, len(milestones))
			for _, m := range milestones {
				rows = append(rows, []string{m.Slug, m.Title, m.Status.String(), strconv.Itoa(len(m.Features))})
			}
			printTable([]string{"SLUG", "TITLE", "STATUS", "FEATURES"}, rows)
			return nil
		},
	}
	return cmd
}

func newMilestoneInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <slug>",
		Short: "Show milestone details, including the current wave plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			m, err := milestone.Load(r, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				result, err := prepare.Prepare(r, args[0])
				if err != nil {
					return err
				}
				return printJSON(map[string]interface{}{"milestone": m, "prepare": result})
			}

			fmt.Printf("Milestone: %s — %s (%s)\n", m.Slug, m.Title, m.Status)
			fmt.Printf("Features:  %s\n", strings.Join(m.Features, ", "))
			return nil
		},
	}
	return cmd
}

func newMilestoneAddFeatureCmd() *cobra.Command {
	var position int
	cmd := &cobra.Command{
		Use:   "add-feature <milestone-slug> <feature-slug>",
		Short: "Add a feature to a milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			m, err := milestone.Load(r, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("position") {
				m.AddFeatureAt(args[1], position)
			} else {
				m.AddFeature(args[1])
			}
			if err := m.Save(r); err != nil {
				return err
			}
			return printMilestoneResult(&m, args[0], "added feature "+args[1])
		},
	}
	cmd.Flags().IntVar(&position, "position", 0, "insert position (0-indexed)")
	return cmd
}

func newMilestoneRemoveFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-feature <milestone-slug> <feature-slug>",
		Short: "Remove a feature from a milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			m, err := milestone.Load(r, args[0])
			if err != nil {
				return err
			}
			m.RemoveFeature(args[1])
			if err := m.Save(r); err != nil {
				return err
			}
			return printMilestoneResult(&m, args[0], "removed feature "+args[1])
		},
	}
	return cmd
}

func newMilestoneReorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <milestone-slug> <feature-slug>...",
		Short: "Reorder a milestone's features (must name a permutation of the current list)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			m, err := milestone.Load(r, args[0])
			if err != nil {
				return err
			}
			if err := m.ReorderFeatures(args[1:]); err != nil {
				return err
			}
			if err := m.Save(r); err != nil {
				return err
			}
			return printMilestoneResult(&m, args[0], "reordered")
		},
	}
	return cmd
}

func newMilestoneCompleteCmd() *cobra.Command {
	return milestoneLifecycleCmd("complete", "Mark a milestone complete", func(m *milestone.Milestone) { m.Complete() })
}

func newMilestoneCancelCmd() *cobra.Command {
	return milestoneLifecycleCmd("cancel", "Cancel a milestone", func(m *milestone.Milestone) { m.Cancel() })
}

func milestoneLifecycleCmd(use, short string, action func(m *milestone.Milestone)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			m, err := milestone.Load(r, args[0])
			if err != nil {
				return err
			}
			action(&m)
			if err := m.Save(r); err != nil {
				return err
			}
			return printMilestoneResult(&m, args[0], use+"d")
		},
	}
}

func newMilestoneUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <slug> <title>",
		Short: "Rename a milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			m, err := milestone.Load(r, args[0])
			if err != nil {
				return err
			}
			m.UpdateTitle(args[1])
			if err := m.Save(r); err != nil {
				return err
			}
			return printMilestoneResult(&m, args[0], "renamed")
		},
	}
	return cmd
}

func printMilestoneResult(m *milestone.Milestone, slug, verb string) error {
	if jsonOutput {
		return printJSON(m)
	}
	fmt.Printf("Milestone %q %s.\n", slug, verb)
	return nil
}
