package clicmd

import (
	"fmt"

	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/spf13/cobra"
)

func newFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Manage features",
	}
	cmd.AddCommand(newFeatureCreateCmd())
	cmd.AddCommand(newFeatureListCmd())
	cmd.AddCommand(newFeatureInfoCmd())
	cmd.AddCommand(newFeatureTransitionCmd())
	cmd.AddCommand(newFeatureBlockCmd())
	cmd.AddCommand(newFeatureUnblockCmd())
	return cmd
}

func newFeatureCreateCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a new feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			r := projectRoot()
			if title == "" {
				title = slug
			}

			f, err := feature.Create(r, slug, title, description)
			if err != nil {
				return err
			}

			st, err := state.Load(r)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}
			st.AddActiveFeature(slug)
			if err := st.Save(r); err != nil {
				return fmt.Errorf("saving state: %w", err)
			}

			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Created feature %q (%s).\n", slug, f.Phase)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "feature title (defaults to slug)")
	cmd.Flags().StringVar(&description, "description", "", "feature description")
	return cmd
}

func newFeatureListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all features",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			features, err := feature.List(r)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(features)
			}
			if len(features) == 0 {
				fmt.Println("No features.")
				return nil
			}
			rows := make([][]string, 0, len(features))
			for _, f := range features {
				rows = append(rows, []string{f.Slug, f.Title, f.Phase.String()})
			}
			printTable([]string{"SLUG", "TITLE", "PHASE"}, rows)
			return nil
		},
	}
	return cmd
}

func newFeatureInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <slug>",
		Short: "Show feature details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := feature.Load(projectRoot(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Feature: %s — %s\n", f.Slug, f.Title)
			fmt.Printf("Phase:   %s\n", f.Phase)
			fmt.Printf("Tasks:   %d\n", len(f.Tasks))
			fmt.Printf("Blocked: %v\n", f.IsBlocked())
			return nil
		},
	}
	return cmd
}

func newFeatureTransitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transition <slug> <phase>",
		Short: "Advance a feature to the named phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			slug, phaseName := args[0], args[1]

			f, err := feature.Load(r, slug)
			if err != nil {
				return err
			}
			target, err := taxonomy.ParsePhase(phaseName)
			if err != nil {
				return err
			}
			cfg, err := config.Load(r)
			if err != nil {
				return err
			}
			if err := f.Transition(target, cfg); err != nil {
				return err
			}
			if err := f.Save(r); err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Feature %q transitioned to %s.\n", slug, target)
			return nil
		},
	}
	return cmd
}

func newFeatureBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block <slug> <reason>",
		Short: "Record a blocker on a feature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			f.Blockers = append(f.Blockers, args[1])
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Feature %q blocked: %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

func newFeatureUnblockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unblock <slug>",
		Short: "Clear every blocker on a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			f.Blockers = nil
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Feature %q unblocked.\n", args[0])
			return nil
		},
	}
	return cmd
}
