package clicmd

import (
	"fmt"

	"github.com/sdlcstack/sdlc/internal/escalation"
	"github.com/spf13/cobra"
)

func newEscalationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escalation",
		Short: "Manage human-in-the-loop escalations",
	}
	cmd.AddCommand(newEscalationCreateCmd())
	cmd.AddCommand(newEscalationListCmd())
	cmd.AddCommand(newEscalationGetCmd())
	cmd.AddCommand(newEscalationResolveCmd())
	return cmd
}

func newEscalationCreateCmd() *cobra.Command {
	var feature string
	cmd := &cobra.Command{
		Use:   "create <kind> <title> <context>",
		Short: "Open a new escalation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := escalation.ParseKind(args[0])
			if err != nil {
				return err
			}
			item, err := escalation.Create(projectRoot(), kind, args[1], args[2], feature)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(item)
			}
			fmt.Printf("Opened escalation %s.\n", item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&feature, "feature", "", "feature this escalation was raised from")
	return cmd
}

func newEscalationListCmd() *cobra.Command {
	var all, resolved bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List escalations",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := escalation.FilterOpen
			if all {
				filter = escalation.FilterAll
			} else if resolved {
				filter = escalation.FilterResolved
			}
			items, err := escalation.List(projectRoot(), filter)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("No escalations.")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, []string{it.ID, it.Kind.String(), it.Status.String(), it.Title})
			}
			printTable([]string{"ID", "KIND", "STATUS", "TITLE"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include resolved escalations")
	cmd.Flags().BoolVar(&resolved, "resolved", false, "show only resolved escalations")
	return cmd
}

func newEscalationGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single escalation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := escalation.Get(projectRoot(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(item)
			}
			fmt.Printf("%s [%s/%s] %s\n%s\n", item.ID, item.Kind, item.Status, item.Title, item.Context)
			return nil
		},
	}
	return cmd
}

func newEscalationResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <id> <resolution>",
		Short: "Resolve an escalation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := escalation.Resolve(projectRoot(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(item)
			}
			fmt.Printf("Escalation %s resolved.\n", item.ID)
			return nil
		},
	}
	return cmd
}
