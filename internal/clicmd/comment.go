package clicmd

import (
	"fmt"

	"github.com/sdlcstack/sdlc/internal/comment"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/spf13/cobra"
)

func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage feature comments",
	}
	cmd.AddCommand(newCommentAddCmd())
	cmd.AddCommand(newCommentResolveCmd())
	cmd.AddCommand(newCommentListCmd())
	return cmd
}

func newCommentAddCmd() *cobra.Command {
	var flag, taskID, author string
	cmd := &cobra.Command{
		Use:   "add <feature-slug> <body>",
		Short: "Add a comment to a feature or one of its tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}

			commentFlag, err := taxonomy.ParseCommentFlag(flag)
			if err != nil {
				return err
			}
			target := comment.FeatureTarget()
			if taskID != "" {
				target = comment.TaskTarget(taskID)
			}
			if author == "" {
				author = "cli"
			}

			id := f.AddComment(args[1], commentFlag, target, author)
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(map[string]string{"comment_id": id})
			}
			fmt.Printf("Added comment %s to %q.\n", id, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&flag, "flag", "none", "comment flag (none, fyi, question, blocker)")
	cmd.Flags().StringVar(&taskID, "task", "", "attach the comment to this task instead of the feature")
	cmd.Flags().StringVar(&author, "author", "", "comment author")
	return cmd
}

func newCommentResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <feature-slug> <comment-id>",
		Short: "Resolve a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			if err := f.ResolveComment(args[1]); err != nil {
				return err
			}
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Comment %s on %q resolved.\n", args[1], args[0])
			return nil
		},
	}
	return cmd
}

func newCommentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <feature-slug>",
		Short: "List comments on a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := feature.Load(projectRoot(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f.Comments)
			}
			if len(f.Comments) == 0 {
				fmt.Println("No comments.")
				return nil
			}
			rows := make([][]string, 0, len(f.Comments))
			for _, c := range f.Comments {
				status := "open"
				if c.ResolvedAt != nil {
					status = "resolved"
				}
				rows = append(rows, []string{c.ID, c.Flag.String(), status, c.Body})
			}
			printTable([]string{"ID", "FLAG", "STATUS", "BODY"}, rows)
			return nil
		},
	}
	return cmd
}
