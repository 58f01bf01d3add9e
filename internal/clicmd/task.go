package clicmd

import (
	"fmt"
	"time"

	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/task"
	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage feature tasks",
	}
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskStartCmd())
	cmd.AddCommand(newTaskCompleteCmd())
	cmd.AddCommand(newTaskBlockCmd())
	cmd.AddCommand(newTaskEditCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <feature-slug> <title>",
		Short: "Add a task to a feature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			id := f.AddTask(args[1])
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(map[string]string{"task_id": id})
			}
			fmt.Printf("Added task %s to %q.\n", id, args[0])
			return nil
		},
	}
	return cmd
}

func newTaskStartCmd() *cobra.Command {
	return taskActionCmd("start", "Move a task to in-progress", func(f *feature.Feature, id string) error {
		return f.StartTask(id)
	})
}

func newTaskCompleteCmd() *cobra.Command {
	return taskActionCmd("complete", "Mark a task completed", func(f *feature.Feature, id string) error {
		return f.CompleteTask(id)
	})
}

func newTaskBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block <feature-slug> <task-id> <reason>",
		Short: "Block a task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			if err := f.BlockTask(args[1], args[2]); err != nil {
				return err
			}
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Task %s on %q blocked.\n", args[1], args[0])
			return nil
		},
	}
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit <feature-slug> <task-id>",
		Short: "Edit a task's title or description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}

			var titlePtr, descriptionPtr *string
			if cmd.Flags().Changed("title") {
				titlePtr = &title
			}
			if cmd.Flags().Changed("description") {
				descriptionPtr = &description
			}
			if err := task.Edit(f.Tasks, args[1], titlePtr, descriptionPtr); err != nil {
				return err
			}
			f.UpdatedAt = time.Now().UTC()
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Task %s on %q updated.\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new task title")
	cmd.Flags().StringVar(&description, "description", "", "new task description")
	return cmd
}

func taskActionCmd(use, short string, action func(f *feature.Feature, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <feature-slug> <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			if err := action(&f, args[1]); err != nil {
				return err
			}
			if err := f.Save(r); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(f)
			}
			fmt.Printf("Task %s on %q updated.\n", args[1], args[0])
			return nil
		},
	}
}
