package clicmd

import (
	"fmt"

	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var projectName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize .sdlc in the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()
			if projectName == "" {
				projectName = "project"
			}

			cfg := config.New(projectName)
			if err := cfg.Save(r); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			st := state.New(projectName)
			if err := st.Save(r); err != nil {
				return fmt.Errorf("saving state: %w", err)
			}

			if jsonOutput {
				return printJSON(map[string]string{"root": r, "project": projectName})
			}
			fmt.Printf("Initialized .sdlc in %s\n", r)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectName, "project", "", "project name")
	return cmd
}
