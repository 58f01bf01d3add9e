package clicmd

import (
	"fmt"

	"github.com/sdlcstack/sdlc/internal/classifier"
	"github.com/sdlcstack/sdlc/internal/config"
	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/rules"
	"github.com/sdlcstack/sdlc/internal/state"
	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <feature-slug>",
		Short: "Classify a feature and print its single next action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := projectRoot()

			f, err := feature.Load(r, args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(r)
			if err != nil {
				return err
			}
			st, err := state.Load(r)
			if err != nil {
				return err
			}

			c := classifier.New(rules.DefaultRules())
			result := c.Classify(&classifier.EvalContext{
				Feature: &f,
				State:   &st,
				Config:  cfg,
				Root:    r,
			})

			if jsonOutput {
				return printJSON(result)
			}
			fmt.Printf("%s: %s\n", args[0], result.Message)
			fmt.Printf("next: %s\n", result.NextCommand)
			return nil
		},
	}
	return cmd
}
