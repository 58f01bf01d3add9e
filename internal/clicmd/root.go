package clicmd

import (
	"fmt"
	"os"

	"github.com/sdlcstack/sdlc/internal/cliconfig"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	jsonOutput bool
	root       string
)

// NewRootCmd builds the sdlc command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sdlc",
		Short:         "Deterministic SDLC decision engine",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON instead of text")
	cmd.PersistentFlags().StringVar(&root, "root", "", "project root (defaults to CWD, or $SDLC_PROJECT_ROOT)")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newFeatureCmd())
	cmd.AddCommand(newArtifactCmd())
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newCommentCmd())
	cmd.AddCommand(newMilestoneCmd())
	cmd.AddCommand(newEscalationCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newPrepareCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

// projectRoot resolves the effective project root: --root flag, then
// the CLI's own config (which itself falls back to SDLC_PROJECT_ROOT
// or the current directory).
func projectRoot() string {
	if root != "" {
		return root
	}
	cfg, err := cliconfig.Load("")
	if err == nil && cfg.Project.Root != "" {
		return cfg.Project.Root
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// Execute runs the CLI, writing errors to stderr and setting the
// process exit code on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sdlc: %v\n", err)
		os.Exit(1)
	}
}
