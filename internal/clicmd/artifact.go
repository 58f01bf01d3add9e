package clicmd

import (
	"fmt"
	"time"

	"github.com/sdlcstack/sdlc/internal/feature"
	"github.com/sdlcstack/sdlc/internal/sdlcerr"
	"github.com/sdlcstack/sdlc/internal/taxonomy"
	"github.com/spf13/cobra"
)

func newArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Manage feature artifacts",
	}
	cmd.AddCommand(newArtifactDraftCmd())
	cmd.AddCommand(newArtifactApproveCmd())
	cmd.AddCommand(newArtifactRejectCmd())
	cmd.AddCommand(newArtifactNeedsFixCmd())
	cmd.AddCommand(newArtifactWaiveCmd())
	return cmd
}

func loadFeatureAndArtifact(slug, artifactType string) (feature.Feature, taxonomy.ArtifactType, error) {
	r := projectRoot()
	f, err := feature.Load(r, slug)
	if err != nil {
		return feature.Feature{}, 0, err
	}
	t, err := taxonomy.ParseArtifactType(artifactType)
	if err != nil {
		return feature.Feature{}, 0, err
	}
	return f, t, nil
}

func newArtifactDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft <feature-slug> <type>",
		Short: "Mark an artifact as drafted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := loadFeatureAndArtifact(args[0], args[1])
			if err != nil {
				return err
			}
			if err := f.MarkArtifactDraft(t); err != nil {
				return err
			}
			return saveAndReportArtifact(&f, args[0], "drafted")
		},
	}
	return cmd
}

func newArtifactApproveCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "approve <feature-slug> <type>",
		Short: "Approve an artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := loadFeatureAndArtifact(args[0], args[1])
			if err != nil {
				return err
			}
			if by == "" {
				by = "cli"
			}
			if err := f.ApproveArtifact(t, by); err != nil {
				return err
			}
			return saveAndReportArtifact(&f, args[0], "approved")
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "approver identity")
	return cmd
}

func newArtifactRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject <feature-slug> <type> <reason>",
		Short: "Reject an artifact",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := loadFeatureAndArtifact(args[0], args[1])
			if err != nil {
				return err
			}
			if err := f.RejectArtifact(t, args[2]); err != nil {
				return err
			}
			return saveAndReportArtifact(&f, args[0], "rejected")
		},
	}
	return cmd
}

func newArtifactNeedsFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "needs-fix <feature-slug> <type> <reason>",
		Short: "Send an artifact back for fixes after review",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := loadFeatureAndArtifact(args[0], args[1])
			if err != nil {
				return err
			}
			a := f.Artifact(t)
			if a == nil {
				return sdlcerr.Wrapf(sdlcerr.ErrArtifactNotFound, "%q", t.String())
			}
			a.NeedsFix(args[2])
			f.UpdatedAt = time.Now().UTC()
			return saveAndReportArtifact(&f, args[0], "sent back for fixes")
		},
	}
	return cmd
}

func newArtifactWaiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waive <feature-slug> <type> <reason>",
		Short: "Waive an artifact that was never drafted",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := loadFeatureAndArtifact(args[0], args[1])
			if err != nil {
				return err
			}
			if err := f.WaiveArtifact(t, args[2]); err != nil {
				return err
			}
			return saveAndReportArtifact(&f, args[0], "waived")
		},
	}
	return cmd
}

func saveAndReportArtifact(f *feature.Feature, slug, verb string) error {
	if err := f.Save(projectRoot()); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(f)
	}
	fmt.Printf("Artifact on %q %s.\n", slug, verb)
	return nil
}
