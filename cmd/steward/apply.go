package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/render"
	"github.com/conn-castle/steward/internal/repository"
)

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var (
		yes       bool
		showDiff  bool
		diffLines int
	)
	cmd := &cobra.Command{
		Use:   messages.ApplyUse,
		Short: messages.ApplyShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			profiles, err := sess.loadProfiles(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range profiles {
				pl, err := p.Plan()
				if err != nil {
					return err
				}
				render.Plan(out, pl)
				steps := pl.Steps()
				if len(steps) == 0 {
					continue
				}
				if showDiff {
					render.Diff(out, pl, diffLines)
				}
				if !yes {
					total := 0
					for _, step := range steps {
						total += len(step.Changes)
					}
					confirmed := false
					title := fmt.Sprintf(messages.PromptApplyTitleFmt, total, p.Name())
					if err := newConfirmer().Confirm(title, messages.PromptApplyDescription, &confirmed); err != nil {
						return err
					}
					if !confirmed {
						_, _ = fmt.Fprintln(out, messages.ApplySkipped)
						continue
					}
				}
				applied, err := p.Apply(cmd.Context(), pl, func(repo *repository.Repository, ch change.Change) {
					render.Applied(out, repo, ch)
				})
				if err != nil {
					return err
				}
				render.ApplyDone(out, p.Name(), applied)
			}
			return sess.flushWarnings()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.ApplyFlagYes)
	cmd.Flags().BoolVar(&showDiff, "diff", false, messages.PlanFlagDiff)
	cmd.Flags().IntVar(&diffLines, "diff-lines", render.DefaultDiffMaxLines, messages.PlanFlagLines)
	return cmd
}
