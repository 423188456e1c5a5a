package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/render"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var (
		showDiff  bool
		diffLines int
		exitCode  bool
	)
	cmd := &cobra.Command{
		Use:   messages.PlanUse,
		Short: messages.PlanShort,
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
			pending := false
			for _, p := range profiles {
				pl, err := p.Plan()
				if err != nil {
					return err
				}
				render.Plan(out, pl)
				if showDiff {
					render.Diff(out, pl, diffLines)
				}
				if len(pl.Steps()) > 0 {
					pending = true
				}
			}
			if err := sess.flushWarnings(); err != nil {
				return err
			}
			if exitCode && pending {
				return &SilentExitError{Code: 2}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, messages.PlanFlagDiff)
	cmd.Flags().IntVar(&diffLines, "diff-lines", render.DefaultDiffMaxLines, messages.PlanFlagLines)
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, messages.PlanFlagExitCode)
	return cmd
}
