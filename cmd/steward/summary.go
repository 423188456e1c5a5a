package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/render"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.SummaryUse,
		Short: messages.SummaryShort,
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
			for i, p := range profiles {
				if i > 0 {
					_, _ = fmt.Fprintln(out)
				}
				render.Summary(out, p.Summary())
			}
			return sess.flushWarnings()
		},
	}
}
