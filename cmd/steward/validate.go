package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/platform/registry"
	"github.com/conn-castle/steward/internal/profile"
	"github.com/conn-castle/steward/internal/warnings"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ValidateUse,
		Short: messages.ValidateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(opts.settingsPath)
			if err != nil {
				return err
			}
			configPath, err := resolveConfigPath(cmd, opts)
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			selected, err := profile.Select(cfg, opts.profiles)
			if err != nil {
				return err
			}
			templates := 0
			for _, p := range selected {
				schema, err := registry.Schema(p.Type)
				if err != nil {
					return err
				}
				if _, err := profile.Validate(p, schema); err != nil {
					return err
				}
				templates += p.Templates.Len()
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.RenderValidConfigFmt+"\n", configPath, len(selected), templates)

			sess := &session{opts: opts, settings: s, stderr: cmd.ErrOrStderr()}
			sess.warnings = warnings.CheckPolicy(&config.Config{Profiles: selected})
			return sess.flushWarnings()
		},
	}
}
