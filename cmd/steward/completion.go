package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/steward/internal/messages"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       messages.CompletionUse,
		Short:     messages.CompletionShort,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rootCmd := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(out, true)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf(messages.CompletionUnsupportedShellFmt, args[0])
			}
		},
	}
}
