package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a definition for consistency",
		Long: `Loads the definition and reports an undefined initial state, duplicate
state names, duplicate events within a state and transitions to undefined states.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadSilent(args[0])
			if err != nil {
				return err
			}
			if err := def.Validate(); err != nil {
				return fmt.Errorf("validation failed:\n%w", err)
			}
			a.logger.Debug("definition valid", "file", args[0], "states", len(def.States))
			fmt.Fprintln(cmd.OutOrStdout(), "Definition is valid! ✅")
			return nil
		},
	}
}
