package main

import (
	"fmt"

	"github.com/librescoot/tinyfsm"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "run FILE [EVENT...]",
		Short: "Fire events against a definition",
		Long: `Creates a machine from the definition and fires the given events in order,
printing each hook as it runs and the outcome of every event.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			def, err := loadTraced(args[0], out, a.logger)
			if err != nil {
				return err
			}

			m := tinyfsm.New(def, tinyfsm.WithLogger(a.logger))
			for _, ev := range args[1:] {
				r := m.Fire(tinyfsm.EventID(ev))
				fmt.Fprintln(out, describe(r))
				if strict && !r.OK() {
					return r.Err()
				}
			}

			fmt.Fprintf(out, "final state: %s\n", m.CurrentState())
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Stop with an error at the first event that is not applied")
	return cmd
}
