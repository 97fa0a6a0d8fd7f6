package main

import (
	"fmt"

	"github.com/librescoot/tinyfsm"
	"github.com/librescoot/tinyfsm/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		format string
		after  []string
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Export the state diagram",
		Long: `Outputs a Mermaid state diagram (or Graphviz DOT with --format dot) of the
definition. With --after, the events are replayed first and the states passed
through and the state reached are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadSilent(args[0])
			if err != nil {
				return err
			}

			var overlay *graph.Overlay
			if len(after) > 0 {
				m := tinyfsm.New(def, tinyfsm.WithLogger(a.logger))
				overlay = &graph.Overlay{Visited: []tinyfsm.StateID{m.CurrentState()}}
				for _, ev := range after {
					if r := m.Fire(tinyfsm.EventID(ev)); r.OK() {
						overlay.Visited = append(overlay.Visited, r.To)
					}
				}
				overlay.Current = m.CurrentState()
			}

			switch format {
			case "mermaid":
				fmt.Fprint(cmd.OutOrStdout(), graph.Mermaid(*def, overlay))
			case "dot":
				fmt.Fprint(cmd.OutOrStdout(), graph.DOT(*def, overlay))
			default:
				return fmt.Errorf("unknown graph format %q (want mermaid or dot)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "mermaid", "Output format: mermaid or dot")
	cmd.Flags().StringSliceVar(&after, "after", nil, "Events to replay before rendering, comma separated")
	return cmd
}
