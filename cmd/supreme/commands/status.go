package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/syncsphere/supreme/pkg/supreme"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show engine registry status",
		Long: `Display the status of every registered engine: liveness, priority,
and declared capability count.`,
		Example: `  # Show engine status
  supreme status

  # Machine-readable output
  supreme status --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			summary := rt.registry.Summary()

			if jsonOutput {
				return printJSON(summary)
			}

			kinds := make([]string, 0, len(summary))
			for kind := range summary {
				kinds = append(kinds, string(kind))
			}
			sort.Strings(kinds)

			fmt.Printf("Registered engines: %d\n\n", rt.registry.Registered())
			fmt.Printf("%-16s %-12s %-9s %s\n", "ENGINE", "STATUS", "PRIORITY", "CAPABILITIES")
			for _, kind := range kinds {
				s := summary[supreme.EngineKind(kind)]
				fmt.Printf("%-16s %-12s %-9d %d\n", kind, s.Status, s.Priority, s.Capabilities)
			}
			return nil
		},
	}

	return cmd
}
