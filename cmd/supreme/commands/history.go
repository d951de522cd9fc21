package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the coordination archive",
		Long: `Query archived orchestration runs and decisions.

Requires the SQLite store to be enabled in the configuration; only runs
and decisions completed while the store was enabled are available.`,
	}

	cmd.AddCommand(newHistoryRunsCommand())
	cmd.AddCommand(newHistoryDecisionsCommand())

	return cmd
}

func newHistoryRunsCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived orchestration runs",
		Example: `  # Most recent runs
  supreme history runs

  # Page through older runs
  supreme history runs --limit 20 --offset 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd.Context())
			if err != nil {
				return err
			}
			defer archive.Close()

			runs, err := archive.ListRuns(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No archived runs")
				return nil
			}

			fmt.Printf("%-38s %-22s %-16s %-16s %s\n", "ID", "OPERATION", "STRATEGY", "STATUS", "DURATION")
			for _, r := range runs {
				fmt.Printf("%-38s %-22s %-16s %-16s %dms\n",
					r.ID, r.Operation, r.Strategy, r.Status, r.ExecutionTimeMS)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "runs to skip")

	return cmd
}

func newHistoryDecisionsCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List archived decisions",
		Example: `  # Most recent decisions
  supreme history decisions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd.Context())
			if err != nil {
				return err
			}
			defer archive.Close()

			decisions, err := archive.ListDecisions(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(decisions)
			}

			if len(decisions) == 0 {
				fmt.Println("No archived decisions")
				return nil
			}

			fmt.Printf("%-38s %-14s %-7s %-11s %s\n", "ID", "ARCHETYPE", "SCORE", "CONFIDENCE", "SITUATION")
			for _, d := range decisions {
				fmt.Printf("%-38s %-14s %-7.3f %-11.3f %s\n",
					d.ID, d.Archetype, d.Score, d.Confidence, d.Situation)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum decisions to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "decisions to skip")

	return cmd
}
