package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/syncsphere/supreme/pkg/supreme"
)

func newDecideCommand() *cobra.Command {
	var (
		objectives    []string
		constraints   []string
		stakeholders  []string
		criteria      []string
		riskTolerance float64
		timeBudget    time.Duration
		execute       bool
	)

	cmd := &cobra.Command{
		Use:   "decide <situation>",
		Short: "Make a supreme decision for a situation",
		Long: `Generate candidate options for a situation, score each across the
engines, and select the best one. With --execute the selected option's
execution plan is run step by step afterwards.`,
		Example: `  # Decide how to handle a capacity shortfall
  supreme decide "capacity shortfall in primary region" \
    --objective "restore headroom" --risk-tolerance 0.4

  # Decide and execute the winning plan
  supreme decide "nightly backup window overrun" --execute

  # Constrain by time budget
  supreme decide "migrate search index" --time-budget 2h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			dctx := supreme.DecisionContext{
				ID:              uuid.New().String(),
				Situation:       args[0],
				Objectives:      objectives,
				Constraints:     constraints,
				Stakeholders:    stakeholders,
				SuccessCriteria: criteria,
				RiskTolerance:   riskTolerance,
				TimeBudget:      timeBudget,
			}

			log.Info().
				Str("situation", dctx.Situation).
				Float64("risk_tolerance", riskTolerance).
				Msg("Making decision")

			decision, err := rt.decisions.Decide(cmd.Context(), dctx)
			if err != nil {
				return err
			}

			if err := printDecision(decision); err != nil {
				return err
			}

			if !execute {
				return nil
			}

			log.Info().Str("decision_id", decision.ID).Msg("Executing decision")

			result, err := rt.executor.Run(cmd.Context(), decision)
			if err != nil {
				return err
			}
			return printExecutionResult(result)
		},
	}

	cmd.Flags().StringSliceVar(&objectives, "objective", nil, "decision objectives")
	cmd.Flags().StringSliceVar(&constraints, "constraint", nil, "decision constraints")
	cmd.Flags().StringSliceVar(&stakeholders, "stakeholder", nil, "affected stakeholders")
	cmd.Flags().StringSliceVar(&criteria, "success-criterion", nil, "explicit success criteria")
	cmd.Flags().Float64Var(&riskTolerance, "risk-tolerance", 0.5, "acceptable risk level in [0,1]")
	cmd.Flags().DurationVar(&timeBudget, "time-budget", 0, "execution time budget (0 = unconstrained)")
	cmd.Flags().BoolVar(&execute, "execute", false, "execute the selected option's plan")

	return cmd
}

func printDecision(d *supreme.SupremeDecision) error {
	if jsonOutput {
		return printJSON(d)
	}

	fmt.Printf("Decision:   %s\n", d.ID)
	fmt.Printf("Selected:   %s (%s)\n", d.Selected.ID, d.Selected.Archetype)
	fmt.Printf("Score:      %.3f\n", d.Score)
	fmt.Printf("Confidence: %.3f\n", d.Confidence)
	fmt.Println("Reasoning:")
	for _, r := range d.Reasoning {
		fmt.Printf("  - %s\n", r)
	}
	fmt.Println("Execution plan:")
	for _, step := range d.ExecutionPlan {
		fmt.Printf("  %s\n", step)
	}
	return nil
}

func printExecutionResult(r *supreme.ExecutionResult) error {
	if jsonOutput {
		return printJSON(r)
	}

	fmt.Printf("Execution:    %s\n", r.ExecutionID)
	fmt.Printf("Status:       %s\n", r.Status)
	fmt.Printf("Success rate: %.0f%%\n", r.SuccessRate*100)
	fmt.Printf("Steps:        %d/%d attempted, %d completed, %d failed\n",
		r.AttemptedSteps, r.TotalSteps, len(r.CompletedSteps), len(r.FailedSteps))
	fmt.Printf("Duration:     %s\n", r.ExecutionTime)
	return nil
}
