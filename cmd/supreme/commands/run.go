package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/syncsphere/supreme/pkg/supreme"
)

func newRunCommand() *cobra.Command {
	var (
		params   []string
		format   string
		priority int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <command-type> <operation>",
		Short: "Run a command across the engines",
		Long: `Execute a high-level command through the coordination core.

The command type selects which engines participate and which orchestration
strategy is used. Types:
  analyze, execute, optimize, learn, predict, secure, scale,
  communicate, integrate, monitor`,
		Example: `  # Analyze system performance
  supreme run analyze assess_performance

  # Secure command with parameters
  supreme run secure scan_vulnerabilities --param scope=network

  # Summary output with a short timeout
  supreme run predict forecast_load --format summary --timeout 30s`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdType := supreme.CommandType(args[0])
			if err := cmdType.Validate(); err != nil {
				return err
			}

			parameters, err := parseParams(params)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			log.Info().
				Str("type", string(cmdType)).
				Str("operation", args[1]).
				Msg("Executing command")

			result := rt.control.ExecuteCommand(cmd.Context(), supreme.Command{
				Type:       cmdType,
				Operation:  args[1],
				Parameters: parameters,
				Format:     supreme.ResponseFormat(format),
				Priority:   priority,
				Timeout:    timeout,
			})

			return printCommandResult(result)
		},
	}

	cmd.Flags().StringSliceVarP(&params, "param", "p", nil, "operation parameters (key=value)")
	cmd.Flags().StringVarP(&format, "format", "f", "raw", "result format (raw, text, summary)")
	cmd.Flags().IntVar(&priority, "priority", 5, "request priority")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "result wait timeout (default from config)")

	return cmd
}

func printCommandResult(result *supreme.CommandResult) error {
	if jsonOutput {
		return printJSON(result)
	}

	fmt.Printf("Command:  %s\n", result.CommandID)
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Duration: %s\n", result.ExecutionTime)
	if len(result.EnginesUsed) > 0 {
		fmt.Printf("Engines:  %v\n", result.EnginesUsed)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error:    %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning:  %s\n", w)
	}
	if result.Result != nil {
		if text, ok := result.Result.(string); ok {
			fmt.Println(text)
			return nil
		}
		return printJSON(result.Result)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
