package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syncsphere/supreme/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Parse and validate a configuration file without starting the core.

Checks YAML syntax, enum values (engine kinds, log levels, exporters),
and required fields.`,
		Example: `  # Validate a config file
  supreme validate --config supreme.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("no config file given, use --config")
			}

			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]any{
					"valid":   true,
					"service": cfg.Service.Name,
					"engines": len(cfg.Engines),
				})
			}

			fmt.Printf("Configuration valid: %s\n", configPath)
			fmt.Printf("Service: %s (%s)\n", cfg.Service.Name, cfg.Service.Environment)
			fmt.Printf("Engines configured: %d\n", len(cfg.Engines))
			if cfg.Store.Enabled {
				fmt.Printf("Archive: %s\n", cfg.Store.Path)
			}
			return nil
		},
	}

	return cmd
}
