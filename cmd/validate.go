package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/config"
	"github.com/adockit/adockit/internal/utils"
	"github.com/adockit/adockit/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment setup",
	Long:  `Check that the state directory is usable and report on optional external tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.LogInfo("Validating environment...")

		cfg, err := config.Load(stateDirFlag, configFlag)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		if err := validator.ValidateEnvironment(cfg.StateDir); err != nil {
			return fmt.Errorf("environment validation failed: %w", err)
		}

		utils.LogSuccess("Environment validation completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
