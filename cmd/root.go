package cmd

import (
	"github.com/adockit/adockit/internal/config"
	"github.com/adockit/adockit/internal/modules"
	"github.com/adockit/adockit/internal/utils"
	"github.com/adockit/adockit/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string
	// stateDirFlag overrides the workflow state directory
	stateDirFlag string
	// configFlag points at a user configuration file
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "adockit",
	Short: "A compliance toolkit for AsciiDoc documentation",
	Long: `Adockit runs configurable compliance modules over a directory of
AsciiDoc documents as a resumable workflow: start a workflow, continue it
one module at a time, inspect its status, and clean it up.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set the global log level based on the flag
		logLevel := utils.LogLevelFromString(verbosityLevel)
		utils.SetLogLevel(logLevel)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// newManager builds a workflow manager from the resolved configuration
// and the built-in module registry
func newManager() (*workflow.Manager, error) {
	cfg, err := config.Load(stateDirFlag, configFlag)
	if err != nil {
		return nil, err
	}
	return workflow.NewManager(
		cfg.StateDir,
		modules.NewRegistry(),
		workflow.ManagerWithUserConfig(cfg.Modules),
	), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "",
		"Directory holding workflow state files (default $ADOCKIT_STATE_DIR or ~/.adockit/workflows)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to the user configuration file (default ./"+config.DefaultConfigFile+")")
}
