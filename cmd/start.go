package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	startName      string
	startDirectory string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new compliance workflow",
	Long:  `Create a workflow over a directory of documents and persist its execution plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		state, err := manager.Start(startName, startDirectory)
		if err != nil {
			return fmt.Errorf("failed to start workflow: %w", err)
		}

		utils.LogSuccess("Workflow %q created over %s", state.Name, state.Directory)
		utils.LogInfo("Plan: %d module(s), %d document(s) discovered",
			len(state.Modules), len(state.FilesDiscovered))
		utils.LogInfo("Run 'adockit continue --name %s' to execute the next module", state.Name)
		return nil
	},
}

func init() {
	startCmd.Flags().StringVarP(&startName, "name", "n", "", "Workflow name (required)")
	startCmd.Flags().StringVarP(&startDirectory, "directory", "d", "", "Target document directory (required)")
	_ = startCmd.MarkFlagRequired("name")
	_ = startCmd.MarkFlagRequired("directory")
	rootCmd.AddCommand(startCmd)
}
