package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/utils"
	"github.com/spf13/cobra"
)

var resumeName string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Load an existing workflow and report where it stands",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		state, err := manager.Resume(resumeName)
		if err != nil {
			return fmt.Errorf("failed to resume workflow: %w", err)
		}

		progress := state.Progress()
		utils.LogSuccess("Workflow %q loaded (%s)", state.Name, state.OverallStatus())
		utils.LogInfo("%d/%d module(s) completed (%.0f%%)",
			progress.Completed, progress.Total, progress.Percent)
		if next, ok := state.NextPending(); ok {
			utils.LogInfo("Next module: %s", next)
		}
		return nil
	},
}

func init() {
	resumeCmd.Flags().StringVarP(&resumeName, "name", "n", "", "Workflow name (required)")
	_ = resumeCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(resumeCmd)
}
