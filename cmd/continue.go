package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/utils"
	"github.com/adockit/adockit/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	continueName string
	continueAll  bool
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Execute the next pending module of a workflow",
	Long: `Run the first pending module of the workflow's frozen plan. With
--all, modules are executed one after another until the workflow completes,
fails, or becomes blocked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		state, err := manager.Resume(continueName)
		if err != nil {
			return fmt.Errorf("failed to load workflow: %w", err)
		}

		for {
			outcome, err := manager.ExecuteNext(cmd.Context(), state)
			if err != nil {
				return fmt.Errorf("workflow execution failed: %w", err)
			}

			switch outcome.Status {
			case workflow.OutcomeCompleted:
				utils.LogSuccess("Workflow %q: all modules done (%s)",
					state.Name, state.OverallStatus())
				return nil
			case workflow.OutcomeBlocked:
				utils.LogWarning("Workflow %q blocked: module %s depends on failed module %s",
					state.Name, outcome.Module, outcome.Blocking)
				return nil
			case workflow.OutcomeAdvanced:
				if !continueAll {
					progress := state.Progress()
					utils.LogInfo("%d/%d module(s) completed (%.0f%%)",
						progress.Completed, progress.Total, progress.Percent)
					return nil
				}
			}
		}
	},
}

func init() {
	continueCmd.Flags().StringVarP(&continueName, "name", "n", "", "Workflow name (required)")
	continueCmd.Flags().BoolVarP(&continueAll, "all", "a", false, "Keep executing until done or blocked")
	_ = continueCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(continueCmd)
}
