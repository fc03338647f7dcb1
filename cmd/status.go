package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/utils"
	"github.com/adockit/adockit/internal/workflow"
	"github.com/spf13/cobra"
)

var statusName string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of one workflow or all workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		if statusName != "" {
			state, progress, err := manager.Status(statusName)
			if err != nil {
				return fmt.Errorf("failed to load workflow: %w", err)
			}
			printStatus(state, progress)
			return nil
		}

		summaries, err := manager.List()
		if err != nil {
			return fmt.Errorf("failed to list workflows: %w", err)
		}
		if len(summaries) == 0 {
			utils.LogInfo("No workflows found in %s", manager.Root())
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%-24s %-12s %3d/%3d modules  %s\n",
				s.Name, s.Status, s.Progress.Completed, s.Progress.Total, s.Directory)
		}
		return nil
	},
}

// printStatus renders a detailed per-module report for one workflow
func printStatus(state *workflow.State, progress workflow.Progress) {
	fmt.Printf("Workflow:  %s\n", state.Name)
	fmt.Printf("Directory: %s\n", state.Directory)
	fmt.Printf("Status:    %s (%.0f%%)\n", state.OverallStatus(), progress.Percent)
	fmt.Printf("Documents: %d discovered, %d processed\n", progress.TotalFiles, progress.FilesProcessed)
	fmt.Println("Modules:")
	for _, name := range state.Modules {
		exec := state.ModuleStatus[name]
		line := fmt.Sprintf("  %-20s %s", name, exec.Status)
		switch exec.Status {
		case workflow.StatusSuccess:
			if exec.Result != nil && exec.Result.Message != "" {
				line += "  " + exec.Result.Message
			}
			fmt.Println(utils.Success(line))
		case workflow.StatusFailed:
			if exec.Error != "" {
				line += "  " + exec.Error
			}
			fmt.Println(utils.Error(line))
		case workflow.StatusRunning:
			fmt.Println(utils.Info(line))
		default:
			fmt.Println(line)
		}
	}
}

func init() {
	statusCmd.Flags().StringVarP(&statusName, "name", "n", "", "Workflow name (all workflows when omitted)")
	rootCmd.AddCommand(statusCmd)
}
