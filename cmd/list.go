package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workflows in the state directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		summaries, err := manager.List()
		if err != nil {
			return fmt.Errorf("failed to list workflows: %w", err)
		}
		if len(summaries) == 0 {
			utils.LogInfo("No workflows found in %s", manager.Root())
			return nil
		}

		fmt.Printf("%-24s %-12s %-10s %s\n", "NAME", "STATUS", "PROGRESS", "DIRECTORY")
		for _, s := range summaries {
			fmt.Printf("%-24s %-12s %3.0f%%       %s\n",
				s.Name, s.Status, s.Progress.Percent, s.Directory)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
