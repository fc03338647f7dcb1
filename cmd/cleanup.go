package cmd

import (
	"fmt"

	"github.com/adockit/adockit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanupName      string
	cleanupCompleted bool
	cleanupAll       bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete workflow state files",
	Long: `Remove the state files of one named workflow, of every completed
workflow (--completed), or of every workflow on disk (--all).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		switch {
		case cleanupName != "":
			if err := manager.Cleanup(cleanupName); err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			utils.LogSuccess("Removed workflow %q", cleanupName)
			return nil

		case cleanupCompleted:
			removed, err := manager.CleanupCompleted()
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			utils.LogSuccess("Removed %d completed workflow(s)", len(removed))
			return nil

		case cleanupAll:
			removed, err := manager.CleanupAll(true)
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			utils.LogSuccess("Removed %d workflow(s)", len(removed))
			return nil

		default:
			return fmt.Errorf("one of --name, --completed, or --all is required")
		}
	},
}

func init() {
	cleanupCmd.Flags().StringVarP(&cleanupName, "name", "n", "", "Remove one named workflow")
	cleanupCmd.Flags().BoolVar(&cleanupCompleted, "completed", false, "Remove every completed workflow")
	cleanupCmd.Flags().BoolVar(&cleanupAll, "all", false, "Remove every workflow")
	cleanupCmd.MarkFlagsMutuallyExclusive("name", "completed", "all")
	rootCmd.AddCommand(cleanupCmd)
}
