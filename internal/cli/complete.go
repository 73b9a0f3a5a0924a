package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	completeCmd.Flags().StringVar(&completeHash, "result-hash", "", "Hash of the computation result")
	rootCmd.AddCommand(completeCmd)
}

var completeHash string

var completeCmd = &cobra.Command{
	Use:   "complete <task-id> <device-id>",
	Short: "Report task completion by the assigned device",
	Long:  `Record a completion attempt. On time the reward is paid to the device owner, with a 10% bonus when finished under the estimate. Past the deadline the task fails and reputation is deducted.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	task, err := d.Lifecycle.Complete(args[0], args[1], completeHash)
	if err != nil {
		return err
	}

	fmt.Printf("Completed task %s (status: %s)\n", task.ID, task.Status)
	return nil
}
