package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	rootCmd.AddCommand(assignCmd)
}

var assignCmd = &cobra.Command{
	Use:   "assign <task-id> <device-id>",
	Short: "Assign a pending task to a device",
	Long:  `Match a pending task to an active device. The device must meet the task's hardware requirements and hold the tier its type demands.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runAssign,
}

func runAssign(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	task, err := d.Lifecycle.Assign(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Assigned task %s to device %s (deadline: %s)\n",
		task.ID, task.AssignedDevice, task.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}
