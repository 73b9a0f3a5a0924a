package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
	"github.com/gridmesh-network/gridmesh/internal/domain"
)

func init() {
	tasksCmd.Flags().StringVar(&tasksStatus, "status", "", "Filter by status (PENDING, ASSIGNED, COMPLETED, FAILED)")
	tasksCmd.Flags().IntVar(&tasksLimit, "limit", 100, "Maximum tasks to list")
	rootCmd.AddCommand(tasksCmd)
}

var (
	tasksStatus string
	tasksLimit  int
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List submitted tasks",
	RunE:  runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	tasks, err := d.Lifecycle.ListTasks(domain.TaskStatus(tasksStatus), tasksLimit)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tREWARD\tDEVICE\tVOTES\tVERIFIED")
	for _, t := range tasks {
		device := t.AssignedDevice
		if device == "" {
			device = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d/%d\t%t\n",
			t.ID,
			t.Type,
			t.Status,
			t.RewardAmount,
			device,
			t.ValidVerifications,
			t.Verifications,
			t.IsVerified,
		)
	}
	return w.Flush()
}
