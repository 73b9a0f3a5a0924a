package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List registered devices",
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	devices, err := d.Registry.ListDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No devices registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOWNER\tTIER\tSTAKED\tREPUTATION\tACTIVE\tCOMPLETED\tEARNED")
	for _, dev := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\t%d\t%d\n",
			dev.ID,
			dev.Owner,
			dev.Tier,
			dev.StakedAmount,
			dev.ReputationScore,
			dev.IsActive,
			dev.TotalTasksCompleted,
			dev.TotalTokensEarned,
		)
	}
	return w.Flush()
}
