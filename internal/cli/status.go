package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	statusCmd.Flags().StringVar(&statusOwner, "owner", "", "Owner identity (required)")
	statusCmd.Flags().BoolVar(&statusOffline, "offline", false, "Mark the device inactive")
	statusCmd.Flags().Uint8Var(&statusLoad, "load", 0, "Current load percentage (0-100)")
	_ = statusCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(statusCmd)
}

var (
	statusOwner   string
	statusOffline bool
	statusLoad    uint8
)

var statusCmd = &cobra.Command{
	Use:   "status <device-id>",
	Short: "Update a device's availability and load",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	dev, err := d.Registry.UpdateDeviceStatus(args[0], statusOwner, !statusOffline, statusLoad)
	if err != nil {
		return err
	}

	state := "active"
	if !dev.IsActive {
		state = "inactive"
	}
	fmt.Printf("Device %s is now %s (load: %d%%)\n", dev.ID, state, dev.CurrentLoad)
	return nil
}
