package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <authority>",
	Short: "Initialize the network state singleton",
	Long:  `Create the network-wide state record with the given authority identity. Runs once per deployment.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ns, err := d.Registry.Initialize(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Network initialized (authority: %s)\n", ns.Authority)
	return nil
}
