package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <network|device|task|ledger> [id]",
	Short: "Show details for the network, a device, a task, or a ledger account",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	var v interface{}
	switch args[0] {
	case "network":
		v, err = d.Registry.Network()
	case "device":
		if len(args) < 2 {
			return fmt.Errorf("show device requires a device ID")
		}
		v, err = d.Registry.Device(args[1])
	case "task":
		if len(args) < 2 {
			return fmt.Errorf("show task requires a task ID")
		}
		v, err = d.Lifecycle.Task(args[1])
	case "ledger":
		if len(args) < 2 {
			return fmt.Errorf("show ledger requires an account name")
		}
		balance, berr := d.Ledger.Balance(args[1])
		if berr != nil {
			return berr
		}
		entries, herr := d.Ledger.History(args[1], 50)
		if herr != nil {
			return herr
		}
		v = map[string]interface{}{
			"account": args[1],
			"balance": balance,
			"entries": entries,
		}
	default:
		return fmt.Errorf("unknown entity %q (want network, device, task, or ledger)", args[0])
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
