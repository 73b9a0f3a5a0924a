package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	verifyCmd.Flags().BoolVar(&verifyInvalid, "invalid", false, "Vote that the result is invalid")
	rootCmd.AddCommand(verifyCmd)
}

var verifyInvalid bool

var verifyCmd = &cobra.Command{
	Use:   "verify <task-id> <verifier-device-id>",
	Short: "Cast a verification vote on a completed task",
	Long:  `Vote on a completed task's result. The verdict finalizes once at least 3 votes are in and two thirds agree.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	task, err := d.Consensus.Verify(args[0], args[1], !verifyInvalid)
	if err != nil {
		return err
	}

	fmt.Printf("Vote recorded on task %s (%d/%d valid)\n",
		task.ID, task.ValidVerifications, task.Verifications)
	if task.Finalized {
		if task.IsVerified {
			fmt.Println("Verdict: verified")
		} else {
			fmt.Println("Verdict: rejected")
		}
	}
	return nil
}
