package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
)

func init() {
	stakeCmd.Flags().StringVar(&stakeOwner, "owner", "", "Owner identity (required)")
	_ = stakeCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(stakeCmd)

	unstakeCmd.Flags().StringVar(&unstakeOwner, "owner", "", "Owner identity (required)")
	_ = unstakeCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(unstakeCmd)
}

var (
	stakeOwner   string
	unstakeOwner string
)

var stakeCmd = &cobra.Command{
	Use:   "stake <device-id> <amount>",
	Short: "Stake tokens on a device to raise its tier",
	Long:  `Move tokens into stake custody. Every deposit restarts the 7-day lock on the whole staked balance.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runStake,
}

var unstakeCmd = &cobra.Command{
	Use:   "unstake <device-id> <amount>",
	Short: "Withdraw staked tokens after the lock period",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnstake,
}

func runStake(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	dev, err := d.Staking.Stake(args[0], stakeOwner, amount)
	if err != nil {
		return err
	}

	fmt.Printf("Staked %d on device %s (total: %d, tier: %s)\n",
		amount, dev.ID, dev.StakedAmount, dev.Tier)
	return nil
}

func runUnstake(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	dev, err := d.Staking.Unstake(args[0], unstakeOwner, amount)
	if err != nil {
		return err
	}

	fmt.Printf("Unstaked %d from device %s (remaining: %d, tier: %s)\n",
		amount, dev.ID, dev.StakedAmount, dev.Tier)
	return nil
}
