package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
	"github.com/gridmesh-network/gridmesh/internal/domain"
)

func init() {
	registerCmd.Flags().StringVar(&registerOwner, "owner", "", "Owner identity (required)")
	registerCmd.Flags().IntVar(&registerCPU, "cpu", 1, "CPU cores")
	registerCmd.Flags().IntVar(&registerRAM, "ram", 1, "RAM in GB")
	registerCmd.Flags().IntVar(&registerStorage, "storage", 1, "Storage in GB")
	registerCmd.Flags().BoolVar(&registerGPU, "gpu", false, "GPU available")
	registerCmd.Flags().IntVar(&registerNet, "network-speed", 100, "Network speed in Mbps")
	_ = registerCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(registerCmd)
}

var (
	registerOwner   string
	registerCPU     int
	registerRAM     int
	registerStorage int
	registerGPU     bool
	registerNet     int
)

var registerCmd = &cobra.Command{
	Use:   "register [device-id]",
	Short: "Register a compute device",
	Long:  `Register a device with its hardware specs. A fresh ID is generated when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	deviceID := ""
	if len(args) > 0 {
		deviceID = args[0]
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	dev, err := d.Registry.RegisterDevice(deviceID, registerOwner, domain.DeviceSpecs{
		CPUCores:     registerCPU,
		RAMGB:        registerRAM,
		StorageGB:    registerStorage,
		GPUAvailable: registerGPU,
		NetworkSpeed: registerNet,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered device %s (owner: %s, tier: %s, reputation: %d)\n",
		dev.ID, dev.Owner, dev.Tier, dev.ReputationScore)
	return nil
}
