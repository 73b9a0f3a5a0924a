package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridmesh-network/gridmesh/internal/daemon"
	"github.com/gridmesh-network/gridmesh/internal/domain"
)

func init() {
	submitCmd.Flags().StringVar(&submitSubmitter, "submitter", "", "Submitter identity (required)")
	submitCmd.Flags().StringVar(&submitType, "type", string(domain.TaskGeneralCompute), "Task type")
	submitCmd.Flags().Uint64Var(&submitReward, "reward", 0, "Reward amount in tokens")
	submitCmd.Flags().IntVar(&submitCPU, "cpu", 1, "CPU cores required")
	submitCmd.Flags().IntVar(&submitRAM, "ram", 1, "RAM in GB required")
	submitCmd.Flags().IntVar(&submitStorage, "storage", 1, "Storage in GB required")
	submitCmd.Flags().BoolVar(&submitGPU, "gpu", false, "GPU required")
	submitCmd.Flags().Int64Var(&submitDuration, "duration", 60, "Estimated duration in seconds")
	_ = submitCmd.MarkFlagRequired("submitter")
	rootCmd.AddCommand(submitCmd)
}

var (
	submitSubmitter string
	submitType      string
	submitReward    uint64
	submitCPU       int
	submitRAM       int
	submitStorage   int
	submitGPU       bool
	submitDuration  int64
)

var submitCmd = &cobra.Command{
	Use:   "submit [task-id]",
	Short: "Submit a compute task",
	Long:  `Submit a task with its compute requirements. The reward is escrowed from the submitter's account until completion. A fresh ID is generated when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	taskID := ""
	if len(args) > 0 {
		taskID = args[0]
	}
	if taskID == "" {
		taskID = uuid.NewString()
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	task, err := d.Lifecycle.Submit(taskID, submitSubmitter, domain.TaskType(submitType), domain.ComputeRequirements{
		CPUCoresRequired:  submitCPU,
		RAMGBRequired:     submitRAM,
		StorageGBRequired: submitStorage,
		GPURequired:       submitGPU,
		EstimatedDuration: submitDuration,
	}, submitReward)
	if err != nil {
		return err
	}

	fmt.Printf("Submitted task %s (type: %s, reward: %d)\n", task.ID, task.Type, task.RewardAmount)
	return nil
}
