package cmd

import (
	"fmt"

	"github.com/hpcops/slurmbridge/pkg/orchestrator"
	"github.com/spf13/cobra"
)

var (
	suspendNodeList    string
	resumeFailNodeList string
)

// suspendCmd powers nodes off; Slurm invokes it as the SuspendProgram.
var suspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Power off nodes",
	Long: `Power off the given nodes, retrying transient control-plane failures on a
fixed interval. Slurm invokes this as its SuspendProgram.`,
	RunE:          runSuspend,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// resumeFailCmd handles nodes whose resume did not complete: Slurm hands
// them back for shutdown so their capacity is released.
var resumeFailCmd = &cobra.Command{
	Use:           "resume-fail",
	Short:         "Power off nodes that failed to resume",
	RunE:          runResumeFail,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(suspendCmd)
	addConnectionFlags(suspendCmd)
	suspendCmd.Flags().StringVar(&suspendNodeList, "node-list", "", "Hostlist expression of nodes to suspend (required)")
	suspendCmd.MarkFlagRequired("node-list")

	rootCmd.AddCommand(resumeFailCmd)
	addConnectionFlags(resumeFailCmd)
	resumeFailCmd.Flags().StringVar(&resumeFailNodeList, "node-list", "", "Hostlist expression of nodes to shut down (required)")
	resumeFailCmd.MarkFlagRequired("node-list")
}

func runSuspend(cmd *cobra.Command, args []string) error {
	return shutdownNodes(cmd, suspendNodeList, "suspend.log")
}

func runResumeFail(cmd *cobra.Command, args []string) error {
	return shutdownNodes(cmd, resumeFailNodeList, "resume_fail.log")
}

func shutdownNodes(cmd *cobra.Command, nodeList, logfile string) error {
	d, err := setup(logfile)
	if err != nil {
		return err
	}

	names, err := d.slurm.Expand(cmd.Context(), nodeList)
	if err != nil {
		return fmt.Errorf("expand node list: %w", err)
	}

	o := orchestrator.New(d.api, d.slurm, d.slurm, d.logger)
	return o.Shutdown(cmd.Context(), names)
}
