package cmd

import (
	"fmt"

	"github.com/hpcops/slurmbridge/pkg/orchestrator"
	"github.com/spf13/cobra"
)

var resumeNodeList string

// resumeCmd powers on nodes and waits for them to become addressable.
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Power on nodes and wait for them to become addressable",
	Long: `Power on the given nodes and poll the control plane until they obtain
private addresses, pushing each address into the scheduler as soon as it
is assigned. Slurm invokes this as its ResumeProgram.`,
	RunE:          runResume,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	addConnectionFlags(resumeCmd)
	resumeCmd.Flags().StringVar(&resumeNodeList, "node-list", "", "Hostlist expression of nodes to resume (required)")
	resumeCmd.MarkFlagRequired("node-list")
}

func runResume(cmd *cobra.Command, args []string) error {
	d, err := setup("resume.log")
	if err != nil {
		return err
	}

	names, err := d.slurm.Expand(cmd.Context(), resumeNodeList)
	if err != nil {
		return fmt.Errorf("expand node list: %w", err)
	}

	o := orchestrator.New(d.api, d.slurm, d.slurm, d.logger)
	return o.Resume(cmd.Context(), names)
}
