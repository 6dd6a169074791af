package cmd

import (
	"github.com/hpcops/slurmbridge/pkg/cli/format"
	"github.com/hpcops/slurmbridge/pkg/orchestrator"
	"github.com/hpcops/slurmbridge/pkg/topology"
	"github.com/spf13/cobra"
)

// createNodesCmd provisions every partition's full capacity, powered off.
var createNodesCmd = &cobra.Command{
	Use:   "create-nodes",
	Short: "Provision all partition capacity in the control plane",
	Long: `Submit a batch creation request covering every partition's full capacity,
grouped by placement group. Nodes are created powered off and are not
booted until an explicit resume.`,
	RunE:          runCreateNodes,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(createNodesCmd)
	addConnectionFlags(createNodesCmd)
}

func runCreateNodes(cmd *cobra.Command, args []string) error {
	d, err := setup("create_nodes.log")
	if err != nil {
		return err
	}

	parts, err := topology.NewBuilder(d.api, d.slurm, d.logger).Partitions(cmd.Context())
	if err != nil {
		return err
	}

	o := orchestrator.New(d.api, d.slurm, d.slurm, d.logger)
	if err := o.CreateNodes(cmd.Context(), parts); err != nil {
		return err
	}
	format.Success("node creation request submitted for %d partition(s)", parts.Len())
	return nil
}
