package cmd

import (
	"fmt"

	"github.com/hpcops/slurmbridge/pkg/orchestrator"
	"github.com/hpcops/slurmbridge/pkg/topology"
	"github.com/spf13/cobra"
)

// syncNodesCmd reconciles nodes the cluster knows about but Slurm does not,
// typically after a scheduler restart. Intended to run from cron.
var syncNodesCmd = &cobra.Command{
	Use:           "sync-nodes",
	Short:         "Resume cluster nodes missing from the scheduler",
	RunE:          runSyncNodes,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(syncNodesCmd)
	addConnectionFlags(syncNodesCmd)
}

func runSyncNodes(cmd *cobra.Command, args []string) error {
	d, err := setup("sync_nodes.log")
	if err != nil {
		return err
	}

	builder := topology.NewBuilder(d.api, d.slurm, d.logger)
	parts, err := builder.Partitions(cmd.Context())
	if err != nil {
		return fmt.Errorf("build partitions: %w", err)
	}

	o := orchestrator.New(d.api, d.slurm, d.slurm, d.logger)
	return o.Sync(cmd.Context(), parts)
}
